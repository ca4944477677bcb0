package portal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmahajan/capflow-bot/internal/scraper/testutil"
)

func TestOptionMatches_CaseAndWhitespaceInsensitive(t *testing.T) {
	target := "Statement of Capital Flows"

	tests := []struct {
		option string
		want   bool
	}{
		{"Statement of Capital Flows", true},
		{"  statement of capital flows  ", true},
		{"STATEMENT OF CAPITAL FLOWS", true},
		{"Daily Statement of Capital Flows (PDF)", true},
		{"Statement  of   Capital\tFlows", true},
		{"Statement of Holdings", false},
		{"Capital Gains Statement", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OptionMatches(tt.option, target), "option %q", tt.option)
	}
}

func TestFindNativeOption_ScansAllSelects(t *testing.T) {
	html := `
	<form>
	  <select id="period">
	    <option value="d">Daily</option>
	    <option value="m">Monthly</option>
	  </select>
	  <select id="reportType">
	    <option value="">-- Select --</option>
	    <option value="17"> statement of CAPITAL flows </option>
	  </select>
	</form>`

	match, found, err := FindNativeOption(html, "Statement of Capital Flows")

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, match.SelectIndex)
	assert.Equal(t, "17", match.Value)
	assert.Equal(t, "statement of CAPITAL flows", match.Text)
}

func TestFindNativeOption_NoNativeListOffersTarget(t *testing.T) {
	html := `<select><option>Holdings</option></select>`

	_, found, err := FindNativeOption(html, "Statement of Capital Flows")

	require.NoError(t, err)
	assert.False(t, found)
}

func TestStatusColumnIndex_HeaderContainingStatus(t *testing.T) {
	tests := []struct {
		headers []string
		want    int
	}{
		{[]string{"Report", "Date", "Status", "Size"}, 3},
		{[]string{"Report", "STATUS"}, 2},
		{[]string{"Generation status", "Report"}, 1},
		// No header contains "status": fall back to the last column.
		{[]string{"Report", "Date", "Download"}, 3},
		{[]string{"Report"}, 1},
	}

	for _, tt := range tests {
		html := "<table><thead><tr>"
		for _, h := range tt.headers {
			html += fmt.Sprintf("<th>%s</th>", h)
		}
		html += "</tr></thead><tbody><tr><td>x</td></tr></tbody></table>"

		got, err := StatusColumnIndex(html)

		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "headers %v", tt.headers)
	}
}

func TestStatusColumnIndex_InlineHeaderRow(t *testing.T) {
	html := `<table>
	  <tr><th>Report</th><th>Requested At</th><th>Status</th></tr>
	  <tr><td>Capital Flows</td><td>14-03-2024</td><td><a href="#">Download</a></td></tr>
	</table>`

	got, err := StatusColumnIndex(html)

	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestStatusColumnIndex_NoHeaderCells(t *testing.T) {
	_, err := StatusColumnIndex("<table></table>")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header cells")
}

func TestDataRowCount(t *testing.T) {
	html := `<table><thead><tr><th>Report</th><th>Status</th></tr></thead>
	  <tbody>
	    <tr><td>Capital Flows</td><td>Ready</td></tr>
	    <tr><td>Capital Flows</td><td>Generating</td></tr>
	  </tbody></table>`

	got, err := DataRowCount(html)

	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestDataRowCount_EmptyTable(t *testing.T) {
	html := `<table><thead><tr><th>Report</th><th>Status</th></tr></thead><tbody></tbody></table>`

	got, err := DataRowCount(html)

	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestReportsGeneratedFixture(t *testing.T) {
	html := testutil.LoadFixture(t, "reports_generated")

	col, err := StatusColumnIndex(html)
	require.NoError(t, err)
	assert.Equal(t, 4, col)

	rows, err := DataRowCount(html)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
}

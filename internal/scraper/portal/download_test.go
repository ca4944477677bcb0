package portal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmahajan/capflow-bot/internal/scraper/testutil"
)

func TestStatusCell_FirstDataRow(t *testing.T) {
	_, page := setupBrowserPage(t)
	page.MustNavigate("about:blank").MustWaitLoad()
	fixture := testutil.LoadFixture(t, "reports_generated")
	page.MustEval(`html => { document.body.innerHTML = html }`, fixture)

	col, err := StatusColumnIndex(fixture)
	require.NoError(t, err)
	require.Equal(t, 4, col)

	table := page.MustElement("table#reportsGeneratedTable")
	s := &Scraper{sel: DefaultSelectors()}
	cell, err := s.statusCell(table, col)
	require.NoError(t, err)

	// The most recent row's status cell carries the /dl/88213 link.
	link, lerr := cell.Element("a")
	require.NoError(t, lerr)
	href, herr := link.Attribute("href")
	require.NoError(t, herr)
	require.NotNil(t, href)
	assert.Contains(t, *href, "88213")
}

func TestClickForDownload_FallsThroughDeadAnchorToButton(t *testing.T) {
	b, page := setupBrowserPage(t)
	page.MustNavigate("about:blank").MustWaitLoad()
	// The anchor is tried first and produces nothing; the button behind it
	// triggers a real download via a programmatic data: link.
	page.MustEval(`() => {
		document.body.innerHTML =
			'<table id="reportsGeneratedTable">' +
			'<tr><th>Report</th><th>Status</th></tr>' +
			'<tr><td>Statement of Capital Flows</td><td class="status-cell">' +
			'<a href="#">Ready</a> ' +
			'<button onclick="const a=document.createElement(\'a\');a.href=\'data:text/plain,flows\';a.download=\'flows.txt\';document.body.appendChild(a);a.click()">Download</button>' +
			'</td></tr></table>';
	}`)

	s := &Scraper{
		browser:         b,
		sel:             DefaultSelectors(),
		downloadDir:     t.TempDir(),
		downloadTimeout: 3 * time.Second,
	}

	cell := page.MustElement("td.status-cell")
	path, err := s.clickForDownload(context.Background(), cell)

	require.NoError(t, err)
	assert.Equal(t, "flows.txt", filepath.Base(path))
	_, serr := os.Stat(path)
	require.NoError(t, serr)
}

func TestClickForDownload_NoClickableControls(t *testing.T) {
	b, page := setupBrowserPage(t)
	page.MustNavigate("about:blank").MustWaitLoad()
	page.MustEval(`() => {
		document.body.innerHTML =
			'<table id="reportsGeneratedTable">' +
			'<tr><th>Report</th><th>Status</th></tr>' +
			'<tr><td>Statement of Capital Flows</td><td class="status-cell">Ready</td></tr>' +
			'</table>';
	}`)

	s := &Scraper{
		browser:         b,
		sel:             DefaultSelectors(),
		downloadDir:     t.TempDir(),
		downloadTimeout: time.Second,
	}

	cell := page.MustElement("td.status-cell")
	_, err := s.clickForDownload(context.Background(), cell)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no clickable controls")
}

package mailer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "gopkg.in/gomail.v2"
)

func TestSendStatement_EmptyRecipientsIsANoOp(t *testing.T) {
	m := New("smtp.example.com", 587, "user", "pass", "from@example.com", nil)
	m.send = func(*gomail.Message) error {
		t.Fatal("send must not be called with an empty recipient list")
		return nil
	}

	err := m.SendStatement("subject", "body", "statement.pdf")

	assert.NoError(t, err)
}

func TestSendStatement_BuildsSingleMessageWithAttachment(t *testing.T) {
	dir := t.TempDir()
	attachment := filepath.Join(dir, "CapitalFlows.pdf")
	require.NoError(t, os.WriteFile(attachment, []byte("%PDF-1.4 fake"), 0o644))

	var sent *gomail.Message
	m := New("smtp.example.com", 587, "user", "pass", "from@example.com",
		[]string{"a@example.com", "b@example.com"})
	m.send = func(msg *gomail.Message) error {
		sent = msg
		return nil
	}

	err := m.SendStatement("Statement of Capital Flows - 14-Mar-2024", "Attached.", attachment)

	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, []string{"from@example.com"}, sent.GetHeader("From"))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, sent.GetHeader("To"))

	var buf bytes.Buffer
	_, err = sent.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "application/pdf")
	assert.Contains(t, raw, "CapitalFlows.pdf")
	assert.Contains(t, raw, "Attached.")
}

func TestSendStatement_DialFailureIsSurfaced(t *testing.T) {
	dir := t.TempDir()
	attachment := filepath.Join(dir, "flows.csv")
	require.NoError(t, os.WriteFile(attachment, []byte("a,b\n"), 0o644))

	m := New("smtp.example.com", 587, "user", "pass", "from@example.com",
		[]string{"a@example.com"})
	m.send = func(*gomail.Message) error {
		return assert.AnError
	}

	err := m.SendStatement("subject", "body", attachment)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "smtp.example.com:587")
}

func TestAttachmentContentType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"statement.pdf", "application/pdf"},
		{"Statement.PDF", "application/pdf"},
		{"flows.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"flows.xls", "application/vnd.ms-excel"},
		{"flows.csv", "text/csv"},
		{"flows.dat", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AttachmentContentType(tt.path), tt.path)
	}
}

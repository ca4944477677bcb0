// Package mailer delivers the fetched statement to the distribution list.
package mailer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends a single statement email per run over SMTP with STARTTLS.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string

	// send lets tests intercept the dial. Defaults to gomail's DialAndSend.
	send func(*gomail.Message) error
}

// New returns a Mailer for the given SMTP account and recipient list.
func New(host string, port int, username, password, from string, to []string) *Mailer {
	m := &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
	}
	// gomail upgrades to TLS via STARTTLS when the server offers it.
	dialer := gomail.NewDialer(host, port, username, password)
	m.send = func(msg *gomail.Message) error { return dialer.DialAndSend(msg) }
	return m
}

// SendStatement emails the statement file to the configured recipients. An
// empty recipient list disables notification: no connection is made and no
// error is returned.
func (m *Mailer) SendStatement(subject, body, attachmentPath string) error {
	if len(m.to) == 0 {
		slog.Warn("no recipients configured, skipping email", "attachment", attachmentPath)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.Attach(attachmentPath, gomail.SetHeader(map[string][]string{
		"Content-Type": {AttachmentContentType(attachmentPath)},
	}))

	if err := m.send(msg); err != nil {
		return fmt.Errorf("send statement email via %s:%d: %w", m.host, m.port, err)
	}

	return nil
}

// AttachmentContentType infers the attachment MIME type from the file
// extension. The portal serves PDFs and spreadsheets; everything else is
// shipped as an opaque binary.
func AttachmentContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

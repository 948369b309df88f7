package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"go-schoolwatch/internal/config"
	"go-schoolwatch/internal/reconcile"
)

// EmailSender delivers job alerts over SMTP with implicit TLS
// (Gmail app-password setup, port 465).
type EmailSender struct {
	host     string
	port     int
	from     string
	to       string
	password string
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.EmailFrom,
		to:       cfg.EmailTo,
		password: cfg.EmailPassword,
	}
}

func (e *EmailSender) Name() string { return "email" }

func (e *EmailSender) Send(ctx context.Context, jobs []*reconcile.PersistedJob) error {
	if len(jobs) == 0 {
		return nil
	}

	msg := e.buildMessage(jobs)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	dialer := &tls.Dialer{Config: &tls.Config{ServerName: e.host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, e.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", e.from, e.password, e.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(e.from); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := client.Rcpt(e.to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return client.Quit()
}

// buildMessage renders a multipart/alternative body with a plain-text and
// an HTML version of the listing.
func (e *EmailSender) buildMessage(jobs []*reconcile.PersistedJob) string {
	//Subject carries an emoji, so it must be RFC 2047 encoded
	subject := mime.QEncoding.Encode("utf-8", fmt.Sprintf("🎓 %d Social Studies Teaching Position(s) Found!", len(jobs)))
	boundary := "schoolwatch-alt"

	var text strings.Builder
	fmt.Fprintf(&text, "Found %d new social studies teaching position(s):\r\n\r\n", len(jobs))
	for _, job := range jobs {
		fmt.Fprintf(&text, "* %s\r\n", job.Title)
		fmt.Fprintf(&text, "  District: %s\r\n", job.District)
		fmt.Fprintf(&text, "  URL: %s\r\n\r\n", job.URL)
	}

	var html strings.Builder
	fmt.Fprintf(&html, "<html><body><h2>🎓 %d Social Studies Teaching Position(s) Found!</h2>", len(jobs))
	html.WriteString("<p>The following positions match your criteria:</p><ul>")
	for _, job := range jobs {
		fmt.Fprintf(&html, `<li><strong>%s</strong><br>District: %s<br><a href="%s">View Posting</a></li><br>`,
			job.Title, job.District, job.URL)
	}
	html.WriteString("</ul><p><em>Sent by School Job Watcher</em></p></body></html>")

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.from)
	fmt.Fprintf(&msg, "To: %s\r\n", e.to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, text.String())
	fmt.Fprintf(&msg, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, html.String())
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return msg.String()
}

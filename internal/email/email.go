// Package email sends transactional mail over SMTP.
package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/tripsit/tripsit-api/internal/config"
)

const verifySubject = "Verify your TripSit account"

var verifyTemplate = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
  <body>
    <p>Welcome to TripSit!</p>
    <p>Please confirm your email address by following the link below.</p>
    <p><a href="{{.URL}}">{{.URL}}</a></p>
    <p>If you did not create an account you can ignore this message.</p>
  </body>
</html>
`))

// SendFunc delivers a fully formed message.
type SendFunc func(ctx context.Context, from string, to []string, msg []byte) error

// Mailer renders and sends transactional messages.
type Mailer struct {
	from string
	send SendFunc
}

// NewMailer builds a Mailer delivering through the SMTP relay in cfg.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{from: cfg.From, send: smtpSender(cfg)}
}

// NewMailerWithSender builds a Mailer with a custom delivery function.
func NewMailerWithSender(from string, send SendFunc) *Mailer {
	return &Mailer{from: from, send: send}
}

// SendVerify sends the account verification message for verifyURL to to.
func (m *Mailer) SendVerify(ctx context.Context, to, verifyURL string) error {
	var body bytes.Buffer
	if err := verifyTemplate.Execute(&body, struct{ URL string }{URL: verifyURL}); err != nil {
		return fmt.Errorf("render verify email: %w", err)
	}

	msg := buildMessage(m.from, to, verifySubject, body.String())
	if err := m.send(ctx, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send verify email to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}

// smtpSender dials the relay per message: implicit TLS on 465, STARTTLS
// when offered otherwise.
func smtpSender(cfg config.SMTPConfig) SendFunc {
	return func(ctx context.Context, from string, to []string, msg []byte) error {
		addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		dialer := &net.Dialer{Timeout: 10 * time.Second}
		tlsConfig := &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

		var conn net.Conn
		var err error
		if cfg.Port == 465 {
			conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
		} else {
			conn, err = dialer.DialContext(ctx, "tcp", addr)
		}
		if err != nil {
			return fmt.Errorf("dial smtp %s: %w", addr, err)
		}
		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetDeadline(deadline)
		}

		client, err := smtp.NewClient(conn, cfg.Host)
		if err != nil {
			conn.Close()
			return err
		}
		defer client.Close()

		if cfg.Port != 465 {
			if ok, _ := client.Extension("STARTTLS"); ok {
				if err := client.StartTLS(tlsConfig); err != nil {
					return err
				}
			}
		}
		if cfg.User != "" {
			if err := client.Auth(smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)); err != nil {
				return err
			}
		}

		if err := client.Mail(from); err != nil {
			return err
		}
		for _, rcpt := range to {
			if err := client.Rcpt(rcpt); err != nil {
				return err
			}
		}
		w, err := client.Data()
		if err != nil {
			return err
		}
		if _, err := w.Write(msg); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		return client.Quit()
	}
}

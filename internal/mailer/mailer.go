// Package mailer is the outbound email collaborator. Dispatch is
// fire-and-forget: callers log failures and never fail their own path
// because a notification could not be sent.
package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// NewFromEnv returns an SMTP mailer when SMTP_HOST is configured and a
// log-only mailer otherwise, so development setups work without a relay.
func NewFromEnv() Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, email notifications will only be logged")
		return &logMailer{}
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	return &smtpMailer{
		addr:     host + ":" + port,
		from:     os.Getenv("SMTP_FROM"),
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		host:     host,
	}
}

type smtpMailer struct {
	addr     string
	from     string
	username string
	password string
	host     string
}

func (m *smtpMailer) Send(_ context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, strings.Join(to, ", "), subject, body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(m.addr, auth, m.from, to, []byte(msg))
}

type logMailer struct{}

func (m *logMailer) Send(_ context.Context, to []string, subject, _ string) error {
	log.Printf("mail (not sent): to=%v subject=%q", to, subject)
	return nil
}

// SendAsync dispatches in the background and logs the outcome. This is the
// entry point services use so a slow or failing relay never blocks a request.
func SendAsync(m Mailer, to []string, subject, body string) {
	go func() {
		if err := m.Send(context.Background(), to, subject, body); err != nil {
			log.Printf("failed to send email %q: %v", subject, err)
		}
	}()
}

package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/aigatehq/aigate/internal/pkg/env"
)

// Enabled reports whether outgoing mail is configured. Without an SMTP
// host every send is skipped.
func Enabled() bool {
	return env.GetEnv("SMTP_HOST", "") != ""
}

// SendMail delivers an HTML email via SMTP.
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "587")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = "no-reply@aigate.local"
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, sender, []string{to}, msg); err != nil {
		log.Printf("SMTP send error: %v", err)
		return err
	}
	return nil
}

// SendWelcome greets a freshly registered user. Fire-and-forget from the
// registration flow.
func SendWelcome(to, name string) error {
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("<p>Hi %s,</p><p>your AIGate account is ready. Your free monthly credits are already on the account.</p>", name)
	return SendMail(to, "Welcome to AIGate", body)
}

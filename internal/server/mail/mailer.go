// Package mail sends account emails over SMTP. Delivery failures are
// reported to callers, who decide whether they are fatal (registration
// treats them as best-effort).
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends account-related emails.
type Mailer interface {
	SendVerification(to, token string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	addr          string
	from          string
	auth          smtp.Auth
	publicBaseURL string
}

// NewSMTPMailer configures a mailer. user and password may be empty for
// relays that accept unauthenticated mail (e.g. a local container).
func NewSMTPMailer(addr, from, user, password, publicBaseURL string) *SMTPMailer {
	var auth smtp.Auth
	if user != "" {
		host := addr
		if i := strings.LastIndex(addr, ":"); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPMailer{
		addr:          addr,
		from:          from,
		auth:          auth,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// smtpSendMail is a seam for testing smtp.SendMail.
var smtpSendMail = smtp.SendMail

// SendVerification emails the recipient a link that confirms their address.
func (m *SMTPMailer) SendVerification(to, token string) error {
	link := fmt.Sprintf("%s/api/auth/verify-email/%s", m.publicBaseURL, token)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Verify your email address\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Welcome! Please confirm your email address by opening the link below:\r\n\r\n%s\r\n\r\nThe link expires in 24 hours. If you did not sign up, ignore this message.\r\n", link)

	if err := smtpSendMail(m.addr, m.auth, m.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("mail: send verification: %w", err)
	}
	return nil
}

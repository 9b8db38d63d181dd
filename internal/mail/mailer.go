package mail

import (
	"fmt"
	"net/smtp"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/harube/kanban-board-api/internal/config"
	"github.com/harube/kanban-board-api/internal/logging"
)

// Mailer sends a single email.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	from     string
	password string
}

// NewSMTPMailer creates an SMTPMailer from configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		password: cfg.SMTPPassword,
	}
}

// Send delivers an HTML email to a single recipient.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.password == "" {
		return fmt.Errorf("SMTP_PASSWORD is not set")
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// BreakerMailer wraps a Mailer with a circuit breaker so a misbehaving SMTP
// relay fails fast instead of stalling sign-in requests.
type BreakerMailer struct {
	inner   Mailer
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerMailer wraps the mailer with a breaker tripping after three
// consecutive failures.
func NewBreakerMailer(inner Mailer) *BreakerMailer {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "MailerCB",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Circuit breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &BreakerMailer{
		inner:   inner,
		breaker: breaker,
	}
}

// Send delivers through the breaker.
func (m *BreakerMailer) Send(to, subject, body string) error {
	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.inner.Send(to, subject, body)
	})
	return err
}

// MagicLinkEmail builds the subject and body of a sign-in email.
func MagicLinkEmail(baseURL, email, token string) (subject, body string) {
	link := fmt.Sprintf("%s/api/auth/verify?email=%s&token=%s",
		baseURL,
		url.QueryEscape(email),
		url.QueryEscape(token),
	)

	subject = "Sign in to your board"
	body = fmt.Sprintf(
		"<p>Click the link below to sign in. It can be used once and expires in 15 minutes.</p>"+
			"<p><a href=\"%s\">%s</a></p>"+
			"<p>If you did not request this email you can ignore it.</p>",
		link, link,
	)
	return subject, body
}

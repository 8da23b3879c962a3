package mailer

import (
	"fmt"

	"github.com/resend/resend-go/v2"

	"voice-of-rajkot/internal/logger"
)

// Mailer sends transactional email through the Resend API. When no API key
// is configured the mailer logs instead of sending, which keeps local
// development working without credentials.
type Mailer struct {
	client *resend.Client
	from   string
	logger *logger.Logger
}

func New(apiKey, from string, log *logger.Logger) *Mailer {
	m := &Mailer{from: from, logger: log}
	if apiKey != "" {
		m.client = resend.NewClient(apiKey)
	}
	return m
}

// SendPasswordResetOTP emails a one-time password for a password reset.
func (m *Mailer) SendPasswordResetOTP(to, name, otp string) error {
	subject := "Voice of Rajkot password reset"
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your password reset code is <strong>%s</strong>. It expires in 10 minutes.</p><p>If you did not request this, you can ignore this email.</p>",
		name, otp,
	)

	if m.client == nil {
		m.logger.Warn("EMAIL", fmt.Sprintf("RESEND_API_KEY not set, skipping password reset email to %s", to))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := m.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	m.logger.Info("EMAIL", fmt.Sprintf("Password reset email sent to %s", to))
	return nil
}

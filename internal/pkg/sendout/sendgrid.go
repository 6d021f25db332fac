package sendout

import (
	"context"
	"fmt"
	"strings"

	"github.com/josdesi/gpac-backend/internal/pkg/env"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer is the outbound bulk delivery interface. The production
// implementation wraps SendGrid; tests substitute a fake.
type Mailer interface {
	Send(ctx context.Context, toName, toEmail, subject, html string) (messageID string, err error)
}

type sendGridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

// NewSendGridMailerFromEnv creates the SendGrid-backed Mailer.
func NewSendGridMailerFromEnv() Mailer {
	return &sendGridMailer{
		client:    sendgrid.NewSendClient(env.GetEnv("SENDGRID_API_KEY", "")),
		fromName:  env.GetEnv("SENDGRID_FROM_NAME", "gpac"),
		fromEmail: env.GetEnv("SENDGRID_FROM_EMAIL", "no-reply@gogpac.com"),
	}
}

func (m *sendGridMailer) Send(ctx context.Context, toName, toEmail, subject, html string) (string, error) {
	_ = ctx
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, stripTags(html), html)

	resp, err := m.client.Send(message)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}
	if ids, ok := resp.Headers["X-Message-Id"]; ok && len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}

// stripTags produces a crude plain-text alternative part from HTML.
func stripTags(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

package notifier

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridAPI is the subset of the SendGrid client used by SendGridMailer.
type SendGridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer sends email through the SendGrid v3 API.
type SendGridMailer struct {
	client SendGridAPI
	from   *mail.Email
	log    zerolog.Logger
}

// NewSendGridMailer creates a SendGridMailer with a client for apiKey.
func NewSendGridMailer(apiKey, from string, log zerolog.Logger) *SendGridMailer {
	return NewSendGridMailerWithClient(sendgrid.NewSendClient(apiKey), from, log)
}

// NewSendGridMailerWithClient creates a SendGridMailer around an existing client.
func NewSendGridMailerWithClient(client SendGridAPI, from string, log zerolog.Logger) *SendGridMailer {
	return &SendGridMailer{
		client: client,
		from:   mail.NewEmail("DLSMS", from),
		log:    log.With().Str("component", "sendgrid_mailer").Logger(),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), "", htmlBody)

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("%w: sendgrid: %v", ErrDeliveryFailed, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sendgrid: status %d: %s", ErrDeliveryFailed, resp.StatusCode, resp.Body)
	}

	m.log.Debug().Str("to", to).Int("status", resp.StatusCode).Msg("Email sent")
	return nil
}

package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"
)

// SESAPI is the subset of the SES v2 client used by SESMailer.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends email through Amazon SES.
type SESMailer struct {
	client SESAPI
	from   string
	log    zerolog.Logger
}

// NewSESMailer creates a new SESMailer.
func NewSESMailer(client SESAPI, from string, log zerolog.Logger) *SESMailer {
	return &SESMailer{
		client: client,
		from:   from,
		log:    log.With().Str("component", "ses_mailer").Logger(),
	}
}

func (m *SESMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: ses: %v", ErrDeliveryFailed, err)
	}

	m.log.Debug().Str("to", to).Str("message_id", aws.ToString(out.MessageId)).Msg("Email sent")
	return nil
}

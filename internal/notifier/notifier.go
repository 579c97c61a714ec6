package notifier

import (
	"context"
	"errors"
)

// ErrDeliveryFailed wraps every driver-level send failure.
var ErrDeliveryFailed = errors.New("email delivery failed")

// Mailer sends a single HTML email. Implementations make one attempt and
// never retry.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

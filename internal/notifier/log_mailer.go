package notifier

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer writes emails to the log instead of sending them. Used in
// development, where verification links are copied from the console.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer creates a new LogMailer.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "log_mailer").Logger()}
}

func (m *LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.log.Info().
		Str("to", to).
		Str("subject", subject).
		Int("body_bytes", len(htmlBody)).
		Msg("Email not sent (log driver)")
	m.log.Debug().Str("to", to).Msg(htmlBody)
	return nil
}

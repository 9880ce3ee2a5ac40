// Package mail delivers the verification and password-reset emails.
package mail

import (
	"context"
	"log/slog"
)

//go:generate moq -out sender_mock.go . Sender

// Message is a single outbound email. Text is the plain-text alternative
// and carries the link or code as well.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a Message. Delivery failures are returned to the caller,
// which decides whether they matter.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them.
// Used when no mail provider is configured. The plain-text body with the
// verification link or reset code is logged at debug level only.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message recipient, subject and body.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "Email not delivered, no mail provider configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("body_bytes", len(msg.HTML)),
	)
	s.logger.DebugContext(ctx, "Email body",
		slog.String("to", msg.To),
		slog.String("text", msg.Text),
	)
	return nil
}

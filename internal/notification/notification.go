package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const (
	// KindWelcome is sent once an account is created.
	KindWelcome = "welcome_email"
	// KindConfirmEmail carries the email confirmation link.
	KindConfirmEmail = "confirm_email"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Subject     string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		slog.String("kind", message.Kind),
		slog.String("destination", message.Destination),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body))
	return nil
}

// DefaultStream is the Redis stream the mail worker consumes.
const DefaultStream = "notifications:email"

// StreamNotifier appends messages to a Redis stream for an out-of-process mailer.
type StreamNotifier struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewStreamNotifier builds a notifier writing to stream, trimmed to roughly maxLen entries.
func NewStreamNotifier(client *redis.Client, stream string, maxLen int64) *StreamNotifier {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamNotifier{client: client, stream: stream, maxLen: maxLen}
}

// Send publishes the message with XADD.
func (n *StreamNotifier) Send(ctx context.Context, message Message) error {
	args := &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]any{
			"kind":        message.Kind,
			"destination": message.Destination,
			"subject":     message.Subject,
			"body":        message.Body,
		},
	}
	if n.maxLen > 0 {
		args.MaxLen = n.maxLen
		args.Approx = true
	}
	if err := n.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publish %s notification: %w", message.Kind, err)
	}
	return nil
}

// Fanout sends to every notifier and returns the first error.
type Fanout []Notifier

func (f Fanout) Send(ctx context.Context, message Message) error {
	var first error
	for _, n := range f {
		if err := n.Send(ctx, message); err != nil && first == nil {
			first = err
		}
	}
	return first
}

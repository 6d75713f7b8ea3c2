package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"
)

// Relay consumes the notification topic and hands each message to a sender.
// Running it in-process gives a working email path without a separate mailer
// deployment.
type Relay struct {
	Logger *slog.Logger
	Send   func(ctx context.Context, msg Message) error
}

func (r Relay) Handle(ctx context.Context, raw *sarama.ConsumerMessage) error {
	var msg Message
	if err := json.Unmarshal(raw.Value, &msg); err != nil {
		if r.Logger != nil {
			r.Logger.Error("notification message malformed", "error", err, "offset", raw.Offset)
		}
		// drop poison messages instead of blocking the partition
		return nil
	}
	if msg.Recipient == "" {
		return nil
	}
	if r.Send == nil {
		if r.Logger != nil {
			r.Logger.Info("notification delivered", "kind", msg.Kind, "recipient", msg.Recipient)
		}
		return nil
	}
	if err := r.Send(ctx, msg); err != nil {
		if r.Logger != nil {
			r.Logger.Error("notification delivery failed", "error", err, "kind", msg.Kind, "recipient", msg.Recipient)
		}
		return err
	}
	return nil
}

package notify

import (
	"context"
	"log/slog"

	"staybook/internal/app/policies"
)

// LogNotifier writes notifications to the log. It is the delivery path in
// memory mode and the fallback when no brokers are configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) BookingRequestCreated(ctx context.Context, note policies.RequestCreatedNote) error {
	if n.Logger == nil {
		return nil
	}
	n.Logger.Info("notify host: booking request created",
		"request_id", note.RequestID,
		"host_email", note.HostEmail,
		"guest", note.GuestName,
		"listing", note.ListingTitle,
		"check_in", note.CheckIn,
		"check_out", note.CheckOut,
		"total_price", note.TotalPrice.Amount,
		"currency", note.TotalPrice.Currency,
	)
	return nil
}

func (n LogNotifier) BookingDecided(ctx context.Context, note policies.DecisionNote) error {
	if n.Logger == nil {
		return nil
	}
	n.Logger.Info("notify guest: booking request decided",
		"request_id", note.RequestID,
		"guest_email", note.GuestEmail,
		"listing", note.ListingTitle,
		"status", note.Status,
	)
	return nil
}

func (n LogNotifier) BookingAltered(ctx context.Context, note policies.AlterationNote) error {
	if n.Logger == nil {
		return nil
	}
	n.Logger.Info("notify guest: booking dates altered",
		"booking_id", note.BookingID,
		"guest_email", note.GuestEmail,
		"check_in", note.CheckIn,
		"check_out", note.CheckOut,
	)
	return nil
}

var _ policies.Notifier = LogNotifier{}

package notify

import (
	"context"
	"encoding/json"
	"time"

	"staybook/internal/app/policies"
)

type producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Message is the wire format on the notification topic. The mailer service
// consumes these and renders the actual emails.
type Message struct {
	Kind       string    `json:"kind"`
	Recipient  string    `json:"recipient"`
	RequestID  string    `json:"request_id,omitempty"`
	BookingID  string    `json:"booking_id,omitempty"`
	GuestName  string    `json:"guest_name,omitempty"`
	Listing    string    `json:"listing,omitempty"`
	Status     string    `json:"status,omitempty"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Guests     int       `json:"guests,omitempty"`
	TotalPrice int64     `json:"total_price,omitempty"`
	Currency   string    `json:"currency,omitempty"`
}

const (
	KindRequestCreated = "booking_request.created"
	KindDecision       = "booking_request.decided"
	KindAlteration     = "booking.altered"
)

// KafkaNotifier publishes notification messages for asynchronous delivery.
type KafkaNotifier struct {
	Producer producer
	Topic    string
}

func (n KafkaNotifier) BookingRequestCreated(ctx context.Context, note policies.RequestCreatedNote) error {
	return n.publish(ctx, note.RequestID, Message{
		Kind:       KindRequestCreated,
		Recipient:  note.HostEmail,
		RequestID:  note.RequestID,
		GuestName:  note.GuestName,
		Listing:    note.ListingTitle,
		CheckIn:    note.CheckIn,
		CheckOut:   note.CheckOut,
		Guests:     note.Guests,
		TotalPrice: note.TotalPrice.Amount,
		Currency:   note.TotalPrice.Currency,
	})
}

func (n KafkaNotifier) BookingDecided(ctx context.Context, note policies.DecisionNote) error {
	return n.publish(ctx, note.RequestID, Message{
		Kind:      KindDecision,
		Recipient: note.GuestEmail,
		RequestID: note.RequestID,
		GuestName: note.GuestName,
		Listing:   note.ListingTitle,
		Status:    note.Status,
		CheckIn:   note.CheckIn,
		CheckOut:  note.CheckOut,
	})
}

func (n KafkaNotifier) BookingAltered(ctx context.Context, note policies.AlterationNote) error {
	return n.publish(ctx, note.BookingID, Message{
		Kind:      KindAlteration,
		Recipient: note.GuestEmail,
		BookingID: note.BookingID,
		CheckIn:   note.CheckIn,
		CheckOut:  note.CheckOut,
	})
}

func (n KafkaNotifier) publish(ctx context.Context, key string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	headers := map[string]string{"content-type": "application/json"}
	return n.Producer.Publish(ctx, n.Topic, key, payload, headers)
}

var _ policies.Notifier = KafkaNotifier{}

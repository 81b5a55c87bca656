package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the order engine. Downstream consumers (invoice
// rendering, receipts, notifications) subscribe to these; the engine never
// calls them directly.
const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderDeleted       = "order.deleted"
)

// Envelope wraps every published event.
type Envelope struct {
	EventID    uuid.UUID       `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	OrderID    uuid.UUID       `json:"order_id"`
	Payload    json.RawMessage `json:"payload"`
}

// OrderPlacedPayload describes a freshly committed checkout.
type OrderPlacedPayload struct {
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	Total     float64   `json:"total"`
	InvoiceNo string    `json:"invoice_no"`
	ItemCount int       `json:"item_count"`
}

// StatusChangedPayload describes a lifecycle transition.
type StatusChangedPayload struct {
	OrderID  uuid.UUID `json:"order_id"`
	StatusID uuid.UUID `json:"status_id"`
	Status   string    `json:"status"`
}

// OrderDeletedPayload describes a cascade deletion.
type OrderDeletedPayload struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderItems  int64     `json:"order_items"`
	Payments    int64     `json:"payments"`
	CardDetails int64     `json:"card_details"`
	UpiDetails  int64     `json:"upi_details"`
}

// New builds an envelope around the given payload.
func New(eventType string, orderID uuid.UUID, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		EventID:    uuid.New(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		OrderID:    orderID,
		Payload:    raw,
	}, nil
}

// Publisher delivers envelopes to downstream consumers. Publishing is
// best-effort from the engine's point of view: a failed publish never rolls
// back a committed transaction.
type Publisher interface {
	Publish(ctx context.Context, event Envelope) error
	Close() error
}

// NopPublisher discards all events. Used when eventing is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Envelope) error { return nil }
func (NopPublisher) Close() error                                      { return nil }

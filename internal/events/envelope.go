package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingEvent is something that happened to one booking.
type BookingEvent interface {
	EventType() string
	BookingRef() string
}

// Envelope is the queue message body for a booking event.
type Envelope struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	BookingID string          `json:"booking_id"`
	SentAt    time.Time       `json:"sent_at"`
	Data      json.RawMessage `json:"data"`
}

var (
	ErrNoBooking = errors.New("events: booking id is required")
	ErrNoEvent   = errors.New("events: event is required")
)

// Wrap puts evt in a fresh envelope stamped with sentAt.
func Wrap(evt BookingEvent, sentAt time.Time) (Envelope, error) {
	if evt == nil {
		return Envelope{}, ErrNoEvent
	}
	if evt.BookingRef() == "" {
		return Envelope{}, ErrNoBooking
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return Envelope{}, fmt.Errorf("events: marshal %s: %w", evt.EventType(), err)
	}
	return Envelope{
		ID:        uuid.New(),
		Type:      evt.EventType(),
		BookingID: evt.BookingRef(),
		SentAt:    sentAt.UTC(),
		Data:      data,
	}, nil
}

// Attributes are the routing fields a consumer can filter on without parsing
// the body.
func (e Envelope) Attributes() map[string]string {
	return map[string]string{
		"event_type": e.Type,
		"event_id":   e.ID.String(),
		"booking_id": e.BookingID,
	}
}

// Decode fills dst from the envelope data. The envelope must carry dst's type.
func (e Envelope) Decode(dst BookingEvent) error {
	if dst == nil {
		return ErrNoEvent
	}
	if e.Type != dst.EventType() {
		return fmt.Errorf("events: envelope carries %q, not %q", e.Type, dst.EventType())
	}
	if err := json.Unmarshal(e.Data, dst); err != nil {
		return fmt.Errorf("events: decode %s: %w", e.Type, err)
	}
	return nil
}

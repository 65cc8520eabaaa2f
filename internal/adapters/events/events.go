// Package events publishes reservation and occupancy changes to other
// services. Publishing is best effort: a failed publish never undoes the
// state change that produced it.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Type is the routing key of an event.
type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingConfirmed Type = "booking.confirmed"
	BookingCancelled Type = "booking.cancelled"
	BookingDeleted   Type = "booking.deleted"
	CheckInOpened    Type = "checkin.opened"
	CheckInClosed    Type = "checkin.closed"
	CheckInAutoClose Type = "checkin.auto_closed"
	CardsExpired     Type = "card.expired"
)

// Event is the JSON body published for every change.
type Event struct {
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	MemberID   string    `json:"member_id,omitempty"`
	CourseID   string    `json:"course_id,omitempty"`
	BookingID  string    `json:"booking_id,omitempty"`
	CheckInID  string    `json:"checkin_id,omitempty"`
	Count      int       `json:"count,omitempty"`
}

// Publisher sends events to a broker.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop logs events without sending them. Used when no broker is configured.
type Noop struct{}

// Publish logs the event at debug level.
func (Noop) Publish(_ context.Context, e Event) error {
	log.Debug().Str("type", string(e.Type)).Str("member_id", e.MemberID).Msg("noop_event_publish")
	return nil
}

// Close does nothing.
func (Noop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish appends e.
func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Close does nothing.
func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the routing keys published so far, in order.
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

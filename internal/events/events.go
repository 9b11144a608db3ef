// Package events publishes storefront activity to kafka.
package events

import (
	"context"
	"sync"
	"time"
)

const (
	CartUpdated   = "cart_updated"
	OrderPlaced   = "order_placed"
	OrderFailed   = "order_failed"
	UserLoggedIn  = "user_logged_in"
	UserLoggedOut = "user_logged_out"
)

type Event struct {
	Type    string    `json:"type"`
	Profile string    `json:"profile,omitempty"`
	At      time.Time `json:"at"`
	Data    any       `json:"data,omitempty"`
}

func New(typ string, data any) Event {
	return Event{Type: typ, At: time.Now().UTC(), Data: data}
}

// Publisher never fails the caller; delivery problems are logged by the
// implementation.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// Package events carries data-changed notifications between the dashboard and
// the assistant session manager, and publishes assistant actions to the human desk.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entity names used in DataChanged.
const (
	EntityChurch       = "church"
	EntityAgent        = "agent_settings"
	EntitySchedule     = "schedule"
	EntityEvent        = "special_event"
	EntityFAQ          = "faq"
	EntityMinistry     = "ministry"
	EntityAvailability = "pastoral_availability"
	EntityAppointment  = "pastoral_appointment"
	EntityPrayer       = "prayer_request"
	EntityFinancial    = "financial_info"
	EntityFile         = "uploaded_file"
)

// DataChanged announces that one of a church's records was mutated.
type DataChanged struct {
	ChurchID uuid.UUID `json:"churchId"`
	Entity   string    `json:"entity"`
	At       time.Time `json:"at"`
}

type Handler func(DataChanged)

// Bus fans DataChanged notifications out to subscribers.
type Bus interface {
	Publish(ctx context.Context, ev DataChanged) error
	Subscribe(h Handler) (unsubscribe func())
	Close() error
}

// LocalBus delivers notifications synchronously inside the process.
type LocalBus struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
}

func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[int]Handler)}
}

func (b *LocalBus) Publish(_ context.Context, ev DataChanged) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.dispatch(ev)
	return nil
}

func (b *LocalBus) dispatch(ev DataChanged) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}

func (b *LocalBus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	b.handlers = make(map[int]Handler)
	b.mu.Unlock()
	return nil
}

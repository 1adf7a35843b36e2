package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
)

// eventLog is a goroutine-safe list of events in arrival order
type eventLog struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (l *eventLog) add(events ...shared.DomainEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, events...)
}

func (l *eventLog) snapshot() []shared.DomainEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

// MockEventHandler records what it is handed and answers with a settable
// error
type MockEventHandler struct {
	log        eventLog
	eventTypes []string

	mu  sync.Mutex
	err error
}

// NewMockEventHandler subscribes to eventTypes, or to everything when none
// are given
func NewMockEventHandler(eventTypes ...string) *MockEventHandler {
	return &MockEventHandler{eventTypes: eventTypes}
}

func (h *MockEventHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *MockEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.log.add(event)
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Handled returns the events handled so far
func (h *MockEventHandler) Handled() []shared.DomainEvent {
	return h.log.snapshot()
}

func (h *MockEventHandler) HandledCount() int {
	return len(h.log.snapshot())
}

// SetError makes later Handle calls fail with err
func (h *MockEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// RecordingPublisher is an EventPublisher for service tests
type RecordingPublisher struct {
	log eventLog
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.log.add(events...)
	return nil
}

// Events returns everything published, in order
func (p *RecordingPublisher) Events() []shared.DomainEvent {
	return p.log.snapshot()
}

// Types returns the published event types, in order
func (p *RecordingPublisher) Types() []string {
	events := p.log.snapshot()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}

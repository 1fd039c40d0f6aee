package audit

import (
	"context"
	"sync"
)

// Publisher delivers events to external consumers. Implementations must not
// block the caller on broker availability; delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, event Event)
	Close() error
}

// Publish is a nil-safe helper so services need no publisher wiring in tests.
func Publish(ctx context.Context, p Publisher, event Event) {
	if p == nil {
		return
	}
	p.Publish(ctx, event)
}

// MemoryPublisher collects events in memory for tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a snapshot of everything published so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

func (p *MemoryPublisher) Close() error { return nil }

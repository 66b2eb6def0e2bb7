// Package eventbus provides the in-process implementation of ports.EventBus.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/agrilink/tab-session-api/internal/ports"
)

// Bus delivers events synchronously to subscribers in registration order.
// There is no queueing or replay: a handler registered after Publish
// returns never sees that event. Safe for concurrent use.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(ports.Event)
	logger   *slog.Logger
}

var _ ports.EventBus = (*Bus)(nil)

// New creates an empty bus. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[int]func(ports.Event)),
		logger:   logger,
	}
}

// Publish invokes every registered handler with the event. A panicking
// handler is recovered and logged so it cannot take down its siblings or
// the publisher.
func (b *Bus) Publish(ctx context.Context, evt ports.Event) {
	for _, handler := range b.snapshot() {
		b.deliver(ctx, handler, evt)
	}
}

// Subscribe registers a handler and returns a function that removes it.
// Unsubscribing twice is harmless.
func (b *Bus) Subscribe(handler func(ports.Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

func (b *Bus) snapshot() []func(ports.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := make([]func(ports.Event), 0, len(b.handlers))
	for id := 0; id < b.nextID; id++ {
		if h, ok := b.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	return handlers
}

func (b *Bus) deliver(ctx context.Context, handler func(ports.Event), evt ports.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "event handler panicked",
				"event", evt.Name,
				"tab_id", evt.TabID,
				"panic", r,
			)
		}
	}()
	handler(evt)
}

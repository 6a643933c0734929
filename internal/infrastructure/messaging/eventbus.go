// Package messaging implements the in-process event bus that connects
// commands to their side-channel subscribers (cache invalidation). In-memory
// only: the engine has no cross-process delivery requirement.
package messaging

import (
	"context"
	"errors"
	"sync"

	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/pkg/logger"
)

// ErrBusClosed is returned when publishing to a closed bus.
var ErrBusClosed = errors.New("messaging: event bus is closed")

// InMemoryEventBus dispatches domain events to registered handlers.
// Dispatch is asynchronous through a bounded worker pool; handler errors are
// logged, never returned to the publisher.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[shared.EventType][]shared.EventHandler
	closed   bool

	workers chan struct{}
	wg      sync.WaitGroup
	log     *logger.Logger
}

// Config contains bus configuration.
type Config struct {
	// WorkerPoolSize bounds concurrent handler executions. Default: 8.
	WorkerPoolSize int

	// Logger for handler failures.
	Logger *logger.Logger
}

// NewInMemoryEventBus creates a bus ready for subscriptions.
func NewInMemoryEventBus(cfg Config) *InMemoryEventBus {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 8
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	return &InMemoryEventBus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		workers:  make(chan struct{}, cfg.WorkerPoolSize),
		log:      cfg.Logger.With(logger.Component("eventbus")),
	}
}

// Subscribe registers a handler for one event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("messaging: handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Publish implements shared.EventPublisher. It hands the event to every
// subscriber of its type and returns immediately.
func (b *InMemoryEventBus) Publish(ctx context.Context, event shared.Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	handlers := make([]shared.EventHandler, len(b.handlers[event.EventType()]))
	copy(handlers, b.handlers[event.EventType()])
	b.mu.RUnlock()

	for _, h := range handlers {
		h := h
		b.wg.Add(1)
		b.workers <- struct{}{}
		go func() {
			defer func() {
				<-b.workers
				b.wg.Done()
			}()
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("event handler panicked",
						logger.String("handler", h.Name()),
						logger.String("event_type", string(event.EventType())),
						logger.Any("panic", r),
					)
				}
			}()

			// Detach from the request context: the HTTP request may finish
			// before the handler runs.
			if err := h.Handle(context.WithoutCancel(ctx), event); err != nil {
				b.log.Warn("event handler failed",
					logger.String("handler", h.Name()),
					logger.String("event_type", string(event.EventType())),
					logger.Err(err),
				)
			}
		}()
	}

	return nil
}

// Close stops accepting events and waits for in-flight handlers.
func (b *InMemoryEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.wg.Wait()
}

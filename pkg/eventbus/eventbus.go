package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is anything published on the bus.
type Event interface {
	Name() string
}

// Listener handles one event. Returned errors are logged, never propagated.
type Listener func(ctx context.Context, event Event) error

type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	timeout   time.Duration
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		timeout:   1 * time.Minute,
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish runs every listener of the event in its own goroutine. Listeners get
// a fresh context bounded by the bus timeout, detached from the caller's request.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, listener := range b.listeners[event.Name()] {
		b.wg.Add(1)
		go func(l Listener) {
			defer b.wg.Done()
			b.run(l, event)
		}(listener)
	}
}

// PublishSync runs the listeners one after another and returns when the last
// one has finished. Listener errors are logged as with Publish.
func (b *Bus) PublishSync(ctx context.Context, event Event) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event.Name()]...)
	b.mu.RUnlock()

	for _, l := range listeners {
		b.run(l, event)
	}
}

func (b *Bus) run(l Listener, event Event) {
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := l(ctxWithTimeout, event); err != nil {
		b.logger.Error("event listener failed",
			zap.String("event", event.Name()),
			zap.Error(err),
		)
	}
}

// Wait blocks until all listeners started so far have returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}

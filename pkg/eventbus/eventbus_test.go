package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingEvent struct{}

func (pingEvent) Name() string { return "ping" }

func TestBus_PublishReachesEverySubscriber(t *testing.T) {
	bus := New(zap.NewNop())
	var calls atomic.Int32

	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		calls.Add(1)
		return nil
	})
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		calls.Add(1)
		return errors.New("listener failure is only logged")
	})
	bus.Subscribe("other", func(ctx context.Context, e Event) error {
		calls.Add(100)
		return nil
	})

	bus.Publish(context.Background(), pingEvent{})
	bus.Wait()

	assert.Equal(t, int32(2), calls.Load())
}

func TestBus_ListenerContextOutlivesCaller(t *testing.T) {
	bus := New(zap.NewNop())
	var ctxErr atomic.Value

	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		ctxErr.Store(ctx.Err() == nil)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{})
	bus.Wait()

	assert.Equal(t, true, ctxErr.Load())
}

func TestBus_PublishSyncReturnsAfterListeners(t *testing.T) {
	bus := New(zap.NewNop())
	var order []string

	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		order = append(order, "first")
		return nil
	})
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		order = append(order, "second")
		return errors.New("logged")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.PublishSync(ctx, pingEvent{})

	assert.Equal(t, []string{"first", "second"}, order)
}

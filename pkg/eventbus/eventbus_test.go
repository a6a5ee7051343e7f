package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := New(zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	var got []string

	bus.Subscribe("thing.happened", func(ctx context.Context, event Event) error {
		defer wg.Done()
		mu.Lock()
		got = append(got, "first")
		mu.Unlock()
		return nil
	})
	bus.Subscribe("thing.happened", func(ctx context.Context, event Event) error {
		defer wg.Done()
		mu.Lock()
		got = append(got, "second")
		mu.Unlock()
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "thing.happened"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listeners were not invoked in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 2)
	assert.Contains(t, got, "first")
	assert.Contains(t, got, "second")
}

func TestPublishIgnoresUnrelatedEvents(t *testing.T) {
	bus := New(zap.NewNop())

	called := make(chan struct{}, 1)
	bus.Subscribe("wanted", func(ctx context.Context, event Event) error {
		called <- struct{}{}
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "unwanted"})

	select {
	case <-called:
		t.Fatal("listener must not fire for other events")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestListenerErrorDoesNotBlockOthers(t *testing.T) {
	bus := New(zap.NewNop())

	done := make(chan struct{}, 1)
	bus.Subscribe("thing.happened", func(ctx context.Context, event Event) error {
		return errors.New("boom")
	})
	bus.Subscribe("thing.happened", func(ctx context.Context, event Event) error {
		done <- struct{}{}
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "thing.happened"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second listener was not invoked")
	}
}

package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var calls []string
	d.Subscribe(EventItemReported, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.ItemID)
		return nil
	})
	d.Subscribe(EventItemReported, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.ItemID)
		return nil
	})
	d.Subscribe(EventClaimApproved, func(context.Context, Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	event := New(EventItemReported, "item-1", "user-1", time.Now(), ItemReportedPayload{Title: "Keys"})
	require.NoError(t, d.Publish(context.Background(), event))
	assert.Equal(t, []string{"first:item-1", "second:item-1"}, calls)
	assert.NotEmpty(t, event.ID)
}

func TestPublishSwallowsHandlerFailures(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	reached := false
	d.Subscribe(EventMessageSent, func(context.Context, Event) error {
		return errors.New("smtp down")
	})
	d.Subscribe(EventMessageSent, func(context.Context, Event) error {
		panic("bad handler")
	})
	d.Subscribe(EventMessageSent, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), New(EventMessageSent, "item-1", "user-1", time.Now(), nil))
	assert.NoError(t, err)
	assert.True(t, reached)
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var count atomic.Int64
	d.Subscribe(EventClaimSubmitted, func(context.Context, Event) error {
		count.Add(1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = d.Publish(context.Background(), New(EventClaimSubmitted, "item", "user", time.Now(), nil))
		}()
		go func() {
			defer wg.Done()
			d.Subscribe(EventClaimRejected, func(context.Context, Event) error { return nil })
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(20), count.Load())
}

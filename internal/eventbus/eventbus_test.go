package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"editgrep/internal/domain"
)

func TestPublishReachesSubscribers(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := New()
	defer b.Close()

	got := make(chan domain.DomainEvent, 1)
	b.Subscribe(EventReplaced, func(e DomainEvent) { got <- e })

	b.Publish(domain.ReplacedEvent{Query: "foo", Count: 3})

	select {
	case e := <-got:
		ev, ok := e.(domain.ReplacedEvent)
		require.True(t, ok)
		assert.Equal(t, 3, ev.Count)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := New()

	var calls atomic.Int32
	unsubscribe := b.Subscribe(EventSearchCleared, func(DomainEvent) { calls.Add(1) })
	unsubscribe()

	b.Publish(domain.SearchClearedEvent{})
	b.Close()

	assert.Equal(t, int32(0), calls.Load())
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := New()
	defer b.Close()

	done := make(chan struct{})
	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventError, func(DomainEvent) { close(done) })

	b.Publish(domain.ErrorEvent{Message: "x"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler did not run")
	}
}

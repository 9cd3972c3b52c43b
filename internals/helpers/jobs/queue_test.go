package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct {
	Value string `json:"value"`
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Buffer = 8
	cfg.MaxRetries = 2
	cfg.InitialInterval = time.Millisecond
	cfg.MaxInterval = 5 * time.Millisecond
	cfg.CloseTimeout = time.Second
	return cfg
}

func startQueue(t *testing.T, setup func(q *Queue)) (*Queue, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	q, err := NewQueue(testConfig())
	require.NoError(t, err)
	setup(q)
	require.NoError(t, q.Start(ctx))
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, q.Close())
	})
	return q, ctx
}

func TestQueue_RoundTrip(t *testing.T) {
	got := make(chan string, 1)
	q, ctx := startQueue(t, func(q *Queue) {
		q.Handle("test.ping", func(ctx context.Context, payload []byte) error {
			p, err := Decode[ping](payload)
			if err != nil {
				return err
			}
			got <- p.Value
			return nil
		})
	})
	require.NoError(t, q.Enqueue(ctx, "test.ping", ping{Value: "pong"}))

	select {
	case v := <-got:
		assert.Equal(t, "pong", v)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not delivered")
	}
}

func TestQueue_RetriesThenGivesUp(t *testing.T) {
	var calls int32
	q, ctx := startQueue(t, func(q *Queue) {
		q.Handle("test.fail", func(ctx context.Context, payload []byte) error {
			atomic.AddInt32(&calls, 1)
			return errors.New("always failing")
		})
	})
	require.NoError(t, q.Enqueue(ctx, "test.fail", ping{Value: "x"}))

	// first attempt plus MaxRetries, then the job is parked on the poison topic
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 3 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueue_PanickingHandlerDoesNotStopConsumers(t *testing.T) {
	var panics int32
	got := make(chan string, 1)
	q, ctx := startQueue(t, func(q *Queue) {
		q.Handle("test.panic", func(ctx context.Context, payload []byte) error {
			atomic.AddInt32(&panics, 1)
			panic("template nil map")
		})
		q.Handle("test.ping", func(ctx context.Context, payload []byte) error {
			p, err := Decode[ping](payload)
			if err != nil {
				return err
			}
			got <- p.Value
			return nil
		})
	})

	require.NoError(t, q.Enqueue(ctx, "test.panic", ping{Value: "x"}))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&panics) == 3 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, q.Enqueue(ctx, "test.ping", ping{Value: "still alive"}))
	select {
	case v := <-got:
		assert.Equal(t, "still alive", v)
	case <-time.After(2 * time.Second):
		t.Fatal("queue stopped consuming after a panic")
	}
}

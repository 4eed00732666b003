// internal/pipeline/queue/queue_test.go
package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := New[int](10)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(ctx, i))
	}

	for i := 0; i < 5; i++ {
		item, err := q.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, item)
	}
}

func TestQueue_Len(t *testing.T) {
	q := New[string](4)
	ctx := context.Background()

	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 4, q.Cap())

	require.NoError(t, q.Enqueue(ctx, "a"))
	require.NoError(t, q.Enqueue(ctx, "b"))
	assert.Equal(t, 2, q.Len())

	_, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_BackpressureBlocksUntilSpaceFrees(t *testing.T) {
	// Scenario: queue at capacity; an extra enqueue must block until a
	// consumer frees a slot, then the item is immediately dequeuable.
	q := New[int](3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(ctx, i))
	}

	enqueued := make(chan error, 1)
	go func() {
		enqueued <- q.Enqueue(ctx, 99)
	}()

	select {
	case err := <-enqueued:
		t.Fatalf("enqueue on a full queue returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
		// still blocked, as expected
	}

	item, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, item)

	select {
	case err := <-enqueued:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("enqueue did not complete after space freed")
	}

	// 1, 2 then the late 99: order preserved, nothing dropped.
	for _, want := range []int{1, 2, 99} {
		item, err := q.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, item)
	}
}

func TestQueue_EnqueueCancelledContext(t *testing.T) {
	q := New[int](1)
	require.NoError(t, q.Enqueue(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := q.Enqueue(ctx, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_DequeueCancelledWhileIdle(t *testing.T) {
	q := New[int](1)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second, "dequeue must return promptly on cancellation")
}

func TestQueue_CloseSemantics(t *testing.T) {
	q := New[int](4)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, 1))
	require.NoError(t, q.Enqueue(ctx, 2))

	q.Close()
	q.Close() // idempotent

	assert.ErrorIs(t, q.Enqueue(ctx, 3), ErrClosed)

	// Remaining items stay dequeuable after close.
	item, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, item)

	item, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, item)

	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestQueue_CloseWakesBlockedDequeue(t *testing.T) {
	q := New[int](1)

	done := make(chan error, 1)
	go func() {
		_, err := q.Dequeue(context.Background())
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("blocked dequeue was not woken by Close")
	}
}

func TestQueue_ConcurrentProducersConsumers(t *testing.T) {
	const (
		producers        = 4
		consumers        = 4
		itemsPerProducer = 250
	)

	q := New[int](16)
	ctx := context.Background()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				if err := q.Enqueue(ctx, p*itemsPerProducer+i); err != nil {
					t.Errorf("enqueue: %v", err)
					return
				}
			}
		}(p)
	}

	var mu sync.Mutex
	seen := make(map[int]bool)

	var cg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cg.Add(1)
		go func() {
			defer cg.Done()
			for {
				item, err := q.Dequeue(ctx)
				if err != nil {
					return
				}
				mu.Lock()
				seen[item] = true
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	q.Close()
	cg.Wait()

	assert.Len(t, seen, producers*itemsPerProducer, "every item delivered exactly once")
}

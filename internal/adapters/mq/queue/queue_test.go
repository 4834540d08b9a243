package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/robopath/internal/domain/model"
)

func job(team, match int) Job {
	return Job{Team: team, Match: match, Stage: model.StageAuto}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, job(254, 1)) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got != job(254, 1) {
		t.Errorf("expected 254/1/Auto, got %v", got)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, job(1, 1)) || !q.Enqueue(ctx, job(1, 2)) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, job(1, 3)) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A free slot and a done context are both ready; either outcome is allowed,
	// but the call must not block.
	done := make(chan struct{})
	go func() {
		q.Enqueue(ctx, job(1, 1))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()

	const producers, perProducer = 10, 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(team int) {
			defer wg.Done()
			for m := 0; m < perProducer; m++ {
				for !q.Enqueue(ctx, job(team, m)) {
					time.Sleep(time.Millisecond)
				}
			}
		}(p)
	}

	received := 0
	out := q.Dequeue(ctx)
	doneProducing := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneProducing)
	}()

	timeout := time.After(5 * time.Second)
	for received < producers*perProducer {
		select {
		case <-out:
			received++
		case <-timeout:
			t.Fatalf("timed out after %d jobs", received)
		}
	}
	<-doneProducing
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	q.Enqueue(ctx, job(1, 1))
	q.Enqueue(ctx, job(1, 2))

	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if err := q.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if q.Enqueue(ctx, job(1, 3)) {
		t.Error("expected enqueue to fail after close")
	}

	var drained []Job
	for j := range q.Dequeue(ctx) {
		drained = append(drained, j)
	}
	if len(drained) != 2 {
		t.Errorf("expected 2 pending jobs delivered, got %d", len(drained))
	}
}

package queue

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestQueueOrdering(t *testing.T) {
	q := New[int]()
	for i := 0; i < 5; i++ {
		q.Append(i)
	}
	if got := q.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		item, ok := q.Pop(ctx)
		if !ok {
			t.Fatalf("Pop returned ok=false with items queued")
		}
		if item != i {
			t.Fatalf("Pop() = %d, want %d", item, i)
		}
	}
	if got := q.Len(); got != 0 {
		t.Fatalf("Len() after drain = %d, want 0", got)
	}
}

func TestTryPopEmpty(t *testing.T) {
	q := New[string]()
	if _, ok := q.TryPop(); ok {
		t.Fatal("TryPop on empty queue returned ok=true")
	}
	q.Append("a")
	item, ok := q.TryPop()
	if !ok || item != "a" {
		t.Fatalf("TryPop() = %q, %v, want \"a\", true", item, ok)
	}
}

func TestPopBlocksUntilAppend(t *testing.T) {
	q := New[int]()
	done := make(chan int, 1)

	go func() {
		item, ok := q.Pop(context.Background())
		if !ok {
			t.Error("Pop returned ok=false")
			return
		}
		done <- item
	}()

	// Give the consumer time to park on the condition variable.
	time.Sleep(20 * time.Millisecond)
	q.Append(42)

	select {
	case item := <-done:
		if item != 42 {
			t.Fatalf("Pop() = %d, want 42", item)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Pop did not wake after Append")
	}
}

func TestPopReturnsOnCancel(t *testing.T) {
	q := New[int]()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan bool, 1)
	go func() {
		_, ok := q.Pop(ctx)
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("Pop returned ok=true after cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Pop did not return after cancellation")
	}
}

func TestConcurrentProducersConsumers(t *testing.T) {
	q := New[int]()
	const producers = 4
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Append(base + i)
			}
		}(p * perProducer)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seen := make(map[int]bool)
	var mu sync.Mutex
	var consumers sync.WaitGroup
	for c := 0; c < 3; c++ {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			for {
				item, ok := q.Pop(ctx)
				if !ok {
					return
				}
				mu.Lock()
				if seen[item] {
					t.Errorf("item %d delivered twice", item)
				}
				seen[item] = true
				total := len(seen)
				mu.Unlock()
				if total == producers*perProducer {
					return
				}
			}
		}()
	}

	wg.Wait()

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		total := len(seen)
		mu.Unlock()
		if total == producers*perProducer {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("consumed %d of %d items", total, producers*perProducer)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

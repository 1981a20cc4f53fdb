package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAllJobs(t *testing.T) {
	p := NewPool(4)
	defer p.Shutdown()

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Submit(Job{Priority: i % 5, Run: func(cancelled func() bool) {
			atomic.AddInt64(&count, 1)
			wg.Done()
		}})
	}
	wg.Wait()

	if got := atomic.LoadInt64(&count); got != 100 {
		t.Fatalf("expected 100 jobs run, got %d", got)
	}
}

func TestPoolPriorityOrdering(t *testing.T) {
	p := NewPool(1) // single worker: strict ordering is observable

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	block := make(chan struct{})
	started := make(chan struct{})
	wg.Add(1)
	p.Submit(Job{Priority: 1000, Run: func(cancelled func() bool) {
		close(started)
		<-block // hold the single worker until every job below is queued
		mu.Lock()
		order = append(order, -1)
		mu.Unlock()
		wg.Done()
	}})
	<-started // the worker has popped the blocker, so the jobs below queue behind it

	for _, priority := range []int{5, 1, 3} {
		wg.Add(1)
		pr := priority
		p.Submit(Job{Priority: pr, Run: func(cancelled func() bool) {
			mu.Lock()
			order = append(order, pr)
			mu.Unlock()
			wg.Done()
		}})
	}

	close(block)
	wg.Wait()
	p.Shutdown()

	want := []int{-1, 1, 3, 5}
	if len(order) != len(want) {
		t.Fatalf("expected %d jobs run, got %d: %v", len(want), len(order), order)
	}
	for i, v := range want {
		if order[i] != v {
			t.Fatalf("expected priority order %v, got %v", want, order)
		}
	}
}

func TestPoolCancelledAfterShutdown(t *testing.T) {
	p := NewPool(2)

	seen := make(chan bool, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	p.Submit(Job{Run: func(cancelled func() bool) {
		defer wg.Done()
		seen <- cancelled()
	}})
	wg.Wait()
	if <-seen {
		t.Fatal("job should not observe cancellation before Shutdown")
	}

	p.Shutdown()
	if !p.cancelled() {
		t.Fatal("expected cancelled() to report true after Shutdown")
	}
}

func TestQueueDepthReflectsPendingJobs(t *testing.T) {
	p := NewPool(1)
	block := make(chan struct{})

	p.Submit(Job{Run: func(cancelled func() bool) { <-block }})
	for i := 0; i < 5; i++ {
		p.Submit(Job{Run: func(cancelled func() bool) {}})
	}

	time.Sleep(10 * time.Millisecond)
	if depth := p.QueueDepth(); depth != 5 {
		t.Fatalf("expected 5 jobs still queued behind the blocked worker, got %d", depth)
	}

	close(block)
	p.Shutdown()
}

// Package tasks provides the process-owned background executor. TTL dataset
// refreshes and asynchronous pipeline runs are submitted here instead of
// starting ad hoc goroutines per call, so shutdown can drain them.
package tasks

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Submitter accepts units of background work. The production implementation
// is Runner; tests may substitute an inline implementation.
type Submitter interface {
	Submit(name string, fn func(ctx context.Context)) bool
}

// Runner executes submitted tasks on a fixed pool of workers.
type Runner struct {
	tasks   chan task
	workers int

	mu      sync.Mutex
	started bool
	closed  bool
	wg      sync.WaitGroup
}

type task struct {
	name string
	run  func(ctx context.Context)
}

// NewRunner creates a runner with the given worker count and queue capacity.
func NewRunner(workers, queueSize int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Runner{
		tasks:   make(chan task, queueSize),
		workers: workers,
	}
}

// Start launches the worker pool. Workers exit when the runner is closed and
// the queue has drained, or immediately when ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.work(ctx)
	}
}

func (r *Runner) work(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-r.tasks:
			if !ok {
				return
			}
			t.run(ctx)
		}
	}
}

// Submit enqueues a task. It returns false when the runner is closed or the
// queue is full; callers treat a refused submission as a dropped best-effort
// task. The send happens under the same mutex Close holds while closing the
// channel, so a Submit racing a Close either enqueues before the close or
// observes the closed flag, never sends on a closed channel.
func (r *Runner) Submit(name string, fn func(ctx context.Context)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}

	select {
	case r.tasks <- task{name: name, run: fn}:
		return true
	default:
		log.Warn("task queue full, dropping task", "task", name)
		return false
	}
}

// Close stops accepting tasks and waits for queued work to finish.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.tasks)
	r.mu.Unlock()
	r.wg.Wait()
}

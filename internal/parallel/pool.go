package parallel

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
)

// Result is the outcome of one submitted job.
type Result[T any] struct {
	// Index is the submission order of the job, starting at 0.
	Index    int
	Key      string
	Value    T
	Err      error
	Duration time.Duration
}

// WorkerPool manages concurrent job execution with bounded concurrency.
type WorkerPool[T any] struct {
	maxWorkers int
	semaphore  chan struct{}
	wg         *conc.WaitGroup
	mu         sync.Mutex
	next       int
	results    []Result[T]
	errors     []error
	failFast   bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a new worker pool with bounded concurrency.
// If maxWorkers is 0, unlimited workers are allowed (bounded by submitted jobs).
// If failFast is true, the context will be cancelled on the first error.
func NewWorkerPool[T any](ctx context.Context, maxWorkers int, failFast bool) *WorkerPool[T] {
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool[T]{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		wg:         conc.NewWaitGroup(),
		failFast:   failFast,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Context returns the pool context. It is cancelled by Cancel, by Wait,
// and on the first error when failFast is set.
func (p *WorkerPool[T]) Context() context.Context {
	return p.ctx
}

// Submit schedules fn under key. Jobs submitted after cancellation, or
// still waiting for a worker when it happens, never run and produce no
// result.
func (p *WorkerPool[T]) Submit(key string, fn func(ctx context.Context) (T, error)) {
	select {
	case <-p.ctx.Done():
		return
	default:
	}

	p.mu.Lock()
	index := p.next
	p.next++
	p.mu.Unlock()

	p.wg.Go(func() {
		// Acquire semaphore slot
		if p.maxWorkers > 0 {
			select {
			case p.semaphore <- struct{}{}:
				defer func() { <-p.semaphore }()
			case <-p.ctx.Done():
				return
			}
		}

		// Check if we should still run (fail-fast or cancelled)
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		start := time.Now()
		value, err := fn(p.ctx)
		p.record(Result[T]{
			Index:    index,
			Key:      key,
			Value:    value,
			Err:      err,
			Duration: time.Since(start),
		})
	})
}

func (p *WorkerPool[T]) record(result Result[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.results = append(p.results, result)
	if result.Err != nil {
		p.errors = append(p.errors, fmt.Errorf("%s: %w", result.Key, result.Err))
		if p.failFast {
			p.cancel()
		}
	}
}

// Wait waits for all submitted jobs to complete and returns their results
// in submission order. A panicking job is reported as an error.
func (p *WorkerPool[T]) Wait() ([]Result[T], []error) {
	recovered := p.wg.WaitAndRecover()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Cancel the context to clean up
	p.cancel()

	if recovered != nil {
		p.errors = append(p.errors, recovered.AsError())
	}

	results := slices.Clone(p.results)
	slices.SortFunc(results, func(a, b Result[T]) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return results, slices.Clone(p.errors)
}

// Cancel cancels all pending work in the pool.
func (p *WorkerPool[T]) Cancel() {
	p.cancel()
}

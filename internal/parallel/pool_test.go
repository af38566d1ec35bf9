package parallel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWorkerPool(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pool with max workers", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 4, false)
		if pool == nil {
			t.Fatal("NewWorkerPool returned nil")
		}
		if pool.maxWorkers != 4 {
			t.Errorf("expected maxWorkers=4, got %d", pool.maxWorkers)
		}
		if pool.failFast {
			t.Error("expected failFast=false")
		}
	})

	t.Run("creates pool with unlimited workers", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 0, false)
		if pool.maxWorkers != 0 {
			t.Errorf("expected maxWorkers=0 for unlimited, got %d", pool.maxWorkers)
		}
	})
}

func TestWorkerPool_SubmitAndWait(t *testing.T) {
	ctx := context.Background()

	t.Run("results in submission order", func(t *testing.T) {
		pool := NewWorkerPool[string](ctx, 3, false)

		for i := 0; i < 6; i++ {
			key := fmt.Sprintf("file%d.md", i)
			delay := time.Duration(6-i) * 5 * time.Millisecond
			pool.Submit(key, func(context.Context) (string, error) {
				time.Sleep(delay)
				return key, nil
			})
		}

		results, errs := pool.Wait()
		if len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
		if len(results) != 6 {
			t.Fatalf("expected 6 results, got %d", len(results))
		}
		for i, r := range results {
			want := fmt.Sprintf("file%d.md", i)
			if r.Index != i || r.Key != want || r.Value != want {
				t.Errorf("results[%d]: got index %d key %q value %q", i, r.Index, r.Key, r.Value)
			}
		}
	})

	t.Run("respects max workers limit", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 2, false)

		maxConcurrent := 0
		currentConcurrent := 0
		var mu sync.Mutex

		for i := 0; i < 5; i++ {
			pool.Submit("", func(context.Context) (int, error) {
				mu.Lock()
				currentConcurrent++
				if currentConcurrent > maxConcurrent {
					maxConcurrent = currentConcurrent
				}
				mu.Unlock()

				time.Sleep(30 * time.Millisecond)

				mu.Lock()
				currentConcurrent--
				mu.Unlock()
				return i, nil
			})
		}

		pool.Wait()

		if maxConcurrent > 2 {
			t.Errorf("expected max 2 concurrent jobs, got %d", maxConcurrent)
		}
	})

	t.Run("unlimited workers", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 0, false)

		jobCount := 10
		for i := 0; i < jobCount; i++ {
			pool.Submit("", func(context.Context) (int, error) {
				time.Sleep(5 * time.Millisecond)
				return i, nil
			})
		}

		results, _ := pool.Wait()
		if len(results) != jobCount {
			t.Errorf("expected %d results, got %d", jobCount, len(results))
		}
	})
}

func TestWorkerPool_Errors(t *testing.T) {
	ctx := context.Background()
	errBroken := errors.New("broken")

	t.Run("errors are keyed", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 2, false)
		pool.Submit("good.md", func(context.Context) (int, error) { return 1, nil })
		pool.Submit("bad.md", func(context.Context) (int, error) { return 0, errBroken })

		results, errs := pool.Wait()
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d", len(errs))
		}
		if !errors.Is(errs[0], errBroken) {
			t.Errorf("expected wrapped errBroken, got %v", errs[0])
		}
		if !strings.HasPrefix(errs[0].Error(), "bad.md: ") {
			t.Errorf("error not keyed: %v", errs[0])
		}
		if !errors.Is(results[1].Err, errBroken) {
			t.Errorf("results[1].Err: got %v", results[1].Err)
		}
	})

	t.Run("failFast stops later jobs", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 1, true)

		var ran atomic.Int32
		pool.Submit("first", func(context.Context) (int, error) {
			ran.Add(1)
			return 0, errBroken
		})

		select {
		case <-pool.Context().Done():
		case <-time.After(time.Second):
			t.Fatal("pool context not cancelled after error")
		}

		for i := 0; i < 5; i++ {
			pool.Submit("later", func(context.Context) (int, error) {
				ran.Add(1)
				return i, nil
			})
		}

		_, errs := pool.Wait()
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %v", errs)
		}
		if ran.Load() != 1 {
			t.Errorf("expected only the failing job to run, %d ran", ran.Load())
		}
	})

	t.Run("panics become errors", func(t *testing.T) {
		pool := NewWorkerPool[int](ctx, 2, false)
		pool.Submit("boom", func(context.Context) (int, error) {
			panic("parser exploded")
		})
		pool.Submit("fine", func(context.Context) (int, error) { return 1, nil })

		results, errs := pool.Wait()
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %v", errs)
		}
		if !strings.Contains(errs[0].Error(), "parser exploded") {
			t.Errorf("panic value missing from error: %v", errs[0])
		}
		if len(results) != 1 || results[0].Key != "fine" {
			t.Errorf("results: got %+v", results)
		}
	})
}

func TestWorkerPool_Cancel(t *testing.T) {
	t.Run("cancel before submit", func(t *testing.T) {
		pool := NewWorkerPool[int](context.Background(), 2, false)
		pool.Cancel()

		executed := false
		pool.Submit("", func(context.Context) (int, error) {
			executed = true
			return 0, nil
		})

		results, _ := pool.Wait()
		if executed {
			t.Error("job ran after cancel")
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})

	t.Run("cancel with context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		pool := NewWorkerPool[int](ctx, 1, false)

		started := make(chan struct{})
		pool.Submit("slow", func(jobCtx context.Context) (int, error) {
			close(started)
			<-jobCtx.Done()
			return 0, jobCtx.Err()
		})
		<-started
		cancel()

		_, errs := pool.Wait()
		if len(errs) != 1 || !errors.Is(errs[0], context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", errs)
		}
	})
}

func TestWorkerPool_Duration(t *testing.T) {
	pool := NewWorkerPool[int](context.Background(), 1, false)
	pool.Submit("sleepy", func(context.Context) (int, error) {
		time.Sleep(20 * time.Millisecond)
		return 0, nil
	})

	results, _ := pool.Wait()
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Duration < 20*time.Millisecond {
		t.Errorf("expected duration >= 20ms, got %v", results[0].Duration)
	}
}

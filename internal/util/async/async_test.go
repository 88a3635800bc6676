package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func failedOf(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

func TestRunAll_Success(t *testing.T) {
	var count atomic.Int32

	tasks := []Task{
		{Name: "task1", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
		{Name: "task2", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
		{Name: "task3", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
	}

	results := RunAll(context.Background(), tasks, 0)
	if len(failedOf(results)) != 0 {
		t.Errorf("expected no failures, got: %v", results)
	}
	if count.Load() != 3 {
		t.Errorf("expected 3 tasks to run, got %d", count.Load())
	}
}

func TestRunAll_EmptyTasks(t *testing.T) {
	if results := RunAll(context.Background(), nil, 2); len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestRunAll_ContinuesAfterFailure(t *testing.T) {
	expectedErr := errors.New("task failed")
	var completed atomic.Int32

	tasks := []Task{
		{Name: "failing", Func: func(_ context.Context) error {
			return expectedErr
		}},
		{Name: "slow-success", Func: func(_ context.Context) error {
			time.Sleep(20 * time.Millisecond)
			completed.Add(1)
			return nil
		}},
		{Name: "success", Func: func(_ context.Context) error {
			completed.Add(1)
			return nil
		}},
	}

	results := RunAll(context.Background(), tasks, 1)

	if completed.Load() != 2 {
		t.Errorf("expected 2 tasks to complete, got %d", completed.Load())
	}
	failed := failedOf(results)
	if len(failed) != 1 || failed[0].Name != "failing" {
		t.Fatalf("expected only the failing task to fail, got %v", failed)
	}
	if !errors.Is(failed[0].Err, expectedErr) {
		t.Errorf("expected %v, got %v", expectedErr, failed[0].Err)
	}
}

func TestRunAll_ResultsInTaskOrder(t *testing.T) {
	tasks := []Task{
		{Name: "slow", Func: func(_ context.Context) error {
			time.Sleep(30 * time.Millisecond)
			return nil
		}},
		{Name: "fast", Func: func(_ context.Context) error { return nil }},
	}

	results := RunAll(context.Background(), tasks, 0)
	if results[0].Name != "slow" || results[1].Name != "fast" {
		t.Errorf("unexpected order: %v", results)
	}
}

func TestRunAll_RespectsLimit(t *testing.T) {
	var maxConcurrent atomic.Int32
	var current atomic.Int32

	tasks := make([]Task, 6)
	for i := range tasks {
		tasks[i] = Task{
			Name: "task",
			Func: func(_ context.Context) error {
				c := current.Add(1)
				for {
					old := maxConcurrent.Load()
					if c <= old || maxConcurrent.CompareAndSwap(old, c) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				current.Add(-1)
				return nil
			},
		}
	}

	RunAll(context.Background(), tasks, 2)

	if maxConcurrent.Load() > 2 {
		t.Errorf("expected at most 2 concurrent tasks, got %d", maxConcurrent.Load())
	}
}

func TestRunAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed atomic.Bool
	results := RunAll(ctx, []Task{{Name: "task", Func: func(_ context.Context) error {
		executed.Store(true)
		return nil
	}}}, 0)

	if executed.Load() {
		t.Error("task must not run with a cancelled context")
	}
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", results[0].Err)
	}
}

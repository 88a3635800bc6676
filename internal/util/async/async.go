package async

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Result is the outcome of one task.
type Result struct {
	Name string
	Err  error
}

// RunAll executes all tasks with at most limit running at once and waits for
// every one of them. A failing task does not cancel the others. Results are
// returned in task order. A limit below 1 means unbounded.
//
// Example:
//
//	results := RunAll(ctx, []Task{
//	    {Name: "agent-a", Func: releaseA},
//	    {Name: "agent-b", Func: releaseB},
//	}, 4)
func RunAll(ctx context.Context, tasks []Task, limit int) []Result {
	results := make([]Result, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = task.Func(ctx)
			}
			results[i] = Result{Name: task.Name, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

package resolvers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is one field to resolve, typically a sibling of other tasks under the
// same parent.
type Task struct {
	Name    string
	Resolve func(ctx context.Context) ([]any, error)
}

// Result holds what a task resolved to. Values may be set together with Err
// when a plural field was resolved partially.
type Result struct {
	Name   string
	Values []any
	Err    error
}

// ResolveAll runs tasks concurrently using the default limit.
func ResolveAll(ctx context.Context, tasks []Task) ([]Result, error) {
	return resolveAll(ctx, DefaultMaxConcurrentFields, tasks)
}

// ResolveAll runs tasks concurrently, at most the configured number at a time.
func (r *Resolver) ResolveAll(ctx context.Context, tasks []Task) ([]Result, error) {
	return resolveAll(ctx, r.maxConcurrent, tasks)
}

// resolveAll returns one result per task in task order. A failing task never
// stops its siblings. Only a cancelled context aborts the whole batch, in
// which case no results are returned.
func resolveAll(ctx context.Context, limit int, tasks []Task) ([]Result, error) {
	results := make([]Result, len(tasks))

	g := errgroup.Group{}
	g.SetLimit(limit)

	for idx, task := range tasks {
		g.Go(func() error {
			results[idx].Name = task.Name

			if err := ctx.Err(); err != nil {
				results[idx].Err = err
				return nil
			}

			results[idx].Values, results[idx].Err = task.Resolve(ctx)
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

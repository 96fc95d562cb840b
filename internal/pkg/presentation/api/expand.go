package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/diwise/property-graph/internal/pkg/application/resolvers"
	pgerrors "github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
)

// FieldError reports a relation that failed to resolve, fully or partially,
// without failing its siblings.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type Envelope struct {
	Data   any          `json:"data"`
	Errors []FieldError `json:"errors,omitempty"`
}

type expander struct {
	resolver *resolvers.Resolver

	mu   sync.Mutex
	errs []FieldError
}

func (e *expander) report(path string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.errs = append(e.errs, FieldError{
		Path:    path,
		Message: err.Error(),
		Code:    pgerrors.Code(err),
	})
}

// expand renders value as a JSON object and resolves the selected relations
// below it, siblings concurrently.
func (e *expander) expand(ctx context.Context, kind records.Kind, value any, sel *selection, path string) (map[string]any, error) {
	obj, err := toObject(value)
	if err != nil {
		return nil, err
	}

	names := sel.names()
	if len(names) == 0 {
		return obj, nil
	}

	fields := make([]resolvers.Field, len(names))
	tasks := make([]resolvers.Task, len(names))

	for idx, name := range names {
		f, ok := e.resolver.Field(kind, name)
		if !ok {
			return nil, pgerrors.NewUnknownFieldError(kind.String(), name)
		}

		child := sel.children[name]
		fields[idx] = f
		tasks[idx] = resolvers.Task{
			Name: name,
			Resolve: func(ctx context.Context) ([]any, error) {
				return f.Resolve(ctx, value, child.args)
			},
		}
	}

	results, err := e.resolver.ResolveAll(ctx, tasks)
	if err != nil {
		return nil, err
	}

	for idx, res := range results {
		childPath := path + "." + res.Name

		rendered, err := e.render(ctx, fields[idx], res, sel.children[res.Name], childPath)
		if err != nil {
			return nil, err
		}

		obj[res.Name] = rendered
	}

	return obj, nil
}

// render turns the result of one field into its JSON value. A failed singular
// field renders as null, a failed plural field as whatever part of it could be
// resolved.
func (e *expander) render(ctx context.Context, f resolvers.Field, res resolvers.Result, sel *selection, path string) (any, error) {
	if res.Err != nil {
		e.report(path, res.Err)
	}

	if !f.Plural {
		if len(res.Values) == 0 {
			return nil, nil
		}
		return e.expand(ctx, f.Target, res.Values[0], sel, path)
	}

	list := make([]any, 0, len(res.Values))
	for idx, v := range res.Values {
		obj, err := e.expand(ctx, f.Target, v, sel, fmt.Sprintf("%s[%d]", path, idx))
		if err != nil {
			return nil, err
		}
		list = append(list, obj)
	}

	return list, nil
}

func toObject(value any) (map[string]any, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	obj := map[string]any{}

	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.UseNumber()

	if err = decoder.Decode(&obj); err != nil {
		return nil, err
	}

	return obj, nil
}

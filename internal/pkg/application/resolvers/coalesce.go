package resolvers

import (
	"context"
	"sync"

	"github.com/diwise/property-graph/internal/pkg/infrastructure/sources"
	"github.com/diwise/property-graph/pkg/records"
	"golang.org/x/sync/singleflight"
)

type requestCacheKey struct{}

// requestCache coalesces identical raw fetches issued while resolving a single
// request. It lives only as long as the request context.
type requestCache struct {
	group singleflight.Group

	mu   sync.Mutex
	rows map[string][]records.Row
}

// NewRequestContext returns a context carrying a fresh fetch cache. Identical
// fetches made with the returned context, concurrently or one after another,
// reach the source once.
func NewRequestContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestCacheKey{}, &requestCache{
		rows: map[string][]records.Row{},
	})
}

func requestCacheFrom(ctx context.Context) *requestCache {
	rc, _ := ctx.Value(requestCacheKey{}).(*requestCache)
	return rc
}

func (c *requestCache) query(ctx context.Context, src sources.Source, kind records.Kind, filter records.Filter) ([]records.Row, error) {
	key := kind.String() + "?" + filter.Key()

	c.mu.Lock()
	rows, ok := c.rows[key]
	c.mu.Unlock()

	if ok {
		return rows, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		c.mu.Lock()
		rows, ok := c.rows[key]
		c.mu.Unlock()

		if ok {
			return rows, nil
		}

		rows, err := src.Query(ctx, kind, filter)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.rows[key] = rows
		c.mu.Unlock()

		return rows, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]records.Row), nil
	}
}

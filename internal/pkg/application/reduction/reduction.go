// Package reduction turns raw rows, or groups of raw rows, into canonical
// entities.
package reduction

import (
	"errors"
	"fmt"

	"github.com/diwise/property-graph/internal/pkg/application/grouping"
	"github.com/diwise/property-graph/pkg/records"
)

type RowReducerFunc[E any] func(row records.Row) (E, error)

type GroupReducerFunc[E any] func(rows []records.Row) (E, error)

// All reduces every row in order. Rows that fail to reduce are left out of the
// result and their errors are joined, so callers get a partial result
// together with a non nil error.
func All[E any](rows []records.Row, reduce RowReducerFunc[E]) ([]E, error) {
	result := make([]E, 0, len(rows))
	var errs []error

	for idx, row := range rows {
		e, err := reduce(row)
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", idx, err))
			continue
		}
		result = append(result, e)
	}

	return result, errors.Join(errs...)
}

// Groups reduces every group of a partition in group order. Groups without a
// derivable key are reported as errors and never reduced.
func Groups[E any](groups grouping.Groups, reduce GroupReducerFunc[E]) ([]E, error) {
	result := make([]E, 0, groups.Len())
	var errs []error

	for _, group := range groups.All() {
		if group.Err != nil {
			errs = append(errs, group.Err)
			continue
		}

		e, err := reduce(group.Rows)
		if err != nil {
			errs = append(errs, fmt.Errorf("group %s: %w", group.Key, err))
			continue
		}
		result = append(result, e)
	}

	return result, errors.Join(errs...)
}

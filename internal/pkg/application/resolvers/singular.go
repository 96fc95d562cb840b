package resolvers

import (
	"github.com/diwise/property-graph/internal/pkg/application/reduction"
	"github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
)

// ResolveSingular reduces the first of rows. No rows resolves to the zero
// value of E, the empty placeholder of its kind. Any rows after the first are
// ignored.
func ResolveSingular[E any](rows []records.Row, reduce reduction.RowReducerFunc[E]) (E, error) {
	var empty E

	if len(rows) == 0 {
		return empty, nil
	}

	return reduce(rows[0])
}

// ResolveSingularStrict behaves like ResolveSingular but fails with an
// AmbiguousRelation error when more than one row is found.
func ResolveSingularStrict[E any](relation string, rows []records.Row, reduce reduction.RowReducerFunc[E]) (E, error) {
	if len(rows) > 1 {
		var empty E
		return empty, errors.NewAmbiguousRelationError(relation, len(rows))
	}

	return ResolveSingular(rows, reduce)
}

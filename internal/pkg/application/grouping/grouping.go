package grouping

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/diwise/property-graph/pkg/enums"
	"github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
)

// Key is the identity of a canonical entity, derived from raw row fields.
type Key string

// KeyFunc derives the identity key of a raw row. It must be a pure function of
// the row's fields.
type KeyFunc func(row records.Row) (Key, error)

type Group struct {
	Key  Key
	Rows []records.Row
	// Err is set when the key could not be derived. Such a group always holds
	// exactly one row and must not be reduced into an entity.
	Err error
}

// Groups is the partition of a batch of raw rows. Groups are kept in the
// order their first row was seen, rows within a group in input order.
type Groups struct {
	order  []Key
	groups map[Key]*Group
}

// Partition places every row into exactly one group. Rows whose key cannot be
// derived end up in a singleton group keyed by their position and raw value,
// carrying the key error.
func Partition(rows []records.Row, keyOf KeyFunc) Groups {
	g := Groups{
		order:  make([]Key, 0, len(rows)),
		groups: make(map[Key]*Group, len(rows)),
	}

	for idx, row := range rows {
		key, err := keyOf(row)
		if err != nil {
			key = Key(fmt.Sprintf("raw:%d:%s", idx, row.Canonical()))
		}

		if group, ok := g.groups[key]; ok {
			group.Rows = append(group.Rows, row)
			continue
		}

		g.order = append(g.order, key)
		g.groups[key] = &Group{Key: key, Rows: []records.Row{row}, Err: err}
	}

	return g
}

func (g Groups) Len() int {
	return len(g.order)
}

func (g Groups) Keys() []Key {
	keys := make([]Key, len(g.order))
	copy(keys, g.order)
	return keys
}

func (g Groups) Get(key Key) (Group, bool) {
	group, ok := g.groups[key]
	if !ok {
		return Group{}, false
	}
	return *group, true
}

func (g Groups) All() []Group {
	all := make([]Group, 0, len(g.order))
	for _, key := range g.order {
		all = append(all, *g.groups[key])
	}
	return all
}

// ByBoroughBlockLot keys rows by their normalized borough, block and lot.
// Borough spellings known to the table (names or numeric codes) collapse to
// the same key.
func ByBoroughBlockLot(boroughs enums.Table) KeyFunc {
	return func(row records.Row) (Key, error) {
		borough, err := normalizedBorough(boroughs, row, records.KindProperty)
		if err != nil {
			return "", err
		}

		block, err := required(row, records.FieldBlock, records.KindProperty)
		if err != nil {
			return "", err
		}

		lot, err := required(row, records.FieldLot, records.KindProperty)
		if err != nil {
			return "", err
		}

		return Key(fmt.Sprintf("v%d:bbl:%s/%s/%s",
			records.ShapeOf(records.KindProperty).KeyVersion,
			borough, records.TrimLeadingZeros(block), records.TrimLeadingZeros(lot),
		)), nil
	}
}

// ByAddress keys rows by normalized street number, street name and borough.
func ByAddress(boroughs enums.Table) KeyFunc {
	return func(row records.Row) (Key, error) {
		borough, err := normalizedBorough(boroughs, row, records.KindProperty)
		if err != nil {
			return "", err
		}

		number, err := required(row, records.FieldStreetNumber, records.KindProperty)
		if err != nil {
			return "", err
		}

		street, err := required(row, records.FieldStreetName, records.KindProperty)
		if err != nil {
			return "", err
		}

		return Key(fmt.Sprintf("v%d:address:%s/%s/%s",
			records.ShapeOf(records.KindProperty).KeyVersion,
			borough, NormalizeStreet(number), NormalizeStreet(street),
		)), nil
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeStreet upper cases a street number or name and collapses runs of
// whitespace.
func NormalizeStreet(s string) string {
	return whitespace.ReplaceAllString(strings.ToUpper(strings.TrimSpace(s)), " ")
}

func normalizedBorough(boroughs enums.Table, row records.Row, kind records.Kind) (string, error) {
	raw, err := required(row, records.FieldBorough, kind)
	if err != nil {
		return "", err
	}

	return boroughs.Lookup(strings.ToUpper(raw))
}

func required(row records.Row, field string, kind records.Kind) (string, error) {
	if !row.Has(field) {
		return "", errors.NewMalformedRowError(string(kind), fmt.Sprintf("identity field %q is missing", field))
	}
	return strings.TrimSpace(row.String(field)), nil
}


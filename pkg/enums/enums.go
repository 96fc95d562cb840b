package enums

import (
	"sort"

	"github.com/diwise/property-graph/pkg/errors"
)

// Entry maps a raw storage value to a schema constant.
type Entry struct {
	Raw   string `json:"raw"`
	Value string `json:"value"`
}

// Table is a closed, immutable mapping between raw storage values and schema
// constants. Canonical entries map both ways, aliases only from raw to schema.
type Table struct {
	name    string
	entries []Entry
	forward map[string]string
	reverse map[string]string
}

type TableDecoratorFunc func(t *Table)

// Alias adds an extra raw spelling for an existing schema constant.
func Alias(raw, value string) TableDecoratorFunc {
	return func(t *Table) {
		t.forward[raw] = value
	}
}

func NewTable(name string, entries []Entry, decorators ...TableDecoratorFunc) Table {
	t := Table{
		name:    name,
		entries: make([]Entry, 0, len(entries)),
		forward: make(map[string]string, len(entries)),
		reverse: make(map[string]string, len(entries)),
	}

	for _, e := range entries {
		t.entries = append(t.entries, e)
		t.forward[e.Raw] = e.Value
		t.reverse[e.Value] = e.Raw
	}

	for _, decorate := range decorators {
		decorate(&t)
	}

	return t
}

func (t Table) Name() string {
	return t.name
}

// Lookup maps a raw storage value to its schema constant. Values without a
// mapping are never passed through.
func (t Table) Lookup(raw string) (string, error) {
	value, ok := t.forward[raw]
	if !ok {
		return "", errors.NewUnknownEnumValueError(t.name, raw)
	}
	return value, nil
}

// Raw maps a schema constant back to its canonical raw storage value.
func (t Table) Raw(value string) (string, error) {
	raw, ok := t.reverse[value]
	if !ok {
		return "", errors.NewUnknownEnumValueError(t.name, value)
	}
	return raw, nil
}

// Values returns the schema constants in declaration order.
func (t Table) Values() []string {
	values := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		values = append(values, e.Value)
	}
	return values
}

func (t Table) Entries() []Entry {
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Aliases returns the raw spellings that map to a constant without being its
// canonical raw value, sorted.
func (t Table) Aliases() []Entry {
	aliases := []Entry{}
	for raw, value := range t.forward {
		if t.reverse[value] != raw {
			aliases = append(aliases, Entry{Raw: raw, Value: value})
		}
	}

	sort.Slice(aliases, func(i, j int) bool { return aliases[i].Raw < aliases[j].Raw })

	return aliases
}

// Tables bundles the enum tables used by the reduction engine.
type Tables struct {
	Borough                Table
	ViolationCurrentStatus Table
	ViolationClass         Table
}

func (ts Tables) All() []Table {
	return []Table{ts.Borough, ts.ViolationClass, ts.ViolationCurrentStatus}
}

// Default builds a fresh set of the production enum tables.
func Default() Tables {
	return Tables{
		Borough:                NewBoroughTable(),
		ViolationCurrentStatus: NewViolationCurrentStatusTable(),
		ViolationClass:         NewViolationClassTable(),
	}
}

package enums

import (
	"errors"
	"testing"

	pgerrors "github.com/diwise/property-graph/pkg/errors"
	"github.com/matryer/is"
)

func TestEveryConstantRoundTrips(t *testing.T) {
	is := is.New(t)

	for _, table := range Default().All() {
		for _, value := range table.Values() {
			raw, err := table.Raw(value)
			is.NoErr(err)

			back, err := table.Lookup(raw)
			is.NoErr(err)
			is.Equal(back, value) // schema -> raw -> schema should be the identity
		}
	}
}

func TestUnknownRawValueIsRejected(t *testing.T) {
	is := is.New(t)

	_, err := NewViolationCurrentStatusTable().Lookup("VIOLATION-OPEN")

	is.True(errors.Is(err, pgerrors.ErrUnknownEnumValue))
}

func TestBoroughAliasesMapForwardOnly(t *testing.T) {
	is := is.New(t)
	boroughs := NewBoroughTable()

	value, err := boroughs.Lookup("3")
	is.NoErr(err)
	is.Equal(value, Brooklyn)

	raw, err := boroughs.Raw(Brooklyn)
	is.NoErr(err)
	is.Equal(raw, "BROOKLYN") // reverse mapping should use the canonical raw value

	is.Equal(len(boroughs.Aliases()), 5)
	is.Equal(boroughs.Aliases()[0], Entry{Raw: "1", Value: Manhattan})
}

func TestTablesCanBeSubstituted(t *testing.T) {
	is := is.New(t)

	tables := Default()
	tables.ViolationClass = NewTable(ViolationClassTableName, []Entry{{Raw: "X", Value: "EXPERIMENTAL"}})

	_, err := tables.ViolationClass.Lookup("A")
	is.True(err != nil) // substituted table should not know the default classes

	value, err := tables.ViolationClass.Lookup("X")
	is.NoErr(err)
	is.Equal(value, "EXPERIMENTAL")

	_, err = Default().ViolationClass.Lookup("A")
	is.NoErr(err) // default tables should be unaffected
}

func TestViolationStatusTableIsComplete(t *testing.T) {
	is := is.New(t)
	is.Equal(len(NewViolationCurrentStatusTable().Values()), 20)
}

package grouping

import (
	"errors"
	"testing"

	"github.com/diwise/property-graph/pkg/enums"
	pgerrors "github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
	"github.com/matryer/is"
)

func TestRowsWithSameBoroughBlockLotShareAGroup(t *testing.T) {
	is := is.New(t)

	groups := Partition([]records.Row{
		{"borough": "MANHATTAN", "block": "1", "lot": "1", "docId": "D1"},
		{"borough": "MANHATTAN", "block": "1", "lot": "1", "docId": "D2"},
	}, ByBoroughBlockLot(enums.NewBoroughTable()))

	is.Equal(groups.Len(), 1) // both rows should end up in a single group

	group := groups.All()[0]
	is.NoErr(group.Err)
	is.Equal(len(group.Rows), 2)
	is.Equal(group.Rows[0].String("docId"), "D1") // input order should be kept within a group
	is.Equal(group.Rows[1].String("docId"), "D2")
}

func TestBoroughCodesAndPaddedNumbersNormalize(t *testing.T) {
	is := is.New(t)
	keyOf := ByBoroughBlockLot(enums.NewBoroughTable())

	k1, err := keyOf(records.Row{"borough": "1", "block": "00012", "lot": "0007"})
	is.NoErr(err)
	k2, err := keyOf(records.Row{"borough": "manhattan", "block": "12", "lot": "7"})
	is.NoErr(err)

	is.Equal(k1, k2)
	is.Equal(k1, Key("v1:bbl:MANHATTAN/12/7"))
}

func TestPartitionIsDeterministic(t *testing.T) {
	is := is.New(t)

	rows := fixture()
	keyOf := ByBoroughBlockLot(enums.NewBoroughTable())

	first := Partition(rows, keyOf)
	second := Partition(rows, keyOf)

	is.Equal(first.Keys(), second.Keys())
	for _, key := range first.Keys() {
		a, _ := first.Get(key)
		b, _ := second.Get(key)
		is.Equal(a.Rows, b.Rows)
	}
}

func TestPartitionIsTotal(t *testing.T) {
	is := is.New(t)

	rows := fixture()
	groups := Partition(rows, ByBoroughBlockLot(enums.NewBoroughTable()))

	seen := map[string]int{}
	total := 0
	for _, group := range groups.All() {
		for _, row := range group.Rows {
			seen[row.String("docId")]++
			total++
		}
	}

	is.Equal(total, len(rows)) // no row should be lost or duplicated
	for _, row := range rows {
		is.Equal(seen[row.String("docId")], 1)
	}
}

func TestRowsWithoutIdentityGetSingletonGroups(t *testing.T) {
	is := is.New(t)

	malformed := records.Row{"borough": "MANHATTAN", "block": "1", "docId": "X"}
	groups := Partition([]records.Row{malformed, malformed}, ByBoroughBlockLot(enums.NewBoroughTable()))

	is.Equal(groups.Len(), 2) // identical malformed rows should still get a group each

	for _, group := range groups.All() {
		is.Equal(len(group.Rows), 1)
		is.True(errors.Is(group.Err, pgerrors.ErrMalformedRow))
	}
}

func TestUnknownBoroughIsAnUnknownEnumValue(t *testing.T) {
	is := is.New(t)

	groups := Partition([]records.Row{{"borough": "NEWARK", "block": "1", "lot": "1"}}, ByBoroughBlockLot(enums.NewBoroughTable()))

	is.True(errors.Is(groups.All()[0].Err, pgerrors.ErrUnknownEnumValue))
}

func TestByAddressNormalizesStreetNames(t *testing.T) {
	is := is.New(t)
	keyOf := ByAddress(enums.NewBoroughTable())

	k1, err := keyOf(records.Row{"borough": "BROOKLYN", "streetNumber": "123", "streetName": "  Atlantic   Avenue "})
	is.NoErr(err)
	k2, err := keyOf(records.Row{"borough": "3", "streetNumber": "123", "streetName": "ATLANTIC AVENUE"})
	is.NoErr(err)

	is.Equal(k1, k2)
}

func fixture() []records.Row {
	return []records.Row{
		{"borough": "MANHATTAN", "block": "1", "lot": "1", "docId": "D1"},
		{"borough": "BRONX", "block": "20", "lot": "3", "docId": "D2"},
		{"borough": "1", "block": "0001", "lot": "01", "docId": "D3"},
		{"borough": "BRONX", "block": "20", "lot": "3", "docId": "D4"},
		{"block": "20", "lot": "3", "docId": "D5"},
		{"borough": "QUEENS", "block": "9", "lot": "9", "docId": "D6"},
	}
}

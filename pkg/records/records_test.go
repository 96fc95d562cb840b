package records

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	pgerrors "github.com/diwise/property-graph/pkg/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matryer/is"
)

func TestRowAccessorsTolerateStoreRepresentations(t *testing.T) {
	is := is.New(t)

	row := Row{
		"fromSocrata":  "1250000.50",
		"fromPostgres": float64(1250000.5),
		"count":        json.Number("42"),
		"flag":         "Y",
		"when":         "2021-03-04T00:00:00.000",
		"blank":        "   ",
	}

	f1, ok := row.Float("fromSocrata")
	is.True(ok)
	f2, _ := row.Float("fromPostgres")
	is.Equal(f1, f2)

	count, ok := row.Int("count")
	is.True(ok)
	is.Equal(count, int64(42))

	flag, ok := row.Bool("flag")
	is.True(ok && flag)

	when, ok := row.Time("when")
	is.True(ok)
	is.Equal(when, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC))

	is.True(!row.Has("blank"))   // whitespace only values count as missing
	is.True(!row.Has("missing")) // absent values count as missing
	is.Equal(row.String("fromPostgres"), "1250000.5")
}

func TestStringsSkipsBlanks(t *testing.T) {
	is := is.New(t)

	row := Row{"ids": []any{"D1", "", "D2"}, "single": "D3"}

	is.Equal(row.Strings("ids"), []string{"D1", "D2"})
	is.Equal(row.Strings("single"), []string{"D3"})
	is.Equal(len(row.Strings("missing")), 0)
}

func TestCanonicalIsOrderIndependent(t *testing.T) {
	is := is.New(t)

	a := Row{"block": "1", "borough": "MANHATTAN", "lot": "1"}
	b := Row{"lot": "1", "borough": "MANHATTAN", "block": "1"}

	is.Equal(a.Canonical(), b.Canonical())
	is.Equal(a.Canonical(), "block=1&borough=MANHATTAN&lot=1")
}

func TestRenameMapsStorageColumns(t *testing.T) {
	is := is.New(t)

	row := Row{"document_id": "D1", "crfn": "2019000012345"}.Rename(map[string]string{"document_id": FieldDocumentID})

	is.Equal(row.String(FieldDocumentID), "D1")
	is.Equal(row.String(FieldCRFN), "2019000012345")
}

func TestFilterKeyIsDeterministic(t *testing.T) {
	is := is.New(t)

	f1 := NewFilter(Eq(FieldBorough, "MANHATTAN"), Eq(FieldBlock, "1"), In(FieldDocumentID, []string{"D1", "D2"}))
	f2 := NewFilter(In(FieldDocumentID, []string{"D1", "D2"}), Eq(FieldBlock, "1"), Eq(FieldBorough, "MANHATTAN"))

	is.Equal(f1.Key(), f2.Key())
	is.True(f1.Key() != f1.With(Eq(FieldLot, "7")).Key()) // different filters should have different keys
}

func TestFilterWithDoesNotMutateOriginal(t *testing.T) {
	is := is.New(t)

	f := NewFilter(Eq(FieldBorough, "BRONX"))
	g := f.With(Eq(FieldBorough, "QUEENS"), Eq(FieldBlock, "12"))

	is.Equal(f.Equals[FieldBorough], "BRONX")
	is.Equal(g.Equals[FieldBorough], "QUEENS")
	is.Equal(len(f.Equals), 1)
}

func TestFilterMatches(t *testing.T) {
	is := is.New(t)

	row := Row{FieldDocumentID: "D1", FieldName: "Jane Q Public", FieldBorough: "manhattan"}

	is.True(NewFilter(Eq(FieldBorough, "MANHATTAN")).Matches(row))
	is.True(NewFilter(Contains(FieldName, "q pub")).Matches(row))
	is.True(NewFilter(In(FieldDocumentID, []string{"D0", "D1"})).Matches(row))
	is.True(!NewFilter(In(FieldDocumentID, []string{})).Matches(row)) // empty In list should match nothing
	is.True(NewFilter(In(FieldDocumentID, nil)).MatchesNothing())
	is.True(NewFilter(Eq(FieldBorough, "")).IsEmpty()) // blank Eq values should be ignored
}

func TestShapeValidation(t *testing.T) {
	is := is.New(t)

	err := ShapeOf(KindProperty).Validate(Row{FieldBorough: "MANHATTAN", FieldBlock: "1"})

	is.True(errors.Is(err, pgerrors.ErrMalformedRow))
	is.Equal(err.Error(), `malformed Property row: required field "lot" is missing`)

	is.NoErr(ShapeOf(KindProperty).Validate(Row{FieldBorough: "MANHATTAN", FieldBlock: "1", FieldLot: "1"}))
}

func TestRowAccessorsDecodeDatabaseValues(t *testing.T) {
	is := is.New(t)

	id := uuid.New()

	row := Row{
		"fullMarketValue": pgtype.Numeric{Int: big.NewInt(125000050), Exp: -2, Valid: true},
		"block":           pgtype.Numeric{Int: big.NewInt(1), Valid: true},
		"lotDepth":        pgtype.Numeric{},
		"ownerName":       pgtype.Text{String: "JANE DOE", Valid: true},
		"registrationId":  [16]byte(id),
	}

	value, ok := row.Float("fullMarketValue")
	is.True(ok) // a numeric column should not be reported as absent
	is.Equal(value, 1250000.5)

	is.Equal(row.String("block"), "1")
	block, ok := row.Int("block")
	is.True(ok)
	is.Equal(block, int64(1))

	is.True(!row.Has("lotDepth")) // a NULL numeric should be absent
	_, ok = row.Float("lotDepth")
	is.True(!ok)

	is.Equal(row.String("ownerName"), "JANE DOE")
	is.Equal(row.String("registrationId"), id.String())
}

func TestTrimLeadingZeros(t *testing.T) {
	is := is.New(t)

	is.Equal(TrimLeadingZeros("0001"), "1")
	is.Equal(TrimLeadingZeros("0000"), "0")
	is.Equal(TrimLeadingZeros("1200"), "1200")
	is.Equal(TrimLeadingZeros(""), "")
}

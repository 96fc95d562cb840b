package entities

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

func TestZeroValuesMarshalAsEmptyObjects(t *testing.T) {
	is := is.New(t)

	for _, e := range []any{
		Property{}, Document{}, Party{}, HousingMaintenanceCodeViolation{},
		HpdJurisdictionData{}, RegistrationContact{}, ValuationAndAssessmentData{},
		TaxClassData{}, DocumentType{}, PropertyType{},
	} {
		b, err := json.Marshal(e)
		is.NoErr(err)
		is.Equal(string(b), "{}") // zero value should be the empty placeholder
		is.True(IsEmpty(e))
	}
}

func TestEmbeddedIdentityIsFlattened(t *testing.T) {
	is := is.New(t)

	p := Property{
		BoroughBlockLot: BoroughBlockLot{Borough: "MANHATTAN", Block: "1", Lot: "1"},
		DocumentIDs:     []string{"D1", "D2"},
	}

	b, err := json.Marshal(p)
	is.NoErr(err)
	is.Equal(string(b), `{"borough":"MANHATTAN","block":"1","lot":"1","documentIds":["D1","D2"]}`)
	is.True(!p.IsEmpty())
}

func TestIsEmptyHandlesPointers(t *testing.T) {
	is := is.New(t)

	var d *Document
	is.True(IsEmpty(d))
	is.True(IsEmpty(&Document{}))
	is.True(!IsEmpty(&Document{ID: "D1"}))
}

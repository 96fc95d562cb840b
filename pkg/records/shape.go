package records

import (
	"fmt"

	"github.com/diwise/property-graph/pkg/errors"
)

// Shape describes which raw fields of a kind form its identity and which
// must be present for a row to be reduced. KeyVersion changes whenever the
// identity fields change so that stored keys can be told apart.
type Shape struct {
	Kind       Kind
	KeyVersion int
	Identity   []string
	Required   []string
}

var bbl = []string{FieldBorough, FieldBlock, FieldLot}

func ShapeOf(kind Kind) Shape {
	switch kind {
	case KindProperty:
		return Shape{Kind: kind, KeyVersion: 1, Identity: bbl, Required: bbl}
	case KindDocument:
		return Shape{Kind: kind, KeyVersion: 1, Identity: []string{FieldDocumentID}, Required: []string{FieldDocumentID}}
	case KindParty:
		return Shape{Kind: kind, KeyVersion: 1,
			Identity: []string{FieldDocumentID, FieldPartyType, FieldName},
			Required: []string{FieldDocumentID, FieldName},
		}
	case KindHousingMaintenanceCodeViolation:
		return Shape{Kind: kind, KeyVersion: 1,
			Identity: []string{FieldViolationID},
			Required: []string{FieldViolationID, FieldCurrentStatus},
		}
	case KindHpdJurisdictionData:
		return Shape{Kind: kind, KeyVersion: 1, Identity: []string{FieldBuildingID}, Required: []string{FieldBuildingID}}
	case KindRegistrationContact:
		return Shape{Kind: kind, KeyVersion: 1,
			Identity: []string{FieldRegistrationContactID},
			Required: []string{FieldRegistrationContactID, FieldRegistrationID},
		}
	case KindValuationAndAssessmentData, KindTaxClassData:
		return Shape{Kind: kind, KeyVersion: 1,
			Identity: []string{FieldBorough, FieldBlock, FieldLot, FieldYear},
			Required: bbl,
		}
	case KindDocumentType:
		return Shape{Kind: kind, KeyVersion: 1, Identity: []string{FieldDocumentType}, Required: []string{FieldDocumentType}}
	case KindPropertyType:
		return Shape{Kind: kind, KeyVersion: 1, Identity: []string{FieldPropertyType}, Required: []string{FieldPropertyType}}
	}

	return Shape{Kind: kind}
}

// Validate fails with a MalformedRow error naming the first required field
// that is missing or blank.
func (s Shape) Validate(row Row) error {
	if row == nil {
		return errors.NewMalformedRowError(string(s.Kind), "row is empty")
	}

	for _, field := range s.Required {
		if !row.Has(field) {
			return errors.NewMalformedRowError(string(s.Kind), fmt.Sprintf("required field %q is missing", field))
		}
	}

	return nil
}

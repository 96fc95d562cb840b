package reduction

import (
	"fmt"
	"strings"
	"time"

	"github.com/diwise/property-graph/pkg/entities"
	"github.com/diwise/property-graph/pkg/enums"
	"github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
)

// Reducers turns raw rows into canonical entities. All methods are pure: they
// perform no I/O, never modify their input and return equal results for equal
// input.
type Reducers struct {
	tables enums.Tables
}

func New(tables enums.Tables) *Reducers {
	return &Reducers{tables: tables}
}

func (r *Reducers) Tables() enums.Tables {
	return r.tables
}

// Property merges all rows of one identity group into a single property.
// Scalar fields are taken from the first row that carries them and document
// ids are deduplicated in the order they were first seen.
func (r *Reducers) Property(rows []records.Row) (entities.Property, error) {
	if len(rows) == 0 {
		return entities.Property{}, errors.NewMalformedRowError(string(records.KindProperty), "no rows to reduce")
	}

	shape := records.ShapeOf(records.KindProperty)
	for _, row := range rows {
		if err := shape.Validate(row); err != nil {
			return entities.Property{}, err
		}
	}

	first := rows[0]

	bbl, err := r.boroughBlockLot(first)
	if err != nil {
		return entities.Property{}, err
	}

	p := entities.Property{
		BoroughBlockLot:    bbl,
		StreetNumber:       firstOf(rows, records.FieldStreetNumber),
		StreetName:         firstOf(rows, records.FieldStreetName),
		Unit:               firstOf(rows, records.FieldUnit),
		PropertyTypeCode:   firstOf(rows, records.FieldPropertyType),
		PartialLot:         firstOf(rows, records.FieldPartialLot),
		Easement:           firstBool(rows, records.FieldEasement),
		AirRights:          firstBool(rows, records.FieldAirRights),
		SubterraneanRights: firstBool(rows, records.FieldSubterraneanRights),
	}

	seen := map[string]struct{}{}
	for _, row := range rows {
		for _, id := range row.Strings(records.FieldDocumentID) {
			id = strings.TrimSpace(id)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			p.DocumentIDs = append(p.DocumentIDs, id)
		}
	}

	return p, nil
}

func (r *Reducers) Document(row records.Row) (entities.Document, error) {
	if err := records.ShapeOf(records.KindDocument).Validate(row); err != nil {
		return entities.Document{}, err
	}

	recordedBorough, err := r.optionalEnum(r.tables.Borough, row, records.FieldRecordedBorough)
	if err != nil {
		return entities.Document{}, err
	}

	return entities.Document{
		ID:                 text(row, records.FieldDocumentID),
		CRFN:               text(row, records.FieldCRFN),
		RecordedBorough:    recordedBorough,
		DocumentTypeCode:   text(row, records.FieldDocumentType),
		DocumentDate:       timestamp(row, records.FieldDocumentDate),
		DocumentAmount:     decimal(row, records.FieldDocumentAmount),
		RecordedDatetime:   timestamp(row, records.FieldRecordedDatetime),
		ModifiedDate:       timestamp(row, records.FieldModifiedDate),
		PercentTransferred: decimal(row, records.FieldPercentTransferred),
		ReelYear:           text(row, records.FieldReelYear),
		ReelNumber:         text(row, records.FieldReelNumber),
		ReelPage:           text(row, records.FieldReelPage),
	}, nil
}

func (r *Reducers) Party(row records.Row) (entities.Party, error) {
	if err := records.ShapeOf(records.KindParty).Validate(row); err != nil {
		return entities.Party{}, err
	}

	return entities.Party{
		DocumentID: text(row, records.FieldDocumentID),
		Type:       text(row, records.FieldPartyType),
		Name:       text(row, records.FieldName),
		Address1:   text(row, records.FieldAddress1),
		Address2:   text(row, records.FieldAddress2),
		Country:    text(row, records.FieldCountry),
		City:       text(row, records.FieldCity),
		State:      text(row, records.FieldState),
		Zip:        text(row, records.FieldZip),
	}, nil
}

func (r *Reducers) HousingMaintenanceCodeViolation(row records.Row) (entities.HousingMaintenanceCodeViolation, error) {
	if err := records.ShapeOf(records.KindHousingMaintenanceCodeViolation).Validate(row); err != nil {
		return entities.HousingMaintenanceCodeViolation{}, err
	}

	bbl, err := r.optionalBoroughBlockLot(row)
	if err != nil {
		return entities.HousingMaintenanceCodeViolation{}, err
	}

	class, err := r.optionalEnum(r.tables.ViolationClass, row, records.FieldClass)
	if err != nil {
		return entities.HousingMaintenanceCodeViolation{}, err
	}

	status, err := r.tables.ViolationCurrentStatus.Lookup(strings.ToUpper(text(row, records.FieldCurrentStatus)))
	if err != nil {
		return entities.HousingMaintenanceCodeViolation{}, err
	}

	return entities.HousingMaintenanceCodeViolation{
		ID:                text(row, records.FieldViolationID),
		BoroughBlockLot:   bbl,
		BuildingID:        text(row, records.FieldBuildingID),
		RegistrationID:    text(row, records.FieldRegistrationID),
		Apartment:         text(row, records.FieldApartment),
		Story:             text(row, records.FieldStory),
		Class:             class,
		InspectionDate:    timestamp(row, records.FieldInspectionDate),
		ApprovedDate:      timestamp(row, records.FieldApprovedDate),
		NOVDescription:    text(row, records.FieldNOVDescription),
		NOVIssuedDate:     timestamp(row, records.FieldNOVIssuedDate),
		CurrentStatusID:   text(row, records.FieldCurrentStatusID),
		CurrentStatus:     status,
		CurrentStatusDate: timestamp(row, records.FieldCurrentStatusDate),
		ViolationStatus:   text(row, records.FieldViolationStatus),
	}, nil
}

func (r *Reducers) HpdJurisdictionData(row records.Row) (entities.HpdJurisdictionData, error) {
	if err := records.ShapeOf(records.KindHpdJurisdictionData).Validate(row); err != nil {
		return entities.HpdJurisdictionData{}, err
	}

	bbl, err := r.optionalBoroughBlockLot(row)
	if err != nil {
		return entities.HpdJurisdictionData{}, err
	}

	return entities.HpdJurisdictionData{
		BuildingID:        text(row, records.FieldBuildingID),
		RegistrationID:    text(row, records.FieldRegistrationID),
		BoroughBlockLot:   bbl,
		HouseNumber:       text(row, records.FieldHouseNumber),
		StreetName:        text(row, records.FieldStreetName),
		Zip:               text(row, records.FieldZip),
		ManagementProgram: text(row, records.FieldManagementProgram),
		DOBBuildingClass:  text(row, records.FieldDOBBuildingClass),
		LegalStories:      integer(row, records.FieldLegalStories),
		LegalClassA:       integer(row, records.FieldLegalClassA),
		LegalClassB:       integer(row, records.FieldLegalClassB),
		LifeCycle:         text(row, records.FieldLifeCycle),
		RecordStatus:      text(row, records.FieldRecordStatus),
	}, nil
}

func (r *Reducers) RegistrationContact(row records.Row) (entities.RegistrationContact, error) {
	if err := records.ShapeOf(records.KindRegistrationContact).Validate(row); err != nil {
		return entities.RegistrationContact{}, err
	}

	return entities.RegistrationContact{
		ID:                  text(row, records.FieldRegistrationContactID),
		RegistrationID:      text(row, records.FieldRegistrationID),
		Type:                text(row, records.FieldContactType),
		ContactDescription:  text(row, records.FieldContactDescription),
		CorporationName:     text(row, records.FieldCorporationName),
		Title:               text(row, records.FieldTitle),
		FirstName:           text(row, records.FieldFirstName),
		MiddleInitial:       text(row, records.FieldMiddleInitial),
		LastName:            text(row, records.FieldLastName),
		BusinessHouseNumber: text(row, records.FieldBusinessHouseNumber),
		BusinessStreetName:  text(row, records.FieldBusinessStreetName),
		BusinessApartment:   text(row, records.FieldBusinessApartment),
		BusinessCity:        text(row, records.FieldBusinessCity),
		BusinessState:       text(row, records.FieldBusinessState),
		BusinessZip:         text(row, records.FieldBusinessZip),
	}, nil
}

func (r *Reducers) ValuationAndAssessmentData(row records.Row) (entities.ValuationAndAssessmentData, error) {
	if err := records.ShapeOf(records.KindValuationAndAssessmentData).Validate(row); err != nil {
		return entities.ValuationAndAssessmentData{}, err
	}

	bbl, err := r.boroughBlockLot(row)
	if err != nil {
		return entities.ValuationAndAssessmentData{}, err
	}

	return entities.ValuationAndAssessmentData{
		BoroughBlockLot: bbl,
		Year:            text(row, records.FieldYear),
		Owner:           text(row, records.FieldOwner),
		BuildingClass:   text(row, records.FieldBuildingClass),
		TaxClass:        text(row, records.FieldTaxClass),
		LotFrontage:     decimal(row, records.FieldLotFrontage),
		LotDepth:        decimal(row, records.FieldLotDepth),
		Stories:         decimal(row, records.FieldStories),
		FullMarketValue: decimal(row, records.FieldFullMarketValue),
		AssessedLand:    decimal(row, records.FieldAssessedLand),
		AssessedTotal:   decimal(row, records.FieldAssessedTotal),
		ExemptLand:      decimal(row, records.FieldExemptLand),
		ExemptTotal:     decimal(row, records.FieldExemptTotal),
	}, nil
}

func (r *Reducers) TaxClassData(row records.Row) (entities.TaxClassData, error) {
	if err := records.ShapeOf(records.KindTaxClassData).Validate(row); err != nil {
		return entities.TaxClassData{}, err
	}

	bbl, err := r.boroughBlockLot(row)
	if err != nil {
		return entities.TaxClassData{}, err
	}

	return entities.TaxClassData{
		BoroughBlockLot:  bbl,
		Year:             text(row, records.FieldYear),
		TaxClass:         text(row, records.FieldTaxClass),
		BuildingClass:    text(row, records.FieldBuildingClass),
		Units:            integer(row, records.FieldUnits),
		ResidentialUnits: integer(row, records.FieldResidentialUnit),
	}, nil
}

func (r *Reducers) DocumentType(row records.Row) (entities.DocumentType, error) {
	if err := records.ShapeOf(records.KindDocumentType).Validate(row); err != nil {
		return entities.DocumentType{}, err
	}

	return entities.DocumentType{
		Code:                 text(row, records.FieldDocumentType),
		Description:          text(row, records.FieldDescription),
		ClassCodeDescription: text(row, records.FieldClassCodeDescription),
		Party1Type:           text(row, records.FieldParty1Type),
		Party2Type:           text(row, records.FieldParty2Type),
		Party3Type:           text(row, records.FieldParty3Type),
	}, nil
}

func (r *Reducers) PropertyType(row records.Row) (entities.PropertyType, error) {
	if err := records.ShapeOf(records.KindPropertyType).Validate(row); err != nil {
		return entities.PropertyType{}, err
	}

	return entities.PropertyType{
		Code:        text(row, records.FieldPropertyType),
		Description: text(row, records.FieldDescription),
	}, nil
}

func (r *Reducers) boroughBlockLot(row records.Row) (entities.BoroughBlockLot, error) {
	borough, err := r.tables.Borough.Lookup(strings.ToUpper(text(row, records.FieldBorough)))
	if err != nil {
		return entities.BoroughBlockLot{}, err
	}

	return entities.BoroughBlockLot{
		Borough: borough,
		Block:   records.TrimLeadingZeros(text(row, records.FieldBlock)),
		Lot:     records.TrimLeadingZeros(text(row, records.FieldLot)),
	}, nil
}

func (r *Reducers) optionalBoroughBlockLot(row records.Row) (entities.BoroughBlockLot, error) {
	borough, err := r.optionalEnum(r.tables.Borough, row, records.FieldBorough)
	if err != nil {
		return entities.BoroughBlockLot{}, err
	}

	return entities.BoroughBlockLot{
		Borough: borough,
		Block:   records.TrimLeadingZeros(text(row, records.FieldBlock)),
		Lot:     records.TrimLeadingZeros(text(row, records.FieldLot)),
	}, nil
}

// optionalEnum maps a field through table when present. A missing value maps
// to the empty string, an unmapped one is an error.
func (r *Reducers) optionalEnum(table enums.Table, row records.Row, field string) (string, error) {
	if !row.Has(field) {
		return "", nil
	}

	value, err := table.Lookup(strings.ToUpper(text(row, field)))
	if err != nil {
		return "", fmt.Errorf("field %s: %w", field, err)
	}

	return value, nil
}

func text(row records.Row, field string) string {
	return strings.TrimSpace(row.String(field))
}

func firstOf(rows []records.Row, field string) string {
	for _, row := range rows {
		if row.Has(field) {
			return text(row, field)
		}
	}
	return ""
}

func firstBool(rows []records.Row, field string) *bool {
	for _, row := range rows {
		if b, ok := row.Bool(field); ok {
			return &b
		}
	}
	return nil
}

func timestamp(row records.Row, field string) *time.Time {
	if t, ok := row.Time(field); ok {
		return &t
	}
	return nil
}

func decimal(row records.Row, field string) *float64 {
	if f, ok := row.Float(field); ok {
		return &f
	}
	return nil
}

func integer(row records.Row, field string) *int64 {
	if i, ok := row.Int(field); ok {
		return &i
	}
	return nil
}

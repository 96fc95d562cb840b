// Package entities contains the canonical, schema shaped entities produced by
// the reduction engine.
//
// Every field is omitted from JSON when unset, so the zero value of each kind
// serializes as an empty object. Singular relations that find no match
// resolve to that zero value, never to null.
package entities

import (
	"reflect"
	"time"
)

type BoroughBlockLot struct {
	Borough string `json:"borough,omitempty"`
	Block   string `json:"block,omitempty"`
	Lot     string `json:"lot,omitempty"`
}

type Property struct {
	BoroughBlockLot
	StreetNumber       string   `json:"streetNumber,omitempty"`
	StreetName         string   `json:"streetName,omitempty"`
	Unit               string   `json:"unit,omitempty"`
	PropertyTypeCode   string   `json:"propertyTypeCode,omitempty"`
	Easement           *bool    `json:"easement,omitempty"`
	PartialLot         string   `json:"partialLot,omitempty"`
	AirRights          *bool    `json:"airRights,omitempty"`
	SubterraneanRights *bool    `json:"subterraneanRights,omitempty"`
	DocumentIDs        []string `json:"documentIds,omitempty"`
}

type Document struct {
	ID                 string     `json:"id,omitempty"`
	CRFN               string     `json:"crfn,omitempty"`
	RecordedBorough    string     `json:"recordedBorough,omitempty"`
	DocumentTypeCode   string     `json:"documentTypeCode,omitempty"`
	DocumentDate       *time.Time `json:"documentDate,omitempty"`
	DocumentAmount     *float64   `json:"documentAmount,omitempty"`
	RecordedDatetime   *time.Time `json:"recordedDatetime,omitempty"`
	ModifiedDate       *time.Time `json:"modifiedDate,omitempty"`
	PercentTransferred *float64   `json:"percentTransferred,omitempty"`
	ReelYear           string     `json:"reelYear,omitempty"`
	ReelNumber         string     `json:"reelNumber,omitempty"`
	ReelPage           string     `json:"reelPage,omitempty"`
}

type Party struct {
	DocumentID string `json:"documentId,omitempty"`
	Type       string `json:"type,omitempty"`
	Name       string `json:"name,omitempty"`
	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	Country    string `json:"country,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Zip        string `json:"zip,omitempty"`
}

type HousingMaintenanceCodeViolation struct {
	ID string `json:"id,omitempty"`
	BoroughBlockLot
	BuildingID        string     `json:"buildingId,omitempty"`
	RegistrationID    string     `json:"registrationId,omitempty"`
	Apartment         string     `json:"apartment,omitempty"`
	Story             string     `json:"story,omitempty"`
	Class             string     `json:"class,omitempty"`
	InspectionDate    *time.Time `json:"inspectionDate,omitempty"`
	ApprovedDate      *time.Time `json:"approvedDate,omitempty"`
	NOVDescription    string     `json:"novDescription,omitempty"`
	NOVIssuedDate     *time.Time `json:"novIssuedDate,omitempty"`
	CurrentStatusID   string     `json:"currentStatusId,omitempty"`
	CurrentStatus     string     `json:"currentStatus,omitempty"`
	CurrentStatusDate *time.Time `json:"currentStatusDate,omitempty"`
	ViolationStatus   string     `json:"violationStatus,omitempty"`
}

type HpdJurisdictionData struct {
	BuildingID     string `json:"buildingId,omitempty"`
	RegistrationID string `json:"registrationId,omitempty"`
	BoroughBlockLot
	HouseNumber       string `json:"houseNumber,omitempty"`
	StreetName        string `json:"streetName,omitempty"`
	Zip               string `json:"zip,omitempty"`
	ManagementProgram string `json:"managementProgram,omitempty"`
	DOBBuildingClass  string `json:"dobBuildingClass,omitempty"`
	LegalStories      *int64 `json:"legalStories,omitempty"`
	LegalClassA       *int64 `json:"legalClassA,omitempty"`
	LegalClassB       *int64 `json:"legalClassB,omitempty"`
	LifeCycle         string `json:"lifeCycle,omitempty"`
	RecordStatus      string `json:"recordStatus,omitempty"`
}

type RegistrationContact struct {
	ID                  string `json:"id,omitempty"`
	RegistrationID      string `json:"registrationId,omitempty"`
	Type                string `json:"type,omitempty"`
	ContactDescription  string `json:"contactDescription,omitempty"`
	CorporationName     string `json:"corporationName,omitempty"`
	Title               string `json:"title,omitempty"`
	FirstName           string `json:"firstName,omitempty"`
	MiddleInitial       string `json:"middleInitial,omitempty"`
	LastName            string `json:"lastName,omitempty"`
	BusinessHouseNumber string `json:"businessHouseNumber,omitempty"`
	BusinessStreetName  string `json:"businessStreetName,omitempty"`
	BusinessApartment   string `json:"businessApartment,omitempty"`
	BusinessCity        string `json:"businessCity,omitempty"`
	BusinessState       string `json:"businessState,omitempty"`
	BusinessZip         string `json:"businessZip,omitempty"`
}

type ValuationAndAssessmentData struct {
	BoroughBlockLot
	Year            string   `json:"year,omitempty"`
	Owner           string   `json:"owner,omitempty"`
	BuildingClass   string   `json:"buildingClass,omitempty"`
	TaxClass        string   `json:"taxClass,omitempty"`
	LotFrontage     *float64 `json:"lotFrontage,omitempty"`
	LotDepth        *float64 `json:"lotDepth,omitempty"`
	Stories         *float64 `json:"stories,omitempty"`
	FullMarketValue *float64 `json:"fullMarketValue,omitempty"`
	AssessedLand    *float64 `json:"assessedLand,omitempty"`
	AssessedTotal   *float64 `json:"assessedTotal,omitempty"`
	ExemptLand      *float64 `json:"exemptLand,omitempty"`
	ExemptTotal     *float64 `json:"exemptTotal,omitempty"`
}

type TaxClassData struct {
	BoroughBlockLot
	Year             string `json:"year,omitempty"`
	TaxClass         string `json:"taxClass,omitempty"`
	BuildingClass    string `json:"buildingClass,omitempty"`
	Units            *int64 `json:"units,omitempty"`
	ResidentialUnits *int64 `json:"residentialUnits,omitempty"`
}

type DocumentType struct {
	Code                 string `json:"code,omitempty"`
	Description          string `json:"description,omitempty"`
	ClassCodeDescription string `json:"classCodeDescription,omitempty"`
	Party1Type           string `json:"party1Type,omitempty"`
	Party2Type           string `json:"party2Type,omitempty"`
	Party3Type           string `json:"party3Type,omitempty"`
}

type PropertyType struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsEmpty reports whether e is the empty placeholder of its kind, i.e. a
// singular relation that resolved to no match.
func IsEmpty(e any) bool {
	if e == nil {
		return true
	}

	v := reflect.ValueOf(e)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}

	return v.IsZero()
}

func (p Property) IsEmpty() bool { return IsEmpty(p) }
func (d Document) IsEmpty() bool { return IsEmpty(d) }
func (p Party) IsEmpty() bool { return IsEmpty(p) }
func (v HousingMaintenanceCodeViolation) IsEmpty() bool { return IsEmpty(v) }
func (h HpdJurisdictionData) IsEmpty() bool { return IsEmpty(h) }
func (r RegistrationContact) IsEmpty() bool { return IsEmpty(r) }
func (v ValuationAndAssessmentData) IsEmpty() bool { return IsEmpty(v) }
func (t TaxClassData) IsEmpty() bool { return IsEmpty(t) }
func (d DocumentType) IsEmpty() bool { return IsEmpty(d) }
func (p PropertyType) IsEmpty() bool { return IsEmpty(p) }

package records

type Kind string

const (
	KindQuery                           Kind = "Query"
	KindProperty                        Kind = "Property"
	KindDocument                        Kind = "Document"
	KindParty                           Kind = "Party"
	KindHousingMaintenanceCodeViolation Kind = "HousingMaintenanceCodeViolation"
	KindHpdJurisdictionData             Kind = "HpdJurisdictionData"
	KindValuationAndAssessmentData      Kind = "ValuationAndAssessmentData"
	KindTaxClassData                    Kind = "TaxClassData"
	KindRegistrationContact             Kind = "RegistrationContact"
	KindDocumentType                    Kind = "DocumentType"
	KindPropertyType                    Kind = "PropertyType"
)

// Kinds lists every entity kind a raw record source can be asked for.
func Kinds() []Kind {
	return []Kind{
		KindProperty,
		KindDocument,
		KindParty,
		KindHousingMaintenanceCodeViolation,
		KindHpdJurisdictionData,
		KindValuationAndAssessmentData,
		KindTaxClassData,
		KindRegistrationContact,
		KindDocumentType,
		KindPropertyType,
	}
}

func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

func (k Kind) String() string {
	return string(k)
}

// Raw field names shared by all backing stores. Connectors rename storage
// columns to these names before rows leave the source.
const (
	FieldBorough            string = "borough"
	FieldBlock              string = "block"
	FieldLot                string = "lot"
	FieldStreetNumber       string = "streetNumber"
	FieldStreetName         string = "streetName"
	FieldUnit               string = "unit"
	FieldPropertyType       string = "propertyType"
	FieldEasement           string = "easement"
	FieldPartialLot         string = "partialLot"
	FieldAirRights          string = "airRights"
	FieldSubterraneanRights string = "subterraneanRights"

	FieldDocumentID         string = "docId"
	FieldCRFN               string = "crfn"
	FieldRecordedBorough    string = "recordedBorough"
	FieldDocumentType       string = "docType"
	FieldDocumentDate       string = "documentDate"
	FieldDocumentAmount     string = "documentAmount"
	FieldRecordedDatetime   string = "recordedDatetime"
	FieldModifiedDate       string = "modifiedDate"
	FieldPercentTransferred string = "percentTrans"
	FieldReelYear           string = "reelYear"
	FieldReelNumber         string = "reelNumber"
	FieldReelPage           string = "reelPage"

	FieldPartyType string = "partyType"
	FieldName      string = "name"
	FieldAddress1  string = "address1"
	FieldAddress2  string = "address2"
	FieldCountry   string = "country"
	FieldCity      string = "city"
	FieldState     string = "state"
	FieldZip       string = "zip"

	FieldViolationID       string = "violationId"
	FieldBuildingID        string = "buildingId"
	FieldRegistrationID    string = "registrationId"
	FieldApartment         string = "apartment"
	FieldStory             string = "story"
	FieldClass             string = "class"
	FieldInspectionDate    string = "inspectionDate"
	FieldApprovedDate      string = "approvedDate"
	FieldNOVDescription    string = "novDescription"
	FieldNOVIssuedDate     string = "novIssuedDate"
	FieldCurrentStatusID   string = "currentStatusId"
	FieldCurrentStatus     string = "currentStatus"
	FieldCurrentStatusDate string = "currentStatusDate"
	FieldViolationStatus   string = "violationStatus"

	FieldHouseNumber       string = "houseNumber"
	FieldManagementProgram string = "managementProgram"
	FieldDOBBuildingClass  string = "dobBuildingClass"
	FieldLegalStories      string = "legalStories"
	FieldLegalClassA       string = "legalClassA"
	FieldLegalClassB       string = "legalClassB"
	FieldLifeCycle         string = "lifeCycle"
	FieldRecordStatus      string = "recordStatus"

	FieldRegistrationContactID string = "registrationContactId"
	FieldContactType           string = "type"
	FieldContactDescription    string = "contactDescription"
	FieldCorporationName       string = "corporationName"
	FieldTitle                 string = "title"
	FieldFirstName             string = "firstName"
	FieldMiddleInitial         string = "middleInitial"
	FieldLastName              string = "lastName"
	FieldBusinessHouseNumber   string = "businessHouseNumber"
	FieldBusinessStreetName    string = "businessStreetName"
	FieldBusinessApartment     string = "businessApartment"
	FieldBusinessCity          string = "businessCity"
	FieldBusinessState         string = "businessState"
	FieldBusinessZip           string = "businessZip"

	FieldYear            string = "year"
	FieldOwner           string = "owner"
	FieldBuildingClass   string = "buildingClass"
	FieldTaxClass        string = "taxClass"
	FieldLotFrontage     string = "lotFrontage"
	FieldLotDepth        string = "lotDepth"
	FieldStories         string = "stories"
	FieldFullMarketValue string = "fullMarketValue"
	FieldAssessedLand    string = "assessedLand"
	FieldAssessedTotal   string = "assessedTotal"
	FieldExemptLand      string = "exemptLand"
	FieldExemptTotal     string = "exemptTotal"
	FieldUnits           string = "units"
	FieldResidentialUnit string = "residentialUnits"

	FieldDescription          string = "description"
	FieldClassCodeDescription string = "classCodeDescription"
	FieldParty1Type           string = "party1Type"
	FieldParty2Type           string = "party2Type"
	FieldParty3Type           string = "party3Type"
)

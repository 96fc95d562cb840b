package enums

const (
	BoroughTableName                string = "Borough"
	ViolationCurrentStatusTableName string = "ViolationCurrentStatus"
	ViolationClassTableName         string = "ViolationClass"
)

const (
	Manhattan    string = "MANHATTAN"
	Bronx        string = "BRONX"
	Brooklyn     string = "BROOKLYN"
	Queens       string = "QUEENS"
	StatenIsland string = "STATEN_ISLAND"
)

func NewBoroughTable() Table {
	return NewTable(BoroughTableName,
		[]Entry{
			{Raw: "MANHATTAN", Value: Manhattan},
			{Raw: "BRONX", Value: Bronx},
			{Raw: "BROOKLYN", Value: Brooklyn},
			{Raw: "QUEENS", Value: Queens},
			{Raw: "STATEN ISLAND", Value: StatenIsland},
		},
		// ACRIS and DOF datasets use numeric borough codes
		Alias("1", Manhattan),
		Alias("2", Bronx),
		Alias("3", Brooklyn),
		Alias("4", Queens),
		Alias("5", StatenIsland),
	)
}

const (
	CertificationPostponmentDenied     string = "CERTIFICATION_POSTPONMENT_DENIED"
	CertificationPostponmentGranted    string = "CERTIFICATION_POSTPONMENT_GRANTED"
	CIV14Mailed                        string = "CIV14_MAILED"
	CompliedInAccessArea               string = "COMPLIED_IN_ACCESS_AREA"
	DefectLetterIssued                 string = "DEFECT_LETTER_ISSUED"
	FalseCertification                 string = "FALSE_CERTIFICATION"
	FirstNoAccessToReInspectViolation  string = "FIRST_NO_ACCESS_TO_RE_INSPECT_VIOLATION"
	InfoNOVSentOut                     string = "INFO_NOV_SENT_OUT"
	InvalidCertification               string = "INVALID_CERTIFICATION"
	NotCompliedWith                    string = "NOT_COMPLIED_WITH"
	NoticeOfIssuanceSentToTenant       string = "NOTICE_OF_ISSUANCE_SENT_TO_TENANT"
	NOVCertifiedLate                   string = "NOV_CERTIFIED_LATE"
	NOVCertifiedOnTime                 string = "NOV_CERTIFIED_ON_TIME"
	NOVSentOut                         string = "NOV_SENT_OUT"
	SecondNoAccessToReInspectViolation string = "SECOND_NO_ACCESS_TO_RE_INSPECT_VIOLATION"
	ViolationClosed                    string = "VIOLATION_CLOSED"
	ViolationDismissed                 string = "VIOLATION_DISMISSED"
	ViolationOpen                      string = "VIOLATION_OPEN"
	ViolationReopen                    string = "VIOLATION_REOPEN"
	ViolationWillBeReinspected         string = "VIOLATION_WILL_BE_REINSPECTED"
)

func NewViolationCurrentStatusTable() Table {
	return NewTable(ViolationCurrentStatusTableName, []Entry{
		{Raw: "CERTIFICATION POSTPONMENT DENIED", Value: CertificationPostponmentDenied},
		{Raw: "CERTIFICATION POSTPONMENT GRANTED", Value: CertificationPostponmentGranted},
		{Raw: "CIV14 MAILED", Value: CIV14Mailed},
		{Raw: "COMPLIED IN ACCESS AREA", Value: CompliedInAccessArea},
		{Raw: "DEFECT LETTER ISSUED", Value: DefectLetterIssued},
		{Raw: "FALSE CERTIFICATION", Value: FalseCertification},
		{Raw: "FIRST NO ACCESS TO RE- INSPECT VIOLATION", Value: FirstNoAccessToReInspectViolation},
		{Raw: "INFO NOV SENT OUT", Value: InfoNOVSentOut},
		{Raw: "INVALID CERTIFICATION", Value: InvalidCertification},
		{Raw: "NOT COMPLIED WITH", Value: NotCompliedWith},
		{Raw: "NOTICE OF ISSUANCE SENT TO TENANT", Value: NoticeOfIssuanceSentToTenant},
		{Raw: "NOV CERTIFIED LATE", Value: NOVCertifiedLate},
		{Raw: "NOV CERTIFIED ON TIME", Value: NOVCertifiedOnTime},
		{Raw: "NOV SENT OUT", Value: NOVSentOut},
		{Raw: "SECOND NO ACCESS TO RE-INSPECT VIOLATION", Value: SecondNoAccessToReInspectViolation},
		{Raw: "VIOLATION CLOSED", Value: ViolationClosed},
		{Raw: "VIOLATION DISMISSED", Value: ViolationDismissed},
		{Raw: "VIOLATION OPEN", Value: ViolationOpen},
		{Raw: "VIOLATION REOPEN", Value: ViolationReopen},
		{Raw: "VIOLATION WILL BE REINSPECTED", Value: ViolationWillBeReinspected},
	})
}

const (
	ClassA string = "A"
	ClassB string = "B"
	ClassC string = "C"
	ClassI string = "I"
)

func NewViolationClassTable() Table {
	return NewTable(ViolationClassTableName, []Entry{
		{Raw: "A", Value: ClassA},
		{Raw: "B", Value: ClassB},
		{Raw: "C", Value: ClassC},
		{Raw: "I", Value: ClassI},
	})
}

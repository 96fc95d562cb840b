package resolvers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/diwise/property-graph/internal/pkg/application/grouping"
	"github.com/diwise/property-graph/internal/pkg/application/reduction"
	"github.com/diwise/property-graph/internal/pkg/infrastructure/sources"
	"github.com/diwise/property-graph/pkg/entities"
	"github.com/diwise/property-graph/pkg/enums"
	"github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceAttributeRelation string = "relation"
	TraceAttributeKind     string = "kind"

	DefaultMaxConcurrentFields int = 8
)

var tracer = otel.Tracer("property-graph/resolvers")

// Resolver answers every relation of the property graph by fetching raw rows
// scoped by the parent entity and reducing them into canonical entities.
type Resolver struct {
	src           sources.Source
	reducers      *reduction.Reducers
	tables        enums.Tables
	strict        bool
	maxConcurrent int
	fields        map[records.Kind]map[string]Field
}

type Option func(*Resolver)

// WithStrictSingular makes singular relations fail with an AmbiguousRelation
// error instead of picking the first of several matches.
func WithStrictSingular() Option {
	return func(r *Resolver) {
		r.strict = true
	}
}

func WithMaxConcurrentFields(limit int) Option {
	return func(r *Resolver) {
		if limit > 0 {
			r.maxConcurrent = limit
		}
	}
}

func New(src sources.Source, reducers *reduction.Reducers, options ...Option) *Resolver {
	r := &Resolver{
		src:           src,
		reducers:      reducers,
		tables:        reducers.Tables(),
		maxConcurrent: DefaultMaxConcurrentFields,
	}

	for _, option := range options {
		option(r)
	}

	r.fields = r.registerFields()

	return r
}

type PropertyArgs struct {
	StreetNumber string
	StreetName   string
	Borough      string
	Block        string
	Lot          string
	DocumentID   string
}

type PartyArgs struct {
	Name    string
	Address string
}

type ViolationArgs struct {
	Borough string
	Block   string
	Lot     string
	Status  string
	Class   string
}

// merge returns a copy of base with every non blank field of args on top.
func (base ViolationArgs) merge(args ViolationArgs) ViolationArgs {
	pick := func(a, b string) string {
		if strings.TrimSpace(b) != "" {
			return b
		}
		return a
	}

	return ViolationArgs{
		Borough: pick(base.Borough, args.Borough),
		Block:   pick(base.Block, args.Block),
		Lot:     pick(base.Lot, args.Lot),
		Status:  pick(base.Status, args.Status),
		Class:   pick(base.Class, args.Class),
	}
}

func (r *Resolver) Properties(ctx context.Context, args PropertyArgs) ([]entities.Property, error) {
	const relation = "Query.property"

	borough, err := r.rawEnum(r.tables.Borough, args.Borough)
	if err != nil {
		return nil, badRequest(relation, err)
	}

	filter := records.NewFilter(
		records.Eq(records.FieldStreetNumber, args.StreetNumber),
		records.Eq(records.FieldStreetName, args.StreetName),
		records.Eq(records.FieldBorough, borough),
		records.Eq(records.FieldBlock, args.Block),
		records.Eq(records.FieldLot, args.Lot),
		records.Eq(records.FieldDocumentID, args.DocumentID),
	)

	if filter.IsEmpty() {
		return nil, errors.NewBadRequestError(relation + " requires at least one argument")
	}

	return r.properties(ctx, relation, filter)
}

func (r *Resolver) Document(ctx context.Context, documentID string) (entities.Document, error) {
	return singular(ctx, r, "Query.document", records.KindDocument, byID(records.FieldDocumentID, documentID), r.reducers.Document)
}

// DocumentsByIDs resolves documents in source order. An empty list of ids
// resolves to no documents without asking the source.
func (r *Resolver) DocumentsByIDs(ctx context.Context, documentIDs []string) ([]entities.Document, error) {
	return plural(ctx, r, "documents", records.KindDocument, byID(records.FieldDocumentID, documentIDs...), r.reducers.Document)
}

func (r *Resolver) Parties(ctx context.Context, args PartyArgs) ([]entities.Party, error) {
	const relation = "Query.parties"

	filter := partyFilter(args)
	if filter.IsEmpty() {
		return nil, errors.NewBadRequestError(relation + " requires a name or an address")
	}

	return plural(ctx, r, relation, records.KindParty, filter, r.reducers.Party)
}

func (r *Resolver) Violations(ctx context.Context, args ViolationArgs) ([]entities.HousingMaintenanceCodeViolation, error) {
	const relation = "Query.housingMaintenanceCodeViolations"

	filter, err := r.violationFilter(args)
	if err != nil {
		return nil, badRequest(relation, err)
	}

	if filter.IsEmpty() {
		return nil, errors.NewBadRequestError(relation + " requires at least one argument")
	}

	return r.violations(ctx, relation, filter)
}

func (r *Resolver) PropertyType(ctx context.Context, p entities.Property) (entities.PropertyType, error) {
	return singular(ctx, r, "Property.propertyType", records.KindPropertyType, byID(records.FieldPropertyType, p.PropertyTypeCode), r.reducers.PropertyType)
}

// PropertyDocuments resolves the documents of p. A non nil documentIDs
// replaces the property's own ids entirely, even when it is empty.
func (r *Resolver) PropertyDocuments(ctx context.Context, p entities.Property, documentIDs []string) ([]entities.Document, error) {
	ids := p.DocumentIDs
	if documentIDs != nil {
		ids = documentIDs
	}

	return plural(ctx, r, "Property.documents", records.KindDocument, byID(records.FieldDocumentID, ids...), r.reducers.Document)
}

// PropertyViolations resolves the violations recorded for the lot of p. Any
// non blank argument takes precedence over the property's own identity.
func (r *Resolver) PropertyViolations(ctx context.Context, p entities.Property, args ViolationArgs) ([]entities.HousingMaintenanceCodeViolation, error) {
	const relation = "Property.housingMaintenanceCodeViolations"

	merged := ViolationArgs{Borough: p.Borough, Block: p.Block, Lot: p.Lot}.merge(args)
	if !complete(entities.BoroughBlockLot{Borough: merged.Borough, Block: merged.Block, Lot: merged.Lot}) {
		return []entities.HousingMaintenanceCodeViolation{}, nil
	}

	filter, err := r.violationFilter(merged)
	if err != nil {
		return nil, badRequest(relation, err)
	}

	return r.violations(ctx, relation, filter)
}

func (r *Resolver) PropertyHpdJurisdictionData(ctx context.Context, p entities.Property) (entities.HpdJurisdictionData, error) {
	filter, err := r.lotFilter(p.BoroughBlockLot)
	if err != nil {
		return entities.HpdJurisdictionData{}, err
	}

	return singular(ctx, r, "Property.hpdJurisdictionData", records.KindHpdJurisdictionData, filter, r.reducers.HpdJurisdictionData)
}

// PropertyValuations resolves the yearly valuations of p, most recent first.
func (r *Resolver) PropertyValuations(ctx context.Context, p entities.Property) ([]entities.ValuationAndAssessmentData, error) {
	filter, err := r.lotFilter(p.BoroughBlockLot)
	if err != nil {
		return nil, err
	}

	valuations, err := plural(ctx, r, "Property.valuationAndAssessmentData", records.KindValuationAndAssessmentData, filter, r.reducers.ValuationAndAssessmentData)

	sort.SliceStable(valuations, func(i, j int) bool {
		return laterYear(valuations[i].Year, valuations[j].Year)
	})

	return valuations, err
}

func (r *Resolver) PropertyTaxClasses(ctx context.Context, p entities.Property) ([]entities.TaxClassData, error) {
	filter, err := r.lotFilter(p.BoroughBlockLot)
	if err != nil {
		return nil, err
	}

	return plural(ctx, r, "Property.taxClassData", records.KindTaxClassData, filter, r.reducers.TaxClassData)
}

func (r *Resolver) DocumentParties(ctx context.Context, d entities.Document, args PartyArgs) ([]entities.Party, error) {
	filter := byID(records.FieldDocumentID, d.ID).With(
		records.Contains(records.FieldName, args.Name),
		records.Contains(records.FieldAddress1, args.Address),
	)

	return plural(ctx, r, "Document.parties", records.KindParty, filter, r.reducers.Party)
}

func (r *Resolver) DocumentType(ctx context.Context, d entities.Document) (entities.DocumentType, error) {
	return singular(ctx, r, "Document.type", records.KindDocumentType, byID(records.FieldDocumentType, d.DocumentTypeCode), r.reducers.DocumentType)
}

func (r *Resolver) PartyDocument(ctx context.Context, p entities.Party) (entities.Document, error) {
	return singular(ctx, r, "Party.document", records.KindDocument, byID(records.FieldDocumentID, p.DocumentID), r.reducers.Document)
}

func (r *Resolver) RegistrationContacts(ctx context.Context, h entities.HpdJurisdictionData) ([]entities.RegistrationContact, error) {
	return plural(ctx, r, "HpdJurisdictionData.registrationContacts", records.KindRegistrationContact, byID(records.FieldRegistrationID, h.RegistrationID), r.reducers.RegistrationContact)
}

func (r *Resolver) properties(ctx context.Context, relation string, filter records.Filter) (result []entities.Property, err error) {
	ctx, span := tracer.Start(ctx, relation, trace.WithAttributes(attribute.String(TraceAttributeKind, records.KindProperty.String())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	rows, err := r.fetch(ctx, records.KindProperty, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", relation, err)
	}

	groups := grouping.Partition(rows, grouping.ByBoroughBlockLot(r.tables.Borough))

	result, err = reduction.Groups(groups, r.reducers.Property)
	if err != nil {
		logging.GetFromContext(ctx).Warn("some properties could not be reduced", TraceAttributeRelation, relation, "err", err.Error())
		err = fmt.Errorf("%s: %w", relation, err)
	}

	return result, err
}

// violations resolves violations ordered by their latest status change, most
// recent first. Violations without a status date go last, ties keep source
// order.
func (r *Resolver) violations(ctx context.Context, relation string, filter records.Filter) ([]entities.HousingMaintenanceCodeViolation, error) {
	violations, err := plural(ctx, r, relation, records.KindHousingMaintenanceCodeViolation, filter, r.reducers.HousingMaintenanceCodeViolation)

	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i].CurrentStatusDate, violations[j].CurrentStatusDate
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})

	return violations, err
}

func (r *Resolver) fetch(ctx context.Context, kind records.Kind, filter records.Filter) ([]records.Row, error) {
	if filter.MatchesNothing() {
		return []records.Row{}, nil
	}

	if rc := requestCacheFrom(ctx); rc != nil {
		return rc.query(ctx, r.src, kind, filter)
	}

	return r.src.Query(ctx, kind, filter)
}

func (r *Resolver) violationFilter(args ViolationArgs) (records.Filter, error) {
	borough, err := r.rawEnum(r.tables.Borough, args.Borough)
	if err != nil {
		return records.Filter{}, err
	}

	status, err := r.rawEnum(r.tables.ViolationCurrentStatus, args.Status)
	if err != nil {
		return records.Filter{}, err
	}

	class, err := r.rawEnum(r.tables.ViolationClass, args.Class)
	if err != nil {
		return records.Filter{}, err
	}

	return records.NewFilter(
		records.Eq(records.FieldBorough, borough),
		records.Eq(records.FieldBlock, args.Block),
		records.Eq(records.FieldLot, args.Lot),
		records.Eq(records.FieldCurrentStatus, status),
		records.Eq(records.FieldClass, class),
	), nil
}

// lotFilter scopes a child query to the lot of a parent. A parent without a
// complete identity yields a filter that matches nothing.
func (r *Resolver) lotFilter(bbl entities.BoroughBlockLot) (records.Filter, error) {
	if !complete(bbl) {
		return byID(records.FieldBorough), nil
	}

	borough, err := r.rawEnum(r.tables.Borough, bbl.Borough)
	if err != nil {
		return records.Filter{}, err
	}

	return records.NewFilter(
		records.Eq(records.FieldBorough, borough),
		records.Eq(records.FieldBlock, bbl.Block),
		records.Eq(records.FieldLot, bbl.Lot),
	), nil
}

// rawEnum converts a schema value, or a raw spelling of it, back into the
// canonical raw value stored by the sources.
func (r *Resolver) rawEnum(table enums.Table, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	if raw, err := table.Raw(strings.ToUpper(value)); err == nil {
		return raw, nil
	}

	canonical, err := table.Lookup(strings.ToUpper(value))
	if err != nil {
		return "", err
	}

	return table.Raw(canonical)
}

func plural[E any](ctx context.Context, r *Resolver, relation string, kind records.Kind, filter records.Filter, reduce reduction.RowReducerFunc[E]) (result []E, err error) {
	ctx, span := tracer.Start(ctx, relation, trace.WithAttributes(attribute.String(TraceAttributeKind, kind.String())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	rows, err := r.fetch(ctx, kind, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", relation, err)
	}

	result, err = reduction.All(rows, reduce)
	if err != nil {
		logging.GetFromContext(ctx).Warn("some rows could not be reduced", TraceAttributeRelation, relation, "err", err.Error())
		err = fmt.Errorf("%s: %w", relation, err)
	}

	return result, err
}

func singular[E any](ctx context.Context, r *Resolver, relation string, kind records.Kind, filter records.Filter, reduce reduction.RowReducerFunc[E]) (result E, err error) {
	ctx, span := tracer.Start(ctx, relation, trace.WithAttributes(attribute.String(TraceAttributeKind, kind.String())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	rows, err := r.fetch(ctx, kind, filter)
	if err != nil {
		return result, fmt.Errorf("%s: %w", relation, err)
	}

	if r.strict {
		result, err = ResolveSingularStrict(relation, rows, reduce)
	} else {
		if len(rows) > 1 {
			logging.GetFromContext(ctx).Debug("singular relation matched several rows, using the first", TraceAttributeRelation, relation, "count", len(rows))
		}
		result, err = ResolveSingular(rows, reduce)
	}

	if err != nil {
		return result, fmt.Errorf("%s: %w", relation, err)
	}

	return result, nil
}

// byID matches rows whose field equals one of ids. Blank ids are dropped and
// no ids at all matches nothing.
func byID(field string, ids ...string) records.Filter {
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			values = append(values, id)
		}
	}
	return records.NewFilter(records.In(field, values))
}

func partyFilter(args PartyArgs) records.Filter {
	return records.NewFilter(
		records.Contains(records.FieldName, args.Name),
		records.Contains(records.FieldAddress1, args.Address),
	)
}

func complete(bbl entities.BoroughBlockLot) bool {
	return strings.TrimSpace(bbl.Borough) != "" && strings.TrimSpace(bbl.Block) != "" && strings.TrimSpace(bbl.Lot) != ""
}

func laterYear(a, b string) bool {
	ya, errA := strconv.Atoi(strings.TrimSpace(a))
	yb, errB := strconv.Atoi(strings.TrimSpace(b))
	if errA != nil || errB != nil {
		return errA == nil && errB != nil
	}
	return ya > yb
}

func badRequest(relation string, err error) error {
	return errors.NewBadRequestError(fmt.Sprintf("%s: %s", relation, err.Error()))
}

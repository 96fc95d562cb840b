package resolvers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diwise/property-graph/internal/pkg/application/reduction"
	"github.com/diwise/property-graph/internal/pkg/infrastructure/sources"
	"github.com/diwise/property-graph/pkg/entities"
	"github.com/diwise/property-graph/pkg/enums"
	pgerrors "github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
	"github.com/matryer/is"
)

func TestResolveSingularOfNothingIsEmpty(t *testing.T) {
	is := is.New(t)

	d, err := ResolveSingular(nil, reduction.New(enums.Default()).Document)
	is.NoErr(err)
	is.True(d.IsEmpty()) // no rows should resolve to the empty placeholder
}

func TestResolveSingularPicksTheFirstRow(t *testing.T) {
	is := is.New(t)
	reducers := reduction.New(enums.Default())

	r1 := records.Row{"docId": "D1"}
	r2 := records.Row{"docId": "D2"}

	first, err := reducers.Document(r1)
	is.NoErr(err)

	d, err := ResolveSingular([]records.Row{r1, r2}, reducers.Document)
	is.NoErr(err)
	is.Equal(d, first)
}

func TestResolveSingularStrictRejectsSeveralRows(t *testing.T) {
	is := is.New(t)

	_, err := ResolveSingularStrict("Party.document", []records.Row{{"docId": "D1"}, {"docId": "D1"}}, reduction.New(enums.Default()).Document)
	is.True(errors.Is(err, pgerrors.ErrAmbiguousRelation))
}

func TestPropertyByBoroughBlockLot(t *testing.T) {
	is, r, _ := testSetup(t)

	properties, err := r.Properties(context.Background(), PropertyArgs{Borough: enums.Manhattan, Block: "1", Lot: "1"})
	is.NoErr(err)

	is.Equal(len(properties), 1) // rows for the same lot should collapse into one property
	is.Equal(properties[0].Borough, enums.Manhattan)
	is.Equal(properties[0].DocumentIDs, []string{"D1", "D2"})
}

func TestPropertyWithoutArgumentsIsABadRequest(t *testing.T) {
	is, r, src := testSetup(t)

	_, err := r.Properties(context.Background(), PropertyArgs{})
	is.True(errors.Is(err, pgerrors.ErrBadRequest))
	is.Equal(src.calls(), 0)
}

func TestDocumentsByEmptyIDsNeverCallsTheSource(t *testing.T) {
	is, r, src := testSetup(t)

	docs, err := r.DocumentsByIDs(context.Background(), []string{})
	is.NoErr(err)
	is.Equal(len(docs), 0)
	is.True(docs != nil) // should be an empty list, not nil
	is.Equal(src.calls(), 0)

	d, err := ResolveSingular[entities.Document](nil, reduction.New(enums.Default()).Document)
	is.NoErr(err)
	is.True(d.IsEmpty())
}

func TestPropertyDocumentsArgumentReplacesOwnIDs(t *testing.T) {
	is, r, src := testSetup(t)
	ctx := context.Background()
	p := entities.Property{DocumentIDs: []string{"D1", "D2"}}

	docs, err := r.PropertyDocuments(ctx, p, nil)
	is.NoErr(err)
	is.Equal(len(docs), 2)

	docs, err = r.PropertyDocuments(ctx, p, []string{"D2"})
	is.NoErr(err)
	is.Equal(len(docs), 1)
	is.Equal(docs[0].ID, "D2")

	before := src.calls()
	docs, err = r.PropertyDocuments(ctx, p, []string{})
	is.NoErr(err)
	is.Equal(len(docs), 0) // an explicit empty list should win over the property's ids
	is.Equal(src.calls(), before)
}

func TestViolationsAreSortedByStatusDate(t *testing.T) {
	is, r, _ := testSetup(t)

	violations, err := r.Violations(context.Background(), ViolationArgs{Borough: "1", Block: "1", Lot: "1"})
	is.NoErr(err)

	ids := []string{}
	for _, v := range violations {
		ids = append(ids, v.ID)
	}

	is.Equal(ids, []string{"V2", "V1", "V4", "V3"}) // most recent first, ties in source order, undated last
}

func TestUnknownStatusFailsOnlyThatViolation(t *testing.T) {
	is, r, _ := testSetup(t)

	violations, err := r.Violations(context.Background(), ViolationArgs{Borough: enums.Bronx, Block: "20", Lot: "3"})

	is.True(errors.Is(err, pgerrors.ErrUnknownEnumValue)) // VIOLATION-OPEN is not a known status
	is.Equal(len(violations), 1)
	is.Equal(violations[0].ID, "V5")
}

func TestPropertyViolationsMergeArguments(t *testing.T) {
	is, r, _ := testSetup(t)

	p := entities.Property{BoroughBlockLot: entities.BoroughBlockLot{Borough: enums.Manhattan, Block: "1", Lot: "1"}}

	violations, err := r.PropertyViolations(context.Background(), p, ViolationArgs{Status: enums.ViolationClosed})
	is.NoErr(err)
	is.Equal(len(violations), 1)
	is.Equal(violations[0].ID, "V2")
}

func TestSingularRelationOnEmptyParent(t *testing.T) {
	is, r, src := testSetup(t)

	h, err := r.PropertyHpdJurisdictionData(context.Background(), entities.Property{})
	is.NoErr(err)
	is.True(h.IsEmpty())
	is.Equal(src.calls(), 0) // a parent without identity should not reach the source
}

func TestStrictSingularRelation(t *testing.T) {
	is := is.New(t)
	src := newCountingSource(fixture())
	r := New(src, reduction.New(enums.Default()), WithStrictSingular())

	_, err := r.DocumentType(context.Background(), entities.Document{DocumentTypeCode: "DEED"})
	is.True(errors.Is(err, pgerrors.ErrAmbiguousRelation))

	lenient := New(src, reduction.New(enums.Default()))
	dt, err := lenient.DocumentType(context.Background(), entities.Document{DocumentTypeCode: "DEED"})
	is.NoErr(err)
	is.Equal(dt.Description, "DEED") // first wins by default
}

func TestSourceFailureIsReportedAsUnavailable(t *testing.T) {
	is := is.New(t)

	src := sources.SourceFunc(func(ctx context.Context, kind records.Kind, filter records.Filter) ([]records.Row, error) {
		return nil, pgerrors.NewSourceUnavailableError("acris", errors.New("timeout"))
	})
	r := New(src, reduction.New(enums.Default()))

	_, err := r.Document(context.Background(), "D1")
	is.True(errors.Is(err, pgerrors.ErrSourceUnavailable))
}

func TestRelationChain(t *testing.T) {
	is, r, _ := testSetup(t)
	ctx := context.Background()

	d, err := r.Document(ctx, "D1")
	is.NoErr(err)

	parties, err := r.DocumentParties(ctx, d, PartyArgs{})
	is.NoErr(err)
	is.Equal(len(parties), 2)

	back, err := r.PartyDocument(ctx, parties[0])
	is.NoErr(err)
	is.Equal(back, d) // a party's document should be the document it was found through

	p := entities.Property{BoroughBlockLot: entities.BoroughBlockLot{Borough: enums.Manhattan, Block: "1", Lot: "1"}}

	hpd, err := r.PropertyHpdJurisdictionData(ctx, p)
	is.NoErr(err)
	is.Equal(hpd.BuildingID, "B1")

	contacts, err := r.RegistrationContacts(ctx, hpd)
	is.NoErr(err)
	is.Equal(len(contacts), 1)

	valuations, err := r.PropertyValuations(ctx, p)
	is.NoErr(err)
	is.Equal(valuations[0].Year, "2023") // most recent year first
	is.Equal(valuations[1].Year, "2021")
}

func TestFieldRegistry(t *testing.T) {
	is, r, _ := testSetup(t)
	ctx := context.Background()

	f, ok := r.Field(records.KindProperty, "documents")
	is.True(ok)
	is.True(f.Plural)
	is.Equal(f.Target, records.KindDocument)

	p := entities.Property{DocumentIDs: []string{"D1"}}
	values, err := f.Resolve(ctx, &p, Args{"documentIds": {"D1,D2"}})
	is.NoErr(err)
	is.Equal(len(values), 2)

	_, err = f.Resolve(ctx, p, Args{"unknown": {"x"}})
	is.True(errors.Is(err, pgerrors.ErrBadRequest))

	_, err = f.Resolve(ctx, entities.Party{}, nil)
	is.True(errors.Is(err, pgerrors.ErrBadRequest)) // wrong parent type

	typ, ok := r.Field(records.KindDocument, "type")
	is.True(ok)
	values, err = typ.Resolve(ctx, entities.Document{}, nil)
	is.NoErr(err)
	is.Equal(len(values), 1) // singular fields always resolve to one value
	is.True(entities.IsEmpty(values[0]))

	_, ok = r.Field(records.KindParty, "parties")
	is.True(!ok)

	is.Equal(len(r.Fields(records.KindQuery)), 4)
	is.Equal(len(r.Fields(records.KindProperty)), 6)
}

func TestRequestContextCoalescesFetches(t *testing.T) {
	is, r, src := testSetup(t)
	ctx := NewRequestContext(context.Background())

	wg := sync.WaitGroup{}
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Document(ctx, "D1")
		}()
	}
	wg.Wait()

	_, err := r.Document(ctx, "D1")
	is.NoErr(err)

	is.Equal(src.calls(), 1) // identical fetches within a request should reach the source once

	_, err = r.Document(context.Background(), "D1")
	is.NoErr(err)
	is.Equal(src.calls(), 2) // nothing is cached outside of a request
}

func TestResolveAllKeepsSiblingsOnError(t *testing.T) {
	is := is.New(t)

	results, err := ResolveAll(context.Background(), []Task{
		{Name: "ok", Resolve: func(ctx context.Context) ([]any, error) { return []any{1}, nil }},
		{Name: "failing", Resolve: func(ctx context.Context) ([]any, error) { return nil, errors.New("boom") }},
		{Name: "slow", Resolve: func(ctx context.Context) ([]any, error) {
			time.Sleep(10 * time.Millisecond)
			return []any{3}, nil
		}},
	})
	is.NoErr(err)

	is.Equal(len(results), 3)
	is.Equal(results[0].Values, []any{1})
	is.True(results[1].Err != nil)
	is.Equal(results[2].Values, []any{3}) // a failing sibling should not cancel the others
}

func TestResolveAllStopsOnCancelledContext(t *testing.T) {
	is := is.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := ResolveAll(ctx, []Task{
		{Name: "never", Resolve: func(ctx context.Context) ([]any, error) { return []any{1}, nil }},
	})

	is.True(errors.Is(err, context.Canceled))
	is.True(results == nil)
}

type countingSource struct {
	src   *sources.StaticSource
	count atomic.Int32
	delay time.Duration
}

func newCountingSource(rows map[records.Kind][]records.Row) *countingSource {
	return &countingSource{src: sources.NewStaticSource(rows), delay: 5 * time.Millisecond}
}

func (c *countingSource) Query(ctx context.Context, kind records.Kind, filter records.Filter) ([]records.Row, error) {
	c.count.Add(1)
	time.Sleep(c.delay)
	return c.src.Query(ctx, kind, filter)
}

func (c *countingSource) calls() int {
	return int(c.count.Load())
}

func testSetup(t *testing.T) (*is.I, *Resolver, *countingSource) {
	is := is.New(t)
	src := newCountingSource(fixture())
	return is, New(src, reduction.New(enums.Default())), src
}

func fixture() map[records.Kind][]records.Row {
	return map[records.Kind][]records.Row{
		records.KindProperty: {
			{"borough": "MANHATTAN", "block": "1", "lot": "1", "docId": "D1"},
			{"borough": "MANHATTAN", "block": "1", "lot": "1", "docId": "D2"},
			{"borough": "BRONX", "block": "20", "lot": "3", "docId": "D3"},
		},
		records.KindDocument: {
			{"docId": "D1", "docType": "DEED", "recordedBorough": "1"},
			{"docId": "D2", "docType": "MTGE", "recordedBorough": "1"},
			{"docId": "D3", "docType": "DEED", "recordedBorough": "2"},
		},
		records.KindParty: {
			{"docId": "D1", "partyType": "1", "name": "JANE DOE", "address1": "1 BROADWAY"},
			{"docId": "D1", "partyType": "2", "name": "ACME LLC", "address1": "2 BROADWAY"},
			{"docId": "D2", "partyType": "1", "name": "BANK", "address1": "3 WALL ST"},
		},
		records.KindHousingMaintenanceCodeViolation: {
			{"violationId": "V1", "borough": "MANHATTAN", "block": "1", "lot": "1", "currentStatus": "VIOLATION OPEN", "currentStatusDate": "2021-05-01T00:00:00.000"},
			{"violationId": "V2", "borough": "MANHATTAN", "block": "1", "lot": "1", "currentStatus": "VIOLATION CLOSED", "currentStatusDate": "2023-01-10T00:00:00.000"},
			{"violationId": "V3", "borough": "MANHATTAN", "block": "1", "lot": "1", "currentStatus": "NOV SENT OUT"},
			{"violationId": "V4", "borough": "MANHATTAN", "block": "1", "lot": "1", "currentStatus": "NOV SENT OUT", "currentStatusDate": "2021-05-01T00:00:00.000"},
			{"violationId": "V5", "borough": "BRONX", "block": "20", "lot": "3", "currentStatus": "VIOLATION OPEN"},
			{"violationId": "V6", "borough": "BRONX", "block": "20", "lot": "3", "currentStatus": "VIOLATION-OPEN"},
		},
		records.KindHpdJurisdictionData: {
			{"buildingId": "B1", "registrationId": "R1", "borough": "MANHATTAN", "block": "1", "lot": "1"},
		},
		records.KindRegistrationContact: {
			{"registrationContactId": "C1", "registrationId": "R1", "type": "HeadOfficer"},
			{"registrationContactId": "C2", "registrationId": "R2", "type": "Agent"},
		},
		records.KindValuationAndAssessmentData: {
			{"borough": "MANHATTAN", "block": "1", "lot": "1", "year": "2021"},
			{"borough": "MANHATTAN", "block": "1", "lot": "1", "year": "2023"},
		},
		records.KindDocumentType: {
			{"docType": "DEED", "description": "DEED"},
			{"docType": "DEED", "description": "DEED, OTHER"},
		},
	}
}

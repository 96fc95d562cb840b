package sources

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	pgerrors "github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Source is a raw record source. Query returns the raw rows of kind that match
// filter, in the order the backing store returns them. Failures to reach the
// store are reported as SourceUnavailable errors.
type Source interface {
	Query(ctx context.Context, kind records.Kind, filter records.Filter) ([]records.Row, error)
}

type SourceFunc func(ctx context.Context, kind records.Kind, filter records.Filter) ([]records.Row, error)

func (f SourceFunc) Query(ctx context.Context, kind records.Kind, filter records.Filter) ([]records.Row, error) {
	return f(ctx, kind, filter)
}

const (
	TraceAttributeSource string = "source"
	TraceAttributeKind   string = "kind"
)

var tracer = otel.Tracer("property-graph/sources")

type route struct {
	id  string
	src Source
}

// Federation routes each kind to the source that is configured to provide it.
type Federation struct {
	routes  map[records.Kind]route
	closers []func()
}

func NewFederation() *Federation {
	return &Federation{
		routes: map[records.Kind]route{},
	}
}

// New builds a federation from configuration, connecting every configured
// source. The returned federation must be closed when no longer used.
func New(ctx context.Context, cfg Config) (*Federation, error) {
	f := NewFederation()

	for _, sc := range cfg.Sources {
		var src Source
		var err error

		switch sc.Type {
		case TypeSocrata:
			src, err = NewSocrataSource(sc)
		case TypePostgres:
			var pg *PostgresSource
			pg, err = NewPostgresSource(ctx, sc)
			if err == nil {
				f.closers = append(f.closers, pg.Close)
				src = pg
			}
		case TypeStatic:
			src, err = loadStaticFile(sc.File)
		default:
			err = fmt.Errorf("unknown source type %q", sc.Type)
		}

		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create source %s: %w", sc.ID, err)
		}

		f.Register(sc.ID, src, sc.Kinds()...)
	}

	return f, nil
}

// Register makes src the provider of kinds, replacing any earlier route.
func (f *Federation) Register(id string, src Source, kinds ...records.Kind) {
	for _, kind := range kinds {
		f.routes[kind] = route{id: id, src: src}
	}
}

func (f *Federation) Kinds() []records.Kind {
	kinds := make([]records.Kind, 0, len(f.routes))
	for kind := range f.routes {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (f *Federation) Query(ctx context.Context, kind records.Kind, filter records.Filter) (rows []records.Row, err error) {
	r, ok := f.routes[kind]
	if !ok {
		return nil, pgerrors.NewSourceUnavailableError(kind.String(), fmt.Errorf("no source configured for %s", kind))
	}

	ctx, span := tracer.Start(ctx, "query-source",
		trace.WithAttributes(
			attribute.String(TraceAttributeSource, r.id),
			attribute.String(TraceAttributeKind, kind.String()),
		),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	logger := logging.GetFromContext(ctx)
	logger.Debug("querying source", "source", r.id, "kind", kind, "filter", filter.Key())

	rows, err = r.src.Query(ctx, kind, filter)
	if err != nil {
		if !errors.Is(err, pgerrors.ErrSourceUnavailable) {
			err = pgerrors.NewSourceUnavailableError(r.id, err)
		}
		logger.Error("source query failed", "source", r.id, "kind", kind, "err", err.Error())
		return nil, err
	}

	return rows, nil
}

func (f *Federation) Close() {
	for _, closer := range f.closers {
		closer()
	}
	f.closers = nil
}

func loadStaticFile(path string) (*StaticSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadStaticSource(file)
}

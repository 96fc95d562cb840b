package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/diwise/property-graph/internal/pkg/application/resolvers"
	"github.com/diwise/property-graph/internal/pkg/presentation/api/auth"
	"github.com/diwise/property-graph/internal/pkg/presentation/api/problems"
	"github.com/diwise/property-graph/pkg/enums"
	"github.com/diwise/property-graph/pkg/records"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceAttributeRequestID string = "request-id"
	TraceAttributeField     string = "field"

	RequestIDHeader string = "X-Request-ID"
)

var tracer = otel.Tracer("property-graph/api")

func RegisterHandlers(ctx context.Context, r chi.Router, policies io.Reader, resolver *resolvers.Resolver, tables enums.Tables) error {

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return fmt.Errorf("failed to create api authenticator: %w", err)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			Logger(logging.GetFromContext(ctx)),
			RequestID(),
		)

		r.Get("/properties", NewQueryHandler("property", resolver, authenticator))
		r.Get("/documents/{documentId}", NewQueryHandler("document", resolver, authenticator,
			func(r *http.Request, args resolvers.Args) {
				args[resolvers.ArgDocumentID] = []string{chi.URLParam(r, "documentId")}
			},
		))
		r.Get("/parties", NewQueryHandler("parties", resolver, authenticator))
		r.Get("/violations", NewQueryHandler("housingMaintenanceCodeViolations", resolver, authenticator))

		r.Get("/enums", NewEnumsHandler(tables))
	})

	return nil
}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestID tags every request with an id, taken from the X-Request-ID header
// when the caller provides one, and adds it to the context logger.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
			}

			if labeler, found := otelhttp.LabelerFromContext(r.Context()); found {
				labeler.Add(attribute.String(TraceAttributeRequestID, requestID))
			}

			ctx := logging.NewContextWithLogger(
				r.Context(),
				logging.GetFromContext(r.Context()),
				"request_id",
				requestID,
			)

			w.Header().Set(RequestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type ArgsDecoratorFunc func(r *http.Request, args resolvers.Args)

// NewQueryHandler serves a root field of the graph, expanding the relations
// selected with include.
func NewQueryHandler(field string, resolver *resolvers.Resolver, authenticator auth.Enticator, decorators ...ArgsDecoratorFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "query-"+field,
			trace.WithAttributes(attribute.String(TraceAttributeField, field)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		logger := logging.GetFromContext(ctx)

		sel := parseSelection(field, r.URL.Query())
		for _, decorate := range decorators {
			decorate(r, sel.args)
		}

		kinds, err := sel.validate(resolver)
		if err != nil {
			problems.ReportBadRequest(w, err.Error())
			return
		}

		err = authenticator.CheckAccess(ctx, r, kinds)
		if err != nil {
			logger.Warn("access denied", "err", err.Error())
			// denials are reported as not found
			problems.ReportNotFound(w, "no data found")
			return
		}

		ctx = resolvers.NewRequestContext(ctx)

		root, _ := resolver.Field(records.KindQuery, field)
		values, err := root.Resolve(ctx, nil, sel.args)
		if err != nil && len(values) == 0 {
			logger.Error("query failed", "field", field, "err", err.Error())
			problems.ReportError(w, err)
			return
		}

		e := &expander{resolver: resolver}
		if err != nil {
			e.report(field, err)
		}

		data, err := e.render(ctx, root, resolvers.Result{Name: field, Values: values}, sel, field)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("failed to render response", "field", field, "err", err.Error())
			problems.ReportError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, Envelope{Data: data, Errors: e.errs})
	})
}

type enumTable struct {
	Name    string        `json:"name"`
	Values  []string      `json:"values"`
	Entries []enums.Entry `json:"entries"`
	Aliases []enums.Entry `json:"aliases,omitempty"`
}

func NewEnumsHandler(tables enums.Tables) http.HandlerFunc {
	response := []enumTable{}
	for _, t := range tables.All() {
		response = append(response, enumTable{
			Name:    t.Name(),
			Values:  t.Values(),
			Entries: t.Entries(),
			Aliases: t.Aliases(),
		})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Envelope{Data: response})
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		problems.ReportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b)
}

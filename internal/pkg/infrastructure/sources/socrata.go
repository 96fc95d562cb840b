package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strconv"
	"strings"

	pgerrors "github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultPageSize int = 1000

// SocrataSource reads raw rows from a Socrata Open Data (SODA) endpoint, such
// as the NYC Open Data portal.
type SocrataSource struct {
	id         string
	endpoint   string
	appToken   string
	pageSize   int
	datasets   map[records.Kind]DatasetConfig
	httpClient http.Client
}

func NewSocrataSource(cfg SourceConfig) (*SocrataSource, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("socrata source %s has no endpoint", cfg.ID)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &SocrataSource{
		id:       cfg.ID,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		appToken: cfg.AppToken,
		pageSize: pageSize,
		datasets: cfg.datasets(),
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

func (s *SocrataSource) Query(ctx context.Context, kind records.Kind, filter records.Filter) ([]records.Row, error) {
	ds, ok := s.datasets[kind]
	if !ok {
		return nil, pgerrors.NewSourceUnavailableError(s.id, fmt.Errorf("no dataset configured for %s", kind))
	}

	logger := logging.GetFromContext(ctx)

	where := WhereClause(ds.Encode(filter), ds.Column)

	limit := s.pageSize
	if filter.Limit > 0 && filter.Limit < limit {
		limit = filter.Limit
	}
	offset := 0

	result := []records.Row{}

	for {
		params := url.Values{}
		if where != "" {
			params.Set("$where", where)
		}
		// a stable order is required for paging
		params.Set("$order", ":id")
		params.Set("$limit", strconv.Itoa(limit))
		params.Set("$offset", strconv.Itoa(offset))

		reqURL := fmt.Sprintf("%s/resource/%s.json?%s", s.endpoint, url.PathEscape(ds.Dataset), params.Encode())
		offset += limit

		logger.Debug("calling socrata", "url", reqURL)

		page, err := s.get(ctx, reqURL)
		if err != nil {
			return nil, err
		}

		for _, r := range page {
			result = append(result, records.Row(r).Rename(ds.Fields))
		}

		if len(page) < limit {
			break
		}

		if filter.Limit > 0 && len(result) >= filter.Limit {
			result = result[:filter.Limit]
			break
		}
	}

	return result, nil
}

func (s *SocrataSource) get(ctx context.Context, reqURL string) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	if s.appToken != "" {
		req.Header.Add("X-App-Token", s.appToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, pgerrors.NewSourceUnavailableError(s.id, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pgerrors.NewSourceUnavailableError(s.id, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		reqbytes, _ := httputil.DumpRequest(req, false)
		respbytes, _ := httputil.DumpResponse(resp, false)

		logging.GetFromContext(ctx).Error("request failed", "request", string(reqbytes), "response", string(respbytes))

		return nil, pgerrors.NewSourceUnavailableError(s.id,
			fmt.Errorf("unexpected status code %d (body: %s)", resp.StatusCode, string(respBody)),
		)
	}

	page := []map[string]any{}

	decoder := json.NewDecoder(bytes.NewReader(respBody))
	decoder.UseNumber()

	if err = decoder.Decode(&page); err != nil {
		return nil, pgerrors.NewSourceUnavailableError(s.id, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	return page, nil
}

// WhereClause renders a filter as a SoQL $where expression. Conditions are
// sorted by field name so that equal filters produce equal clauses.
func WhereClause(filter records.Filter, columnOf func(field string) string) string {
	conditions := []string{}

	for _, field := range filter.Fields() {
		column := columnOf(field)

		if value, ok := filter.Equals[field]; ok {
			conditions = append(conditions, fmt.Sprintf("%s = %s", column, quote(value)))
		}

		if values, ok := filter.In[field]; ok {
			quoted := make([]string, len(values))
			for idx := range values {
				quoted[idx] = quote(values[idx])
			}
			sort.Strings(quoted)
			conditions = append(conditions, fmt.Sprintf("%s in (%s)", column, strings.Join(quoted, ", ")))
		}

		if value, ok := filter.Contains[field]; ok {
			conditions = append(conditions, fmt.Sprintf("upper(%s) like %s", column, quote("%"+escapeLike(strings.ToUpper(strings.TrimSpace(value)))+"%")))
		}
	}

	return strings.Join(conditions, " AND ")
}

// escapeLike escapes the wildcards of a like pattern using the default escape
// character.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func quote(value string) string {
	return "'" + strings.ReplaceAll(strings.TrimSpace(value), "'", "''") + "'"
}

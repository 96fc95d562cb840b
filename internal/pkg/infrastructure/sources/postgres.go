package sources

import (
	"context"
	"fmt"
	"strings"

	pgerrors "github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource reads raw rows from tables in a PostgreSQL database, one
// table per kind.
type PostgresSource struct {
	id       string
	pool     *pgxpool.Pool
	datasets map[records.Kind]DatasetConfig
}

func NewPostgresSource(ctx context.Context, cfg SourceConfig) (*PostgresSource, error) {
	pool, err := connect(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}

	return &PostgresSource{
		id:       cfg.ID,
		pool:     pool,
		datasets: cfg.datasets(),
	}, nil
}

func connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	conn, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	err = conn.Ping(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return conn, err
}

func (p *PostgresSource) Close() {
	p.pool.Close()
}

func (p *PostgresSource) Query(ctx context.Context, kind records.Kind, filter records.Filter) ([]records.Row, error) {
	ds, ok := p.datasets[kind]
	if !ok {
		return nil, pgerrors.NewSourceUnavailableError(p.id, fmt.Errorf("no table configured for %s", kind))
	}

	sql, args := SelectStatement(ds.Dataset, ds.Encode(filter), ds.Column)

	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, pgerrors.NewSourceUnavailableError(p.id, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, pgerrors.NewSourceUnavailableError(p.id, err)
	}

	result := make([]records.Row, 0, len(maps))
	for _, m := range maps {
		result = append(result, records.Row(m).Rename(ds.Fields))
	}

	return result, nil
}

// SelectStatement builds a parameterized SELECT for filter. Identifiers are
// sanitized, values are always passed as arguments.
func SelectStatement(table string, filter records.Filter, columnOf func(field string) string) (string, []any) {
	sb := strings.Builder{}
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(pgx.Identifier(strings.Split(table, ".")).Sanitize())

	conditions := []string{}
	args := []any{}

	for _, field := range filter.Fields() {
		column := pgx.Identifier{columnOf(field)}.Sanitize()

		if value, ok := filter.Equals[field]; ok {
			args = append(args, strings.TrimSpace(value))
			conditions = append(conditions, fmt.Sprintf("lower(%s::text) = lower($%d)", column, len(args)))
		}

		if values, ok := filter.In[field]; ok {
			lowered := make([]string, len(values))
			for idx := range values {
				lowered[idx] = strings.ToLower(strings.TrimSpace(values[idx]))
			}
			args = append(args, lowered)
			conditions = append(conditions, fmt.Sprintf("lower(%s::text) = ANY($%d)", column, len(args)))
		}

		if value, ok := filter.Contains[field]; ok {
			args = append(args, "%"+escapeLike(strings.TrimSpace(value))+"%")
			conditions = append(conditions, fmt.Sprintf("%s::text ILIKE $%d", column, len(args)))
		}
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	if filter.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", filter.Limit))
	}

	return sb.String(), args
}

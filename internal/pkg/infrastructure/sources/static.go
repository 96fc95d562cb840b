package sources

import (
	"context"
	"fmt"
	"io"

	"github.com/diwise/property-graph/pkg/records"
	yaml "gopkg.in/yaml.v2"
)

// StaticSource serves rows held in memory, applying the same filter semantics
// as the remote sources.
type StaticSource struct {
	rows map[records.Kind][]records.Row
}

func NewStaticSource(rows map[records.Kind][]records.Row) *StaticSource {
	s := &StaticSource{rows: map[records.Kind][]records.Row{}}
	for kind, r := range rows {
		s.rows[kind] = append([]records.Row{}, r...)
	}
	return s
}

// LoadStaticSource reads rows from a YAML document keyed by kind name:
//
//	Property:
//	  - borough: MANHATTAN
//	    block: "1"
//	    lot: "1"
func LoadStaticSource(data io.Reader) (*StaticSource, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	doc := map[string][]map[string]any{}
	if err = yaml.Unmarshal(buf, &doc); err != nil {
		return nil, err
	}

	rows := map[records.Kind][]records.Row{}
	for name, raw := range doc {
		kind, ok := records.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown kind %q in static source", name)
		}

		for _, r := range raw {
			rows[kind] = append(rows[kind], records.Row(r))
		}
	}

	return NewStaticSource(rows), nil
}

func (s *StaticSource) Query(ctx context.Context, kind records.Kind, filter records.Filter) ([]records.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := []records.Row{}
	for _, row := range s.rows[kind] {
		if !filter.Matches(row) {
			continue
		}

		result = append(result, row)

		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}

	return result, nil
}

func (s *StaticSource) Kinds() []records.Kind {
	kinds := []records.Kind{}
	for _, kind := range records.Kinds() {
		if _, ok := s.rows[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

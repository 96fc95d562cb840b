package sources

import (
	"io"
	"strings"

	"github.com/diwise/property-graph/pkg/records"
	yaml "gopkg.in/yaml.v2"
)

const (
	TypeSocrata  string = "socrata"
	TypePostgres string = "postgres"
	TypeStatic   string = "static"
)

// DatasetConfig binds an entity kind to a dataset (a Socrata resource id or a
// database table). Fields maps storage column names to raw field names and
// Values maps, per raw field, canonical raw values to the spelling the dataset
// stores (ACRIS stores borough MANHATTAN as 1).
type DatasetConfig struct {
	Kind    string                       `yaml:"kind"`
	Dataset string                       `yaml:"dataset"`
	Fields  map[string]string            `yaml:"fields"`
	Values  map[string]map[string]string `yaml:"values"`
}

// Encode returns a copy of filter with equality values rewritten into the
// dataset's own spelling. Values without an encoding are kept as they are.
func (ds DatasetConfig) Encode(filter records.Filter) records.Filter {
	encoded := filter.With()
	if len(ds.Values) == 0 {
		return encoded
	}

	for field, value := range encoded.Equals {
		encoded.Equals[field] = ds.encode(field, value)
	}

	for field, values := range encoded.In {
		for idx := range values {
			values[idx] = ds.encode(field, values[idx])
		}
	}

	return encoded
}

func (ds DatasetConfig) encode(field, value string) string {
	for raw, stored := range ds.Values[field] {
		if strings.EqualFold(strings.TrimSpace(raw), strings.TrimSpace(value)) {
			return stored
		}
	}
	return value
}

// Column returns the storage column that holds the raw field name.
func (ds DatasetConfig) Column(field string) string {
	for column, f := range ds.Fields {
		if f == field {
			return column
		}
	}
	return field
}

type SourceConfig struct {
	ID       string          `yaml:"id"`
	Type     string          `yaml:"type"`
	Endpoint string          `yaml:"endpoint"`
	AppToken string          `yaml:"appToken"`
	DSN      string          `yaml:"dsn"`
	PageSize int             `yaml:"pageSize"`
	File     string          `yaml:"file"`
	Datasets []DatasetConfig `yaml:"datasets"`
}

func (sc SourceConfig) Kinds() []records.Kind {
	kinds := make([]records.Kind, 0, len(sc.Datasets))
	for _, ds := range sc.Datasets {
		if kind, ok := records.ParseKind(ds.Kind); ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func (sc SourceConfig) datasets() map[records.Kind]DatasetConfig {
	datasets := make(map[records.Kind]DatasetConfig, len(sc.Datasets))
	for _, ds := range sc.Datasets {
		if kind, ok := records.ParseKind(ds.Kind); ok {
			datasets[kind] = ds
		}
	}
	return datasets
}

type Config struct {
	Sources []SourceConfig `yaml:"sources"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}

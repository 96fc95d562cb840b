package records

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Row is a raw, denormalized record as returned by a backing store. Values are
// scalars or strings; the same logical value may be represented differently by
// different stores.
type Row map[string]any

// Has reports whether the row carries a non blank value for name.
func (r Row) Has(name string) bool {
	return strings.TrimSpace(r.String(name)) != ""
}

func (r Row) String(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}

	switch value := v.(type) {
	case string:
		return value
	case []byte:
		return string(value)
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case int:
		return strconv.Itoa(value)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		return value.UTC().Format(time.RFC3339)
	case [16]byte:
		return uuid.UUID(value).String()
	case driver.Valuer:
		// database types such as pgtype.Numeric encode themselves as a
		// plain driver value
		dv, err := value.Value()
		if err != nil || dv == nil {
			return ""
		}
		return Row{name: dv}.String(name)
	case fmt.Stringer:
		return value.String()
	}

	return fmt.Sprintf("%v", v)
}

// Strings returns a list valued field. A scalar value is returned as a list
// of one element and blank elements are skipped.
func (r Row) Strings(name string) []string {
	v, ok := r[name]
	if !ok || v == nil {
		return nil
	}

	result := []string{}

	switch values := v.(type) {
	case []string:
		for _, s := range values {
			if strings.TrimSpace(s) != "" {
				result = append(result, s)
			}
		}
	case []any:
		for idx := range values {
			s := Row{name: values[idx]}.String(name)
			if strings.TrimSpace(s) != "" {
				result = append(result, s)
			}
		}
	default:
		if r.Has(name) {
			result = append(result, r.String(name))
		}
	}

	return result
}

func (r Row) Int(name string) (int64, bool) {
	switch value := r[name].(type) {
	case int:
		return int64(value), true
	case int32:
		return int64(value), true
	case int64:
		return value, true
	case float64:
		return int64(value), true
	}

	s := strings.TrimSpace(r.String(name))
	if s == "" {
		return 0, false
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return int64(f), true
}

func (r Row) Float(name string) (float64, bool) {
	switch value := r[name].(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	}

	s := strings.TrimSpace(r.String(name))
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

func (r Row) Bool(name string) (bool, bool) {
	if value, ok := r[name].(bool); ok {
		return value, true
	}

	switch strings.ToUpper(strings.TrimSpace(r.String(name))) {
	case "Y", "YES", "TRUE", "1":
		return true, true
	case "N", "NO", "FALSE", "0":
		return false, true
	}

	return false, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func (r Row) Time(name string) (time.Time, bool) {
	if value, ok := r[name].(time.Time); ok {
		return value.UTC(), true
	}

	s := strings.TrimSpace(r.String(name))
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// Canonical returns a deterministic encoding of the row, independent of map
// iteration order.
func (r Row) Canonical() string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)

	sb := strings.Builder{}
	for idx, name := range names {
		if idx > 0 {
			sb.WriteString("&")
		}
		sb.WriteString(name)
		sb.WriteString("=")
		sb.WriteString(strings.Join(r.Strings(name), ","))
	}

	return sb.String()
}

// TrimLeadingZeros normalizes zero padded identifiers such as block and lot
// numbers. A value of only zeros becomes "0".
func TrimLeadingZeros(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" && s != "" {
		return "0"
	}
	return trimmed
}

// Rename returns a copy of the row with storage column names replaced by raw
// field names. Columns without a mapping keep their name.
func (r Row) Rename(columns map[string]string) Row {
	if len(columns) == 0 {
		return r
	}

	renamed := make(Row, len(r))
	for name, value := range r {
		if field, ok := columns[name]; ok {
			renamed[field] = value
			continue
		}
		renamed[name] = value
	}

	return renamed
}

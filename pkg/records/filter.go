package records

import (
	"fmt"
	"sort"
	"strings"
)

// Filter is the query handed to a raw record source. All conditions must hold
// for a row to match.
type Filter struct {
	Equals   map[string]string
	In       map[string][]string
	Contains map[string]string
	Limit    int
}

type FilterDecoratorFunc func(f *Filter)

func NewFilter(decorators ...FilterDecoratorFunc) Filter {
	f := Filter{
		Equals:   map[string]string{},
		In:       map[string][]string{},
		Contains: map[string]string{},
	}

	for _, decorate := range decorators {
		decorate(&f)
	}

	return f
}

// Eq requires field to equal value. Blank values are ignored so that optional
// arguments can be passed through unconditionally.
func Eq(field, value string) FilterDecoratorFunc {
	return func(f *Filter) {
		if strings.TrimSpace(value) == "" {
			return
		}
		f.Equals[field] = value
	}
}

// In requires field to equal one of values. Unlike Eq an empty list is kept,
// and matches nothing.
func In(field string, values []string) FilterDecoratorFunc {
	return func(f *Filter) {
		f.In[field] = append([]string{}, values...)
	}
}

func Contains(field, value string) FilterDecoratorFunc {
	return func(f *Filter) {
		if strings.TrimSpace(value) == "" {
			return
		}
		f.Contains[field] = value
	}
}

func Limit(limit int) FilterDecoratorFunc {
	return func(f *Filter) {
		f.Limit = limit
	}
}

// With returns a copy of the filter with decorators applied on top.
func (f Filter) With(decorators ...FilterDecoratorFunc) Filter {
	c := NewFilter()
	for k, v := range f.Equals {
		c.Equals[k] = v
	}
	for k, v := range f.In {
		c.In[k] = append([]string{}, v...)
	}
	for k, v := range f.Contains {
		c.Contains[k] = v
	}
	c.Limit = f.Limit

	for _, decorate := range decorators {
		decorate(&c)
	}

	return c
}

func (f Filter) IsEmpty() bool {
	return len(f.Equals) == 0 && len(f.In) == 0 && len(f.Contains) == 0
}

// MatchesNothing reports whether the filter contains an empty In list, in
// which case no source needs to be asked.
func (f Filter) MatchesNothing() bool {
	for _, values := range f.In {
		if len(values) == 0 {
			return true
		}
	}
	return false
}

// Key is a deterministic encoding of the filter, equal for equal filters.
func (f Filter) Key() string {
	parts := []string{}

	for field, value := range f.Equals {
		parts = append(parts, fmt.Sprintf("eq:%s=%q", field, value))
	}
	for field, values := range f.In {
		quoted := make([]string, len(values))
		for idx := range values {
			quoted[idx] = fmt.Sprintf("%q", values[idx])
		}
		parts = append(parts, fmt.Sprintf("in:%s=[%s]", field, strings.Join(quoted, ",")))
	}
	for field, value := range f.Contains {
		parts = append(parts, fmt.Sprintf("like:%s=%q", field, value))
	}

	sort.Strings(parts)

	if f.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit:%d", f.Limit))
	}

	return strings.Join(parts, ";")
}

// Matches evaluates the filter against a single row. Comparisons ignore case
// and surrounding whitespace.
func (f Filter) Matches(row Row) bool {
	for field, value := range f.Equals {
		if !strings.EqualFold(strings.TrimSpace(row.String(field)), strings.TrimSpace(value)) {
			return false
		}
	}

	for field, values := range f.In {
		found := false
		for _, candidate := range row.Strings(field) {
			for _, value := range values {
				if strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(value)) {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}

	for field, value := range f.Contains {
		haystack := strings.ToUpper(row.String(field))
		if !strings.Contains(haystack, strings.ToUpper(strings.TrimSpace(value))) {
			return false
		}
	}

	return true
}

// Fields returns the names of all fields the filter constrains, sorted.
func (f Filter) Fields() []string {
	seen := map[string]struct{}{}
	for field := range f.Equals {
		seen[field] = struct{}{}
	}
	for field := range f.In {
		seen[field] = struct{}{}
	}
	for field := range f.Contains {
		seen[field] = struct{}{}
	}

	fields := make([]string, 0, len(seen))
	for field := range seen {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return fields
}

package api

import (
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/diwise/property-graph/internal/pkg/application/resolvers"
	"github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
)

const includeParam string = "include"

// selection is the tree of relation fields a request asks for, parsed from
// dotted include paths. Arguments for a field are passed as <path>.<arg>.
type selection struct {
	name     string
	args     resolvers.Args
	children map[string]*selection
}

func newSelection(name string) *selection {
	return &selection{
		name:     name,
		args:     resolvers.Args{},
		children: map[string]*selection{},
	}
}

// parseSelection reads the include tree and field arguments from query. Plain
// parameters without a dot become arguments of the root field.
func parseSelection(root string, query url.Values) *selection {
	sel := newSelection(root)

	for _, value := range query[includeParam] {
		for _, path := range strings.Split(value, ",") {
			if path = strings.TrimSpace(path); path != "" {
				sel.child(strings.Split(path, "."))
			}
		}
	}

	for param, values := range query {
		if param == includeParam {
			continue
		}

		segments := strings.Split(param, ".")
		target := sel.child(segments[:len(segments)-1])
		target.args[segments[len(segments)-1]] = values
	}

	return sel
}

// child returns the selection at path below s, creating it when needed.
func (s *selection) child(path []string) *selection {
	current := s
	for _, name := range path {
		next, ok := current.children[name]
		if !ok {
			next = newSelection(name)
			current.children[name] = next
		}
		current = next
	}
	return current
}

func (s *selection) names() []string {
	names := make([]string, 0, len(s.children))
	for name := range s.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validate checks every selected field and argument against the relations
// of the graph and returns the kinds that resolving the selection would touch.
func (s *selection) validate(r *resolvers.Resolver) ([]string, error) {
	seen := map[string]struct{}{}

	var walk func(sel *selection, parent records.Kind, path string) error
	walk = func(sel *selection, parent records.Kind, path string) error {
		f, ok := r.Field(parent, sel.name)
		if !ok {
			return fmt.Errorf("%s: %w", path, errors.NewUnknownFieldError(parent.String(), sel.name))
		}

		for arg := range sel.args {
			if !slices.Contains(f.Args, arg) {
				return errors.NewBadRequestError(fmt.Sprintf("%s does not take an argument %q", path, arg))
			}
		}

		seen[f.Target.String()] = struct{}{}

		for _, name := range sel.names() {
			if err := walk(sel.children[name], f.Target, path+"."+name); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(s, records.KindQuery, s.name); err != nil {
		return nil, err
	}

	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	return kinds, nil
}

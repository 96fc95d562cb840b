package resolvers

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/diwise/property-graph/pkg/entities"
	"github.com/diwise/property-graph/pkg/errors"
	"github.com/diwise/property-graph/pkg/records"
)

// Args are the arguments passed to a field. Values are kept as given, list
// arguments may be repeated or comma separated.
type Args map[string][]string

func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

func (a Args) Get(name string) string {
	if values := a[name]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// List returns a list argument, or nil when it was not given at all. An
// argument that was given without values is an empty, non nil list.
func (a Args) List(name string) []string {
	values, ok := a[name]
	if !ok {
		return nil
	}

	list := []string{}
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
	}
	return list
}

type resolveFunc func(ctx context.Context, parent any, args Args) ([]any, error)

// Field is a relation as seen by a schema layer. Singular fields always
// resolve to exactly one value, which may be the empty placeholder.
type Field struct {
	Parent records.Kind
	Name   string
	Target records.Kind
	Plural bool
	Args   []string

	resolve resolveFunc
}

// Resolve resolves the field for parent. Root fields of the Query kind take a
// nil parent.
func (f Field) Resolve(ctx context.Context, parent any, args Args) ([]any, error) {
	for name := range args {
		if !slices.Contains(f.Args, name) {
			return nil, errors.NewBadRequestError(fmt.Sprintf("%s.%s does not take an argument %q", f.Parent, f.Name, name))
		}
	}

	return f.resolve(ctx, parent, args)
}

func (r *Resolver) Field(parent records.Kind, name string) (Field, bool) {
	f, ok := r.fields[parent][name]
	return f, ok
}

// Fields lists the relations of parent sorted by name.
func (r *Resolver) Fields(parent records.Kind) []Field {
	fields := make([]Field, 0, len(r.fields[parent]))
	for _, f := range r.fields[parent] {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

const (
	ArgStreetNumber string = "streetNumber"
	ArgStreetName   string = "streetName"
	ArgBorough      string = "borough"
	ArgBlock        string = "block"
	ArgLot          string = "lot"
	ArgDocumentID   string = "documentId"
	ArgDocumentIDs  string = "documentIds"
	ArgName         string = "name"
	ArgAddress      string = "address"
	ArgStatus       string = "status"
	ArgClass        string = "class"
)

func (r *Resolver) registerFields() map[records.Kind]map[string]Field {
	fields := map[records.Kind]map[string]Field{}

	add := func(f Field) {
		if _, ok := fields[f.Parent]; !ok {
			fields[f.Parent] = map[string]Field{}
		}
		fields[f.Parent][f.Name] = f
	}

	add(Field{
		Parent: records.KindQuery, Name: "property", Target: records.KindProperty, Plural: true,
		Args: []string{ArgStreetNumber, ArgStreetName, ArgBorough, ArgBlock, ArgLot, ArgDocumentID},
		resolve: func(ctx context.Context, _ any, args Args) ([]any, error) {
			return many(r.Properties(ctx, PropertyArgs{
				StreetNumber: args.Get(ArgStreetNumber),
				StreetName:   args.Get(ArgStreetName),
				Borough:      args.Get(ArgBorough),
				Block:        args.Get(ArgBlock),
				Lot:          args.Get(ArgLot),
				DocumentID:   args.Get(ArgDocumentID),
			}))
		},
	})

	add(Field{
		Parent: records.KindQuery, Name: "document", Target: records.KindDocument,
		Args: []string{ArgDocumentID},
		resolve: func(ctx context.Context, _ any, args Args) ([]any, error) {
			return one(r.Document(ctx, args.Get(ArgDocumentID)))
		},
	})

	add(Field{
		Parent: records.KindQuery, Name: "parties", Target: records.KindParty, Plural: true,
		Args: []string{ArgName, ArgAddress},
		resolve: func(ctx context.Context, _ any, args Args) ([]any, error) {
			return many(r.Parties(ctx, partyArgs(args)))
		},
	})

	add(Field{
		Parent: records.KindQuery, Name: "housingMaintenanceCodeViolations", Target: records.KindHousingMaintenanceCodeViolation, Plural: true,
		Args: []string{ArgBorough, ArgBlock, ArgLot, ArgStatus, ArgClass},
		resolve: func(ctx context.Context, _ any, args Args) ([]any, error) {
			return many(r.Violations(ctx, violationArgs(args)))
		},
	})

	add(Field{
		Parent: records.KindProperty, Name: "propertyType", Target: records.KindPropertyType,
		resolve: withParent(func(ctx context.Context, p entities.Property, _ Args) ([]any, error) {
			return one(r.PropertyType(ctx, p))
		}),
	})

	add(Field{
		Parent: records.KindProperty, Name: "documents", Target: records.KindDocument, Plural: true,
		Args: []string{ArgDocumentIDs},
		resolve: withParent(func(ctx context.Context, p entities.Property, args Args) ([]any, error) {
			return many(r.PropertyDocuments(ctx, p, args.List(ArgDocumentIDs)))
		}),
	})

	add(Field{
		Parent: records.KindProperty, Name: "housingMaintenanceCodeViolations", Target: records.KindHousingMaintenanceCodeViolation, Plural: true,
		Args: []string{ArgBorough, ArgBlock, ArgLot, ArgStatus, ArgClass},
		resolve: withParent(func(ctx context.Context, p entities.Property, args Args) ([]any, error) {
			return many(r.PropertyViolations(ctx, p, violationArgs(args)))
		}),
	})

	add(Field{
		Parent: records.KindProperty, Name: "hpdJurisdictionData", Target: records.KindHpdJurisdictionData,
		resolve: withParent(func(ctx context.Context, p entities.Property, _ Args) ([]any, error) {
			return one(r.PropertyHpdJurisdictionData(ctx, p))
		}),
	})

	add(Field{
		Parent: records.KindProperty, Name: "valuationAndAssessmentData", Target: records.KindValuationAndAssessmentData, Plural: true,
		resolve: withParent(func(ctx context.Context, p entities.Property, _ Args) ([]any, error) {
			return many(r.PropertyValuations(ctx, p))
		}),
	})

	add(Field{
		Parent: records.KindProperty, Name: "taxClassData", Target: records.KindTaxClassData, Plural: true,
		resolve: withParent(func(ctx context.Context, p entities.Property, _ Args) ([]any, error) {
			return many(r.PropertyTaxClasses(ctx, p))
		}),
	})

	add(Field{
		Parent: records.KindDocument, Name: "parties", Target: records.KindParty, Plural: true,
		Args: []string{ArgName, ArgAddress},
		resolve: withParent(func(ctx context.Context, d entities.Document, args Args) ([]any, error) {
			return many(r.DocumentParties(ctx, d, partyArgs(args)))
		}),
	})

	add(Field{
		Parent: records.KindDocument, Name: "type", Target: records.KindDocumentType,
		resolve: withParent(func(ctx context.Context, d entities.Document, _ Args) ([]any, error) {
			return one(r.DocumentType(ctx, d))
		}),
	})

	add(Field{
		Parent: records.KindParty, Name: "document", Target: records.KindDocument,
		resolve: withParent(func(ctx context.Context, p entities.Party, _ Args) ([]any, error) {
			return one(r.PartyDocument(ctx, p))
		}),
	})

	add(Field{
		Parent: records.KindHpdJurisdictionData, Name: "registrationContacts", Target: records.KindRegistrationContact, Plural: true,
		resolve: withParent(func(ctx context.Context, h entities.HpdJurisdictionData, _ Args) ([]any, error) {
			return many(r.RegistrationContacts(ctx, h))
		}),
	})

	return fields
}

func partyArgs(args Args) PartyArgs {
	return PartyArgs{Name: args.Get(ArgName), Address: args.Get(ArgAddress)}
}

func violationArgs(args Args) ViolationArgs {
	return ViolationArgs{
		Borough: args.Get(ArgBorough),
		Block:   args.Get(ArgBlock),
		Lot:     args.Get(ArgLot),
		Status:  args.Get(ArgStatus),
		Class:   args.Get(ArgClass),
	}
}

func withParent[P any](fn func(ctx context.Context, parent P, args Args) ([]any, error)) resolveFunc {
	return func(ctx context.Context, parent any, args Args) ([]any, error) {
		switch p := parent.(type) {
		case P:
			return fn(ctx, p, args)
		case *P:
			if p != nil {
				return fn(ctx, *p, args)
			}
		}

		var expected P
		return nil, errors.NewBadRequestError(fmt.Sprintf("expected a parent of type %T, got %T", expected, parent))
	}
}

func one[E any](e E, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	return []any{e}, nil
}

// many keeps a partial result next to its error.
func many[E any](es []E, err error) ([]any, error) {
	result := make([]any, 0, len(es))
	for _, e := range es {
		result = append(result, e)
	}
	return result, err
}

// Package validator checks operations against a schema before execution.
//
// The executor never validates. Validation here renders the schema to SDL,
// loads it with gqlparser and runs gqlparser's rule set over each request.
// Only the violations of the first failing rule are reported.
package validator

import (
	"fmt"

	"github.com/hanpama/gqlcore/internal/errcode"
	"github.com/hanpama/gqlcore/internal/schema"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Validator validates operation sources against one schema.
type Validator struct {
	schema        *ast.Schema
	introspection bool
}

type Option func(*Validator)

// WithoutIntrospection rejects operations selecting __schema or __type.
func WithoutIntrospection() Option { return func(v *Validator) { v.introspection = false } }

// New loads s into gqlparser. It fails when the rendered SDL does not load,
// which indicates a schema gqlparser cannot represent.
func New(s *schema.Schema, opts ...Option) (*Validator, error) {
	loaded, err := gqlparser.LoadSchema(&ast.Source{Name: "schema", Input: schema.Render(s)})
	if err != nil {
		return nil, fmt.Errorf("validator: load schema: %w", err)
	}
	v := &Validator{schema: loaded, introspection: true}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Validate returns the violations of the first failing rule, tagged with
// GRAPHQL_VALIDATION_FAILED. An empty list means the operation is valid.
func (v *Validator) Validate(source string) gqlerror.List {
	doc, errs := gqlparser.LoadQuery(v.schema, source)
	if len(errs) == 0 && !v.introspection {
		errs = introspectionErrors(doc)
	}
	if len(errs) == 0 {
		return nil
	}

	rule := errs[0].Rule
	var out gqlerror.List
	for _, err := range errs {
		if err.Rule == rule {
			out = append(out, errcode.SetIfUnset(err, errcode.ValidationFailed))
		}
	}
	return out
}

func introspectionErrors(doc *ast.QueryDocument) gqlerror.List {
	var errs gqlerror.List
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch sel := sel.(type) {
			case *ast.Field:
				if sel.Name == "__schema" || sel.Name == "__type" {
					err := &gqlerror.Error{
						Message: fmt.Sprintf("GraphQL introspection has been disabled, but the requested query contained the field %q.", sel.Name),
						Rule:    "NoSchemaIntrospection",
					}
					if sel.Position != nil {
						err.Locations = []gqlerror.Location{{Line: sel.Position.Line, Column: sel.Position.Column}}
					}
					errs = append(errs, err)
				}
				walk(sel.SelectionSet)
			case *ast.InlineFragment:
				walk(sel.SelectionSet)
			}
		}
	}
	for _, op := range doc.Operations {
		walk(op.SelectionSet)
	}
	for _, frag := range doc.Fragments {
		walk(frag.SelectionSet)
	}
	return errs
}

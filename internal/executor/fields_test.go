package executor

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/gqlcore/internal/errcode"
	"github.com/hanpama/gqlcore/internal/language"
	"github.com/hanpama/gqlcore/internal/schema"
	"github.com/stretchr/testify/require"
)

func abcSchema() *schema.Schema {
	query := &schema.Type{
		Name: "Query",
		Kind: schema.TypeKindObject,
		FieldsThunk: schema.FieldList(
			&schema.Field{Name: "a", Type: str},
			&schema.Field{Name: "b", Type: str},
			&schema.Field{Name: "c", Type: str},
		),
	}
	return schema.MustNew(schema.Config{Query: query})
}

// collect runs field collection over the operation's top-level selection set
// and returns the response keys with the number of merged nodes per key.
func collect(t *testing.T, source string, variables map[string]any) []string {
	t.Helper()
	s := abcSchema()
	ec, errs := buildExecutionContext(context.Background(), Params{
		Schema:         s,
		Document:       mustParse(t, source),
		VariableValues: variables,
	}, options{})
	require.Empty(t, errs)

	var keys []string
	for _, cf := range ec.collectFields(s.QueryType(), ec.operation.SelectionSet).orderedFields() {
		keys = append(keys, cf.ResponseName+":"+string(rune('0'+len(cf.Fields))))
	}
	return keys
}

func TestCollectFields(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		variables map[string]any
		want      []string
	}{
		{
			name:   "fragments merge into first-seen order",
			source: `{ a ...F1 ...F2 } fragment F1 on Query { a __typename } fragment F2 on Query { __typename }`,
			want:   []string{"a:2", "__typename:2"},
		},
		{
			name:   "aliases are separate keys",
			source: `{ x: a a y: a }`,
			want:   []string{"x:1", "a:1", "y:1"},
		},
		{
			name:   "skip and include literals",
			source: `{ a b @skip(if: true) c @include(if: false) }`,
			want:   []string{"a:1"},
		},
		{
			name:   "skip wins over include",
			source: `{ a @skip(if: true) @include(if: true) b @skip(if: false) @include(if: true) }`,
			want:   []string{"b:1"},
		},
		{
			name:      "directive variables",
			source:    `query Q($yes: Boolean!, $no: Boolean = false) { a @include(if: $yes) b @include(if: $no) c @skip(if: $yes) }`,
			variables: map[string]any{"yes": true},
			want:      []string{"a:1"},
		},
		{
			name:   "directives on fragments",
			source: `{ a ...F @skip(if: true) ... @include(if: false) { c } ... @include(if: true) { b } } fragment F on Query { b c }`,
			want:   []string{"a:1", "b:1"},
		},
		{
			name:   "unknown fragment is skipped",
			source: `{ a ...Missing b }`,
			want:   []string{"a:1", "b:1"},
		},
		{
			name:   "each fragment is visited once",
			source: `{ ...F ...F a } fragment F on Query { a b }`,
			want:   []string{"a:2", "b:1"},
		},
		{
			name:   "non-matching type condition",
			source: `{ a ... on Other { b } ...G } fragment G on Other { c }`,
			want:   []string{"a:1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, tt.source, tt.variables)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("collected fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollectSubfields_MergesAllNodes(t *testing.T) {
	s := abcSchema()
	doc := mustParse(t, `{ q { a } q { b } ... { q { a c } } }`)
	ec, errs := buildExecutionContext(context.Background(), Params{Schema: s, Document: doc}, options{})
	require.Empty(t, errs)

	top := ec.collectFields(s.QueryType(), ec.operation.SelectionSet).orderedFields()
	require.Len(t, top, 1)
	require.Len(t, top[0].Fields, 3)

	var got []string
	for _, cf := range ec.collectSubfields(s.QueryType(), top[0].Fields).orderedFields() {
		got = append(got, cf.ResponseName)
		for _, f := range cf.Fields {
			require.IsType(t, &language.Field{}, f)
		}
	}
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestExecute_ValidatorIndependentFragmentHandling(t *testing.T) {
	query := &schema.Type{
		Name:        "Query",
		Kind:        schema.TypeKindObject,
		FieldsThunk: schema.FieldList(&schema.Field{Name: "hello", Type: str, Resolve: constant("world")}),
	}
	s := schema.MustNew(schema.Config{Query: query})

	res := run(t, Params{Schema: s}, `{ hello ...Missing }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"data":{"hello":"world"}}`, toJSON(t, res))
}

func TestExecute_InvalidDirectiveConditions(t *testing.T) {
	item := &schema.Type{
		Name: "Item",
		Kind: schema.TypeKindObject,
		FieldsThunk: schema.FieldList(
			&schema.Field{Name: "a", Type: str, Resolve: constant("A")},
			&schema.Field{Name: "b", Type: str, Resolve: constant("B")},
		),
	}
	query := &schema.Type{
		Name: "Query",
		Kind: schema.TypeKindObject,
		FieldsThunk: schema.FieldList(
			&schema.Field{Name: "a", Type: str, Resolve: constant("A")},
			&schema.Field{Name: "b", Type: str, Resolve: constant("B")},
			&schema.Field{Name: "items", Type: schema.ListOf(schema.Named(item)), Resolve: constant([]any{1, 2, 3})},
		),
	}
	s := schema.MustNew(schema.Config{Query: query})

	t.Run("literal of the wrong type", func(t *testing.T) {
		res := run(t, Params{Schema: s}, `{ a b @skip(if: "yes") }`)
		require.JSONEq(t, `{
			"errors": [{
				"message": "Directive \"@skip\": Argument \"if\" has invalid value \"yes\": Boolean cannot represent a non boolean value: \"yes\"",
				"locations": [{"line": 1, "column": 7}],
				"extensions": {"code": "BAD_USER_INPUT"}
			}],
			"data": {"a": "A"}
		}`, toJSON(t, res))
	})

	t.Run("unset nullable variable", func(t *testing.T) {
		res := run(t, Params{Schema: s}, `query ($v: Boolean) { a b @include(if: $v) }`)
		require.Len(t, res.Errors, 1)
		require.Equal(t, `Directive "@include": Argument "if" of required type "Boolean!" was not provided.`, res.Errors[0].Message)
		require.Equal(t, errcode.BadUserInput, errcode.Get(res.Errors[0]))
		require.Nil(t, res.Errors[0].Path)
		require.Equal(t, `{"a":"A"}`, mustMarshal(t, res.Data))
	})

	t.Run("reported once per node", func(t *testing.T) {
		res := run(t, Params{Schema: s}, `{ items { a b @include(if: 1) } }`, WithConcurrency(4))
		require.Len(t, res.Errors, 1)
		require.Equal(t, `{"items":[{"a":"A"},{"a":"A"},{"a":"A"}]}`, mustMarshal(t, res.Data))
	})
}

package introspection_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hanpama/gqlcore/internal/executor"
	"github.com/hanpama/gqlcore/internal/introspection"
	"github.com/hanpama/gqlcore/internal/language"
	"github.com/hanpama/gqlcore/internal/schema"
	"github.com/stretchr/testify/require"
)

func testSchema() *schema.Schema {
	str := schema.Named(schema.String)
	episode := &schema.Type{
		Name:        "Episode",
		Kind:        schema.TypeKindEnum,
		Description: "One of the films in the Star Wars Trilogy",
		EnumValues: []*schema.EnumValue{
			{Name: "NEWHOPE"},
			{Name: "EMPIRE"},
			{Name: "JEDI"},
			{Name: "HOLIDAY", DeprecationReason: "Not canon."},
		},
	}
	character := &schema.Type{
		Name:        "Character",
		Kind:        schema.TypeKindInterface,
		FieldsThunk: schema.FieldList(&schema.Field{Name: "name", Type: schema.NonNull(str)}),
	}
	human := &schema.Type{
		Name:       "Human",
		Kind:       schema.TypeKindObject,
		Interfaces: []*schema.TypeRef{schema.Named(character)},
		FieldsThunk: schema.FieldList(
			&schema.Field{Name: "name", Type: schema.NonNull(str)},
			&schema.Field{Name: "homePlanet", Type: str, DeprecationReason: "Use planet."},
		),
	}
	query := &schema.Type{
		Name: "Query",
		Kind: schema.TypeKindObject,
		FieldsThunk: schema.FieldList(&schema.Field{
			Name: "hero",
			Type: schema.Named(character),
			Arguments: []*schema.InputValue{
				{Name: "episode", Type: schema.Named(episode), DefaultValue: "JEDI"},
				{Name: "limit", Type: schema.ListOf(schema.Named(schema.Int)), DefaultValue: []any{1, 2}},
			},
		}),
	}
	return schema.MustNew(schema.Config{Query: query, Types: []*schema.Type{human}})
}

func introspect(t *testing.T, source string) string {
	t.Helper()
	doc, err := language.Parse(source)
	require.NoError(t, err)
	res := executor.Execute(context.Background(), executor.Params{Schema: testSchema(), Document: doc})
	require.Empty(t, res.Errors)
	b, err := json.Marshal(res.Data)
	require.NoError(t, err)
	return string(b)
}

func TestSchemaTypes(t *testing.T) {
	got := introspect(t, `{ __schema { queryType { name } mutationType { name } types { name } directives { name } } }`)
	require.JSONEq(t, `{"__schema": {
		"queryType": {"name": "Query"},
		"mutationType": null,
		"types": [
			{"name": "Boolean"}, {"name": "Character"}, {"name": "Episode"}, {"name": "Float"},
			{"name": "Human"}, {"name": "ID"}, {"name": "Int"}, {"name": "Query"}, {"name": "String"},
			{"name": "__Directive"}, {"name": "__DirectiveLocation"}, {"name": "__EnumValue"},
			{"name": "__Field"}, {"name": "__InputValue"}, {"name": "__Schema"}, {"name": "__Type"},
			{"name": "__TypeKind"}
		],
		"directives": [{"name": "include"}, {"name": "skip"}, {"name": "deprecated"}]
	}}`, got)
}

func TestTypeFields(t *testing.T) {
	got := introspect(t, `{
		human: __type(name: "Human") {
			kind
			name
			interfaces { name }
			fields { name type { kind name ofType { kind name } } }
			all: fields(includeDeprecated: true) { name isDeprecated deprecationReason }
			enumValues { name }
			possibleTypes { name }
		}
	}`)
	require.JSONEq(t, `{"human": {
		"kind": "OBJECT",
		"name": "Human",
		"interfaces": [{"name": "Character"}],
		"fields": [
			{"name": "name", "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "String"}}}
		],
		"all": [
			{"name": "name", "isDeprecated": false, "deprecationReason": null},
			{"name": "homePlanet", "isDeprecated": true, "deprecationReason": "Use planet."}
		],
		"enumValues": null,
		"possibleTypes": null
	}}`, got)
}

func TestAbstractAndEnumTypes(t *testing.T) {
	got := introspect(t, `{
		character: __type(name: "Character") { kind possibleTypes { name } fields { name } }
		episode: __type(name: "Episode") {
			kind
			description
			enumValues { name }
			all: enumValues(includeDeprecated: true) { name isDeprecated }
		}
	}`)
	require.JSONEq(t, `{
		"character": {"kind": "INTERFACE", "possibleTypes": [{"name": "Human"}], "fields": [{"name": "name"}]},
		"episode": {
			"kind": "ENUM",
			"description": "One of the films in the Star Wars Trilogy",
			"enumValues": [{"name": "NEWHOPE"}, {"name": "EMPIRE"}, {"name": "JEDI"}],
			"all": [
				{"name": "NEWHOPE", "isDeprecated": false},
				{"name": "EMPIRE", "isDeprecated": false},
				{"name": "JEDI", "isDeprecated": false},
				{"name": "HOLIDAY", "isDeprecated": true}
			]
		}
	}`, got)
}

func TestArgumentDefaults(t *testing.T) {
	got := introspect(t, `{ __type(name: "Query") { fields { name args { name defaultValue type { kind ofType { name } } } } } }`)
	require.JSONEq(t, `{"__type": {"fields": [{
		"name": "hero",
		"args": [
			{"name": "episode", "defaultValue": "JEDI", "type": {"kind": "ENUM", "ofType": null}},
			{"name": "limit", "defaultValue": "[1, 2]", "type": {"kind": "LIST", "ofType": {"name": "Int"}}}
		]
	}]}}`, got)
}

func TestTypeLookup(t *testing.T) {
	got := introspect(t, `{
		missing: __type(name: "Droid") { name }
		meta: __type(name: "__Type") { name kind }
		kinds: __type(name: "__TypeKind") { enumValues { name } }
		__typename
	}`)
	require.JSONEq(t, `{
		"missing": null,
		"meta": {"name": "__Type", "kind": "OBJECT"},
		"kinds": {"enumValues": [
			{"name": "SCALAR"}, {"name": "OBJECT"}, {"name": "INTERFACE"}, {"name": "UNION"},
			{"name": "ENUM"}, {"name": "INPUT_OBJECT"}, {"name": "LIST"}, {"name": "NON_NULL"}
		]},
		"__typename": "Query"
	}`, got)
}

func TestMetaTypeHelpers(t *testing.T) {
	s := testSchema()
	require.True(t, introspection.IsMetaType("__Schema"))
	require.False(t, introspection.IsMetaType("Human"))
	require.Equal(t, "Human", introspection.LookupType(s, "Human").Name)
	require.Equal(t, "__Field", introspection.LookupType(s, "__Field").Name)
	require.Nil(t, introspection.LookupType(s, "Droid"))

	var names []string
	for _, mt := range introspection.Types() {
		names = append(names, mt.Name)
	}
	require.Equal(t, []string{
		"__Directive", "__DirectiveLocation", "__EnumValue", "__Field",
		"__InputValue", "__Schema", "__Type", "__TypeKind",
	}, names)
	require.Equal(t, "__Schema!", introspection.SchemaMetaField.Type.String())
	require.Equal(t, "String!", introspection.TypeNameMetaField.Type.String())
}

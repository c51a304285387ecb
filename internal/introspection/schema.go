// Package introspection declares the __Schema/__Type meta-types and the
// __schema, __type and __typename meta-fields. The executor resolves these
// like any other object fields.
package introspection

import (
	"sort"

	"github.com/hanpama/gqlcore/internal/schema"
)

// Meta-fields the executor adds to selections. __schema and __type are only
// valid on the query root.
var (
	SchemaMetaField   *schema.Field
	TypeMetaField     *schema.Field
	TypeNameMetaField *schema.Field
)

// meta is built in init because the resolvers read it back.
var meta *metaTypes

func init() {
	meta = buildMetaTypes()
	SchemaMetaField = meta.schemaField
	TypeMetaField = meta.typeField
	TypeNameMetaField = meta.typeNameField
}

// Types returns the meta-types sorted by name.
func Types() []*schema.Type {
	out := make([]*schema.Type, 0, len(meta.types))
	for _, t := range meta.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsMetaType reports whether name belongs to a meta-type.
func IsMetaType(name string) bool {
	_, ok := meta.types[name]
	return ok
}

// LookupType finds a schema type by name, falling back to the meta-types.
func LookupType(s *schema.Schema, name string) *schema.Type {
	if t := s.Type(name); t != nil {
		return t
	}
	return meta.types[name]
}

type metaTypes struct {
	types         map[string]*schema.Type
	schemaField   *schema.Field
	typeField     *schema.Field
	typeNameField *schema.Field
}

// buildMetaTypes registers every meta-type shell by name first and attaches
// field lists once all of them exist.
func buildMetaTypes() *metaTypes {
	m := &metaTypes{types: map[string]*schema.Type{}}
	for _, shell := range []*schema.Type{
		{Name: "__Schema", Kind: schema.TypeKindObject, Description: "A GraphQL Schema defines the capabilities of a GraphQL server. It exposes all available types and directives on the server, as well as the entry points for query and mutation operations."},
		{Name: "__Type", Kind: schema.TypeKindObject, Description: "The fundamental unit of any GraphQL Schema is the type. There are many kinds of types in GraphQL as represented by the `__TypeKind` enum.\n\nDepending on the kind of a type, certain fields describe information about that type. Scalar types provide no information beyond a name and description, while Enum types provide their values. Object and Interface types provide the fields they describe. Abstract types, Union and Interface, provide the Object types possible at runtime. List and NonNull types compose other types."},
		{Name: "__Field", Kind: schema.TypeKindObject, Description: "Object and Interface types are described by a list of Fields, each of which has a name, potentially a list of arguments, and a return type."},
		{Name: "__InputValue", Kind: schema.TypeKindObject, Description: "Arguments provided to Fields or Directives and the input fields of an InputObject are represented as Input Values which describe their type and optionally a default value."},
		{Name: "__EnumValue", Kind: schema.TypeKindObject, Description: "One possible value for a given Enum. Enum values are unique values, not a placeholder for a string or numeric value. However an Enum value is returned in a JSON response as a string."},
		{Name: "__Directive", Kind: schema.TypeKindObject, Description: "A Directive provides a way to describe alternate runtime execution and type validation behavior in a GraphQL document."},
		{Name: "__TypeKind", Kind: schema.TypeKindEnum, Description: "An enum describing what kind of type a given `__Type` is."},
		{Name: "__DirectiveLocation", Kind: schema.TypeKindEnum, Description: "A Directive can be adjacent to many parts of the GraphQL language, a __DirectiveLocation describes one such possible adjacencies."},
	} {
		m.types[shell.Name] = shell
	}

	ref := func(name string) *schema.TypeRef { return schema.Named(m.types[name]) }
	nonNull := func(name string) *schema.TypeRef { return schema.NonNull(ref(name)) }
	nonNullList := func(name string) *schema.TypeRef {
		return schema.NonNull(schema.ListOf(schema.NonNull(ref(name))))
	}
	str := schema.Named(schema.String)
	boolean := schema.NonNull(schema.Named(schema.Boolean))
	includeDeprecated := []*schema.InputValue{{Name: "includeDeprecated", Type: schema.Named(schema.Boolean), DefaultValue: false}}

	m.types["__Schema"].FieldsThunk = schema.FieldList(
		&schema.Field{Name: "description", Type: str, Resolve: schemaDescription},
		&schema.Field{Name: "types", Description: "A list of all types supported by this server.", Type: nonNullList("__Type"), Resolve: schemaTypes},
		&schema.Field{Name: "queryType", Description: "The type that query operations will be rooted at.", Type: nonNull("__Type"), Resolve: schemaQueryType},
		&schema.Field{Name: "mutationType", Description: "If this server supports mutation, the type that mutation operations will be rooted at.", Type: ref("__Type"), Resolve: schemaMutationType},
		&schema.Field{Name: "subscriptionType", Description: "If this server support subscription, the type that subscription operations will be rooted at.", Type: ref("__Type"), Resolve: nothing},
		&schema.Field{Name: "directives", Description: "A list of all directives supported by this server.", Type: nonNullList("__Directive"), Resolve: schemaDirectives},
	)

	m.types["__Type"].FieldsThunk = schema.FieldList(
		&schema.Field{Name: "kind", Type: nonNull("__TypeKind"), Resolve: typeKind},
		&schema.Field{Name: "name", Type: str, Resolve: typeName},
		&schema.Field{Name: "description", Type: str, Resolve: typeDescription},
		&schema.Field{Name: "specifiedByURL", Type: str, Resolve: nothing},
		&schema.Field{Name: "fields", Type: schema.ListOf(schema.NonNull(ref("__Field"))), Arguments: includeDeprecated, Resolve: typeFields},
		&schema.Field{Name: "interfaces", Type: schema.ListOf(schema.NonNull(ref("__Type"))), Resolve: typeInterfaces},
		&schema.Field{Name: "possibleTypes", Type: schema.ListOf(schema.NonNull(ref("__Type"))), Resolve: typePossibleTypes},
		&schema.Field{Name: "enumValues", Type: schema.ListOf(schema.NonNull(ref("__EnumValue"))), Arguments: includeDeprecated, Resolve: typeEnumValues},
		&schema.Field{Name: "inputFields", Type: schema.ListOf(schema.NonNull(ref("__InputValue"))), Resolve: typeInputFields},
		&schema.Field{Name: "ofType", Type: ref("__Type"), Resolve: typeOfType},
	)

	m.types["__Field"].FieldsThunk = schema.FieldList(
		&schema.Field{Name: "name", Type: schema.NonNull(str), Resolve: fieldName},
		&schema.Field{Name: "description", Type: str, Resolve: fieldDescription},
		&schema.Field{Name: "args", Type: nonNullList("__InputValue"), Resolve: fieldArgs},
		&schema.Field{Name: "type", Type: nonNull("__Type"), Resolve: fieldType},
		&schema.Field{Name: "isDeprecated", Type: boolean, Resolve: fieldIsDeprecated},
		&schema.Field{Name: "deprecationReason", Type: str, Resolve: fieldDeprecationReason},
	)

	m.types["__InputValue"].FieldsThunk = schema.FieldList(
		&schema.Field{Name: "name", Type: schema.NonNull(str), Resolve: inputValueName},
		&schema.Field{Name: "description", Type: str, Resolve: inputValueDescription},
		&schema.Field{Name: "type", Type: nonNull("__Type"), Resolve: inputValueType},
		&schema.Field{Name: "defaultValue", Description: "A GraphQL-formatted string representing the default value for this input value.", Type: str, Resolve: inputValueDefaultValue},
	)

	m.types["__EnumValue"].FieldsThunk = schema.FieldList(
		&schema.Field{Name: "name", Type: schema.NonNull(str), Resolve: enumValueName},
		&schema.Field{Name: "description", Type: str, Resolve: enumValueDescription},
		&schema.Field{Name: "isDeprecated", Type: boolean, Resolve: enumValueIsDeprecated},
		&schema.Field{Name: "deprecationReason", Type: str, Resolve: enumValueDeprecationReason},
	)

	m.types["__Directive"].FieldsThunk = schema.FieldList(
		&schema.Field{Name: "name", Type: schema.NonNull(str), Resolve: directiveName},
		&schema.Field{Name: "description", Type: str, Resolve: directiveDescription},
		&schema.Field{Name: "isRepeatable", Type: boolean, Resolve: directiveIsRepeatable},
		&schema.Field{Name: "locations", Type: nonNullList("__DirectiveLocation"), Resolve: directiveLocations},
		&schema.Field{Name: "args", Type: nonNullList("__InputValue"), Resolve: directiveArgs},
	)

	m.types["__TypeKind"].EnumValues = enumValues(
		"SCALAR", "OBJECT", "INTERFACE", "UNION", "ENUM", "INPUT_OBJECT", "LIST", "NON_NULL",
	)
	m.types["__DirectiveLocation"].EnumValues = enumValues(
		"QUERY", "MUTATION", "SUBSCRIPTION", "FIELD", "FRAGMENT_DEFINITION", "FRAGMENT_SPREAD",
		"INLINE_FRAGMENT", "VARIABLE_DEFINITION", "SCHEMA", "SCALAR", "OBJECT", "FIELD_DEFINITION",
		"ARGUMENT_DEFINITION", "INTERFACE", "UNION", "ENUM", "ENUM_VALUE", "INPUT_OBJECT",
		"INPUT_FIELD_DEFINITION",
	)

	m.schemaField = &schema.Field{
		Name:        "__schema",
		Description: "Access the current type schema of this server.",
		Type:        nonNull("__Schema"),
		Resolve:     resolveSchema,
	}
	m.typeField = &schema.Field{
		Name:        "__type",
		Description: "Request the type information of a single type.",
		Type:        ref("__Type"),
		Arguments: []*schema.InputValue{
			{Name: "name", Type: schema.NonNull(str)},
		},
		Resolve: resolveType,
	}
	m.typeNameField = &schema.Field{
		Name:        "__typename",
		Description: "The name of the current Object type at runtime.",
		Type:        schema.NonNull(str),
		Resolve:     resolveTypeName,
	}
	return m
}

func enumValues(names ...string) []*schema.EnumValue {
	out := make([]*schema.EnumValue, len(names))
	for i, name := range names {
		out[i] = &schema.EnumValue{Name: name}
	}
	return out
}

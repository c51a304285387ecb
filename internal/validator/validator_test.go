package validator

import (
	"testing"

	"github.com/hanpama/gqlcore/internal/errcode"
	"github.com/hanpama/gqlcore/internal/schema"
	"github.com/stretchr/testify/require"
)

func testSchema() *schema.Schema {
	str := schema.Named(schema.String)
	episode := &schema.Type{
		Name:       "Episode",
		Kind:       schema.TypeKindEnum,
		EnumValues: []*schema.EnumValue{{Name: "NEWHOPE"}, {Name: "EMPIRE"}, {Name: "JEDI"}},
	}
	query := &schema.Type{
		Name: "Query",
		Kind: schema.TypeKindObject,
		FieldsThunk: schema.FieldList(
			&schema.Field{Name: "hello", Type: str},
			&schema.Field{
				Name:      "hero",
				Type:      str,
				Arguments: []*schema.InputValue{{Name: "episode", Type: schema.Named(episode), DefaultValue: "JEDI"}},
			},
		),
	}
	return schema.MustNew(schema.Config{Query: query})
}

func TestValidate(t *testing.T) {
	v, err := New(testSchema())
	require.NoError(t, err)

	tests := []struct {
		name     string
		source   string
		wantRule string
		contains string
	}{
		{name: "valid", source: `query Q($e: Episode) { hello hero(episode: $e) __typename }`},
		{name: "introspection allowed", source: `{ __schema { queryType { name } } __type(name: "Query") { name } }`},
		{name: "unknown fragment", source: `{ hello ...Missing }`, wantRule: "KnownFragmentNames", contains: `"Missing"`},
		{name: "unknown field", source: `{ zzz }`, wantRule: "FieldsOnCorrectType", contains: `Cannot query field "zzz" on type "Query".`},
		{name: "unknown argument", source: `{ hero(era: JEDI) }`, wantRule: "KnownArgumentNames", contains: `"era"`},
		{name: "bad enum literal", source: `{ hero(episode: SITH) }`, wantRule: "ValuesOfCorrectType", contains: "SITH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(tt.source)
			if tt.wantRule == "" {
				require.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			for _, err := range errs {
				require.Equal(t, tt.wantRule, err.Rule)
				require.Equal(t, errcode.ValidationFailed, errcode.Get(err))
				require.NotEmpty(t, err.Locations)
			}
			require.Contains(t, errs[0].Message, tt.contains)
		})
	}
}

func TestValidate_FirstRuleOnly(t *testing.T) {
	v, err := New(testSchema())
	require.NoError(t, err)

	errs := v.Validate(`{ zzz yyy ...Missing }`)
	require.Len(t, errs, 2)
	require.Equal(t, errs[0].Rule, errs[1].Rule)
}

func TestValidate_WithoutIntrospection(t *testing.T) {
	v, err := New(testSchema(), WithoutIntrospection())
	require.NoError(t, err)

	require.Empty(t, v.Validate(`{ hello __typename }`))

	errs := v.Validate(`query { ...F } fragment F on Query { __type(name: "Query") { name } }`)
	require.Len(t, errs, 1)
	require.Equal(t, `GraphQL introspection has been disabled, but the requested query contained the field "__type".`, errs[0].Message)
	require.Equal(t, errcode.ValidationFailed, errcode.Get(errs[0]))
	require.Equal(t, 1, errs[0].Locations[0].Line)
}

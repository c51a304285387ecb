package starwars_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/gqlcore/internal/executor"
	"github.com/hanpama/gqlcore/internal/language"
	"github.com/hanpama/gqlcore/internal/schema"
	"github.com/hanpama/gqlcore/internal/starwars"
	"github.com/hanpama/gqlcore/internal/validator"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func execute(t *testing.T, s *schema.Schema, source string, vars map[string]any) *executor.Result {
	t.Helper()
	doc, err := language.Parse(source)
	require.NoError(t, err)
	return executor.Execute(context.Background(), executor.Params{Schema: s, Document: doc, VariableValues: vars})
}

func data(t *testing.T, res *executor.Result) string {
	t.Helper()
	require.Empty(t, res.Errors)
	b, err := json.Marshal(res.Data)
	require.NoError(t, err)
	return string(b)
}

func TestQueries(t *testing.T) {
	s := starwars.NewSchema()
	tests := []struct {
		name   string
		source string
		vars   map[string]any
		want   string
	}{
		{
			name:   "hero name",
			source: `query HeroNameQuery { hero { name } }`,
			want:   `{"hero":{"name":"R2-D2"}}`,
		},
		{
			name:   "hero friends",
			source: `{ hero { id name friends { name } } }`,
			want: `{"hero":{"id":"2001","name":"R2-D2","friends":[
				{"name":"Luke Skywalker"},{"name":"Han Solo"},{"name":"Leia Organa"}]}}`,
		},
		{
			name:   "nested friends",
			source: `{ hero { friends { name appearsIn friends { name } } } }`,
			want: `{"hero":{"friends":[
				{"name":"Luke Skywalker","appearsIn":["NEWHOPE","EMPIRE","JEDI"],"friends":[
					{"name":"Han Solo"},{"name":"Leia Organa"},{"name":"C-3PO"},{"name":"R2-D2"}]},
				{"name":"Han Solo","appearsIn":["NEWHOPE","EMPIRE","JEDI"],"friends":[
					{"name":"Luke Skywalker"},{"name":"Leia Organa"},{"name":"R2-D2"}]},
				{"name":"Leia Organa","appearsIn":["NEWHOPE","EMPIRE","JEDI"],"friends":[
					{"name":"Luke Skywalker"},{"name":"Han Solo"},{"name":"C-3PO"},{"name":"R2-D2"}]}]}}`,
		},
		{
			name:   "hero of episode",
			source: `{ empire: hero(episode: EMPIRE) { name } jedi: hero(episode: JEDI) { name } }`,
			want:   `{"empire":{"name":"Luke Skywalker"},"jedi":{"name":"R2-D2"}}`,
		},
		{
			name:   "human by variable",
			source: `query FetchSomeID($someId: String!) { human(id: $someId) { name homePlanet } }`,
			vars:   map[string]any{"someId": "1002"},
			want:   `{"human":{"name":"Han Solo","homePlanet":null}}`,
		},
		{
			name:   "unknown id",
			source: `{ human(id: "not a valid id") { name } droid(id: "1000") { name } }`,
			want:   `{"human":null,"droid":null}`,
		},
		{
			name:   "aliases",
			source: `{ luke: human(id: "1000") { name } leia: human(id: "1003") { name } }`,
			want:   `{"luke":{"name":"Luke Skywalker"},"leia":{"name":"Leia Organa"}}`,
		},
		{
			name: "fragments",
			source: `query UseFragment {
				luke: human(id: "1000") { ...HumanFragment }
				leia: human(id: "1003") { ...HumanFragment }
			}
			fragment HumanFragment on Human { name homePlanet }`,
			want: `{"luke":{"name":"Luke Skywalker","homePlanet":"Tatooine"},"leia":{"name":"Leia Organa","homePlanet":"Alderaan"}}`,
		},
		{
			name:   "typename on interface",
			source: `{ hero { __typename name } luke: hero(episode: EMPIRE) { __typename name } }`,
			want:   `{"hero":{"__typename":"Droid","name":"R2-D2"},"luke":{"__typename":"Human","name":"Luke Skywalker"}}`,
		},
		{
			name: "inline fragments on interface",
			source: `{ character(id: "1003") { name ... on Human { homePlanet } ... on Droid { primaryFunction } }
				droid: character(id: "2000") { name ... on Human { homePlanet } ... on Droid { primaryFunction } } }`,
			want: `{"character":{"name":"Leia Organa","homePlanet":"Alderaan"},"droid":{"name":"C-3PO","primaryFunction":"Protocol"}}`,
		},
		{
			name:   "search union",
			source: `{ search(text: "o") { __typename ... on Human { name } ... on Droid { name primaryFunction } } }`,
			want: `{"search":[
				{"__typename":"Human","name":"Han Solo"},
				{"__typename":"Human","name":"Leia Organa"},
				{"__typename":"Droid","name":"C-3PO","primaryFunction":"Protocol"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.JSONEq(t, tt.want, data(t, execute(t, s, tt.source, tt.vars)))
		})
	}
}

func TestSecretBackstory(t *testing.T) {
	s := starwars.NewSchema()

	res := execute(t, s, `{ hero { name secretBackstory } }`, nil)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "secretBackstory is secret.", res.Errors[0].Message)
	require.Equal(t, ast.Path{ast.PathName("hero"), ast.PathName("secretBackstory")}, res.Errors[0].Path)
	b, err := json.Marshal(res.Data)
	require.NoError(t, err)
	require.JSONEq(t, `{"hero":{"name":"R2-D2","secretBackstory":null}}`, string(b))

	res = execute(t, s, `{ hero { friends { secretBackstory } } }`, nil)
	var paths []string
	for _, err := range res.Errors {
		paths = append(paths, err.Path.String())
	}
	want := []string{
		"hero.friends[0].secretBackstory",
		"hero.friends[1].secretBackstory",
		"hero.friends[2].secretBackstory",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("error paths mismatch (-want +got):\n%s", diff)
	}
}

func TestReviews(t *testing.T) {
	s := starwars.NewSchema()

	res := execute(t, s, `mutation ($ep: Episode!, $review: ReviewInput!) {
		createReview(episode: $ep, review: $review) { episode stars commentary }
	}`, map[string]any{
		"ep":     "JEDI",
		"review": map[string]any{"stars": 5, "commentary": "This is a great movie!"},
	})
	require.JSONEq(t, `{"createReview":{"episode":"JEDI","stars":5,"commentary":"This is a great movie!"}}`, data(t, res))

	res = execute(t, s, `mutation { createReview(episode: JEDI, review: {stars: 3}) { stars commentary } }`, nil)
	require.JSONEq(t, `{"createReview":{"stars":3,"commentary":null}}`, data(t, res))

	res = execute(t, s, `{ jedi: reviews(episode: JEDI) { stars } empire: reviews(episode: EMPIRE) { stars } }`, nil)
	require.JSONEq(t, `{"jedi":[{"stars":5},{"stars":3}],"empire":[]}`, data(t, res))

	fresh := starwars.NewSchema()
	res = execute(t, fresh, `{ reviews(episode: JEDI) { stars } }`, nil)
	require.JSONEq(t, `{"reviews":[]}`, data(t, res))
}

func TestValidates(t *testing.T) {
	v, err := validator.New(starwars.NewSchema())
	require.NoError(t, err)

	require.Empty(t, v.Validate(`{ hero { name ... on Droid { primaryFunction } } search(text: "r") { ... on Human { homePlanet } } }`))
	errs := v.Validate(`{ hero { homePlanet } }`)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Message, `Cannot query field "homePlanet" on type "Character".`)
	require.Contains(t, errs[0].Message, `"Human"`)
}

func TestIntrospection(t *testing.T) {
	s := starwars.NewSchema()

	res := execute(t, s, `{
		__schema { queryType { name } mutationType { name } }
		droid: __type(name: "Droid") { kind interfaces { name } fields { name } }
		result: __type(name: "SearchResult") { kind possibleTypes { name } }
	}`, nil)
	require.JSONEq(t, `{
		"__schema": {"queryType": {"name": "Query"}, "mutationType": {"name": "Mutation"}},
		"droid": {
			"kind": "OBJECT",
			"interfaces": [{"name": "Character"}],
			"fields": [
				{"name": "id"}, {"name": "name"}, {"name": "friends"},
				{"name": "appearsIn"}, {"name": "secretBackstory"}, {"name": "primaryFunction"}
			]
		},
		"result": {"kind": "UNION", "possibleTypes": [{"name": "Human"}, {"name": "Droid"}]}
	}`, data(t, res))
}

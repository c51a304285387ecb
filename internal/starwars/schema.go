// Package starwars is a small example schema over the Star Wars trilogy. It
// backs the CLI's query command and serves as an end-to-end fixture for the
// executor, introspection and the HTTP server.
package starwars

import (
	"errors"

	"github.com/hanpama/gqlcore/internal/schema"
)

// NewSchema builds the schema. Each call gets its own review store, so
// reviews created through one schema are not visible through another.
func NewSchema() *schema.Schema {
	reviews := newReviewStore()

	str := schema.Named(schema.String)
	episode := &schema.Type{
		Name:        "Episode",
		Kind:        schema.TypeKindEnum,
		Description: "One of the films in the Star Wars Trilogy",
		EnumValues: []*schema.EnumValue{
			{Name: "NEWHOPE", Value: NewHope, Description: "Released in 1977."},
			{Name: "EMPIRE", Value: Empire, Description: "Released in 1980."},
			{Name: "JEDI", Value: Jedi, Description: "Released in 1983."},
		},
	}

	friends := func(p schema.ResolveParams) (any, error) {
		var out []any
		for _, id := range friendIDs(p.Source) {
			out = append(out, character(id))
		}
		return out, nil
	}
	secretBackstory := func(schema.ResolveParams) (any, error) {
		return nil, errors.New("secretBackstory is secret.")
	}
	characterFields := func(extra ...*schema.Field) schema.FieldsThunk {
		return func() []*schema.Field {
			fields := []*schema.Field{
				{Name: "id", Type: schema.NonNull(str), Description: "The id of the character."},
				{Name: "name", Type: str, Description: "The name of the character."},
				{
					Name:        "friends",
					Type:        schema.ListOf(schema.Ref("Character")),
					Description: "The friends of the character, or an empty list if they have none.",
					Resolve:     friends,
				},
				{Name: "appearsIn", Type: schema.ListOf(schema.Named(episode)), Description: "Which movies they appear in."},
				{Name: "secretBackstory", Type: str, Description: "All secrets about their past.", Resolve: secretBackstory},
			}
			return append(fields, extra...)
		}
	}

	characterType := &schema.Type{
		Name:        "Character",
		Kind:        schema.TypeKindInterface,
		Description: "A character in the Star Wars Trilogy",
		FieldsThunk: characterFields(),
	}
	humanType := &schema.Type{
		Name:        "Human",
		Kind:        schema.TypeKindObject,
		Description: "A humanoid creature in the Star Wars universe.",
		Interfaces:  []*schema.TypeRef{schema.Named(characterType)},
		FieldsThunk: characterFields(
			&schema.Field{Name: "homePlanet", Type: str, Description: "The home planet of the human, or null if unknown."},
		),
	}
	droidType := &schema.Type{
		Name:        "Droid",
		Kind:        schema.TypeKindObject,
		Description: "A mechanical creature in the Star Wars universe.",
		Interfaces:  []*schema.TypeRef{schema.Named(characterType)},
		FieldsThunk: characterFields(
			&schema.Field{Name: "primaryFunction", Type: str, Description: "The primary function of the droid."},
		),
	}
	searchResult := &schema.Type{
		Name:    "SearchResult",
		Kind:    schema.TypeKindUnion,
		Members: []*schema.TypeRef{schema.Named(humanType), schema.Named(droidType)},
	}

	review := &schema.Type{
		Name:        "Review",
		Kind:        schema.TypeKindObject,
		Description: "Represents a review for a movie",
		FieldsThunk: schema.FieldList(
			&schema.Field{Name: "episode", Type: schema.Named(episode), Description: "The movie"},
			&schema.Field{Name: "stars", Type: schema.NonNull(schema.Named(schema.Int)), Description: "The number of stars this review gave, 1-5"},
			&schema.Field{Name: "commentary", Type: str, Description: "Comment about the movie"},
		),
	}
	reviewInput := &schema.Type{
		Name:        "ReviewInput",
		Kind:        schema.TypeKindInputObject,
		Description: "The input object sent when someone is creating a new review",
		InputFieldsThunk: schema.InputFieldList(
			&schema.InputValue{Name: "stars", Type: schema.NonNull(schema.Named(schema.Int)), Description: "0-5 stars"},
			&schema.InputValue{Name: "commentary", Type: str, Description: "Comment about the movie, optional"},
		),
	}

	byID := func(lookup func(id string) any) schema.FieldResolveFn {
		return func(p schema.ResolveParams) (any, error) {
			id, _ := p.Args["id"].(string)
			return lookup(id), nil
		}
	}
	idArg := []*schema.InputValue{{Name: "id", Type: schema.NonNull(str), Description: "id of the character"}}

	query := &schema.Type{
		Name: "Query",
		Kind: schema.TypeKindObject,
		FieldsThunk: schema.FieldList(
			&schema.Field{
				Name: "hero",
				Type: schema.Named(characterType),
				Arguments: []*schema.InputValue{{
					Name:        "episode",
					Type:        schema.Named(episode),
					Description: "If omitted, returns the hero of the whole saga. If provided, returns the hero of that particular episode.",
				}},
				Resolve: func(p schema.ResolveParams) (any, error) { return hero(p.Args["episode"]), nil },
			},
			&schema.Field{
				Name:      "human",
				Type:      schema.Named(humanType),
				Arguments: idArg,
				Resolve: byID(func(id string) any {
					if h, ok := humans[id]; ok {
						return h
					}
					return nil
				}),
			},
			&schema.Field{
				Name:      "droid",
				Type:      schema.Named(droidType),
				Arguments: idArg,
				Resolve: byID(func(id string) any {
					if d, ok := droids[id]; ok {
						return d
					}
					return nil
				}),
			},
			&schema.Field{Name: "character", Type: schema.Named(characterType), Arguments: idArg, Resolve: byID(character)},
			&schema.Field{
				Name:      "search",
				Type:      schema.ListOf(schema.Named(searchResult)),
				Arguments: []*schema.InputValue{{Name: "text", Type: schema.NonNull(str)}},
				Resolve: func(p schema.ResolveParams) (any, error) {
					text, _ := p.Args["text"].(string)
					return search(text), nil
				},
			},
			&schema.Field{
				Name:      "reviews",
				Type:      schema.ListOf(schema.Named(review)),
				Arguments: []*schema.InputValue{{Name: "episode", Type: schema.NonNull(schema.Named(episode))}},
				Resolve: func(p schema.ResolveParams) (any, error) {
					ep, _ := p.Args["episode"].(int)
					return reviews.list(ep), nil
				},
			},
		),
	}
	mutation := &schema.Type{
		Name: "Mutation",
		Kind: schema.TypeKindObject,
		FieldsThunk: schema.FieldList(&schema.Field{
			Name: "createReview",
			Type: schema.Named(review),
			Arguments: []*schema.InputValue{
				{Name: "episode", Type: schema.NonNull(schema.Named(episode))},
				{Name: "review", Type: schema.NonNull(schema.Named(reviewInput))},
			},
			Resolve: func(p schema.ResolveParams) (any, error) {
				ep, _ := p.Args["episode"].(int)
				in, _ := p.Args["review"].(map[string]any)
				return reviews.add(ep, in["stars"], in["commentary"]), nil
			},
		}),
	}

	return schema.MustNew(schema.Config{
		Query:    query,
		Mutation: mutation,
		Types:    []*schema.Type{humanType, droidType},
	})
}

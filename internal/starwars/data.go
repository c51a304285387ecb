package starwars

import (
	"sort"
	"strings"
	"sync"
)

// Episode values as resolvers see them.
const (
	NewHope = 4
	Empire  = 5
	Jedi    = 6
)

// droid exposes its fields through GetField so the default resolvers can
// read it and recognize it as a Droid without a __typename.
type droid struct {
	id              string
	name            string
	friends         []string
	appearsIn       []int
	primaryFunction string
}

func (d *droid) GetField(name string) (any, bool) {
	switch name {
	case "id":
		return d.id, true
	case "name":
		return d.name, true
	case "friends":
		return d.friends, true
	case "appearsIn":
		return d.appearsIn, true
	case "primaryFunction":
		return d.primaryFunction, true
	case "secretBackstory":
		return nil, true
	}
	return nil, false
}

func human(id, name string, friends []string, appearsIn []int, homePlanet any) map[string]any {
	return map[string]any{
		"__typename": "Human",
		"id":         id,
		"name":       name,
		"friends":    friends,
		"appearsIn":  appearsIn,
		"homePlanet": homePlanet,
	}
}

var (
	luke   = human("1000", "Luke Skywalker", []string{"1002", "1003", "2000", "2001"}, []int{NewHope, Empire, Jedi}, "Tatooine")
	vader  = human("1001", "Darth Vader", []string{"1004"}, []int{NewHope, Empire, Jedi}, "Tatooine")
	han    = human("1002", "Han Solo", []string{"1000", "1003", "2001"}, []int{NewHope, Empire, Jedi}, nil)
	leia   = human("1003", "Leia Organa", []string{"1000", "1002", "2000", "2001"}, []int{NewHope, Empire, Jedi}, "Alderaan")
	tarkin = human("1004", "Wilhuff Tarkin", []string{"1001"}, []int{NewHope}, nil)

	threepio = &droid{
		id:              "2000",
		name:            "C-3PO",
		friends:         []string{"1000", "1002", "1003", "2001"},
		appearsIn:       []int{NewHope, Empire, Jedi},
		primaryFunction: "Protocol",
	}
	artoo = &droid{
		id:              "2001",
		name:            "R2-D2",
		friends:         []string{"1000", "1002", "1003"},
		appearsIn:       []int{NewHope, Empire, Jedi},
		primaryFunction: "Astromech",
	}

	humans = map[string]map[string]any{"1000": luke, "1001": vader, "1002": han, "1003": leia, "1004": tarkin}
	droids = map[string]*droid{"2000": threepio, "2001": artoo}
)

// character returns the human or droid with id, or nil.
func character(id string) any {
	if h, ok := humans[id]; ok {
		return h
	}
	if d, ok := droids[id]; ok {
		return d
	}
	return nil
}

func friendIDs(c any) []string {
	switch c := c.(type) {
	case map[string]any:
		ids, _ := c["friends"].([]string)
		return ids
	case *droid:
		return c.friends
	}
	return nil
}

// hero is Luke for The Empire Strikes Back and R2-D2 otherwise.
func hero(episode any) any {
	if episode == Empire {
		return luke
	}
	return artoo
}

// search matches names containing text, humans before droids, each ordered
// by id.
func search(text string) []any {
	var out []any
	for _, id := range sortedKeys(humans) {
		if name := humans[id]["name"].(string); containsFold(name, text) {
			out = append(out, humans[id])
		}
	}
	for _, id := range sortedKeys(droids) {
		if containsFold(droids[id].name, text) {
			out = append(out, droids[id])
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// reviewStore keeps reviews created through the mutation, per episode.
type reviewStore struct {
	mu      sync.Mutex
	reviews map[int][]map[string]any
}

func newReviewStore() *reviewStore {
	return &reviewStore{reviews: map[int][]map[string]any{}}
}

func (s *reviewStore) add(episode int, stars any, commentary any) map[string]any {
	review := map[string]any{"episode": episode, "stars": stars, "commentary": commentary}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[episode] = append(s.reviews[episode], review)
	return review
}

func (s *reviewStore) list(episode int) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any{}, s.reviews[episode]...)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

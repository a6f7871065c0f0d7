package genres

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/pkg/embedded"
)

// Registry is a read-only genre lookup table
type Registry struct {
	byID map[string]*Genre
	ids  []string
}

var defaultRegistry = mustLoad(embedded.GenresJSON)

func mustLoad(data []byte) *Registry {
	r, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("genres: embedded table is invalid: %v", err))
	}
	return r
}

// Parse builds a registry from a JSON array of genre definitions
func Parse(data []byte) (*Registry, error) {
	var list []*Genre
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode genre table: %w", err)
	}

	r := &Registry{byID: make(map[string]*Genre, len(list))}
	for _, g := range list {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[g.ID]; dup {
			return nil, fmt.Errorf("duplicate genre id %q", g.ID)
		}
		r.byID[g.ID] = g
		r.ids = append(r.ids, g.ID)
	}
	sort.Strings(r.ids)
	return r, nil
}

// Default returns the registry backed by the embedded genre table
func Default() *Registry {
	return defaultRegistry
}

// Resolve looks up a genre by id
func (r *Registry) Resolve(id string) (*Genre, error) {
	g, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGenreNotFound, id)
	}
	return g, nil
}

// List returns all genre ids in sorted order
func (r *Registry) List() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Count returns the number of genres
func (r *Registry) Count() int {
	return len(r.ids)
}

// Categories returns the distinct categories in sorted order
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range r.ids {
		c := r.byID[id].Category
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// ByCategory groups sorted genre ids by category
func (r *Registry) ByCategory() map[string][]string {
	out := make(map[string][]string)
	for _, id := range r.ids {
		c := r.byID[id].Category
		out[c] = append(out[c], id)
	}
	return out
}

// Search returns the ids of genres whose id, name, category, description or
// instruments contain term, case-insensitively
func (r *Registry) Search(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []string{}
	}

	matches := []string{}
	for _, id := range r.ids {
		if r.byID[id].matches(term) {
			matches = append(matches, id)
		}
	}
	return matches
}

func (g *Genre) matches(term string) bool {
	fields := append([]string{g.ID, g.Name, g.Category, g.Description}, g.Instruments...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Resolve looks up a genre in the embedded table
func Resolve(id string) (*Genre, error) {
	return defaultRegistry.Resolve(id)
}

// List returns all embedded genre ids in sorted order
func List() []string {
	return defaultRegistry.List()
}

// Count returns the number of embedded genres
func Count() int {
	return defaultRegistry.Count()
}

// Categories returns the embedded table's categories in sorted order
func Categories() []string {
	return defaultRegistry.Categories()
}

// ByCategory groups embedded genre ids by category
func ByCategory() map[string][]string {
	return defaultRegistry.ByCategory()
}

// Search matches embedded genres against term
func Search(term string) []string {
	return defaultRegistry.Search(term)
}

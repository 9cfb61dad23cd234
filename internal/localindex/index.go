// Package localindex provides a zero-latency name search over a bundled
// card dataset, used for autocomplete and as the fast path of hybrid search.
package localindex

import (
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tcg-tools/cardvault/internal/model"
)

//go:embed data/pokedex.json
var dataFS embed.FS

const (
	// DefaultSuggestLimit caps autocomplete suggestions.
	DefaultSuggestLimit = 10
	// minSuggestLen is the shortest prefix worth autocompleting.
	minSuggestLen = 2

	localSetID = "local-db"
)

// typeMap translates dataset elemental types into the catalog vocabulary.
// Unknown types fall back to Colorless.
var typeMap = map[string]string{
	"normal":   "Colorless",
	"fire":     "Fire",
	"water":    "Water",
	"electric": "Electric",
	"grass":    "Grass",
	"ice":      "Water",
	"fighting": "Fighting",
	"poison":   "Grass",
	"ground":   "Fighting",
	"flying":   "Colorless",
	"psychic":  "Psychic",
	"bug":      "Grass",
	"rock":     "Fighting",
	"ghost":    "Psychic",
	"dragon":   "Dragon",
	"dark":     "Darkness",
	"steel":    "Metal",
	"fairy":    "Fairy",
}

type entryName struct {
	English  string `json:"english"`
	Japanese string `json:"japanese"`
	French   string `json:"french"`
}

type entry struct {
	ID   int       `json:"id"`
	Name entryName `json:"name"`
	Type []string  `json:"type"`
	Base struct {
		HP int `json:"HP"`
	} `json:"base"`
}

// Stats summarizes the bundled dataset.
type Stats struct {
	TotalEntries int      `json:"totalEntries"`
	Types        []string `json:"types"`
}

// Index is the in-memory local card index. It is immutable after Load.
type Index struct {
	entries []entry
	set     model.Set
}

// Load parses the embedded dataset.
func Load() (*Index, error) {
	raw, err := dataFS.ReadFile("data/pokedex.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded dataset: %w", err)
	}
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse embedded dataset: %w", err)
	}
	idx := &Index{
		entries: entries,
		set: model.Set{
			ID:           localSetID,
			Name:         "Local Database",
			Series:       "Local",
			PrintedTotal: len(entries),
			Total:        len(entries),
			ReleaseDate:  "2024-01-01",
		},
	}
	return idx, nil
}

// Search returns cards whose name contains the query, case-insensitively,
// in dataset order. English, Japanese and French names all match. Any
// non-empty substring qualifies, a single character included.
func (i *Index) Search(query string) []model.Card {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []model.Card
	for _, e := range i.entries {
		if e.matches(q) {
			out = append(out, i.toCard(e))
		}
	}
	return out
}

// SearchEnvelope runs Search and wraps the hits in the uniform result envelope.
func (i *Index) SearchEnvelope(query string) model.SearchResult {
	start := time.Now()
	cards := i.Search(query)
	if cards == nil {
		cards = []model.Card{}
	}
	return model.SearchResult{
		Success:        true,
		Cards:          cards,
		TotalCount:     len(cards),
		Source:         model.SourceLocal,
		Query:          query,
		ProcessingTime: time.Since(start).Milliseconds(),
	}
}

// Suggest returns up to limit distinct english names containing the query.
func (i *Index) Suggest(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < minSuggestLen {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	seen := make(map[string]bool)
	var out []string
	for _, e := range i.entries {
		name := e.Name.English
		if !strings.Contains(strings.ToLower(name), q) || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}

// DatasetStats reports totals over the bundled dataset.
func (i *Index) DatasetStats() Stats {
	types := make(map[string]bool)
	for _, e := range i.entries {
		for _, t := range e.Type {
			types[t] = true
		}
	}
	out := Stats{TotalEntries: len(i.entries)}
	for t := range types {
		out.Types = append(out.Types, t)
	}
	return out
}

func (e entry) matches(q string) bool {
	return strings.Contains(strings.ToLower(e.Name.English), q) ||
		strings.Contains(strings.ToLower(e.Name.Japanese), q) ||
		strings.Contains(strings.ToLower(e.Name.French), q)
}

// toCard converts a dataset entry into the catalog card shape. IDs are
// synthesized as local-<dexnum> so they never collide with catalog IDs.
func (i *Index) toCard(e entry) model.Card {
	num := strconv.Itoa(e.ID)
	hp := "60"
	if e.Base.HP > 0 {
		hp = strconv.Itoa(e.Base.HP)
	}
	return model.Card{
		ID:                     "local-" + num,
		Name:                   e.Name.English,
		Supertype:              "Pokémon",
		Subtypes:               []string{"Basic"},
		HP:                     hp,
		Types:                  mapTypes(e.Type),
		Number:                 num,
		Rarity:                 "Common",
		Artist:                 "Ken Sugimori",
		NationalPokedexNumbers: []int{e.ID},
		Set:                    i.set,
		Images: model.Images{
			Small: fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png", e.ID),
			Large: fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png", e.ID),
		},
	}
}

func mapTypes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		mapped, ok := typeMap[strings.ToLower(t)]
		if !ok {
			mapped = "Colorless"
		}
		out = append(out, mapped)
	}
	return out
}

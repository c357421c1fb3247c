package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/textmatch"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
)

type geographyValue struct {
	AreaCode string `json:"areaCode"`
}

// GeographyIndex resolves "<county>, <state>" keys to area codes.
type GeographyIndex struct {
	areas    map[string]string
	counties map[string][]string // state -> counties, sorted
	states   []string
}

// NewGeographyIndex builds an index from entries, rejecting empty keys,
// empty area codes and duplicates.
func NewGeographyIndex(entries []model.GeographyEntry) (*GeographyIndex, error) {
	g := &GeographyIndex{
		areas:    make(map[string]string, len(entries)),
		counties: make(map[string][]string),
	}
	for _, e := range entries {
		if strings.TrimSpace(e.Key) == "" {
			return nil, internalErrors.NewDataIntegrityError(geographyDataset, e.Key, "key", e.Key)
		}
		if strings.TrimSpace(e.AreaCode) == "" {
			return nil, internalErrors.NewDataIntegrityError(geographyDataset, e.Key, "areaCode", e.AreaCode)
		}
		if _, exists := g.areas[e.Key]; exists {
			return nil, internalErrors.NewDataIntegrityError(geographyDataset, e.Key, "key", "duplicate")
		}
		g.areas[e.Key] = e.AreaCode

		if county, state, ok := splitKey(e.Key); ok {
			g.counties[state] = append(g.counties[state], county)
		}
	}
	for state, counties := range g.counties {
		sort.Strings(counties)
		g.states = append(g.states, state)
	}
	sort.Strings(g.states)
	return g, nil
}

// DecodeGeographyIndex reads the `"<county>, <state>" -> {areaCode}` document.
func DecodeGeographyIndex(r io.Reader) (*GeographyIndex, error) {
	var raw map[string]geographyValue
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", internalErrors.NewDataIntegrityError(geographyDataset, "document", "", ""), err)
	}

	entries := make([]model.GeographyEntry, 0, len(raw))
	for key, v := range raw {
		entries = append(entries, model.GeographyEntry{Key: key, AreaCode: v.AreaCode})
	}
	return NewGeographyIndex(entries)
}

// splitKey splits on the last ", " so county names containing commas survive.
func splitKey(key string) (county, state string, ok bool) {
	i := strings.LastIndex(key, ", ")
	if i <= 0 || i+2 >= len(key) {
		return "", "", false
	}
	return key[:i], key[i+2:], true
}

// Resolve returns the area code for a county in a state.
func (g *GeographyIndex) Resolve(county, state string) (string, bool) {
	code, ok := g.areas[model.GeographyKey(strings.TrimSpace(county), strings.TrimSpace(state))]
	return code, ok
}

// Len returns the number of entries.
func (g *GeographyIndex) Len() int {
	return len(g.areas)
}

// States returns all states in alphabetical order.
func (g *GeographyIndex) States() []string {
	return append([]string(nil), g.states...)
}

// Counties returns the counties of state in alphabetical order.
func (g *GeographyIndex) Counties(state string) ([]string, bool) {
	counties, ok := g.counties[state]
	if !ok {
		return nil, false
	}
	return append([]string(nil), counties...), true
}

// Entries returns all entries ordered by key.
func (g *GeographyIndex) Entries() []model.GeographyEntry {
	out := make([]model.GeographyEntry, 0, len(g.areas))
	for key, code := range g.areas {
		out = append(out, model.GeographyEntry{Key: key, AreaCode: code})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// MarshalJSON writes the same document shape DecodeGeographyIndex reads.
func (g *GeographyIndex) MarshalJSON() ([]byte, error) {
	raw := make(map[string]geographyValue, len(g.areas))
	for key, code := range g.areas {
		raw[key] = geographyValue{AreaCode: code}
	}
	return json.Marshal(raw)
}

// Suggest returns up to limit "<county>, <state>" keys close to the given
// county and state. A known state is searched for similar counties; an
// unknown one is matched against similar state names holding the county.
func (g *GeographyIndex) Suggest(county, state string, limit int) []string {
	county, state = strings.TrimSpace(county), strings.TrimSpace(state)

	if counties, ok := g.counties[state]; ok {
		names := textmatch.Suggest(county, counties, limit)
		keys := make([]string, len(names))
		for i, name := range names {
			keys[i] = model.GeographyKey(name, state)
		}
		return keys
	}

	var keys []string
	for _, candidate := range textmatch.Suggest(state, g.states, limit) {
		if _, ok := g.areas[model.GeographyKey(county, candidate)]; ok {
			keys = append(keys, model.GeographyKey(county, candidate))
		}
	}
	return keys
}

// SuggestStates returns up to limit state names close to state.
func (g *GeographyIndex) SuggestStates(state string, limit int) []string {
	return textmatch.Suggest(state, g.states, limit)
}

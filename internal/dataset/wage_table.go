// Package dataset holds the static wage and geography datasets and the
// repository that loads them once per process.
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

const (
	wageDataset      = "wage_data"
	geographyDataset = "geography"
)

// WageTable maps occupation codes to their per-area wage records.
// It is immutable once built; returned slices must not be modified.
type WageTable struct {
	occupations map[string]model.Occupation
	codes       []string
}

// NewWageTable builds a table from occupations, rejecting empty or
// duplicate codes and records without an area code.
func NewWageTable(occupations []model.Occupation) (*WageTable, error) {
	t := &WageTable{
		occupations: make(map[string]model.Occupation, len(occupations)),
		codes:       make([]string, 0, len(occupations)),
	}
	for _, occ := range occupations {
		if strings.TrimSpace(occ.Code) == "" {
			return nil, internalErrors.NewDataIntegrityError(wageDataset, occ.Title, "code", occ.Code)
		}
		if _, exists := t.occupations[occ.Code]; exists {
			return nil, internalErrors.NewDataIntegrityError(wageDataset, occ.Code, "code", "duplicate")
		}
		for i, area := range occ.Areas {
			if strings.TrimSpace(area.AreaCode) == "" {
				return nil, internalErrors.NewDataIntegrityError(wageDataset, fmt.Sprintf("%s/areas[%d]", occ.Code, i), "areaCode", area.AreaCode)
			}
		}
		t.occupations[occ.Code] = occ
		t.codes = append(t.codes, occ.Code)
	}
	sort.Strings(t.codes)
	return t, nil
}

// DecodeWageTable reads the `code -> {title, description, areas}` document.
func DecodeWageTable(r io.Reader) (*WageTable, error) {
	var raw map[string]model.Occupation
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", internalErrors.NewDataIntegrityError(wageDataset, "document", "", ""), err)
	}

	occupations := make([]model.Occupation, 0, len(raw))
	for code, occ := range raw {
		occ.Code = code
		occupations = append(occupations, occ)
	}
	return NewWageTable(occupations)
}

// Lookup returns the occupation for code.
func (t *WageTable) Lookup(code string) (model.Occupation, bool) {
	occ, ok := t.occupations[code]
	return occ, ok
}

// Len returns the number of occupations.
func (t *WageTable) Len() int {
	return len(t.codes)
}

// Occupations returns all occupations ordered by code.
func (t *WageTable) Occupations() []model.Occupation {
	out := make([]model.Occupation, 0, len(t.codes))
	for _, code := range t.codes {
		out = append(out, t.occupations[code])
	}
	return out
}

// MarshalJSON writes the same document shape DecodeWageTable reads.
func (t *WageTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.occupations)
}

// SuggestCodes returns up to limit occupation codes close to code.
func (t *WageTable) SuggestCodes(code string, limit int) []string {
	return textmatch.Suggest(code, t.codes, limit)
}

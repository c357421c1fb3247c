package model

// AreaWageRecord is the prevailing wage data for one occupation in one
// labor-market area.
type AreaWageRecord struct {
	AreaCode string `json:"areaCode"`
	AreaName string `json:"areaName"`
	State    string `json:"state"`
	Level1   Wage   `json:"level1"`
	Level2   Wage   `json:"level2"`
	Level3   Wage   `json:"level3"`
	Level4   Wage   `json:"level4"`
	Average  Wage   `json:"average"`
}

// WageAt returns the wage for the given level. ok is false for an
// unknown level.
func (r AreaWageRecord) WageAt(level WageLevel) (Wage, bool) {
	switch level {
	case WageLevel1:
		return r.Level1, true
	case WageLevel2:
		return r.Level2, true
	case WageLevel3:
		return r.Level3, true
	case WageLevel4:
		return r.Level4, true
	}
	return Wage{}, false
}

// Occupation is one entry of the wage table.
type Occupation struct {
	Code        string           `json:"-"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Areas       []AreaWageRecord `json:"areas"`
}

// Label is the "Title - Code" form used by occupation pickers.
func (o Occupation) Label() string {
	return o.Title + " - " + o.Code
}

// GeographyEntry maps a "<county>, <state>" key to its area code.
type GeographyEntry struct {
	Key      string `json:"key"`
	AreaCode string `json:"areaCode"`
}

// GeographyKey builds the "<county>, <state>" lookup key.
func GeographyKey(county, state string) string {
	return county + ", " + state
}

// OccupationSummary is the picker entry for one occupation.
type OccupationSummary struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Summary returns the picker entry for o.
func (o Occupation) Summary() OccupationSummary {
	return OccupationSummary{Value: o.Code, Label: o.Label(), Title: o.Title, Description: o.Description}
}

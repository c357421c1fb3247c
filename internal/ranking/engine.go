// Package ranking answers "where is this occupation cheapest to sponsor":
// it resolves a county to its labor-market area and ranks the areas where
// the occupation is surveyed by ascending prevailing wage.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/GSaiKiran15/Case-Wage-Pro/internal/dataset"
	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

// Metric names the wage column areas are ranked by.
type Metric string

const (
	MetricLevel1  Metric = "level1"
	MetricLevel2  Metric = "level2"
	MetricLevel3  Metric = "level3"
	MetricLevel4  Metric = "level4"
	MetricAverage Metric = "average"
)

// Valid reports whether m names a wage column.
func (m Metric) Valid() bool {
	switch m {
	case MetricLevel1, MetricLevel2, MetricLevel3, MetricLevel4, MetricAverage:
		return true
	}
	return false
}

func (m Metric) of(record model.AreaWageRecord) model.Wage {
	switch m {
	case MetricLevel1:
		return record.Level1
	case MetricLevel2:
		return record.Level2
	case MetricLevel4:
		return record.Level4
	case MetricAverage:
		return record.Average
	default:
		return record.Level3
	}
}

// Near matches attached to not-found errors.
const suggestionLimit = 3

// Most areas returned per list.
const (
	MaxStateAreas    = 5
	MaxNationalAreas = 10
)

// Options configure an Engine. SortBy falls back to level3. Limits that are
// unset or above MaxStateAreas and MaxNationalAreas use those maximums.
type Options struct {
	SortBy        Metric
	StateLimit    int
	NationalLimit int
}

// Engine ranks areas for an occupation. It is safe for concurrent use.
type Engine struct {
	repo *dataset.Repository
	opts Options
}

var _ services.AreaRanker = (*Engine)(nil)

// NewEngine creates an engine over repo.
func NewEngine(repo *dataset.Repository, opts Options) *Engine {
	if !opts.SortBy.Valid() {
		opts.SortBy = MetricLevel3
	}
	if opts.StateLimit <= 0 || opts.StateLimit > MaxStateAreas {
		opts.StateLimit = MaxStateAreas
	}
	if opts.NationalLimit <= 0 || opts.NationalLimit > MaxNationalAreas {
		opts.NationalLimit = MaxNationalAreas
	}
	return &Engine{repo: repo, opts: opts}
}

// SortedBy returns the metric the engine ranks by.
func (e *Engine) SortedBy() Metric {
	return e.opts.SortBy
}

// Rank returns the reference area's own record and the lowest-wage areas
// in the comparison state and nationwide.
func (e *Engine) Rank(ctx context.Context, query services.BestAreasQuery) (*services.BestAreasResult, error) {
	if err := requireParams(query.OccupationCode, query.County, query.State); err != nil {
		return nil, err
	}

	areaCode, occ, err := e.resolve(ctx, query.OccupationCode, query.County, query.State)
	if err != nil {
		return nil, err
	}

	// Every record is checked up front so a bad value anywhere in the
	// occupation is reported regardless of which subset it lands in.
	for i, record := range occ.Areas {
		if err := e.checkMetric(occ.Code, i, record); err != nil {
			return nil, err
		}
	}

	comparisonState := strings.TrimSpace(query.ComparisonState)
	if comparisonState == "" {
		comparisonState = strings.TrimSpace(query.State)
	}

	result := &services.BestAreasResult{
		OccupationCode:  occ.Code,
		Title:           occ.Title,
		AreaCode:        areaCode,
		ComparisonState: comparisonState,
		SortedBy:        string(e.opts.SortBy),
		SelfRecord:      findArea(occ.Areas, areaCode),
	}

	inState := make([]model.AreaWageRecord, 0)
	for _, record := range occ.Areas {
		if record.State == comparisonState {
			inState = append(inState, record)
		}
	}
	result.StateAreas = e.lowest(inState, e.opts.StateLimit)
	result.NationalAreas = e.lowest(append([]model.AreaWageRecord(nil), occ.Areas...), e.opts.NationalLimit)
	return result, nil
}

// Lookup returns the wage record of an occupation in the area a county
// belongs to. Record is nil when the occupation is not surveyed there.
func (e *Engine) Lookup(ctx context.Context, occupationCode, county, state string) (*services.WageLookupResult, error) {
	if err := requireParams(occupationCode, county, state); err != nil {
		return nil, err
	}
	areaCode, occ, err := e.resolve(ctx, occupationCode, county, state)
	if err != nil {
		return nil, err
	}
	return &services.WageLookupResult{
		OccupationCode: occ.Code,
		AreaCode:       areaCode,
		Record:         findArea(occ.Areas, areaCode),
	}, nil
}

// resolve checks geography before the occupation code.
func (e *Engine) resolve(ctx context.Context, occupationCode, county, state string) (string, model.Occupation, error) {
	geo, err := e.repo.Geography(ctx)
	if err != nil {
		return "", model.Occupation{}, err
	}
	areaCode, ok := geo.Resolve(county, state)
	if !ok {
		notFound := internalErrors.NewGeographyNotFoundError(model.GeographyKey(strings.TrimSpace(county), strings.TrimSpace(state)))
		notFound.Suggestions = geo.Suggest(county, state, suggestionLimit)
		return "", model.Occupation{}, notFound
	}

	wages, err := e.repo.WageTable(ctx)
	if err != nil {
		return "", model.Occupation{}, err
	}
	occ, ok := wages.Lookup(strings.TrimSpace(occupationCode))
	if !ok {
		notFound := internalErrors.NewOccupationNotFoundError(strings.TrimSpace(occupationCode))
		notFound.Suggestions = wages.SuggestCodes(occupationCode, suggestionLimit)
		return "", model.Occupation{}, notFound
	}
	return areaCode, occ, nil
}

func (e *Engine) checkMetric(code string, i int, record model.AreaWageRecord) error {
	wage := e.opts.SortBy.of(record)
	if wage.Valid() {
		return nil
	}
	value := wage.String()
	if wage.Missing() {
		value = "<missing>"
	}
	return internalErrors.NewDataIntegrityError("wage_data", fmt.Sprintf("%s/areas[%d] (%s)", code, i, record.AreaCode), string(e.opts.SortBy), value)
}

// lowest sorts records in place, ascending and stable, and keeps the first limit.
func (e *Engine) lowest(records []model.AreaWageRecord, limit int) []model.AreaWageRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return e.opts.SortBy.of(records[i]).Cmp(e.opts.SortBy.of(records[j])) < 0
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}

func findArea(records []model.AreaWageRecord, areaCode string) *model.AreaWageRecord {
	for i := range records {
		if records[i].AreaCode == areaCode {
			record := records[i]
			return &record
		}
	}
	return nil
}

func requireParams(occupationCode, county, state string) error {
	var missing []string
	if strings.TrimSpace(occupationCode) == "" {
		missing = append(missing, "jobCode")
	}
	if strings.TrimSpace(county) == "" {
		missing = append(missing, "countyValue")
	}
	if strings.TrimSpace(state) == "" {
		missing = append(missing, "stateValue")
	}
	if len(missing) > 0 {
		return internalErrors.NewValidationError(strings.Join(missing, ", "), "required parameter is missing")
	}
	return nil
}

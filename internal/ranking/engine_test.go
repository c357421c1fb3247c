package ranking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GSaiKiran15/Case-Wage-Pro/internal/dataset"
	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/testutil"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

func areaCodes(records []model.AreaWageRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.AreaCode
	}
	return out
}

func TestRank_SanFranciscoSoftwareDevelopers(t *testing.T) {
	engine := NewEngine(testutil.NewRepository(t), Options{})

	result, err := engine.Rank(context.Background(), services.BestAreasQuery{
		OccupationCode: "15-1252.00",
		County:         "San Francisco County",
		State:          "California",
	})
	require.NoError(t, err)

	assert.Equal(t, "41860", result.AreaCode)
	require.NotNil(t, result.SelfRecord)
	assert.Equal(t, "41860", result.SelfRecord.AreaCode)
	assert.Equal(t, "74.98", result.SelfRecord.Level3.String())
	assert.Equal(t, "California", result.ComparisonState)
	assert.Equal(t, "level3", result.SortedBy)

	// Fresno and Modesto tie at 50.05 and keep dataset order.
	assert.Equal(t, []string{"17020", "23420", "33700", "40900", "41740"}, areaCodes(result.StateAreas))
	for _, r := range result.StateAreas {
		assert.Equal(t, "California", r.State)
	}

	require.Len(t, result.NationalAreas, 10)
	assert.Equal(t, []string{"17020", "23420", "33700", "26420", "38060", "12060", "40900", "41740", "31080", "47900"}, areaCodes(result.NationalAreas))
}

func TestRank_ResultsAreSortedAndBounded(t *testing.T) {
	engine := NewEngine(testutil.NewRepository(t), Options{})
	result, err := engine.Rank(context.Background(), services.BestAreasQuery{
		OccupationCode: "15-1252.00", County: "Fulton County", State: "Georgia", ComparisonState: "California",
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.StateAreas), 5)
	assert.LessOrEqual(t, len(result.NationalAreas), 10)
	for _, list := range [][]model.AreaWageRecord{result.StateAreas, result.NationalAreas} {
		for i := 1; i < len(list); i++ {
			assert.LessOrEqual(t, list[i-1].Level3.Cmp(list[i].Level3), 0)
		}
	}
	assert.Equal(t, "California", result.ComparisonState)
	assert.Equal(t, "12060", result.SelfRecord.AreaCode)
}

func TestRank_DoesNotMutateDataset(t *testing.T) {
	repo := testutil.NewRepository(t)
	engine := NewEngine(repo, Options{})
	_, err := engine.Rank(context.Background(), services.BestAreasQuery{
		OccupationCode: "15-1252.00", County: "San Francisco County", State: "California",
	})
	require.NoError(t, err)

	table, err := repo.WageTable(context.Background())
	require.NoError(t, err)
	occ, _ := table.Lookup("15-1252.00")
	assert.Equal(t, "41860", occ.Areas[0].AreaCode)
	assert.Equal(t, "38060", occ.Areas[len(occ.Areas)-1].AreaCode)
}

func TestRank_AreaWithoutSurvey(t *testing.T) {
	engine := NewEngine(testutil.NewRepository(t), Options{})
	result, err := engine.Rank(context.Background(), services.BestAreasQuery{
		OccupationCode: "15-1252.00", County: "Loving County", State: "Texas",
	})
	require.NoError(t, err)
	assert.Equal(t, "99999", result.AreaCode)
	assert.Nil(t, result.SelfRecord)
	assert.Equal(t, []string{"26420"}, areaCodes(result.StateAreas))
}

func TestRank_NotFound(t *testing.T) {
	engine := NewEngine(testutil.NewRepository(t), Options{})

	_, err := engine.Rank(context.Background(), services.BestAreasQuery{
		OccupationCode: "15-1252.00", County: "Atlantis County", State: "California",
	})
	var notFound *internalErrors.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, internalErrors.NotFoundGeography, notFound.Kind)
	assert.Equal(t, "Atlantis County, California", notFound.Key)

	_, err = engine.Rank(context.Background(), services.BestAreasQuery{
		OccupationCode: "99-9999.00", County: "San Francisco County", State: "California",
	})
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, internalErrors.NotFoundOccupation, notFound.Kind)

	// Unknown geography is reported even when the code is unknown too.
	_, err = engine.Rank(context.Background(), services.BestAreasQuery{
		OccupationCode: "99-9999.00", County: "Atlantis County", State: "California",
	})
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, internalErrors.NotFoundGeography, notFound.Kind)
}

func TestRank_NotFoundSuggestions(t *testing.T) {
	engine := NewEngine(testutil.NewRepository(t), Options{})

	_, err := engine.Rank(context.Background(), services.BestAreasQuery{
		OccupationCode: "15-1252.00", County: "Sacremento County", State: "California",
	})
	var notFound *internalErrors.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"Sacramento County, California"}, notFound.Suggestions)

	_, err = engine.Rank(context.Background(), services.BestAreasQuery{
		OccupationCode: "15-1252.00", County: "Fresno County", State: "Califrnia",
	})
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"Fresno County, California"}, notFound.Suggestions)

	_, err = engine.Lookup(context.Background(), "15-1253", "Fresno County", "California")
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, internalErrors.NotFoundOccupation, notFound.Kind)
	assert.Equal(t, []string{"15-1253.00"}, notFound.Suggestions)
}

func TestRank_MissingParameters(t *testing.T) {
	engine := NewEngine(testutil.NewRepository(t), Options{})
	_, err := engine.Rank(context.Background(), services.BestAreasQuery{County: "San Francisco County"})

	var validation *internalErrors.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "jobCode, stateValue", validation.Field)
}

func TestRank_DataIntegrity(t *testing.T) {
	tests := []struct {
		name  string
		level model.Wage
	}{
		{"non numeric", model.ParseWage("N/A")},
		{"missing", model.Wage{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoWithRecords(t, []model.AreaWageRecord{
				{AreaCode: "41860", State: "California", Level3: model.ParseWage("74.98")},
				{AreaCode: "12060", State: "Georgia", Level3: tt.level},
			})
			engine := NewEngine(repo, Options{})

			_, err := engine.Rank(context.Background(), services.BestAreasQuery{
				OccupationCode: "15-1252.00", County: "San Francisco County", State: "California",
			})
			var integrity *internalErrors.DataIntegrityError
			require.True(t, errors.As(err, &integrity))
			assert.Equal(t, "level3", integrity.Field)
			assert.True(t, strings.Contains(integrity.Key, "12060"))
		})
	}
}

func TestRank_ConfiguredMetric(t *testing.T) {
	engine := NewEngine(testutil.NewRepository(t), Options{SortBy: MetricLevel1, StateLimit: 2, NationalLimit: 3})
	result, err := engine.Rank(context.Background(), services.BestAreasQuery{
		OccupationCode: "15-1252.00", County: "Harris County", State: "Texas", ComparisonState: "California",
	})
	require.NoError(t, err)

	assert.Equal(t, "level1", result.SortedBy)
	assert.Equal(t, []string{"17020", "33700"}, areaCodes(result.StateAreas))
	// Houston has the lowest level1 but only the fourth lowest level3.
	assert.Equal(t, []string{"26420", "17020", "33700"}, areaCodes(result.NationalAreas))
}

func TestNewEngine_InvalidMetricFallsBack(t *testing.T) {
	engine := NewEngine(testutil.NewRepository(t), Options{SortBy: "median"})
	assert.Equal(t, MetricLevel3, engine.SortedBy())
}

func TestNewEngine_LimitsAreCapped(t *testing.T) {
	engine := NewEngine(testutil.NewRepository(t), Options{StateLimit: 8, NationalLimit: 50})
	result, err := engine.Rank(context.Background(), services.BestAreasQuery{
		OccupationCode: "15-1252.00", County: "San Francisco County", State: "California",
	})
	require.NoError(t, err)

	assert.Len(t, result.StateAreas, MaxStateAreas)
	assert.Len(t, result.NationalAreas, MaxNationalAreas)
}

func TestLookup(t *testing.T) {
	engine := NewEngine(testutil.NewRepository(t), Options{})

	result, err := engine.Lookup(context.Background(), "15-1253.00", "Fulton County", "Georgia")
	require.NoError(t, err)
	assert.Equal(t, "12060", result.AreaCode)
	require.NotNil(t, result.Record)
	assert.Equal(t, "46.00", result.Record.Level3.String())

	result, err = engine.Lookup(context.Background(), "15-1253.00", "Harris County", "Texas")
	require.NoError(t, err)
	assert.Nil(t, result.Record)

	_, err = engine.Lookup(context.Background(), "15-1253.00", "", "Texas")
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))
}

func repoWithRecords(t *testing.T, records []model.AreaWageRecord) *dataset.Repository {
	t.Helper()
	table, err := dataset.NewWageTable([]model.Occupation{{Code: "15-1252.00", Title: "Software Developers", Areas: records}})
	require.NoError(t, err)
	geo, err := dataset.NewGeographyIndex([]model.GeographyEntry{{Key: "San Francisco County, California", AreaCode: "41860"}})
	require.NoError(t, err)
	return dataset.NewRepositoryFrom(table, geo)
}

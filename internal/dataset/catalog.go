package dataset

import (
	"context"
	"strings"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/textmatch"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
)

const suggestionLimit = 3

// Occupations lists occupations where every word of query starts a word
// of the code or title (case-insensitive), ordered by code. limit <= 0
// means no limit.
func (r *Repository) Occupations(ctx context.Context, query string, limit int) ([]model.OccupationSummary, error) {
	table, err := r.WageTable(ctx)
	if err != nil {
		return nil, err
	}

	words := textmatch.Tokenize(query)
	out := make([]model.OccupationSummary, 0)
	for _, occ := range table.Occupations() {
		if !textmatch.MatchesAll(occ.Code+" "+occ.Title, words) {
			continue
		}
		out = append(out, occ.Summary())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// States lists every state present in the geography index.
func (r *Repository) States(ctx context.Context) ([]string, error) {
	geo, err := r.Geography(ctx)
	if err != nil {
		return nil, err
	}
	return geo.States(), nil
}

// Counties lists the counties of state.
func (r *Repository) Counties(ctx context.Context, state string) ([]string, error) {
	geo, err := r.Geography(ctx)
	if err != nil {
		return nil, err
	}
	counties, ok := geo.Counties(strings.TrimSpace(state))
	if !ok {
		notFound := internalErrors.NewGeographyNotFoundError(state)
		notFound.Suggestions = geo.SuggestStates(state, suggestionLimit)
		return nil, notFound
	}
	return counties, nil
}

package services

import (
	"context"
	"encoding/json"

	"github.com/GSaiKiran15/Case-Wage-Pro/model"
)

// Retriever returns candidate occupations for a job description, ordered by
// the relevance the external index reports. At most topK hits are returned.
type Retriever interface {
	Retrieve(ctx context.Context, description model.JobDescription, topK int) ([]model.CandidateHit, error)
}

// GenerationRequest is a single call to a generative model. ResponseSchema
// is the JSON schema the answer must conform to.
type GenerationRequest struct {
	Prompt         string
	ResponseSchema json.RawMessage
}

// Generator sends a prompt to a generative model and returns its raw text.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// ClassifierResult is the validated classifier output plus advisory notes
// that were attached after the level was fixed.
type ClassifierResult struct {
	Classification model.Classification
	Advisory       []model.AdvisoryNote
}

// Classifier filters candidate hits and assigns a wage level.
type Classifier interface {
	Classify(ctx context.Context, description model.JobDescription, hits []model.CandidateHit, advisory *model.AdvisoryContext) (*ClassifierResult, error)
}

// RecommendRequest is the input of the recommendation pipeline.
type RecommendRequest struct {
	Description    string `json:"jobDescription"`
	OccupationHint string `json:"occupation,omitempty"` // Occupation code the caller already has in mind
	County         string `json:"county,omitempty"`
	State          string `json:"state,omitempty"`
	Pay            string `json:"pay,omitempty"`
	RoleType       string `json:"roleType,omitempty"`
	TopK           int    `json:"topK,omitempty"`
}

// Advisory returns the advisory part of the request.
func (r RecommendRequest) Advisory() *model.AdvisoryContext {
	return &model.AdvisoryContext{Pay: r.Pay, County: r.County, State: r.State, RoleType: r.RoleType}
}

// Recommendation is the output of the recommendation pipeline.
type Recommendation struct {
	ID             string                        `json:"id"`
	Candidates     []model.CandidateHit          `json:"candidates"` // Hits returned by retrieval before filtering
	Classification model.Classification          `json:"recommendation"`
	WageLevel      model.WageLevelClassification `json:"wageLevel"`
	Advisory       []model.AdvisoryNote          `json:"advisory"`
}

// Recommender runs the recommendation pipeline.
type Recommender interface {
	Recommend(ctx context.Context, req RecommendRequest) (*Recommendation, error)
}

// BestAreasQuery selects an occupation and a reference location.
// ComparisonState defaults to State.
type BestAreasQuery struct {
	OccupationCode  string
	County          string
	State           string
	ComparisonState string
}

// BestAreasResult holds the reference area's own record (nil when the
// occupation is not surveyed there) and the lowest-wage areas.
type BestAreasResult struct {
	OccupationCode  string                 `json:"jobCode"`
	Title           string                 `json:"title"`
	AreaCode        string                 `json:"areaCode"`
	ComparisonState string                 `json:"comparisonState"`
	SortedBy        string                 `json:"sortedBy"`
	SelfRecord      *model.AreaWageRecord  `json:"jobInfo"`
	StateAreas      []model.AreaWageRecord `json:"stateAreas"`
	NationalAreas   []model.AreaWageRecord `json:"usaAreas"`
}

// WageLookupResult is the wage record for one occupation in one area.
type WageLookupResult struct {
	OccupationCode string                `json:"jobCode"`
	AreaCode       string                `json:"areaCode"`
	Record         *model.AreaWageRecord `json:"jobInfo"`
}

// AreaRanker serves the wage read path.
type AreaRanker interface {
	Rank(ctx context.Context, query BestAreasQuery) (*BestAreasResult, error)
	Lookup(ctx context.Context, occupationCode, county, state string) (*WageLookupResult, error)
}

// Catalog lists what the datasets contain.
type Catalog interface {
	Occupations(ctx context.Context, query string, limit int) ([]model.OccupationSummary, error)
	States(ctx context.Context) ([]string, error)
	Counties(ctx context.Context, state string) ([]string, error)
}

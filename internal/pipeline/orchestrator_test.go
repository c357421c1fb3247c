package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GSaiKiran15/Case-Wage-Pro/internal/classifier"
	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/metrics"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/ranking"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/testutil"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

func modelOutput(t *testing.T, level string, hits ...model.CandidateHit) string {
	t.Helper()
	if hits == nil {
		hits = []model.CandidateHit{}
	}
	data, err := json.Marshal(map[string]any{
		"result":                map[string]any{"hits": hits},
		"defensible_wage_level": level,
		"confidence":            "medium",
	})
	require.NoError(t, err)
	return string(data)
}

type fixture struct {
	retriever *testutil.StubRetriever
	generator *testutil.StubGenerator
	metrics   *metrics.Collector
	pipeline  *Orchestrator
}

func newFixture(t *testing.T, response string) *fixture {
	t.Helper()
	f := &fixture{
		retriever: &testutil.StubRetriever{Hits: testutil.SampleHits()},
		generator: &testutil.StubGenerator{Response: response},
		metrics:   metrics.NewCollector(),
	}
	engine := ranking.NewEngine(testutil.NewRepository(t), ranking.Options{})
	f.pipeline = New(f.retriever, classifier.New(f.generator, ""), engine, f.metrics, Options{})
	return f
}

func TestRecommend(t *testing.T) {
	f := newFixture(t, modelOutput(t, "3", testutil.SoftwareDeveloperHit))

	rec, err := f.pipeline.Recommend(context.Background(), services.RecommendRequest{Description: testutil.SampleDescription})
	require.NoError(t, err)

	_, err = uuid.Parse(rec.ID)
	assert.NoError(t, err)
	assert.Equal(t, testutil.SampleHits(), rec.Candidates)
	assert.Equal(t, []model.CandidateHit{testutil.SoftwareDeveloperHit}, rec.Classification.Result.Hits)
	assert.Equal(t, model.WageLevel3, rec.Classification.Level)
	assert.Equal(t, model.ConfidenceMedium, rec.Classification.Confidence)
	assert.Equal(t, model.WageLevelClassification{Level: model.WageLevel3, Confidence: model.ConfidenceMedium}, rec.WageLevel)

	snap := f.metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Stages[metrics.StageRetrieve].Calls)
	assert.Equal(t, int64(1), snap.Stages[metrics.StageClassify].Calls)
	assert.Equal(t, int64(1), snap.Stages[metrics.StageRecommend].Calls)
}

func TestRecommend_NormalizesHTMLDescription(t *testing.T) {
	f := newFixture(t, modelOutput(t, "2"))

	_, err := f.pipeline.Recommend(context.Background(), services.RecommendRequest{
		Description: "<p>Backend&nbsp;engineer</p><ul><li>Build APIs</li></ul>",
	})
	require.NoError(t, err)
	require.Len(t, f.retriever.Calls, 1)
	assert.Equal(t, "Backend engineer\n- Build APIs", f.retriever.Calls[0])
}

func TestRecommend_InvalidInput(t *testing.T) {
	f := newFixture(t, modelOutput(t, "2"))

	_, err := f.pipeline.Recommend(context.Background(), services.RecommendRequest{Description: "  <p> </p> "})
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))

	_, err = f.pipeline.Recommend(context.Background(), services.RecommendRequest{Description: "engineer", TopK: MaxTopK + 1})
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))

	assert.Empty(t, f.retriever.Calls)
	assert.Empty(t, f.generator.Prompts())
}

func TestRecommend_TopK(t *testing.T) {
	f := newFixture(t, modelOutput(t, "2"))

	rec, err := f.pipeline.Recommend(context.Background(), services.RecommendRequest{Description: "engineer", TopK: 2})
	require.NoError(t, err)
	assert.Len(t, rec.Candidates, 2)

	rec, err = f.pipeline.Recommend(context.Background(), services.RecommendRequest{Description: "engineer"})
	require.NoError(t, err)
	assert.Len(t, rec.Candidates, 3)
}

type stubClassifier struct {
	err error
}

func (s stubClassifier) Classify(ctx context.Context, description model.JobDescription, hits []model.CandidateHit, advisory *model.AdvisoryContext) (*services.ClassifierResult, error) {
	return nil, s.err
}

func TestRecommend_ErrorsPassThroughUnchanged(t *testing.T) {
	retrievalErrors := []error{
		internalErrors.NewConfigurationError("PINECONE_API_KEY", "is not set"),
		internalErrors.NewUpstreamUnavailableError("pinecone", 503, errors.New("overloaded")),
		internalErrors.NewMalformedResponseError("pinecone", "bad", "{"),
	}
	for _, want := range retrievalErrors {
		t.Run("retrieve "+internalErrors.Kind(want), func(t *testing.T) {
			retriever := &testutil.StubRetriever{Err: want}
			gen := &testutil.StubGenerator{}
			p := New(retriever, classifier.New(gen, ""), nil, nil, Options{})

			_, err := p.Recommend(context.Background(), services.RecommendRequest{Description: "engineer"})
			assert.Same(t, want, err)
			assert.Empty(t, gen.Prompts(), "classifier must not run after a retrieval failure")
		})
	}

	classifyErrors := []error{
		internalErrors.NewConfigurationError("GEMINI_API_KEY", "is not set"),
		internalErrors.NewMalformedResponseError("gemini", "missing key 'confidence'", "{}"),
	}
	for _, want := range classifyErrors {
		t.Run("classify "+internalErrors.Kind(want), func(t *testing.T) {
			retriever := &testutil.StubRetriever{Hits: testutil.SampleHits()}
			p := New(retriever, stubClassifier{err: want}, nil, nil, Options{})

			_, err := p.Recommend(context.Background(), services.RecommendRequest{Description: "engineer"})
			assert.Same(t, want, err)
		})
	}
}

func TestRecommend_MalformedModelOutput(t *testing.T) {
	f := newFixture(t, `{"result":{"hits":[]},"defensible_wage_level":"2"}`)

	_, err := f.pipeline.Recommend(context.Background(), services.RecommendRequest{Description: "engineer"})
	assert.True(t, errors.Is(err, internalErrors.ErrMalformedUpstreamResponse))
	assert.Equal(t, int64(1), f.metrics.Snapshot().Stages[metrics.StageClassify].FailuresByKind["malformed_upstream_response"])
}

func TestRecommend_LevelIndependentOfPayAndLocation(t *testing.T) {
	f := newFixture(t, modelOutput(t, "2", testutil.SoftwareDeveloperHit))

	requests := []services.RecommendRequest{
		{Description: testutil.SampleDescription},
		{Description: testutil.SampleDescription, Pay: "$40/hour", County: "Fresno County", State: "California"},
		{Description: testutil.SampleDescription, Pay: "$450,000/year", County: "San Francisco County", State: "California", RoleType: "manager", OccupationHint: "15-1252.00"},
	}
	for _, req := range requests {
		rec, err := f.pipeline.Recommend(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, model.WageLevel2, rec.Classification.Level)
	}

	prompts := f.generator.Prompts()
	require.Len(t, prompts, 3)
	assert.Equal(t, prompts[0], prompts[1])
	assert.Equal(t, prompts[0], prompts[2])
}

func TestRecommend_CompensationRisk(t *testing.T) {
	f := newFixture(t, modelOutput(t, "2", testutil.SoftwareDeveloperHit))

	rec, err := f.pipeline.Recommend(context.Background(), services.RecommendRequest{
		Description:    testutil.SampleDescription,
		OccupationHint: "15-1252.00",
		County:         "Fresno County",
		State:          "California",
		Pay:            "$80,000/year",
	})
	require.NoError(t, err)
	assert.Equal(t, model.WageLevel2, rec.Classification.Level)

	var risk *model.AdvisoryNote
	for i := range rec.Advisory {
		if rec.Advisory[i].Code == model.AdvisoryCompensationRisk {
			risk = &rec.Advisory[i]
		}
	}
	require.NotNil(t, risk)
	assert.Contains(t, risk.Message, "Fresno, CA")
}

func TestRecommend_CompensationLookupFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, modelOutput(t, "2"))

	rec, err := f.pipeline.Recommend(context.Background(), services.RecommendRequest{
		Description:    testutil.SampleDescription,
		OccupationHint: "15-1252.00",
		County:         "Atlantis County",
		State:          "California",
		Pay:            "$80,000/year",
	})
	require.NoError(t, err)
	for _, note := range rec.Advisory {
		assert.NotEqual(t, model.AdvisoryCompensationRisk, note.Code)
	}
}

type deadlineRetriever struct {
	hadDeadline bool
}

func (d *deadlineRetriever) Retrieve(ctx context.Context, description model.JobDescription, topK int) ([]model.CandidateHit, error) {
	_, d.hadDeadline = ctx.Deadline()
	<-ctx.Done()
	return nil, internalErrors.NewUpstreamUnavailableError("pinecone", 0, ctx.Err())
}

func TestRecommend_StageTimeout(t *testing.T) {
	retriever := &deadlineRetriever{}
	p := New(retriever, stubClassifier{}, nil, nil, Options{RetrieveTimeout: 20 * time.Millisecond})

	_, err := p.Recommend(context.Background(), services.RecommendRequest{Description: "engineer"})
	assert.True(t, retriever.hadDeadline)
	assert.True(t, errors.Is(err, internalErrors.ErrUpstreamUnavailable))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

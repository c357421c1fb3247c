// Package pipeline sequences retrieval and classification into a single
// recommendation call.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GSaiKiran15/Case-Wage-Pro/internal/classifier"
	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/jdtext"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/metrics"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

// DefaultTopK is used when a request does not set topK.
const DefaultTopK = 5

// MaxTopK bounds the topK a request may ask for.
const MaxTopK = 50

// Options configure an Orchestrator. Zero timeouts leave the caller's
// context as the only deadline.
type Options struct {
	TopK            int
	RetrieveTimeout time.Duration
	ClassifyTimeout time.Duration
}

// Orchestrator runs Retriever then Classifier. It holds no per-request
// state and is safe for concurrent use.
type Orchestrator struct {
	retriever  services.Retriever
	classifier services.Classifier
	wages      services.AreaRanker // optional, for the compensation check
	metrics    *metrics.Collector  // optional
	opts       Options
}

var _ services.Recommender = (*Orchestrator)(nil)

// New creates an orchestrator. wages and collector may be nil.
func New(retriever services.Retriever, cls services.Classifier, wages services.AreaRanker, collector *metrics.Collector, opts Options) *Orchestrator {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	return &Orchestrator{
		retriever:  retriever,
		classifier: cls,
		wages:      wages,
		metrics:    collector,
		opts:       opts,
	}
}

// Recommend returns the filtered occupations and wage level for a job
// description. Stage errors are returned as they are.
func (o *Orchestrator) Recommend(ctx context.Context, req services.RecommendRequest) (*services.Recommendation, error) {
	start := time.Now()
	rec, err := o.recommend(ctx, req)
	o.metrics.Record(metrics.StageRecommend, time.Since(start), err)
	return rec, err
}

func (o *Orchestrator) recommend(ctx context.Context, req services.RecommendRequest) (*services.Recommendation, error) {
	topK := req.TopK
	switch {
	case topK == 0:
		topK = o.opts.TopK
	case topK < 0 || topK > MaxTopK:
		return nil, internalErrors.NewValidationError("topK", "must be between 1 and 50")
	}

	description := model.JobDescription(jdtext.Normalize(req.Description))
	if description.IsBlank() {
		return nil, internalErrors.NewValidationError("jobDescription", "must not be empty")
	}

	id := uuid.NewString()
	log := logger.With("recommendation_id", id)

	var hits []model.CandidateHit
	err := o.stage(ctx, metrics.StageRetrieve, o.opts.RetrieveTimeout, func(ctx context.Context) error {
		var err error
		hits, err = o.retriever.Retrieve(ctx, description, topK)
		return err
	})
	if err != nil {
		log.Warn("retrieval failed", "error", err, "kind", internalErrors.Kind(err))
		return nil, err
	}

	advisory := req.Advisory()
	var result *services.ClassifierResult
	err = o.stage(ctx, metrics.StageClassify, o.opts.ClassifyTimeout, func(ctx context.Context) error {
		var err error
		result, err = o.classifier.Classify(ctx, description, hits, advisory)
		return err
	})
	if err != nil {
		log.Warn("classification failed", "error", err, "kind", internalErrors.Kind(err), "candidates", len(hits))
		return nil, err
	}

	notes := append([]model.AdvisoryNote{}, result.Advisory...)
	notes = append(notes, o.compensationNotes(ctx, log, req, result.Classification.Level)...)

	log.Info("recommendation produced",
		"candidates", len(hits),
		"kept", len(result.Classification.Result.Hits),
		"level", result.Classification.Level,
		"confidence", result.Classification.Confidence,
		"advisory_notes", len(notes))

	return &services.Recommendation{
		ID:             id,
		Candidates:     hits,
		Classification: result.Classification,
		WageLevel:      result.Classification.WageLevel(),
		Advisory:       notes,
	}, nil
}

func (o *Orchestrator) stage(ctx context.Context, stage metrics.Stage, timeout time.Duration, fn func(context.Context) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return o.metrics.Time(stage, func() error { return fn(ctx) })
}

// compensationNotes checks the offered pay against the prevailing wage of
// the hinted occupation at the final level. Lookup failures only log.
func (o *Orchestrator) compensationNotes(ctx context.Context, log *slog.Logger, req services.RecommendRequest, level model.WageLevel) []model.AdvisoryNote {
	code := strings.TrimSpace(req.OccupationHint)
	if o.wages == nil || code == "" || strings.TrimSpace(req.County) == "" || strings.TrimSpace(req.State) == "" {
		return nil
	}
	if _, ok := classifier.ParsePay(req.Pay); !ok {
		return nil
	}

	lookup, err := o.wages.Lookup(ctx, code, req.County, req.State)
	if err != nil {
		log.Warn("prevailing wage lookup failed", "occupation", code, "county", req.County, "state", req.State, "error", err)
		return nil
	}
	return classifier.CompensationRisk(level, req.Pay, lookup.Record)
}

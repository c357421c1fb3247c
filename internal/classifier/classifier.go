// Package classifier filters retrieved occupations and assigns a
// defensible prevailing wage level through a generative model held to a
// strict JSON output contract.
package classifier

import (
	"context"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

// Classifier implements services.Classifier over a Generator.
type Classifier struct {
	gen     services.Generator
	service string
}

var _ services.Classifier = (*Classifier)(nil)

// New creates a classifier. service names the generator in errors.
func New(gen services.Generator, service string) *Classifier {
	if service == "" {
		service = geminiService
	}
	return &Classifier{gen: gen, service: service}
}

// Classify asks the model to filter hits and pick a wage level, then
// validates the answer. The advisory context is applied only after the
// level is final and is never part of the prompt.
func (c *Classifier) Classify(ctx context.Context, description model.JobDescription, hits []model.CandidateHit, advisory *model.AdvisoryContext) (*services.ClassifierResult, error) {
	if description.IsBlank() {
		return nil, internalErrors.NewValidationError("jobDescription", "must not be empty")
	}

	prompt, err := BuildPrompt(description, hits)
	if err != nil {
		return nil, err
	}
	schema, err := ResponseSchema()
	if err != nil {
		return nil, err
	}

	raw, err := c.gen.Generate(ctx, services.GenerationRequest{Prompt: prompt, ResponseSchema: schema})
	if err != nil {
		return nil, err
	}

	classification, err := ParseResponse(c.service, raw, hits)
	if err != nil {
		logger.Warn("classifier output rejected", "error", err, "candidates", len(hits))
		return nil, err
	}

	logger.Debug("classification accepted",
		"level", classification.Level,
		"confidence", classification.Confidence,
		"kept", len(classification.Result.Hits),
		"candidates", len(hits))

	return &services.ClassifierResult{
		Classification: classification,
		Advisory:       Advise(classification.Level, advisory),
	}, nil
}

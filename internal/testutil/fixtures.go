// Package testutil provides shared fixtures and stubs for package tests.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GSaiKiran15/Case-Wage-Pro/internal/dataset"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

// WageDataJSON is a small wage table. Software developers (15-1252.00)
// are surveyed in seven California areas and five other states; Fresno
// and Modesto tie on level3 with Fresno first in dataset order.
const WageDataJSON = `{
  "15-1252.00": {
    "title": "Software Developers",
    "description": "Research, design, and develop computer and network software or specialized utility programs.",
    "areas": [
      {"areaCode": "41860", "areaName": "San Francisco-Oakland-Hayward, CA", "state": "California", "level1": "52.51", "level2": "63.74", "level3": "74.98", "level4": "86.21", "average": "80.12"},
      {"areaCode": "40900", "areaName": "Sacramento--Roseville--Arden-Arcade, CA", "state": "California", "level1": "38.10", "level2": "48.15", "level3": "58.20", "level4": "68.25", "average": "60.00"},
      {"areaCode": "31080", "areaName": "Los Angeles-Long Beach-Anaheim, CA", "state": "California", "level1": "41.00", "level2": "51.55", "level3": "62.10", "level4": "72.65", "average": "65.40"},
      {"areaCode": "23420", "areaName": "Fresno, CA", "state": "California", "level1": "33.00", "level2": "41.52", "level3": "50.05", "level4": "58.58", "average": "51.00"},
      {"areaCode": "41740", "areaName": "San Diego-Carlsbad, CA", "state": "California", "level1": "40.20", "level2": "50.60", "level3": "61.00", "level4": "71.40", "average": "63.30"},
      {"areaCode": "33700", "areaName": "Modesto, CA", "state": "California", "level1": "31.90", "level2": "40.97", "level3": "50.05", "level4": "59.13", "average": "50.50"},
      {"areaCode": "17020", "areaName": "Chico, CA", "state": "California", "level1": "30.00", "level2": "39.45", "level3": "48.90", "level4": "58.35", "average": 49.75},
      {"areaCode": "12060", "areaName": "Atlanta-Sandy Springs-Roswell, GA", "state": "Georgia", "level1": "36.00", "level2": "45.65", "level3": "55.30", "level4": "64.95", "average": "57.00"},
      {"areaCode": "26420", "areaName": "Houston-The Woodlands-Sugar Land, TX", "state": "Texas", "level1": "20.00", "level2": "36.55", "level3": "53.10", "level4": "69.65", "average": "55.20"},
      {"areaCode": "47900", "areaName": "Washington-Arlington-Alexandria, DC-VA-MD-WV", "state": "District of Columbia", "level1": "45.00", "level2": "56.70", "level3": "68.40", "level4": "80.10", "average": "70.00"},
      {"areaCode": "14460", "areaName": "Boston-Cambridge-Newton, MA NECTA Division", "state": "Massachusetts", "level1": "47.00", "level2": "58.50", "level3": "70.00", "level4": "81.50", "average": "72.00"},
      {"areaCode": "38060", "areaName": "Phoenix-Mesa-Scottsdale, AZ", "state": "Arizona", "level1": "35.50", "level2": "45.15", "level3": "54.80", "level4": "64.45", "average": "56.10"}
    ]
  },
  "15-1253.00": {
    "title": "Software Quality Assurance Analysts and Testers",
    "description": "Develop and execute software tests to identify software problems and their causes.",
    "areas": [
      {"areaCode": "41860", "areaName": "San Francisco-Oakland-Hayward, CA", "state": "California", "level1": "40.10", "level2": "49.80", "level3": "59.50", "level4": "69.20", "average": "61.00"},
      {"areaCode": "12060", "areaName": "Atlanta-Sandy Springs-Roswell, GA", "state": "Georgia", "level1": "30.10", "level2": "38.05", "level3": "46.00", "level4": "53.95", "average": "47.00"}
    ]
  }
}`

// GeographyJSON maps counties to the areas of WageDataJSON. Loving County
// resolves to an area where no occupation is surveyed.
const GeographyJSON = `{
  "San Francisco County, California": {"areaCode": "41860"},
  "Sacramento County, California": {"areaCode": "40900"},
  "Los Angeles County, California": {"areaCode": "31080"},
  "Fresno County, California": {"areaCode": "23420"},
  "Fulton County, Georgia": {"areaCode": "12060"},
  "Harris County, Texas": {"areaCode": "26420"},
  "Loving County, Texas": {"areaCode": "99999"},
  "District of Columbia, District of Columbia": {"areaCode": "47900"}
}`

// NewRepository returns a repository over the fixture datasets.
func NewRepository(t testing.TB) *dataset.Repository {
	t.Helper()
	repo := dataset.NewRepository(dataset.BytesSource{
		WageData:  []byte(WageDataJSON),
		Geography: []byte(GeographyJSON),
	})
	require.NoError(t, repo.Preload(context.Background()))
	return repo
}

// SoftwareDeveloperHit and QAHit mirror what the occupation index returns.
var (
	SoftwareDeveloperHit = model.CandidateHit{
		ID:    "15-1252.00",
		Score: 0.85,
		Fields: model.HitFields{
			Value:       "15-1252.00",
			Title:       "Software Developers",
			Description: "Research, design, and develop computer and network software or specialized utility programs. Analyze user needs and develop software solutions, applying principles and techniques of computer science, engineering, and mathematical analysis.",
		},
	}
	QAHit = model.CandidateHit{
		ID:    "15-1253.00",
		Score: 0.78,
		Fields: model.HitFields{
			Value:       "15-1253.00",
			Title:       "Software Quality Assurance Analysts and Testers",
			Description: "Develop and execute software tests to identify software problems and their causes.",
		},
	}
	WebDeveloperHit = model.CandidateHit{
		ID:    "15-1254.00",
		Score: 0.74,
		Fields: model.HitFields{
			Value:       "15-1254.00",
			Title:       "Web Developers",
			Description: "Develop and implement websites, web applications, application databases, and interactive web interfaces.",
		},
	}
)

// SampleHits returns a fresh copy of the three fixture hits in score order.
func SampleHits() []model.CandidateHit {
	return []model.CandidateHit{SoftwareDeveloperHit, QAHit, WebDeveloperHit}
}

// SampleDescription is a senior full stack developer posting.
const SampleDescription = `We are seeking a Senior Full Stack Developer to join our team.
Responsibilities include:
- Design and develop scalable web applications using React and Node.js
- Collaborate with product managers and designers
- Mentor junior developers
Requirements:
- 5+ years of experience in software development
- Bachelor's degree in Computer Science or related field`

// StubRetriever returns fixed hits and records its calls.
type StubRetriever struct {
	mu    sync.Mutex
	Hits  []model.CandidateHit
	Err   error
	Calls []string
}

func (s *StubRetriever) Retrieve(ctx context.Context, description model.JobDescription, topK int) ([]model.CandidateHit, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, string(description))
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	hits := append([]model.CandidateHit(nil), s.Hits...)
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// StubGenerator answers every prompt with Response and records prompts.
type StubGenerator struct {
	mu       sync.Mutex
	Response string
	Err      error
	Requests []services.GenerationRequest
}

func (s *StubGenerator) Generate(ctx context.Context, req services.GenerationRequest) (string, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}

// Prompts returns the prompts received so far.
func (s *StubGenerator) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Requests))
	for i, r := range s.Requests {
		out[i] = r.Prompt
	}
	return out
}

// Package metrics tracks call counts, failures and latency of the
// recommendation stages.
package metrics

import (
	"sync"
	"time"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
)

// Stage names a timed step.
type Stage string

const (
	StageRetrieve  Stage = "retrieve"
	StageClassify  Stage = "classify"
	StageRank      Stage = "rank"
	StageRecommend Stage = "recommend"
)

// Keep only the last maxSamples durations per stage.
const maxSamples = 100

// StageData is a copy of one stage's counters (safe for copying)
type StageData struct {
	Calls           int64            `json:"calls"`
	Failures        int64            `json:"failures"`
	FailuresByKind  map[string]int64 `json:"failures_by_kind"`
	TotalDuration   time.Duration    `json:"total_duration_ns"`
	AverageDuration time.Duration    `json:"average_duration_ns"`
	RecentAverage   time.Duration    `json:"recent_average_duration_ns"`
}

// Snapshot is a copy of all counters (safe for copying)
type Snapshot struct {
	Stages      map[Stage]StageData `json:"stages"`
	StartedAt   time.Time           `json:"started_at"`
	LastUpdated time.Time           `json:"last_updated"`
}

type stageCounters struct {
	calls          int64
	failures       int64
	failuresByKind map[string]int64
	total          time.Duration
	recent         []time.Duration
}

// Collector records stage outcomes. A nil *Collector ignores all calls.
type Collector struct {
	mu          sync.RWMutex
	stages      map[Stage]*stageCounters
	startedAt   time.Time
	lastUpdated time.Time
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	now := time.Now()
	return &Collector{
		stages:      make(map[Stage]*stageCounters),
		startedAt:   now,
		lastUpdated: now,
	}
}

// Record counts one call of stage. A non-nil err counts as a failure,
// grouped by error kind.
func (c *Collector) Record(stage Stage, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.stages[stage]
	if !ok {
		s = &stageCounters{failuresByKind: make(map[string]int64)}
		c.stages[stage] = s
	}

	s.calls++
	s.total += duration
	s.recent = append(s.recent, duration)
	if len(s.recent) > maxSamples {
		s.recent = s.recent[1:]
	}
	if err != nil {
		s.failures++
		s.failuresByKind[internalErrors.Kind(err)]++
	}
	c.lastUpdated = time.Now()
}

// Time runs fn and records its duration and error under stage.
func (c *Collector) Time(stage Stage, fn func() error) error {
	start := time.Now()
	err := fn()
	c.Record(stage, time.Since(start), err)
	return err
}

// Snapshot returns a copy of current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{Stages: map[Stage]StageData{}}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	stages := make(map[Stage]StageData, len(c.stages))
	for name, s := range c.stages {
		byKind := make(map[string]int64, len(s.failuresByKind))
		for k, v := range s.failuresByKind {
			byKind[k] = v
		}
		data := StageData{
			Calls:          s.calls,
			Failures:       s.failures,
			FailuresByKind: byKind,
			TotalDuration:  s.total,
		}
		if s.calls > 0 {
			data.AverageDuration = s.total / time.Duration(s.calls)
		}
		if len(s.recent) > 0 {
			var recent time.Duration
			for _, d := range s.recent {
				recent += d
			}
			data.RecentAverage = recent / time.Duration(len(s.recent))
		}
		stages[name] = data
	}

	return Snapshot{Stages: stages, StartedAt: c.startedAt, LastUpdated: c.lastUpdated}
}

// SuccessRate returns the success rate of stage (0.0 to 1.0)
func (c *Collector) SuccessRate(stage Stage) float64 {
	if c == nil {
		return 1.0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.stages[stage]
	if !ok || s.calls == 0 {
		return 1.0 // No calls yet, assume 100% success
	}
	return float64(s.calls-s.failures) / float64(s.calls)
}

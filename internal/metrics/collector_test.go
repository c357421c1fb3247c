package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
)

func TestCollector_Record(t *testing.T) {
	c := NewCollector()

	c.Record(StageRetrieve, 10*time.Millisecond, nil)
	c.Record(StageRetrieve, 30*time.Millisecond, internalErrors.NewUpstreamUnavailableError("pinecone", 503, nil))
	c.Record(StageClassify, 5*time.Millisecond, internalErrors.NewMalformedResponseError("gemini", "bad", ""))

	snap := c.Snapshot()
	retrieve := snap.Stages[StageRetrieve]
	if retrieve.Calls != 2 {
		t.Errorf("Expected 2 retrieve calls, got %d", retrieve.Calls)
	}
	if retrieve.Failures != 1 {
		t.Errorf("Expected 1 retrieve failure, got %d", retrieve.Failures)
	}
	if retrieve.FailuresByKind["upstream_unavailable"] != 1 {
		t.Errorf("Expected upstream_unavailable failure, got %v", retrieve.FailuresByKind)
	}
	if retrieve.AverageDuration != 20*time.Millisecond {
		t.Errorf("Expected 20ms average, got %v", retrieve.AverageDuration)
	}

	classify := snap.Stages[StageClassify]
	if classify.FailuresByKind["malformed_upstream_response"] != 1 {
		t.Errorf("Expected malformed failure, got %v", classify.FailuresByKind)
	}

	if rate := c.SuccessRate(StageRetrieve); rate != 0.5 {
		t.Errorf("Expected success rate 0.5, got %f", rate)
	}
	if rate := c.SuccessRate(StageRank); rate != 1.0 {
		t.Errorf("Expected success rate 1.0 for unused stage, got %f", rate)
	}
}

func TestCollector_SnapshotIsACopy(t *testing.T) {
	c := NewCollector()
	c.Record(StageRank, time.Millisecond, errors.New("boom"))

	snap := c.Snapshot()
	snap.Stages[StageRank].FailuresByKind["internal"] = 99

	if got := c.Snapshot().Stages[StageRank].FailuresByKind["internal"]; got != 1 {
		t.Errorf("Expected snapshot mutation not to leak, got %d", got)
	}
}

func TestCollector_RecentWindow(t *testing.T) {
	c := NewCollector()
	for i := 0; i < maxSamples; i++ {
		c.Record(StageRank, time.Second, nil)
	}
	for i := 0; i < maxSamples; i++ {
		c.Record(StageRank, time.Millisecond, nil)
	}

	data := c.Snapshot().Stages[StageRank]
	if data.RecentAverage != time.Millisecond {
		t.Errorf("Expected recent average 1ms, got %v", data.RecentAverage)
	}
	if data.Calls != 2*maxSamples {
		t.Errorf("Expected %d calls, got %d", 2*maxSamples, data.Calls)
	}
}

func TestCollector_Time(t *testing.T) {
	c := NewCollector()
	want := errors.New("boom")
	if err := c.Time(StageClassify, func() error { return want }); err != want {
		t.Errorf("Expected Time to return fn's error, got %v", err)
	}
	if c.Snapshot().Stages[StageClassify].Failures != 1 {
		t.Error("Expected failure to be recorded")
	}
}

func TestCollector_Nil(t *testing.T) {
	var c *Collector
	c.Record(StageRetrieve, time.Millisecond, nil)
	if len(c.Snapshot().Stages) != 0 {
		t.Error("Expected empty snapshot from nil collector")
	}
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(StageRecommend, time.Millisecond, nil)
			_ = c.Snapshot()
		}()
	}
	wg.Wait()

	if got := c.Snapshot().Stages[StageRecommend].Calls; got != 50 {
		t.Errorf("Expected 50 calls, got %d", got)
	}
}

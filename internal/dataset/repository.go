package dataset

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
)

// Repository loads the wage table and geography index on first use and
// serves the same immutable values for the rest of the process lifetime.
//
// Concurrent first callers share a single load. A failed load is not
// remembered, so the next caller tries again.
type Repository struct {
	source Source
	group  singleflight.Group

	mu    sync.RWMutex
	wages *WageTable
	geo   *GeographyIndex

	loads atomic.Int64
}

// NewRepository creates a repository reading from source.
func NewRepository(source Source) *Repository {
	return &Repository{source: source}
}

// NewRepositoryFrom creates a repository that is already populated.
func NewRepositoryFrom(wages *WageTable, geo *GeographyIndex) *Repository {
	return &Repository{wages: wages, geo: geo}
}

// WageTable returns the wage table, loading it on first use.
func (r *Repository) WageTable(ctx context.Context) (*WageTable, error) {
	r.mu.RLock()
	wages := r.wages
	r.mu.RUnlock()
	if wages != nil {
		return wages, nil
	}

	v, err, _ := r.group.Do(wageDataset, func() (any, error) {
		r.mu.RLock()
		loaded := r.wages
		r.mu.RUnlock()
		if loaded != nil {
			return loaded, nil
		}

		table, err := r.loadWageTable(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.wages = table
		r.mu.Unlock()
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*WageTable), nil
}

// Geography returns the geography index, loading it on first use.
func (r *Repository) Geography(ctx context.Context) (*GeographyIndex, error) {
	r.mu.RLock()
	geo := r.geo
	r.mu.RUnlock()
	if geo != nil {
		return geo, nil
	}

	v, err, _ := r.group.Do(geographyDataset, func() (any, error) {
		r.mu.RLock()
		loaded := r.geo
		r.mu.RUnlock()
		if loaded != nil {
			return loaded, nil
		}

		index, err := r.loadGeography(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.geo = index
		r.mu.Unlock()
		return index, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*GeographyIndex), nil
}

// Preload loads both datasets concurrently.
func (r *Repository) Preload(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := r.WageTable(gctx)
		return err
	})
	g.Go(func() error {
		_, err := r.Geography(gctx)
		return err
	})
	return g.Wait()
}

// Loads returns how many dataset loads were performed.
func (r *Repository) Loads() int64 {
	return r.loads.Load()
}

func (r *Repository) loadWageTable(ctx context.Context) (*WageTable, error) {
	if r.source == nil {
		return nil, fmt.Errorf("load %s: no dataset source configured", wageDataset)
	}
	start := time.Now()
	r.loads.Add(1)

	rc, err := r.source.OpenWageData(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", wageDataset, err)
	}
	defer rc.Close()

	table, err := DecodeWageTable(rc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", wageDataset, err)
	}
	logger.Info("dataset loaded", "dataset", wageDataset, "occupations", table.Len(), "duration_ms", time.Since(start).Milliseconds())
	return table, nil
}

func (r *Repository) loadGeography(ctx context.Context) (*GeographyIndex, error) {
	if r.source == nil {
		return nil, fmt.Errorf("load %s: no dataset source configured", geographyDataset)
	}
	start := time.Now()
	r.loads.Add(1)

	rc, err := r.source.OpenGeography(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", geographyDataset, err)
	}
	defer rc.Close()

	index, err := DecodeGeographyIndex(rc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", geographyDataset, err)
	}
	logger.Info("dataset loaded", "dataset", geographyDataset, "entries", index.Len(), "duration_ms", time.Since(start).Milliseconds())
	return index, nil
}

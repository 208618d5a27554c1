package site

import (
	"sync"
	"time"
)

// BuildMetrics tracks build performance across rebuilds
type BuildMetrics struct {
	TotalBuilds     int64
	FailedBuilds    int64
	PagesRendered   int64
	CacheHits       int64
	AverageDuration time.Duration
	TotalDuration   time.Duration
	mutex           sync.RWMutex
}

// RecordBuild records a build result in the metrics
func (bm *BuildMetrics) RecordBuild(result *Result) {
	bm.mutex.Lock()
	defer bm.mutex.Unlock()

	bm.TotalBuilds++
	bm.TotalDuration += result.Duration
	bm.PagesRendered += int64(result.Pages)
	bm.CacheHits += int64(result.CacheHits)

	if len(result.Errors) > 0 {
		bm.FailedBuilds++
	}

	bm.AverageDuration = bm.TotalDuration / time.Duration(bm.TotalBuilds)
}

// GetSnapshot returns a snapshot of current metrics
func (bm *BuildMetrics) GetSnapshot() BuildMetrics {
	bm.mutex.RLock()
	defer bm.mutex.RUnlock()
	return BuildMetrics{
		TotalBuilds:     bm.TotalBuilds,
		FailedBuilds:    bm.FailedBuilds,
		PagesRendered:   bm.PagesRendered,
		CacheHits:       bm.CacheHits,
		AverageDuration: bm.AverageDuration,
		TotalDuration:   bm.TotalDuration,
	}
}

package models

import "time"

// RunRecord is one countdown run as stored in history. Completed is
// false when the run was reset before reaching zero.
type RunRecord struct {
	ID         int64
	Total      time.Duration
	StartedAt  time.Time
	FinishedAt time.Time
	Completed  bool
}

// RunStats aggregates the run history for the status line.
type RunStats struct {
	TotalRuns     int
	CompletedRuns int
	TotalDuration time.Duration
	LongestRun    time.Duration
}

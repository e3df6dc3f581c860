package recorder

import (
	"errors"
	"time"
)

// ErrNoRuns is returned by LastRun when nothing has been recorded.
var ErrNoRuns = errors.New("no report runs recorded")

// RunRecord summarises one report run.
type RunRecord struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Succeeded  int
}

// SectionRecord is the outcome of one section within a run.
type SectionRecord struct {
	RunID     int64
	Section   string
	OK        bool
	ErrorKind string // "fetch", "parse", "insufficient_data", "render", "internal"
	Error     string
	Artifacts []string
	Duration  time.Duration
}

// IndicatorRecord is one computed value worth keeping for later comparison.
type IndicatorRecord struct {
	Section string
	Name    string
	Date    time.Time
	Value   float64
}

// Recorder persists run history for analysis.
type Recorder interface {
	BeginRun(startedAt time.Time) (int64, error)
	RecordSection(rec *SectionRecord) error
	RecordIndicators(runID int64, points []IndicatorRecord) error
	FinishRun(run *RunRecord) error
	LastRun() (*RunRecord, []SectionRecord, error)
	Close() error
}

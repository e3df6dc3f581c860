package recorder

import "time"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) BeginRun(_ time.Time) (int64, error)                { return 0, nil }
func (n *NoopRecorder) RecordSection(_ *SectionRecord) error               { return nil }
func (n *NoopRecorder) RecordIndicators(_ int64, _ []IndicatorRecord) error { return nil }
func (n *NoopRecorder) FinishRun(_ *RunRecord) error                       { return nil }
func (n *NoopRecorder) LastRun() (*RunRecord, []SectionRecord, error)      { return nil, nil, ErrNoRuns }
func (n *NoopRecorder) Close() error                                       { return nil }

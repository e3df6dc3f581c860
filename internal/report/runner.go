package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MarketBulletin/internal/recorder"

	"go.uber.org/zap"
)

// ErrUnknownSection is returned when a requested section id is not registered.
var ErrUnknownSection = errors.New("unknown section")

// Summary is the outcome of one run over a list of sections.
type Summary struct {
	RunID      int64
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []Result
}

// Succeeded counts the sections that completed.
func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.OK {
			n++
		}
	}
	return n
}

// Failed returns the results of sections that did not complete.
func (s *Summary) Failed() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}

func (s *Summary) String() string {
	return fmt.Sprintf("%d / %d sections executed successfully", s.Succeeded(), len(s.Results))
}

// Runner executes sections one after another. A failing or panicking section
// is recorded and the run moves on to the next one.
type Runner struct {
	env      *Env
	rec      recorder.Recorder
	sections []Section
}

// NewRunner creates a runner over sections in their run order.
func NewRunner(env *Env, rec recorder.Recorder, sections []Section) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{env: env, rec: rec, sections: sections}
}

// Sections returns the registered sections in run order.
func (r *Runner) Sections() []Section {
	out := make([]Section, len(r.sections))
	copy(out, r.sections)
	return out
}

// Select returns the sections named by ids, keeping run order. No ids
// selects the configured default list, or every section when that is empty.
func (r *Runner) Select(ids []string) ([]Section, error) {
	if len(ids) == 0 && r.env != nil && r.env.Config != nil {
		ids = r.env.Config.Report.Sections
	}
	if len(ids) == 0 {
		return r.Sections(), nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Section
	for _, s := range r.sections {
		if want[s.ID()] {
			out = append(out, s)
			delete(want, s.ID())
		}
	}
	for _, id := range ids {
		if want[id] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSection, id)
		}
	}
	return out, nil
}

// Run executes the selected sections and records every outcome.
func (r *Runner) Run(ctx context.Context, ids ...string) (*Summary, error) {
	selected, err := r.Select(ids)
	if err != nil {
		return nil, err
	}

	sum := &Summary{StartedAt: r.env.now()}
	runID, err := r.rec.BeginRun(sum.StartedAt)
	if err != nil {
		zap.L().Warn("record run start failed", zap.Error(err))
	}
	sum.RunID = runID

	for i, s := range selected {
		if err := ctx.Err(); err != nil {
			zap.L().Warn("run cancelled", zap.Int("skipped", len(selected)-i))
			for _, rest := range selected[i:] {
				res := Result{Section: rest.ID(), Title: rest.Title(), Err: err}
				sum.Results = append(sum.Results, res)
				r.record(runID, res, nil)
			}
			break
		}

		res, out := r.runSection(ctx, s)
		sum.Results = append(sum.Results, res)
		r.record(runID, res, out)
	}

	sum.FinishedAt = r.env.now()
	if err := r.rec.FinishRun(&recorder.RunRecord{
		ID:         runID,
		StartedAt:  sum.StartedAt,
		FinishedAt: sum.FinishedAt,
		Total:      len(sum.Results),
		Succeeded:  sum.Succeeded(),
	}); err != nil {
		zap.L().Warn("record run finish failed", zap.Error(err))
	}
	zap.L().Info(sum.String(), zap.Int64("run_id", runID), zap.Duration("elapsed", sum.FinishedAt.Sub(sum.StartedAt)))
	return sum, nil
}

func (r *Runner) runSection(ctx context.Context, s Section) (Result, *Output) {
	log := zap.L().With(zap.String("section", s.ID()))
	log.Info("section started")

	start := time.Now()
	out, err := r.safeRun(ctx, s)
	res := Result{
		Section:  s.ID(),
		Title:    s.Title(),
		Duration: time.Since(start),
	}
	if err != nil {
		res.Err = err
		log.Error("section failed", zap.String("kind", res.Kind()), zap.Error(err), zap.Duration("elapsed", res.Duration))
		return res, nil
	}
	if out == nil {
		out = &Output{}
	}
	res.OK = true
	res.Artifacts = out.Artifacts
	res.Summary = out.Summary
	log.Info("section completed", zap.Strings("artifacts", out.Artifacts), zap.Duration("elapsed", res.Duration))
	return res, out
}

func (r *Runner) safeRun(ctx context.Context, s Section) (out *Output, err error) {
	defer func() {
		if p := recover(); p != nil {
			zap.L().Error("section panic", zap.String("section", s.ID()), zap.Any("panic", p), zap.Stack("stack"))
			out, err = nil, &PanicError{Section: s.ID(), Value: p}
		}
	}()
	return s.Run(ctx, r.env)
}

func (r *Runner) record(runID int64, res Result, out *Output) {
	rec := &recorder.SectionRecord{
		RunID:     runID,
		Section:   res.Section,
		OK:        res.OK,
		ErrorKind: res.Kind(),
		Artifacts: res.Artifacts,
		Duration:  res.Duration,
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	if err := r.rec.RecordSection(rec); err != nil {
		zap.L().Warn("record section failed", zap.String("section", res.Section), zap.Error(err))
	}
	if out != nil && len(out.Indicators) > 0 {
		if err := r.rec.RecordIndicators(runID, out.Indicators); err != nil {
			zap.L().Warn("record indicators failed", zap.String("section", res.Section), zap.Error(err))
		}
	}
}

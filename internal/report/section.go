// Package report runs the bulletin sections and collects their outcomes.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MarketBulletin/internal/collector"
	"MarketBulletin/internal/normalize"
	"MarketBulletin/internal/recorder"
	"MarketBulletin/internal/render"
	"MarketBulletin/internal/series"
)

// Error kinds recorded for failed sections.
const (
	KindFetch            = "fetch"
	KindParse            = "parse"
	KindInsufficientData = "insufficient_data"
	KindRender           = "render"
	KindCanceled         = "canceled"
	KindInternal         = "internal"
)

// Section is one independently runnable part of the bulletin.
type Section interface {
	ID() string
	Title() string
	Run(ctx context.Context, env *Env) (*Output, error)
}

// Output is what a successful section produced.
type Output struct {
	Artifacts  []string
	Indicators []recorder.IndicatorRecord
	Summary    string
}

func (o *Output) indicator(section, name string, date time.Time, value float64) {
	o.Indicators = append(o.Indicators, recorder.IndicatorRecord{
		Section: section,
		Name:    name,
		Date:    date,
		Value:   value,
	})
}

// Result is the outcome of one section run.
type Result struct {
	Section   string
	Title     string
	OK        bool
	Err       error
	Artifacts []string
	Summary   string
	Duration  time.Duration
}

// Kind classifies the result's error; it is empty for successful sections.
func (r Result) Kind() string {
	if r.OK {
		return ""
	}
	return Classify(r.Err)
}

// PanicError wraps a value recovered from a section.
type PanicError struct {
	Section string
	Value   interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("section %s panicked: %v", e.Section, e.Value)
}

// Classify maps an error onto one of the Kind constants.
func Classify(err error) string {
	var (
		fe *collector.FetchError
		pe *normalize.ParseError
		ie *series.InsufficientDataError
		re *render.RenderError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &fe):
		return KindFetch
	case errors.As(err, &pe):
		return KindParse
	case errors.As(err, &ie):
		return KindInsufficientData
	case errors.As(err, &re):
		return KindRender
	default:
		return KindInternal
	}
}

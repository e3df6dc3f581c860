// Package series aggregates day-granular indicator observations.
//
// A Series holds at most one point per calendar day, newest first. Missing
// days are simply absent; nothing is zero-filled.
package series

import (
	"fmt"
	"sort"
	"time"

	"MarketBulletin/internal/model"
	"MarketBulletin/internal/normalize"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// InsufficientDataError is returned when an operation needs more points than exist.
type InsufficientDataError struct {
	Series string
	Need   int
	Have   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("series %s: need %d points, have %d", e.Series, e.Need, e.Have)
}

// Series is an immutable, date-unique, date-descending indicator series.
type Series struct {
	name   string
	points []model.TimeSeriesPoint
}

// New builds a Series from points in source order. When a date appears more
// than once the first occurrence wins.
func New(name string, points []model.TimeSeriesPoint) *Series {
	seen := make(map[time.Time]struct{}, len(points))
	out := make([]model.TimeSeriesPoint, 0, len(points))
	for _, p := range points {
		day := normalize.Day(p.Date)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, model.TimeSeriesPoint{Date: day, Value: p.Value})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return &Series{name: name, points: out}
}

// Name returns the series label.
func (s *Series) Name() string { return s.name }

// Len returns the number of distinct days.
func (s *Series) Len() int { return len(s.points) }

// Points returns a copy of the points, newest first.
func (s *Series) Points() []model.TimeSeriesPoint {
	out := make([]model.TimeSeriesPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Head returns up to n most recent points.
func (s *Series) Head(n int) []model.TimeSeriesPoint {
	if n > len(s.points) {
		n = len(s.points)
	}
	if n < 0 {
		n = 0
	}
	out := make([]model.TimeSeriesPoint, n)
	copy(out, s.points[:n])
	return out
}

// Latest returns the newest point.
func (s *Series) Latest() (model.TimeSeriesPoint, error) {
	if len(s.points) == 0 {
		return model.TimeSeriesPoint{}, &InsufficientDataError{Series: s.name, Need: 1}
	}
	return s.points[0], nil
}

// RequireAtLeast fails when fewer than n distinct days are present.
func (s *Series) RequireAtLeast(n int) error {
	if len(s.points) < n {
		return &InsufficientDataError{Series: s.name, Need: n, Have: len(s.points)}
	}
	return nil
}

// Change compares the latest point with the one before it.
func (s *Series) Change() (model.ChangeMetric, error) {
	if err := s.RequireAtLeast(2); err != nil {
		return model.ChangeMetric{}, err
	}
	return ChangeBetween(s.points[0].Value, s.points[1].Value), nil
}

// ChangeAgainst compares the latest point with an arbitrary base value.
func (s *Series) ChangeAgainst(base float64) (model.ChangeMetric, error) {
	latest, err := s.Latest()
	if err != nil {
		return model.ChangeMetric{}, err
	}
	return ChangeBetween(latest.Value, base), nil
}

// ChangeBetween computes current - base. The percent is left undefined when
// base is zero.
func ChangeBetween(current, base float64) model.ChangeMetric {
	c := model.ChangeMetric{
		Current:  current,
		Base:     base,
		Absolute: decimal.NewFromFloat(current).Sub(decimal.NewFromFloat(base)).InexactFloat64(),
	}
	if base != 0 {
		c.Percent = (current - base) / base * 100
		c.PercentDefined = true
	}
	return c
}

// Diffs returns day-over-day differences, newest first. Each entry is dated
// with the later of the two days.
func (s *Series) Diffs() []model.TimeSeriesPoint {
	if len(s.points) < 2 {
		return nil
	}
	out := make([]model.TimeSeriesPoint, 0, len(s.points)-1)
	for i := 0; i+1 < len(s.points); i++ {
		out = append(out, model.TimeSeriesPoint{
			Date:  s.points[i].Date,
			Value: ChangeBetween(s.points[i].Value, s.points[i+1].Value).Absolute,
		})
	}
	return out
}

func (s *Series) window(n int) []model.TimeSeriesPoint {
	if n > len(s.points) {
		n = len(s.points)
	}
	if n < 0 {
		n = 0
	}
	return s.points[:n]
}

func (s *Series) aggregate(kind model.AggregateKind, n int, fn func([]model.TimeSeriesPoint) float64) (model.WindowAggregate, error) {
	if n <= 0 {
		return model.WindowAggregate{}, fmt.Errorf("series %s: window must be positive, got %d", s.name, n)
	}
	w := s.window(n)
	if len(w) == 0 {
		return model.WindowAggregate{}, &InsufficientDataError{Series: s.name, Need: 1}
	}
	return model.WindowAggregate{
		Kind:      kind,
		Requested: n,
		Used:      len(w),
		Value:     fn(w),
		Partial:   len(w) < n,
	}, nil
}

// Sum adds the n most recent values using exact decimal arithmetic.
func (s *Series) Sum(n int) (model.WindowAggregate, error) {
	return s.aggregate(model.AggSum, n, func(w []model.TimeSeriesPoint) float64 {
		total := decimal.Zero
		for _, p := range w {
			total = total.Add(decimal.NewFromFloat(p.Value))
		}
		return total.InexactFloat64()
	})
}

// Mean averages the n most recent values.
func (s *Series) Mean(n int) (model.WindowAggregate, error) {
	return s.aggregate(model.AggMean, n, func(w []model.TimeSeriesPoint) float64 {
		return stat.Mean(values(w), nil)
	})
}

// Min returns the lowest of the n most recent values.
func (s *Series) Min(n int) (model.WindowAggregate, error) {
	return s.aggregate(model.AggMin, n, func(w []model.TimeSeriesPoint) float64 {
		m := w[0].Value
		for _, p := range w[1:] {
			if p.Value < m {
				m = p.Value
			}
		}
		return m
	})
}

// Max returns the highest of the n most recent values.
func (s *Series) Max(n int) (model.WindowAggregate, error) {
	return s.aggregate(model.AggMax, n, func(w []model.TimeSeriesPoint) float64 {
		m := w[0].Value
		for _, p := range w[1:] {
			if p.Value > m {
				m = p.Value
			}
		}
		return m
	})
}

func values(w []model.TimeSeriesPoint) []float64 {
	out := make([]float64, len(w))
	for i, p := range w {
		out[i] = p.Value
	}
	return out
}

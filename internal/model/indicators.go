package model

import "time"

// TimeSeriesPoint is one parsed observation. Date is truncated to the calendar day.
type TimeSeriesPoint struct {
	Date  time.Time
	Value float64
}

// ChangeMetric is the difference between a current value and a base value.
// Percent is only meaningful when PercentDefined is true (base != 0).
type ChangeMetric struct {
	Current        float64
	Base           float64
	Absolute       float64
	Percent        float64
	PercentDefined bool
}

// Arrow returns ↑ / ↓ / → for the sign of the change.
func (c ChangeMetric) Arrow() string {
	switch {
	case c.Absolute > 0:
		return "↑"
	case c.Absolute < 0:
		return "↓"
	default:
		return "→"
	}
}

// AggregateKind names a window reduction.
type AggregateKind string

const (
	AggSum  AggregateKind = "SUM"
	AggMean AggregateKind = "MEAN"
	AggMin  AggregateKind = "MIN"
	AggMax  AggregateKind = "MAX"
)

// WindowAggregate is a reduction over the most recent N points.
// Partial is set when fewer than Requested points were available.
type WindowAggregate struct {
	Kind      AggregateKind
	Requested int
	Used      int
	Value     float64
	Partial   bool
}

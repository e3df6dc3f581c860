package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceHistory holds the bars fetched for one symbol.
type PriceHistory struct {
	Symbol    string
	Interval  string
	Currency  string
	Price     float64 // regular market price reported by the source, 0 if absent
	PrevClose float64 // previous close reported by the source, 0 if absent
	Bars      []OHLCV // oldest first
	FetchedAt time.Time
}

// Last returns the most recent bar, or false when the history is empty.
func (p *PriceHistory) Last() (OHLCV, bool) {
	if len(p.Bars) == 0 {
		return OHLCV{}, false
	}
	return p.Bars[len(p.Bars)-1], true
}

// Closes returns the close prices, oldest first.
func (p *PriceHistory) Closes() []float64 {
	closes := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Quote is a last-traded price with its previous close.
type Quote struct {
	Symbol    string
	Name      string
	Price     float64
	PrevClose float64
	Open      float64
	DayHigh   float64
	DayLow    float64
	Volume    float64
	Change    ChangeMetric
	AsOf      time.Time
}

// Mover is a constituent ranked by its day-over-day percent change.
type Mover struct {
	Symbol    string
	Price     float64
	PrevClose float64
	Change    ChangeMetric
}

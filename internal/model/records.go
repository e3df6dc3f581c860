package model

import "time"

// FlowDay is one trading day of institutional cash-market activity, in crores.
type FlowDay struct {
	Date    time.Time
	FIINet  float64
	DIINet  float64
	FIIBuy  float64
	FIISell float64
	DIIBuy  float64
	DIISell float64
}

// MetalRate is a quoted price for one purity/unit with its day change.
type MetalRate struct {
	Label  string
	Price  float64
	Change float64
}

// MetalDay is one row of a metal price history table. Prices and Changes
// are aligned with MetalRates.Columns.
type MetalDay struct {
	Date    time.Time
	Prices  []float64
	Changes []float64
}

// MetalRates is the scraped state of one metal page.
type MetalRates struct {
	Metal   string
	Columns []string
	Today   []MetalRate
	History []MetalDay // page order, newest first
}

// Points returns the history of one price column as series points.
func (m MetalRates) Points(col int) []TimeSeriesPoint {
	out := make([]TimeSeriesPoint, 0, len(m.History))
	for _, d := range m.History {
		if col < 0 || col >= len(d.Prices) {
			continue
		}
		out = append(out, TimeSeriesPoint{Date: d.Date, Value: d.Prices[col]})
	}
	return out
}

// NewsItem is one headline from a news listing.
type NewsItem struct {
	Title   string
	Summary string
	Link    string
}

// PCRReading is a put/call open interest ratio snapshot.
type PCRReading struct {
	Date    time.Time
	PutOI   float64
	CallOI  float64
	Value   float64
	Defined bool
}

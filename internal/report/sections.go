package report

import "context"

// Section ids, in run order.
const (
	SectionNiftySummary   = "nifty-summary"
	SectionNiftyTechnical = "nifty-technical"
	SectionNiftyMovers    = "nifty-movers"
	SectionNiftyPCR       = "nifty-pcr"
	SectionMarketNews     = "market-news"
	SectionFIIDII         = "fii-dii"
	SectionGlobalIndices  = "global-indices"
	SectionIndiaVIX       = "india-vix"
	SectionGold           = "gold"
	SectionSilver         = "silver"
	SectionCurrency       = "currency"
	SectionDailyDigest    = "daily-digest"
)

// Func adapts a function to the Section interface.
type Func struct {
	Name  string
	Label string
	Fn    func(ctx context.Context, env *Env) (*Output, error)
}

func (f Func) ID() string    { return f.Name }
func (f Func) Title() string { return f.Label }

func (f Func) Run(ctx context.Context, env *Env) (*Output, error) {
	return f.Fn(ctx, env)
}

// DefaultSections returns every built-in section in run order.
func DefaultSections() []Section {
	return []Section{
		Func{SectionNiftySummary, "Nifty 50 summary", runNiftySummary},
		Func{SectionNiftyTechnical, "Nifty 50 technical view", runNiftyTechnical},
		Func{SectionNiftyMovers, "Nifty 50 gainers and losers", runNiftyMovers},
		Func{SectionNiftyPCR, "Nifty put/call ratio", runNiftyPCR},
		Func{SectionMarketNews, "Market news bulletin", runMarketNews},
		Func{SectionFIIDII, "FII / DII flows", runFIIDII},
		Func{SectionGlobalIndices, "Global indices", runGlobalIndices},
		Func{SectionIndiaVIX, "India VIX", runIndiaVIX},
		Func{SectionGold, "Gold rates", runMetal(goldKind)},
		Func{SectionSilver, "Silver rates", runMetal(silverKind)},
		Func{SectionCurrency, "Currency rates", runCurrency},
		Func{SectionDailyDigest, "Daily digest PDF", runDailyDigest},
	}
}

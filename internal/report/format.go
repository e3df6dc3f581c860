package report

import (
	"fmt"

	"MarketBulletin/internal/model"

	"github.com/dustin/go-humanize"
)

const dateLayout = "02 Jan 2006"

// amount formats v with thousands separators and two decimals.
func amount(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func signed(v float64) string {
	if v > 0 {
		return "+" + amount(v)
	}
	return amount(v)
}

// flowArrow formats a net flow with an up arrow for buying and a down arrow for selling.
func flowArrow(v float64) string {
	if v >= 0 {
		return amount(v) + " ↑"
	}
	return amount(v) + " ↓"
}

func percent(c model.ChangeMetric) string {
	if !c.PercentDefined {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", c.Percent)
}

// change renders "+12.50 (+0.56%) ↑".
func change(c model.ChangeMetric) string {
	return fmt.Sprintf("%s (%s) %s", signed(c.Absolute), percent(c), c.Arrow())
}

func windowLabel(w model.WindowAggregate) string {
	if w.Partial {
		return fmt.Sprintf("%d-day (only %d days)", w.Requested, w.Used)
	}
	return fmt.Sprintf("%d-day", w.Requested)
}

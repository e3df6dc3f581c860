package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"MarketBulletin/internal/model"
)

// flowDateLayout is the date format of the FII/DII table.
const flowDateLayout = "02 Jan 2006"

// FlowDays converts FII/DII table rows. Buy and sell cells may be blank;
// date and net cells must parse.
func FlowDays(rows []model.RawRow) ([]model.FlowDay, error) {
	days := make([]model.FlowDay, 0, len(rows))
	for _, r := range rows {
		date, err := ParseDate("date", r.Cell(0), flowDateLayout, "2 Jan 2006")
		if err != nil {
			return nil, err
		}
		d := model.FlowDay{Date: date}
		fields := []struct {
			name   string
			idx    int
			dst    *float64
			policy EmptyPolicy
		}{
			{"fii_buy", 1, &d.FIIBuy, EmptyZero},
			{"fii_sell", 2, &d.FIISell, EmptyZero},
			{"fii_net", 3, &d.FIINet, EmptyFail},
			{"dii_buy", 4, &d.DIIBuy, EmptyZero},
			{"dii_sell", 5, &d.DIISell, EmptyZero},
			{"dii_net", 6, &d.DIINet, EmptyFail},
		}
		for _, f := range fields {
			v, _, err := ParseNumberPolicy(f.name, r.Cell(f.idx), f.policy)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		days = append(days, d)
	}
	return days, nil
}

// FlowPoints splits flow days into FII and DII net series points.
func FlowPoints(days []model.FlowDay) (fii, dii []model.TimeSeriesPoint) {
	for _, d := range days {
		fii = append(fii, model.TimeSeriesPoint{Date: d.Date, Value: d.FIINet})
		dii = append(dii, model.TimeSeriesPoint{Date: d.Date, Value: d.DIINet})
	}
	return fii, dii
}

// MetalRates converts goodreturns rows. columns names the history price
// columns after the date. A change cell is signed by its direction hint
// when one is present.
func MetalRates(metal string, columns []string, rows []model.RawRow) (model.MetalRates, error) {
	out := model.MetalRates{Metal: metal, Columns: columns}
	for _, r := range rows {
		switch r.Kind {
		case model.RowPriceBox:
			price, err := ParseNumber(r.Cell(0)+" price", r.Cell(1))
			if err != nil {
				return model.MetalRates{}, err
			}
			change, _, err := ParseNumberPolicy(r.Cell(0)+" change", r.Cell(2), EmptyZero)
			if err != nil {
				return model.MetalRates{}, err
			}
			out.Today = append(out.Today, model.MetalRate{Label: r.Cell(0), Price: price, Change: change})

		case model.RowPriceHistory:
			date, err := ParseDate("date", r.Cell(0))
			if err != nil {
				return model.MetalRates{}, err
			}
			day := model.MetalDay{Date: date}
			for i := range columns {
				col := strconv.Itoa(i + 1)
				price, err := ParseNumber(columns[i], r.Cell(i+1))
				if err != nil {
					return model.MetalRates{}, err
				}
				change, _, err := ParseNumberPolicy(columns[i]+" change", r.Attr("change_"+col), EmptyZero)
				if err != nil {
					return model.MetalRates{}, err
				}
				switch r.Attr("dir_" + col) {
				case "up":
					change = math.Abs(change)
				case "down":
					change = -math.Abs(change)
				}
				day.Prices = append(day.Prices, price)
				day.Changes = append(day.Changes, change)
			}
			out.History = append(out.History, day)
		}
	}
	if len(out.Today) == 0 && len(out.History) == 0 {
		return model.MetalRates{}, &ParseError{Field: metal, Err: fmt.Errorf("no %s rows", metal)}
	}
	return out, nil
}

// NewsItems cleans headline rows, drops items mentioning any excluded
// keyword (case-insensitive) in the headline or summary, and keeps at most
// limit items. A limit of zero keeps everything.
func NewsItems(rows []model.RawRow, exclude []string, limit int) []model.NewsItem {
	var out []model.NewsItem
	for _, r := range rows {
		item := model.NewsItem{
			Title:   CleanText(r.Cell(0)),
			Summary: CleanText(r.Cell(1)),
			Link:    strings.TrimSpace(r.Cell(2)),
		}
		if item.Title == "" || containsAny(item.Title+" "+item.Summary, exclude) {
			continue
		}
		out = append(out, item)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// PutCallRatio totals put and call open interest across option strike rows.
// The ratio is undefined when total call OI is zero.
func PutCallRatio(rows []model.RawRow, asOf time.Time) (model.PCRReading, error) {
	if len(rows) == 0 {
		return model.PCRReading{}, &ParseError{Field: "option_chain", Err: ErrEmpty}
	}
	r := model.PCRReading{Date: Day(asOf)}
	for _, row := range rows {
		pe, _, err := ParseNumberPolicy("put_oi", row.Cell(2), EmptySkip)
		if err != nil {
			return model.PCRReading{}, err
		}
		ce, _, err := ParseNumberPolicy("call_oi", row.Cell(3), EmptySkip)
		if err != nil {
			return model.PCRReading{}, err
		}
		r.PutOI += pe
		r.CallOI += ce
	}
	if r.CallOI != 0 {
		r.Value = r.PutOI / r.CallOI
		r.Defined = true
	}
	return r, nil
}

// PriceHistory rebuilds bars from chart rows.
func PriceHistory(symbol string, rows []model.RawRow) (*model.PriceHistory, error) {
	h := &model.PriceHistory{Symbol: symbol, FetchedAt: time.Now()}
	for _, r := range rows {
		ts, err := strconv.ParseInt(r.Cell(0), 10, 64)
		if err != nil {
			return nil, &ParseError{Field: "timestamp", Raw: r.Cell(0), Err: ErrMalformed}
		}
		var vals [5]float64
		for i, name := range []string{"open", "high", "low", "close", "volume"} {
			v, _, err := ParseNumberPolicy(name, r.Cell(i+1), EmptyZero)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		h.Bars = append(h.Bars, model.OHLCV{
			Time: time.Unix(ts, 0).UTC(), Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4],
		})
		if h.Price == 0 {
			price, _, err := ParseNumberPolicy("price", r.Attr("price"), EmptyZero)
			if err != nil {
				return nil, err
			}
			prev, _, err := ParseNumberPolicy("prev_close", r.Attr("prev_close"), EmptyZero)
			if err != nil {
				return nil, err
			}
			h.Price, h.PrevClose = price, prev
		}
	}
	if len(h.Bars) == 0 {
		return nil, &ParseError{Field: symbol, Err: ErrEmpty}
	}
	return h, nil
}

package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"MarketBulletin/internal/config"
	"MarketBulletin/internal/model"

	"github.com/go-resty/resty/v2"
)

// OptionChainFetcher reads the NSE index option chain.
type OptionChainFetcher struct {
	Client    *resty.Client
	URL       string
	WarmupURL string
}

// NewOptionChainFetcher creates an option chain fetcher from its source config.
func NewOptionChainFetcher(src config.SourceConfig, userAgent, proxy string) *OptionChainFetcher {
	c := NewClient(src, userAgent, proxy).
		SetHeader("Accept", "application/json, text/plain, */*").
		SetHeader("Referer", "https://www.nseindia.com/option-chain")
	return &OptionChainFetcher{Client: c, URL: src.URL, WarmupURL: src.WarmupURL}
}

func (f *OptionChainFetcher) Name() string { return SourceOptionChain }

type optionSide struct {
	OpenInterest float64 `json:"openInterest"`
}

type optionChain struct {
	Records struct {
		Timestamp string `json:"timestamp"`
		Data      []struct {
			StrikePrice float64     `json:"strikePrice"`
			ExpiryDate  string      `json:"expiryDate"`
			PE          *optionSide `json:"PE"`
			CE          *optionSide `json:"CE"`
		} `json:"data"`
	} `json:"records"`
}

// Fetch returns one RowOptionStrike per strike with cells strike, expiry,
// put OI, call OI. A side absent from the record yields an empty cell.
func (f *OptionChainFetcher) Fetch(ctx context.Context, _ Query) ([]model.RawRow, error) {
	warmUp(ctx, f.Client, SourceOptionChain, f.WarmupURL)

	body, err := get(ctx, f.Client, SourceOptionChain, f.URL)
	if err != nil {
		return nil, err
	}
	var chain optionChain
	if err := json.Unmarshal(body, &chain); err != nil {
		return nil, &FetchError{Source: SourceOptionChain, URL: f.URL, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	if len(chain.Records.Data) == 0 {
		return nil, &FetchError{Source: SourceOptionChain, URL: f.URL, Err: ErrNoData}
	}

	rows := make([]model.RawRow, 0, len(chain.Records.Data))
	for _, d := range chain.Records.Data {
		rows = append(rows, model.RawRow{
			Source: SourceOptionChain,
			Kind:   model.RowOptionStrike,
			Cells:  []string{formatFloat(d.StrikePrice), d.ExpiryDate, sideOI(d.PE), sideOI(d.CE)},
			Attrs:  map[string]string{"timestamp": chain.Records.Timestamp},
		})
	}
	return rows, nil
}

func sideOI(s *optionSide) string {
	if s == nil {
		return ""
	}
	return formatFloat(s.OpenInterest)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

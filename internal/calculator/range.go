package calculator

import (
	"errors"
	"math"

	"MarketBulletin/internal/model"
)

// TradingDaysPerYear is the bar count used for 52-week statistics.
const TradingDaysPerYear = 252

// CalculateRange scans the most recent n bars and returns the high and low.
func CalculateRange(bars []model.OHLCV, n int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	if n <= 0 {
		return 0, 0, errors.New("lookback must be positive")
	}
	start := len(bars) - n
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(bars); i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// Calculate52WeekRange returns the high and low of the last year of daily bars.
func Calculate52WeekRange(dailyBars []model.OHLCV) (high, low float64, err error) {
	return CalculateRange(dailyBars, TradingDaysPerYear)
}

// CalculatePosition returns where current sits within [low, high] (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// Levels are support and resistance bands derived from a recent range.
type Levels struct {
	Resistance1 float64
	Resistance2 float64
	Support1    float64
	Support2    float64
}

// CalculateLevels takes the high/low of the last lookback bars as first
// resistance/support, with second levels band percent beyond them.
func CalculateLevels(bars []model.OHLCV, lookback int, band float64) (Levels, error) {
	high, low, err := CalculateRange(bars, lookback)
	if err != nil {
		return Levels{}, err
	}
	return Levels{
		Resistance1: high,
		Resistance2: high * (1 + band),
		Support1:    low,
		Support2:    low * (1 - band),
	}, nil
}

package calculator

import (
	"errors"

	"MarketBulletin/internal/model"

	"gonum.org/v1/gonum/stat"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	return stat.Mean(prices[len(prices)-period:], nil), nil
}

// CalculateMA50 returns the 50-day simple moving average from daily bars.
func CalculateMA50(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(extractCloses(dailyBars), 50)
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

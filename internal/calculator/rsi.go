package calculator

import (
	"errors"

	"MarketBulletin/internal/model"
)

// NeutralRSI is reported when there are too few closes to smooth.
const NeutralRSI = 50.0

// CalculateRSI computes the Wilder-smoothed RSI of the bar closes.
// Requires at least period+1 bars; returns NeutralRSI otherwise.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	return RSI(extractCloses(bars), period)
}

// RSI is CalculateRSI over raw closes, oldest first.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return NeutralRSI, nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}
	p := float64(period)
	avgGain /= p
	avgLoss /= p

	for i := period + 1; i < len(closes); i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	return 100.0 - 100.0/(1.0+avgGain/avgLoss), nil
}

// RSIZone labels an RSI reading.
func RSIZone(rsi float64) string {
	switch {
	case rsi >= 70:
		return "overbought"
	case rsi <= 30:
		return "oversold"
	default:
		return "neutral"
	}
}

func split(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

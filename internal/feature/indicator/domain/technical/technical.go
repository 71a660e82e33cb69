// Package technical computes SMA, Wilder RSI and momentum over daily candles.
//
// Every function expects candles sorted strictly ascending by date (see
// entity.Normalize) and is pure: no I/O and no shared state.
package technical

import (
	"math"
	"time"

	"wing_backend/internal/feature/candles/domain/entity"
	"wing_backend/internal/shared/apperr"
)

// DefaultRSIPeriod is the conventional Wilder period.
const DefaultRSIPeriod = 14

// Point is one dated indicator value.
type Point[T any] struct {
	Date  time.Time
	Value T
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// guard validates the period and requires strictly more candles than period.
func guard(indicator string, candles []entity.Candle, period int) error {
	if period <= 0 {
		return apperr.Invalid("%s period must be positive, got %d", indicator, period)
	}
	if len(candles) == 0 {
		return ErrEmptySeries
	}
	if len(candles) <= period {
		return &InsufficientHistoryError{Indicator: indicator, Period: period, Have: len(candles)}
	}
	return nil
}

// SMA returns the mean of the last period closes.
func SMA(candles []entity.Candle, period int) (float64, error) {
	if err := guard("sma", candles, period); err != nil {
		return 0, err
	}
	return Round2(mean(candles[len(candles)-period:])), nil
}

// SMASeries returns one point per candle. Indices without a full window
// (i+1 < period) carry a nil value. At least period candles are required so
// that the last point is computable.
func SMASeries(candles []entity.Candle, period int) ([]Point[*float64], error) {
	if period <= 0 {
		return nil, apperr.Invalid("sma period must be positive, got %d", period)
	}
	if len(candles) == 0 {
		return nil, ErrEmptySeries
	}
	if len(candles) < period {
		return nil, &InsufficientHistoryError{Indicator: "sma", Period: period, Have: len(candles)}
	}

	out := make([]Point[*float64], len(candles))
	var sum float64
	for i, c := range candles {
		sum += c.Close
		if i >= period {
			sum -= candles[i-period].Close
		}
		out[i].Date = c.Time
		if i+1 >= period {
			v := Round2(sum / float64(period))
			out[i].Value = &v
		}
	}
	return out, nil
}

// RSI returns the latest Wilder-smoothed RSI.
func RSI(candles []entity.Candle, period int) (float64, error) {
	series, err := RSISeries(candles, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1].Value, nil
}

// RSISeries returns Wilder RSI from index period onward. The first value is
// computed from the simple averages of the first period deltas; later values
// use Wilder smoothing. When the average loss is zero the RSI is 100.
func RSISeries(candles []entity.Candle, period int) ([]Point[float64], error) {
	if err := guard("rsi", candles, period); err != nil {
		return nil, err
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		g, l := split(candles[i].Close - candles[i-1].Close)
		gainSum += g
		lossSum += l
	}
	p := float64(period)
	avgGain, avgLoss := gainSum/p, lossSum/p

	out := make([]Point[float64], 0, len(candles)-period)
	out = append(out, Point[float64]{Date: candles[period].Time, Value: rsi(avgGain, avgLoss)})
	for i := period + 1; i < len(candles); i++ {
		g, l := split(candles[i].Close - candles[i-1].Close)
		avgGain = (avgGain*(p-1) + g) / p
		avgLoss = (avgLoss*(p-1) + l) / p
		out = append(out, Point[float64]{Date: candles[i].Time, Value: rsi(avgGain, avgLoss)})
	}
	return out, nil
}

// Momentum returns close(t) - close(t-period) at the latest candle.
func Momentum(candles []entity.Candle, period int) (float64, error) {
	if err := guard("mom", candles, period); err != nil {
		return 0, err
	}
	last := len(candles) - 1
	return Round2(candles[last].Close - candles[last-period].Close), nil
}

// MomentumPercent returns (close(t)/close(t-period) - 1) * 100 at the latest candle.
func MomentumPercent(candles []entity.Candle, period int) (float64, error) {
	if err := guard("mom", candles, period); err != nil {
		return 0, err
	}
	last := len(candles) - 1
	base := candles[last-period].Close
	if base <= 0 {
		return 0, apperr.Invalid("close on %s must be positive", candles[last-period].Time.Format("2006-01-02"))
	}
	return Round2((candles[last].Close/base - 1) * 100), nil
}

// MomentumSeries returns one point per index i >= period.
func MomentumSeries(candles []entity.Candle, period int) ([]Point[float64], error) {
	if err := guard("mom", candles, period); err != nil {
		return nil, err
	}
	out := make([]Point[float64], 0, len(candles)-period)
	for i := period; i < len(candles); i++ {
		out = append(out, Point[float64]{
			Date:  candles[i].Time,
			Value: Round2(candles[i].Close - candles[i-period].Close),
		})
	}
	return out, nil
}

// Window keeps the points dated on or after from.
func Window[T any](points []Point[T], from time.Time) []Point[T] {
	start := entity.Date(from)
	out := make([]Point[T], 0, len(points))
	for _, p := range points {
		if !entity.Date(p.Date).Before(start) {
			out = append(out, p)
		}
	}
	return out
}

// Last keeps the most recent n points.
func Last[T any](points []Point[T], n int) []Point[T] {
	if n <= 0 || len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}

func mean(candles []entity.Candle) float64 {
	var sum float64
	for _, c := range candles {
		sum += c.Close
	}
	return sum / float64(len(candles))
}

func split(delta float64) (gain, loss float64) {
	if delta > 0 {
		return delta, 0
	}
	return 0, -delta
}

func rsi(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return Round2(100 - 100/(1+avgGain/avgLoss))
}

// Package entity defines the domain models for the candles feature.
package entity

import (
	"sort"
	"time"
)

// Candle represents OHLCV (Open, High, Low, Close, Volume) candlestick data
// for a stock symbol at a specific time interval.
type Candle struct {
	Symbol   string    // Ticker or domestic code (e.g., "AAPL", "005930")
	Interval string    // Time interval (e.g., "1day", "1week", "1month")
	Time     time.Time // Start of the candle period; midnight UTC for daily bars
	Open     float64   // Opening price
	High     float64   // Highest price during this period
	Low      float64   // Lowest price during this period
	Close    float64   // Closing price
	Volume   int64     // Trading volume
}

// Date truncates t to a calendar date at midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Normalize sorts candles strictly ascending by date and drops duplicate dates,
// keeping the last occurrence. Times are truncated to the calendar date.
// The input slice is not modified.
func Normalize(candles []Candle) []Candle {
	if len(candles) == 0 {
		return []Candle{}
	}
	out := make([]Candle, len(candles))
	copy(out, candles)
	for i := range out {
		out[i].Time = Date(out[i].Time)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	n := 0
	for i := range out {
		if n > 0 && out[n-1].Time.Equal(out[i].Time) {
			out[n-1] = out[i]
			continue
		}
		out[n] = out[i]
		n++
	}
	return out[:n]
}

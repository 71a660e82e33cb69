package twelvedata

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"wing_backend/internal/platform/externalapi/twelvedata/dto"
)

// Point is one vendor-computed indicator value.
type Point struct {
	Date  time.Time
	Value float64
}

// GetSMA returns the most recent outputsize daily SMA values, oldest first.
func (t *Client) GetSMA(ctx context.Context, symbol string, period, outputsize int) ([]Point, error) {
	return t.indicator(ctx, "/sma", symbol, period, outputsize, func(v dto.IndicatorValue) string { return v.SMA })
}

// GetRSI returns the most recent outputsize daily RSI values, oldest first.
func (t *Client) GetRSI(ctx context.Context, symbol string, period, outputsize int) ([]Point, error) {
	return t.indicator(ctx, "/rsi", symbol, period, outputsize, func(v dto.IndicatorValue) string { return v.RSI })
}

// GetMomentum returns the most recent outputsize daily momentum values, oldest first.
func (t *Client) GetMomentum(ctx context.Context, symbol string, period, outputsize int) ([]Point, error) {
	return t.indicator(ctx, "/mom", symbol, period, outputsize, func(v dto.IndicatorValue) string { return v.MOM })
}

func (t *Client) indicator(ctx context.Context, path, symbol string, period, outputsize int, field func(dto.IndicatorValue) string) ([]Point, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval1d)
	q.Set("time_period", strconv.Itoa(period))
	q.Set("series_type", "close")
	q.Set("outputsize", strconv.Itoa(outputsize))

	var body dto.IndicatorResponse
	if err := t.get(ctx, path, q, &body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, vendorError(body.Code, body.Message)
	}

	out := make([]Point, 0, len(body.Values))
	for _, v := range body.Values {
		tm, err := parseDatetime(v.Datetime)
		if err != nil {
			return nil, err
		}
		raw := field(v)
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", path[1:], raw, err)
		}
		out = append(out, Point{Date: tm, Value: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

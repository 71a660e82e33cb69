package technical

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientHistory matches every InsufficientHistoryError.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrEmptySeries is returned when the candle source returned nothing.
	ErrEmptySeries = errors.New("empty candle series")
)

// InsufficientHistoryError names the indicator and the shortfall.
type InsufficientHistoryError struct {
	Indicator string
	Period    int
	Have      int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("%s(%d): insufficient history: need more than %d candles, have %d",
		e.Indicator, e.Period, e.Period, e.Have)
}

// Is reports whether target is ErrInsufficientHistory.
func (e *InsufficientHistoryError) Is(target error) bool {
	return target == ErrInsufficientHistory
}

package forecast

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInsufficientData means the series is too short or degenerate for the requested seasonality.
// It depends on ledger content, so retrying does not help.
var ErrInsufficientData = errors.New("insufficient data to forecast")

// ErrInvalidParameter is returned for a non-positive quantity or an unknown mode.
var ErrInvalidParameter = errors.New("invalid forecast parameter")

type Mode string

const (
	// ModeDay forecasts daily totals from a rolling window of days.
	ModeDay Mode = "day"
	// ModeMonth forecasts monthly totals from all history collapsed into calendar months.
	ModeMonth Mode = "month"
)

func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "day", "days":
		return ModeDay, nil
	case "month", "months":
		return ModeMonth, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidParameter, value)
}

// DailySeries holds zero-filled totals for every day of [Start, End].
type DailySeries struct {
	Start    time.Time
	End      time.Time
	Dates    []time.Time
	Expenses []float64
	Incomes  []float64
}

type MonthTotal struct {
	Month time.Month
	Total float64
}

// MonthlySeries holds totals per calendar month, months with a zero total are left out.
type MonthlySeries struct {
	Expenses []MonthTotal
	Incomes  []MonthTotal
}

func Values(totals []MonthTotal) []float64 {
	values := make([]float64, 0, len(totals))
	for _, total := range totals {
		values = append(values, total.Total)
	}
	return values
}

type Result struct {
	Mode     Mode
	Quantity int
	Expenses []float64
	Incomes  []float64
}

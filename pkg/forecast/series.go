package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/finflow/finflow/internal/config"
	"github.com/finflow/finflow/internal/utils"
	"github.com/finflow/finflow/pkg/ledger"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// LedgerReader is the part of the ledger store the series builder reads from.
type LedgerReader interface {
	FindEntries(ctx context.Context, userId int, filter ledger.EntryFilter) ([]ledger.Entry, error)
	SumByDate(ctx context.Context, userId int, filter ledger.EntryFilter) ([]ledger.DailyTotal, error)
}

type SeriesBuilder struct {
	ledger LedgerReader
	cfg    config.Forecast
}

func NewSeriesBuilder(reader LedgerReader, cfg config.Forecast) *SeriesBuilder {
	return &SeriesBuilder{ledger: reader, cfg: cfg}
}

// BuildDailySeries sums expense and income entries for every day of the window ending at endDate.
// Permanent entries and transfers are not part of the series.
func (b *SeriesBuilder) BuildDailySeries(ctx context.Context, userId int, endDate time.Time) (DailySeries, error) {
	if b.cfg.Daily.WindowDays < 0 {
		return DailySeries{}, fmt.Errorf("%w: daily window of %d days", config.ErrInvalidConfig, b.cfg.Daily.WindowDays)
	}
	end := utils.DateOf(endDate)
	start := end.AddDate(0, 0, -b.cfg.Daily.WindowDays)
	days := b.cfg.Daily.WindowDays + 1

	series := DailySeries{
		Start:    start,
		End:      end,
		Dates:    make([]time.Time, days),
		Expenses: make([]float64, days),
		Incomes:  make([]float64, days),
	}
	for i := range series.Dates {
		series.Dates[i] = start.AddDate(0, 0, i)
	}

	filter := ledger.EntryFilter{}.Between(start, end).WithPermanent(false)
	for _, target := range []struct {
		kind   ledger.CategoryKind
		values []float64
	}{
		{ledger.Expense, series.Expenses},
		{ledger.Income, series.Incomes},
	} {
		totals, err := b.ledger.SumByDate(ctx, userId, filter.WithKind(target.kind))
		if err != nil {
			return DailySeries{}, err
		}
		byDay := make([]decimal.Decimal, days)
		for _, total := range totals {
			idx := dayIndex(start, total.Date)
			if idx < 0 || idx >= days {
				log.Warnf("daily total for %s outside of window %s..%s", total.Date.Format(time.DateOnly),
					start.Format(time.DateOnly), end.Format(time.DateOnly))
				continue
			}
			byDay[idx] = byDay[idx].Add(total.Total)
		}
		for i, sum := range byDay {
			target.values[i] = sum.InexactFloat64()
		}
	}

	log.Debugf("built daily series for user %d: %s..%s (%d days)", userId,
		start.Format(time.DateOnly), end.Format(time.DateOnly), days)
	return series, nil
}

// BuildMonthlySeries collapses all of the user's history into the twelve calendar months,
// regardless of year, and drops months whose total is zero. Expenses are summed as magnitudes.
func (b *SeriesBuilder) BuildMonthlySeries(ctx context.Context, userId int) (MonthlySeries, error) {
	filter := ledger.EntryFilter{}
	if b.cfg.Monthly.ExcludePermanent {
		filter = filter.WithPermanent(false)
	}
	entries, err := b.ledger.FindEntries(ctx, userId, filter)
	if err != nil {
		return MonthlySeries{}, err
	}

	var incomes, expenses [12]decimal.Decimal
	for _, entry := range entries {
		month := entry.Date.Month() - 1
		switch entry.Kind {
		case ledger.Income:
			incomes[month] = incomes[month].Add(entry.Amount)
		case ledger.Expense:
			expenses[month] = expenses[month].Add(entry.Amount.Abs())
		}
	}

	series := MonthlySeries{
		Expenses: nonZeroMonths(expenses),
		Incomes:  nonZeroMonths(incomes),
	}
	log.Debugf("built monthly series for user %d from %d entries: %d expense months, %d income months",
		userId, len(entries), len(series.Expenses), len(series.Incomes))
	return series, nil
}

func nonZeroMonths(sums [12]decimal.Decimal) []MonthTotal {
	totals := make([]MonthTotal, 0, len(sums))
	for i, sum := range sums {
		if sum.IsZero() {
			continue
		}
		totals = append(totals, MonthTotal{Month: time.Month(i + 1), Total: sum.InexactFloat64()})
	}
	return totals
}

func dayIndex(start, date time.Time) int {
	return int(utils.DateOf(date).Sub(start).Hours() / 24)
}

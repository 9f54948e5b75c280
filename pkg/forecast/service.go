package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/finflow/finflow/internal/config"
	"github.com/finflow/finflow/internal/utils"
	"github.com/finflow/finflow/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	RunForecast(ctx context.Context, mode Mode, quantity int) (Result, error)
}

type ServiceImpl struct {
	builder    *SeriesBuilder
	forecaster Forecaster
	clock      utils.Clock
	cfg        config.Forecast
}

func NewService(builder *SeriesBuilder, forecaster Forecaster, clock utils.Clock, cfg config.Forecast) *ServiceImpl {
	return &ServiceImpl{
		builder:    builder,
		forecaster: forecaster,
		clock:      clock,
		cfg:        cfg,
	}
}

// RunForecast forecasts the current user's expenses and incomes.
// In day mode the window ends today in the user's timezone.
func (s *ServiceImpl) RunForecast(ctx context.Context, mode Mode, quantity int) (Result, error) {
	if quantity <= 0 {
		return Result{}, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidParameter, quantity)
	}
	if mode != ModeDay && mode != ModeMonth {
		return Result{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidParameter, mode)
	}

	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get current user: %w", err)
	}

	var expenses, incomes []float64
	var seasonalPeriods int
	switch mode {
	case ModeDay:
		today := utils.Today(s.clock, currentUser.Settings.Location())
		series, err := s.builder.BuildDailySeries(ctx, currentUser.Id, today)
		if err != nil {
			return Result{}, fmt.Errorf("failed to build daily series: %w", err)
		}
		expenses, incomes = series.Expenses, series.Incomes
		seasonalPeriods = s.cfg.Daily.SeasonalPeriods
	case ModeMonth:
		series, err := s.builder.BuildMonthlySeries(ctx, currentUser.Id)
		if err != nil {
			return Result{}, fmt.Errorf("failed to build monthly series: %w", err)
		}
		expenses, incomes = Values(series.Expenses), Values(series.Incomes)
		seasonalPeriods = s.cfg.Monthly.SeasonalPeriods
	}

	warnIfFlat("expense", expenses)
	warnIfFlat("income", incomes)

	started := time.Now()
	expenseForecast, err := s.forecaster.Forecast(expenses, quantity, seasonalPeriods)
	if err != nil {
		return Result{}, fmt.Errorf("expense forecast: %w", err)
	}
	incomeForecast, err := s.forecaster.Forecast(incomes, quantity, seasonalPeriods)
	if err != nil {
		return Result{}, fmt.Errorf("income forecast: %w", err)
	}
	log.Debugf("%s forecast of %d values for user %d took %s", mode, quantity, currentUser.Id, time.Since(started))

	return Result{
		Mode:     mode,
		Quantity: quantity,
		Expenses: expenseForecast,
		Incomes:  incomeForecast,
	}, nil
}

func warnIfFlat(name string, series []float64) {
	if len(series) == 0 {
		return
	}
	for _, value := range series[1:] {
		if value != series[0] {
			return
		}
	}
	log.Warnf("%s series of %d observations is constant (%.2f), forecast will be flat", name, len(series), series[0])
}

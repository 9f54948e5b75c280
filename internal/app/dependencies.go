package app

import (
	"github.com/finflow/finflow/internal/config"
	"github.com/finflow/finflow/internal/utils"
	"github.com/finflow/finflow/pkg/forecast"
	"github.com/finflow/finflow/pkg/ledger"
	"github.com/finflow/finflow/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	LedgerRepo    ledger.Repository
	LedgerService *ledger.ServiceImpl
	LedgerHandler *ledger.Handler

	SeriesBuilder       *forecast.SeriesBuilder
	Forecaster          forecast.Forecaster
	ForecastService     *forecast.ServiceImpl
	CsvForecastRenderer *forecast.CsvResultRendererImpl
	ForecastHandler     *forecast.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.LedgerRepo = ledger.NewRepository(db)
	deps.LedgerService = ledger.NewService(deps.LedgerRepo, deps.Clock)
	deps.LedgerHandler = ledger.NewHandler(deps.LedgerService)

	deps.SeriesBuilder = forecast.NewSeriesBuilder(deps.LedgerRepo, cfg.Forecast)
	deps.Forecaster = forecast.NewHoltWinters(cfg.Forecast.MinSeasonalCycles)
	deps.ForecastService = forecast.NewService(deps.SeriesBuilder, deps.Forecaster, deps.Clock, cfg.Forecast)
	deps.CsvForecastRenderer = forecast.NewCsvResultRenderer()
	deps.ForecastHandler = forecast.NewHandler(deps.ForecastService, deps.CsvForecastRenderer)

	return deps
}

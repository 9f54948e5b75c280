package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/finflow/finflow/internal/config"
	"github.com/finflow/finflow/internal/utils"
	"github.com/finflow/finflow/pkg/ledger"
	"github.com/finflow/finflow/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = user.User{Id: testUserId, Uid: "user-1", Username: "anna", Settings: user.Settings{Timezone: "Europe/Warsaw"}}
var ctx = user.WithUser(context.Background(), testUser)
var clock = &utils.MockClock{FixedNow: time.Date(2025, 6, 15, 22, 30, 0, 0, time.UTC)}

type forecastCall struct {
	series          []float64
	quantity        int
	seasonalPeriods int
}

// recordingForecaster remembers the series it was asked to extend and answers with zeros.
type recordingForecaster struct {
	calls []forecastCall
}

func (f *recordingForecaster) Forecast(series []float64, quantity int, seasonalPeriods int) ([]float64, error) {
	f.calls = append(f.calls, forecastCall{series: series, quantity: quantity, seasonalPeriods: seasonalPeriods})
	return make([]float64, quantity), nil
}

func setupService(t *testing.T, forecaster Forecaster) (Service, func()) {
	cfg := config.DefaultForecast()
	service := NewService(NewSeriesBuilder(ledgerStub, cfg), forecaster, clock, cfg)
	return service, func() {
		t.Log("Teardown after test")
		ledgerStub.Cleanup()
	}
}

func TestServiceImpl_RunForecast(t *testing.T) {
	t.Run("should forecast zeros when ledger holds only transfers", func(t *testing.T) {
		service, teardown := setupService(t, NewHoltWinters(2))
		defer teardown()

		// given
		transfer := storeCategory(t, testUserId, ledger.Transfer)
		storeEntry(t, testUserId, transfer, day(2025, 6, 1), "300", false)
		storeEntry(t, testUserId, transfer, day(2025, 3, 1), "120", false)

		// when
		result, err := service.RunForecast(ctx, ModeDay, 10)

		// then
		require.NoError(t, err)
		assert.Equal(t, ModeDay, result.Mode)
		assert.Equal(t, 10, result.Quantity)
		assert.Equal(t, make([]float64, 10), result.Expenses)
		assert.Equal(t, make([]float64, 10), result.Incomes)
	})

	t.Run("should fail monthly forecast with two months of history", func(t *testing.T) {
		service, teardown := setupService(t, NewHoltWinters(2))
		defer teardown()

		// given
		expense := storeCategory(t, testUserId, ledger.Expense)
		storeEntry(t, testUserId, expense, day(2025, 1, 5), "500", false)
		storeEntry(t, testUserId, expense, day(2025, 3, 5), "1200", false)

		// when
		_, err := service.RunForecast(ctx, ModeMonth, 2)

		// then
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("should forecast monthly with a full year of history", func(t *testing.T) {
		service, teardown := setupService(t, NewHoltWinters(2))
		defer teardown()

		// given
		expense := storeCategory(t, testUserId, ledger.Expense)
		income := storeCategory(t, testUserId, ledger.Income)
		for month := time.January; month <= time.December; month++ {
			storeEntry(t, testUserId, expense, day(2024, month, 10), "1500", false)
			storeEntry(t, testUserId, income, day(2024, month, 1), "4000", false)
		}

		// when
		result, err := service.RunForecast(ctx, ModeMonth, 3)

		// then
		require.NoError(t, err)
		assert.Equal(t, []float64{1500, 1500, 1500}, result.Expenses)
		assert.Equal(t, []float64{4000, 4000, 4000}, result.Incomes)
	})

	t.Run("should use daily window ending today in user's timezone", func(t *testing.T) {
		forecaster := &recordingForecaster{}
		service, teardown := setupService(t, forecaster)
		defer teardown()

		// given
		expense := storeCategory(t, testUserId, ledger.Expense)
		storeEntry(t, testUserId, expense, day(2025, 6, 16), "25", false)

		// when
		_, err := service.RunForecast(ctx, ModeDay, 7)

		// then
		require.NoError(t, err)
		require.Len(t, forecaster.calls, 2)
		expenseCall := forecaster.calls[0]
		assert.Equal(t, 50, expenseCall.seasonalPeriods)
		assert.Equal(t, 7, expenseCall.quantity)
		require.Len(t, expenseCall.series, 361)
		assert.Equal(t, 25.0, expenseCall.series[360])
	})

	t.Run("should use monthly seasonal periods in month mode", func(t *testing.T) {
		forecaster := &recordingForecaster{}
		service, teardown := setupService(t, forecaster)
		defer teardown()

		// given
		income := storeCategory(t, testUserId, ledger.Income)
		storeEntry(t, testUserId, income, day(2025, 2, 1), "10", false)

		// when
		_, err := service.RunForecast(ctx, ModeMonth, 1)

		// then
		require.NoError(t, err)
		require.Len(t, forecaster.calls, 2)
		assert.Equal(t, 4, forecaster.calls[1].seasonalPeriods)
		assert.Equal(t, []float64{10}, forecaster.calls[1].series)
	})

	t.Run("should reject invalid parameters before reading the ledger", func(t *testing.T) {
		forecaster := &recordingForecaster{}
		service, teardown := setupService(t, forecaster)
		defer teardown()

		_, err := service.RunForecast(ctx, ModeDay, 0)
		assert.ErrorIs(t, err, ErrInvalidParameter)

		_, err = service.RunForecast(ctx, ModeDay, -3)
		assert.ErrorIs(t, err, ErrInvalidParameter)

		_, err = service.RunForecast(ctx, Mode("week"), 5)
		assert.ErrorIs(t, err, ErrInvalidParameter)

		assert.Empty(t, forecaster.calls)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, teardown := setupService(t, NewHoltWinters(2))
		defer teardown()

		_, err := service.RunForecast(context.Background(), ModeDay, 5)

		assert.ErrorIs(t, err, user.ErrNoUser)
	})

	t.Run("should give identical results for identical ledgers", func(t *testing.T) {
		service, teardown := setupService(t, NewHoltWinters(2))
		defer teardown()

		// given
		expense := storeCategory(t, testUserId, ledger.Expense)
		start := day(2025, 6, 16).AddDate(0, 0, -360)
		for i := 0; i < 361; i += 3 {
			amount := []string{"12.30", "45.10", "7.99", "120.00"}[i%4]
			storeEntry(t, testUserId, expense, start.AddDate(0, 0, i), amount, false)
		}

		// when
		first, err := service.RunForecast(ctx, ModeDay, 14)
		require.NoError(t, err)
		second, err := service.RunForecast(ctx, ModeDay, 14)
		require.NoError(t, err)

		// then
		assert.Equal(t, first, second)
		assert.Len(t, first.Expenses, 14)
	})
}

func TestParseMode(t *testing.T) {
	for input, expected := range map[string]Mode{"day": ModeDay, "days": ModeDay, "Month": ModeMonth, "months": ModeMonth} {
		mode, err := ParseMode(input)
		require.NoError(t, err)
		assert.Equal(t, expected, mode)
	}

	_, err := ParseMode("year")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seasonalSeries(n int, base, slope float64, pattern []float64) []float64 {
	series := make([]float64, n)
	for t := range series {
		series[t] = base + slope*float64(t) + pattern[t%len(pattern)]
	}
	return series
}

func TestHoltWinters_Forecast(t *testing.T) {
	hw := NewHoltWinters(2)

	t.Run("should return requested number of values", func(t *testing.T) {
		series := seasonalSeries(24, 100, 1, []float64{10, -5, 3, -8})

		for _, quantity := range []int{1, 4, 10, 37} {
			values, err := hw.Forecast(series, quantity, 4)

			require.NoError(t, err)
			assert.Len(t, values, quantity)
		}
	})

	t.Run("should round values to two decimals", func(t *testing.T) {
		// given
		series := make([]float64, 120)
		for i := range series {
			series[i] = 50 + 13.37*math.Sin(float64(i)/3) + float64(i%7)*1.111
		}

		// when
		values, err := hw.Forecast(series, 15, 7)

		// then
		require.NoError(t, err)
		for _, value := range values {
			assert.InDelta(t, math.Round(value*100), value*100, 1e-6)
		}
	})

	t.Run("should forecast a constant series flat", func(t *testing.T) {
		series := make([]float64, 100)
		for i := range series {
			series[i] = 42.5
		}

		values, err := hw.Forecast(series, 5, 50)

		require.NoError(t, err)
		assert.Equal(t, []float64{42.5, 42.5, 42.5, 42.5, 42.5}, values)
	})

	t.Run("should forecast zeros for an all-zero series", func(t *testing.T) {
		values, err := hw.Forecast(make([]float64, 361), 10, 50)

		require.NoError(t, err)
		assert.Equal(t, make([]float64, 10), values)
	})

	t.Run("should follow trend and seasonality", func(t *testing.T) {
		// given
		pattern := []float64{5, -5, 5, -5}
		series := seasonalSeries(80, 10, 2, pattern)

		// when
		values, err := hw.Forecast(series, 4, 4)

		// then
		require.NoError(t, err)
		expected := seasonalSeries(84, 10, 2, pattern)[80:]
		for i := range expected {
			assert.InDelta(t, expected[i], values[i], 1.0)
		}
	})

	t.Run("should be deterministic", func(t *testing.T) {
		series := make([]float64, 90)
		for i := range series {
			series[i] = float64((i*37)%11) + 0.5*float64(i)
		}

		first, err := hw.Forecast(series, 12, 5)
		require.NoError(t, err)
		second, err := hw.Forecast(series, 12, 5)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("should fail when series is shorter than two seasonal cycles", func(t *testing.T) {
		_, err := hw.Forecast([]float64{500, 1200}, 2, 4)

		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("should fail for an empty series", func(t *testing.T) {
		_, err := hw.Forecast(nil, 3, 4)

		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("should require configured number of cycles", func(t *testing.T) {
		series := seasonalSeries(12, 100, 0, []float64{1, 2, 3, 4})

		_, err := NewHoltWinters(3).Forecast(series, 2, 4)
		assert.NoError(t, err)

		_, err = NewHoltWinters(4).Forecast(series, 2, 4)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("should fail for non-finite observations", func(t *testing.T) {
		series := seasonalSeries(12, 100, 0, []float64{1, 2, 3, 4})
		series[5] = math.NaN()

		_, err := hw.Forecast(series, 2, 4)

		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("should reject invalid parameters", func(t *testing.T) {
		series := seasonalSeries(12, 100, 0, []float64{1, 2, 3, 4})

		_, err := hw.Forecast(series, 0, 4)
		assert.ErrorIs(t, err, ErrInvalidParameter)

	})

	t.Run("should not blame the caller for a bad seasonal period", func(t *testing.T) {
		series := seasonalSeries(12, 100, 0, []float64{1, 2, 3, 4})

		for _, seasonalPeriods := range []int{0, 1} {
			_, err := hw.Forecast(series, 2, seasonalPeriods)

			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrInvalidParameter)
			assert.NotErrorIs(t, err, ErrInsufficientData)
		}
	})

	t.Run("should pass negative forecasts through", func(t *testing.T) {
		series := seasonalSeries(40, 100, -4, []float64{0, 0, 0, 0})

		values, err := hw.Forecast(series, 10, 4)

		require.NoError(t, err)
		assert.Less(t, values[9], 0.0)
	})
}

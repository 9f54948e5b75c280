package forecast

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// Forecaster extends a series by quantity future values.
type Forecaster interface {
	Forecast(series []float64, quantity int, seasonalPeriods int) ([]float64, error)
}

// HoltWinters is an additive trend, additive seasonal exponential smoothing model.
// Smoothing parameters are fitted to each series by minimizing the in-sample one-step-ahead
// squared error, so the same series always produces the same forecast.
type HoltWinters struct {
	minSeasonalCycles int
	maxIterations     int
}

func NewHoltWinters(minSeasonalCycles int) *HoltWinters {
	if minSeasonalCycles < 2 {
		minSeasonalCycles = 2
	}
	return &HoltWinters{
		minSeasonalCycles: minSeasonalCycles,
		maxIterations:     500,
	}
}

type smoothingParams struct {
	alpha float64
	beta  float64
	gamma float64
}

type hwState struct {
	level    float64
	trend    float64
	seasonal []float64
}

func (hw *HoltWinters) Forecast(series []float64, quantity int, seasonalPeriods int) ([]float64, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidParameter, quantity)
	}
	if seasonalPeriods < 2 {
		return nil, fmt.Errorf("seasonal periods must be at least 2, got %d", seasonalPeriods)
	}
	required := hw.minSeasonalCycles * seasonalPeriods
	if len(series) < required {
		return nil, fmt.Errorf("%w: %d observations, %d seasonal periods need at least %d",
			ErrInsufficientData, len(series), seasonalPeriods, required)
	}
	for i, value := range series {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("%w: observation %d is not a finite number", ErrInsufficientData, i)
		}
	}

	initial := initialState(series, seasonalPeriods)
	params := hw.fit(series, initial)
	log.Debugf("holt-winters fitted on %d observations (m=%d): alpha=%.4f beta=%.4f gamma=%.4f",
		len(series), seasonalPeriods, params.alpha, params.beta, params.gamma)

	final, _ := smooth(series, initial, params)
	seasonLen := len(final.seasonal)
	values := make([]float64, quantity)
	for h := 1; h <= quantity; h++ {
		value := final.level + float64(h)*final.trend + final.seasonal[(len(series)+h-1)%seasonLen]
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("%w: model diverged at step %d", ErrInsufficientData, h)
		}
		values[h-1] = round2(value)
	}
	return values, nil
}

// initialState takes the level from the mean of the first cycle, the trend from the
// difference between the first two cycle means, and seasonal offsets from the first cycle.
func initialState(series []float64, m int) hwState {
	firstCycle := series[:m]
	secondCycle := series[m : 2*m]
	level := stat.Mean(firstCycle, nil)
	trend := (stat.Mean(secondCycle, nil) - level) / float64(m)
	seasonal := make([]float64, m)
	for i, value := range firstCycle {
		seasonal[i] = value - level
	}
	return hwState{level: level, trend: trend, seasonal: seasonal}
}

// smooth runs the recursions over the whole series and returns the final state with the
// sum of squared one-step-ahead errors. The initial state is not modified.
func smooth(series []float64, initial hwState, p smoothingParams) (hwState, float64) {
	m := len(initial.seasonal)
	seasonal := make([]float64, m)
	copy(seasonal, initial.seasonal)
	level, trend := initial.level, initial.trend

	sse := 0.0
	for t, y := range series {
		idx := t % m
		prevSeasonal := seasonal[idx]
		residual := y - (level + trend + prevSeasonal)
		sse += residual * residual

		prevLevel := level
		level = p.alpha*(y-prevSeasonal) + (1-p.alpha)*(prevLevel+trend)
		seasonal[idx] = p.gamma*(y-prevLevel-trend) + (1-p.gamma)*prevSeasonal
		trend = p.beta*(level-prevLevel) + (1-p.beta)*trend
	}
	return hwState{level: level, trend: trend, seasonal: seasonal}, sse
}

var startingGrid = []float64{0.1, 0.3, 0.5, 0.7, 0.9}

// fit picks the best point of a coarse grid and refines it with Nelder-Mead in logit space,
// which keeps every parameter strictly inside (0, 1).
func (hw *HoltWinters) fit(series []float64, initial hwState) smoothingParams {
	objective := func(p smoothingParams) float64 {
		_, sse := smooth(series, initial, p)
		if math.IsNaN(sse) {
			return math.Inf(1)
		}
		return sse
	}

	best := smoothingParams{alpha: startingGrid[0], beta: startingGrid[0], gamma: startingGrid[0]}
	bestSSE := objective(best)
	for _, alpha := range startingGrid {
		for _, beta := range startingGrid {
			for _, gamma := range startingGrid {
				candidate := smoothingParams{alpha: alpha, beta: beta, gamma: gamma}
				if sse := objective(candidate); sse < bestSSE {
					best, bestSSE = candidate, sse
				}
			}
		}
	}
	if bestSSE == 0 {
		return best
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return objective(fromLogits(x))
		},
	}
	settings := &optimize.Settings{MajorIterations: hw.maxIterations}
	result, err := optimize.Minimize(problem, toLogits(best), settings, &optimize.NelderMead{})
	if err != nil {
		log.Debugf("nelder-mead stopped early: %v", err)
	}
	if result == nil || math.IsNaN(result.F) || result.F >= bestSSE {
		return best
	}
	return fromLogits(result.X)
}

func toLogits(p smoothingParams) []float64 {
	return []float64{logit(p.alpha), logit(p.beta), logit(p.gamma)}
}

func fromLogits(x []float64) smoothingParams {
	return smoothingParams{alpha: sigmoid(x[0]), beta: sigmoid(x[1]), gamma: sigmoid(x[2])}
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func round2(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

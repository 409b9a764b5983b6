package analytic

import (
	"math"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

// Options configures a full analysis pass. Unset optionals fall back to the
// package defaults.
type Options struct {
	// Window overrides the rolling window size. Defaults to DefaultWindow.
	Window optional.Option[int]
	// RiskFreeRate overrides the annual risk-free rate used by the rolling
	// Sharpe ratio. Defaults to 0.
	RiskFreeRate optional.Option[float64]
	// LogReturns selects log returns instead of simple returns.
	LogReturns bool
}

// Result bundles every derived series of one analysis pass over a price
// panel. AvgCorrelation is only populated for panels with at least two
// columns; single-column panels have no pairwise statistic.
type Result struct {
	Returns        frame.Frame
	Index          frame.Series
	IndexReturns   frame.Series
	Volatility     frame.Frame
	AvgCorrelation optional.Option[frame.Series]
	Sharpe         frame.Series
	Drawdown       frame.Series
	MaxDrawdown    float64
	Window         int
	RiskFreeRate   float64
}

// Run executes the full descriptive analytics pass: returns, equal-weight
// index, rolling volatility/correlation/Sharpe and drawdown. Precondition
// failures of any step propagate unchanged.
func Run(prices frame.Frame, opts Options) (Result, error) {
	window := opts.Window.TakeOr(DefaultWindow)
	riskFree := opts.RiskFreeRate.TakeOr(0.0)

	if prices.IsEmpty() {
		return Result{}, errors.New(errors.ErrCodeEmptyInput, "input price panel is empty")
	}

	returns, err := Returns(prices, opts.LogReturns)
	if err != nil {
		return Result{}, err
	}

	index, err := EqualWeightIndex(returns)
	if err != nil {
		return Result{}, err
	}

	indexReturns, err := SeriesReturns(index, opts.LogReturns)
	if err != nil {
		return Result{}, err
	}

	volatility, err := RollingVolatility(returns, window)
	if err != nil {
		return Result{}, err
	}

	correlation := optional.None[frame.Series]()

	if returns.Cols() >= 2 {
		corr, err := RollingCorrelation(returns, window)
		if err != nil {
			return Result{}, err
		}

		correlation = optional.Some(corr)
	}

	sharpe, err := RollingSharpe(indexReturns, window, riskFree)
	if err != nil {
		return Result{}, err
	}

	drawdown, err := Drawdown(index)
	if err != nil {
		return Result{}, err
	}

	maxDrawdown := drawdown.Min()
	if math.IsNaN(maxDrawdown) {
		maxDrawdown = 0
	}

	return Result{
		Returns:        returns,
		Index:          index,
		IndexReturns:   indexReturns,
		Volatility:     volatility,
		AvgCorrelation: correlation,
		Sharpe:         sharpe,
		Drawdown:       drawdown,
		MaxDrawdown:    maxDrawdown,
		Window:         window,
		RiskFreeRate:   riskFree,
	}, nil
}

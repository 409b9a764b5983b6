package analytic

import (
	"math"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

// RollingVolatility computes, for every column of a return panel, the rolling
// sample standard deviation over the given window, annualized by sqrt(252).
// The output keeps the full input index; the first window-1 rows are NaN
// because no complete window exists there yet.
func RollingVolatility(returns frame.Frame, window int) (frame.Frame, error) {
	if err := validateRolling(returns.IsEmpty(), returns.Rows(), window, "rolling volatility"); err != nil {
		return frame.Frame{}, err
	}

	annualize := math.Sqrt(TradingDaysPerYear)
	data := make([][]float64, returns.Rows())

	for i := 0; i < returns.Rows(); i++ {
		row := make([]float64, returns.Cols())

		for j := range row {
			if i < window-1 {
				row[j] = math.NaN()
				continue
			}

			row[j] = sampleStdDev(columnWindow(returns, j, i-window+1, i+1)) * annualize
		}

		data[i] = row
	}

	return frame.New(returns.Index(), returns.Columns(), data)
}

// RollingCorrelation computes, for every date, the full pairwise correlation
// matrix of the window ending at that date and averages all of its defined
// entries into one scalar. The diagonal's 1.0 self-correlations participate
// in the average, matching the historical convention of this system.
// Requires at least two columns.
func RollingCorrelation(returns frame.Frame, window int) (frame.Series, error) {
	if returns.IsEmpty() {
		return frame.Series{}, errors.New(errors.ErrCodeEmptyInput, "input return panel is empty")
	}

	if returns.Cols() < 2 {
		return frame.Series{}, errors.Newf(errors.ErrCodeInsufficientColumns,
			"at least two columns are required to compute correlation, got %d", returns.Cols())
	}

	if err := validateRolling(false, returns.Rows(), window, "rolling correlation"); err != nil {
		return frame.Series{}, err
	}

	values := make([]float64, returns.Rows())

	for i := 0; i < returns.Rows(); i++ {
		if i < window-1 {
			values[i] = math.NaN()
			continue
		}

		values[i] = meanPairwiseCorrelation(returns, i-window+1, i+1)
	}

	return frame.NewSeries("avg_rolling_correlation", returns.Index(), values)
}

// RollingSharpe computes an approximate annualized rolling Sharpe ratio for a
// single return series. The annual risk-free rate is converted to a daily
// rate by dividing by 252; per window the ratio is mean(excess)/std(excess)
// scaled by sqrt(252). A zero-variance window is not guarded and yields an
// infinite or NaN value.
func RollingSharpe(returns frame.Series, window int, riskFreeRate float64) (frame.Series, error) {
	if err := validateRolling(returns.IsEmpty(), returns.Len(), window, "rolling Sharpe ratio"); err != nil {
		return frame.Series{}, err
	}

	dailyRiskFree := riskFreeRate / TradingDaysPerYear
	annualize := math.Sqrt(TradingDaysPerYear)

	excess := make([]float64, returns.Len())
	for i := range excess {
		excess[i] = returns.At(i) - dailyRiskFree
	}

	values := make([]float64, returns.Len())

	for i := range values {
		if i < window-1 {
			values[i] = math.NaN()
			continue
		}

		w := excess[i-window+1 : i+1]
		values[i] = mean(w) / sampleStdDev(w) * annualize
	}

	return frame.NewSeries("rolling_sharpe", returns.Index(), values)
}

func validateRolling(empty bool, rows, window int, what string) error {
	if empty {
		return errors.New(errors.ErrCodeEmptyInput, "input data on returns is empty")
	}

	if window <= 0 {
		return errors.Newf(errors.ErrCodeInvalidWindow, "window must be positive, got %d", window)
	}

	if rows < window {
		return errors.NewInsufficientDataf(window, rows,
			"not enough data points to compute %s with window size %d", what, window)
	}

	return nil
}

func columnWindow(f frame.Frame, col, lo, hi int) []float64 {
	w := make([]float64, hi-lo)
	for i := range w {
		w[i] = f.At(lo+i, col)
	}

	return w
}

// meanPairwiseCorrelation averages every defined entry of the n x n
// correlation matrix over rows [lo, hi). Pairs involving a zero-variance
// column are undefined and excluded, as is the whole result when no entry is
// defined.
func meanPairwiseCorrelation(f frame.Frame, lo, hi int) float64 {
	n := f.Cols()

	cols := make([][]float64, n)
	for j := range cols {
		cols[j] = columnWindow(f, j, lo, hi)
	}

	sum, count := 0.0, 0

	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			c := pearson(cols[a], cols[b])
			if math.IsNaN(c) {
				continue
			}

			sum += c
			count++
		}
	}

	if count == 0 {
		return math.NaN()
	}

	return sum / float64(count)
}

func pearson(x, y []float64) float64 {
	mx, my := mean(x), mean(y)

	var sxy, sxx, syy float64

	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	if sxx == 0 || syy == 0 {
		return math.NaN()
	}

	return sxy / math.Sqrt(sxx*syy)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// sampleStdDev is the n-1 denominator standard deviation.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}

	m := mean(values)

	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}

	return math.Sqrt(ss / float64(len(values)-1))
}

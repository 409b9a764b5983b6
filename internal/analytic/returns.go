// Package analytic implements descriptive financial analytics over price
// panels: period returns, an equal-weight index, rolling window statistics
// and drawdown. Every operation is a pure function that validates its own
// preconditions and fails fast with a coded error.
package analytic

import (
	"math"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

const (
	// DefaultWindow is the default rolling window size in trading days.
	DefaultWindow = 60
	// TradingDaysPerYear is the annualization assumption for daily statistics.
	TradingDaysPerYear = 252.0
)

// Returns converts a price panel into a return panel. With logReturns false
// the return at row i is p[i]/p[i-1]-1, otherwise ln(p[i])-ln(p[i-1]). The
// first row has no prior observation and is dropped, as is any remaining row
// containing a NaN cell.
func Returns(prices frame.Frame, logReturns bool) (frame.Frame, error) {
	if prices.IsEmpty() {
		return frame.Frame{}, errors.New(errors.ErrCodeEmptyInput, "input price panel is empty")
	}

	index := prices.Index()
	data := make([][]float64, prices.Rows()-1)

	for i := 1; i < prices.Rows(); i++ {
		row := make([]float64, prices.Cols())
		for j := range row {
			row[j] = periodReturn(prices.At(i-1, j), prices.At(i, j), logReturns)
		}

		data[i-1] = row
	}

	out, err := frame.New(index[1:], prices.Columns(), data)
	if err != nil {
		return frame.Frame{}, err
	}

	return out.DropNaNRows(), nil
}

// SeriesReturns converts a single price or index-level series into a return
// series under the same conventions as Returns.
func SeriesReturns(prices frame.Series, logReturns bool) (frame.Series, error) {
	if prices.IsEmpty() {
		return frame.Series{}, errors.New(errors.ErrCodeEmptyInput, "input price series is empty")
	}

	index := prices.Index()
	values := make([]float64, prices.Len()-1)

	for i := 1; i < prices.Len(); i++ {
		values[i-1] = periodReturn(prices.At(i-1), prices.At(i), logReturns)
	}

	out, err := frame.NewSeries(prices.Name(), index[1:], values)
	if err != nil {
		return frame.Series{}, err
	}

	return out.DropNaN(), nil
}

func periodReturn(prev, cur float64, logReturns bool) float64 {
	if logReturns {
		return math.Log(cur) - math.Log(prev)
	}

	return cur/prev - 1.0
}

package analytic

import (
	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

// EqualWeightIndexName is the column name of the aggregate index series.
const EqualWeightIndexName = "equal_weight_index"

// EqualWeightIndex aggregates a return panel into a single basket series:
// each column is divided by its own first-row value, then rows are averaged
// across columns. The output starts at exactly 1.0.
//
// Note the normalization divides return values, not price levels, by the
// first-row return. This mirrors the historical behavior of the system and
// is intentionally not a cumulative total-return index.
func EqualWeightIndex(returns frame.Frame) (frame.Series, error) {
	if returns.IsEmpty() {
		return frame.Series{}, errors.New(errors.ErrCodeEmptyInput, "input return panel is empty")
	}

	index := returns.Index()
	data := make([][]float64, returns.Rows())

	for i := 0; i < returns.Rows(); i++ {
		row := make([]float64, returns.Cols())
		for j := range row {
			row[j] = returns.At(i, j) / returns.At(0, j)
		}

		data[i] = row
	}

	normalized, err := frame.New(index, returns.Columns(), data)
	if err != nil {
		return frame.Series{}, err
	}

	return normalized.RowMean(EqualWeightIndexName), nil
}

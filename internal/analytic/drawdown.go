package analytic

import (
	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

// Drawdown computes the running-peak-relative decline of an index level
// series: index[i]/max(index[0..i]) - 1. Every value is <= 0 and equals 0
// exactly at a new running maximum.
func Drawdown(index frame.Series) (frame.Series, error) {
	if index.IsEmpty() {
		return frame.Series{}, errors.New(errors.ErrCodeEmptyInput, "index level series is empty")
	}

	values := make([]float64, index.Len())
	runningMax := index.First()

	for i := 0; i < index.Len(); i++ {
		if v := index.At(i); v > runningMax {
			runningMax = v
		}

		values[i] = index.At(i)/runningMax - 1.0
	}

	out, err := frame.NewSeries("drawdown", index.Index(), values)
	if err != nil {
		return frame.Series{}, err
	}

	return out, nil
}

// MaxDrawdown returns the single worst (most negative) drawdown of an index
// level series, or 0 when the series never declines from a peak.
func MaxDrawdown(index frame.Series) (float64, error) {
	drawdown, err := Drawdown(index)
	if err != nil {
		return 0, err
	}

	return drawdown.Min(), nil
}

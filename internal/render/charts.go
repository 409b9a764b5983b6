// Package render turns analytics output into PNG line charts.
package render

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

const dateLayout = "2006-01-02"

// CumulativeReturnChart renders each column's cumulative return since the
// first observation, in percent, as one line per ticker.
func CumulativeReturnChart(prices frame.Frame) ([]byte, error) {
	if prices.IsEmpty() {
		return nil, errors.New(errors.ErrCodeEmptyInput, "input price panel is empty")
	}

	xAxis := make([]string, prices.Rows())
	for i := range xAxis {
		xAxis[i] = prices.Date(i).Format(dateLayout)
	}

	values := make([][]float64, prices.Cols())

	for j := 0; j < prices.Cols(); j++ {
		line := make([]float64, prices.Rows())

		base := prices.At(0, j)
		for i := range line {
			line[i] = (prices.At(i, j)/base - 1.0) * 100.0
		}

		values[j] = line
	}

	painter, err := charts.LineRender(values,
		charts.TitleTextOptionFunc("cumulative return since start date (%)"),
		charts.XAxisDataOptionFunc(xAxis),
		charts.LegendLabelsOptionFunc(prices.Columns()),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, "failed to render cumulative return chart", err)
	}

	return painterBytes(painter)
}

// SeriesChart renders a single series as a line chart. NaN warmup values are
// dropped before rendering.
func SeriesChart(series frame.Series, title string) ([]byte, error) {
	if series.IsEmpty() {
		return nil, errors.New(errors.ErrCodeEmptyInput, "input series is empty")
	}

	defined := series.DropNaN()
	if defined.IsEmpty() {
		return nil, errors.Newf(errors.ErrCodeRenderFailed, "series %s has no defined values", series.Name())
	}

	xAxis := make([]string, defined.Len())
	values := make([]float64, defined.Len())

	for i := 0; i < defined.Len(); i++ {
		xAxis[i] = defined.Date(i).Format(dateLayout)

		v := defined.At(i)
		if math.IsInf(v, 0) {
			// zero-variance Sharpe windows surface as infinities; render them
			// as gaps instead of blowing out the axis
			v = charts.GetNullValue()
		}

		values[i] = v
	}

	painter, err := charts.LineRender([][]float64{values},
		charts.TitleTextOptionFunc(title),
		charts.XAxisDataOptionFunc(xAxis),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeRenderFailed, err, "failed to render chart %q", title)
	}

	return painterBytes(painter)
}

// RollingCorrelationChart renders the average rolling correlation series.
func RollingCorrelationChart(series frame.Series, window int) ([]byte, error) {
	return SeriesChart(series, rollingTitle("rolling average correlation", window))
}

// RollingSharpeChart renders the rolling Sharpe ratio series.
func RollingSharpeChart(series frame.Series, window int) ([]byte, error) {
	return SeriesChart(series, rollingTitle("rolling Sharpe ratio", window))
}

// DrawdownChart renders the drawdown curve of the equal-weight index.
func DrawdownChart(series frame.Series) ([]byte, error) {
	return SeriesChart(series, "equal-weight index drawdown")
}

// WriteChart writes rendered chart bytes to a file, creating the directory
// when needed.
func WriteChart(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeRenderFailed, err, "failed to create chart directory for %s", path)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeRenderFailed, err, "failed to write chart %s", path)
	}

	return nil
}

func rollingTitle(what string, window int) string {
	return fmt.Sprintf("%s (%dd window)", what, window)
}

func painterBytes(painter *charts.Painter) ([]byte, error) {
	data, err := painter.Bytes()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, "failed to encode chart", err)
	}

	return data, nil
}

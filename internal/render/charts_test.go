package render

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

type ChartsTestSuite struct {
	suite.Suite
}

func TestChartsSuite(t *testing.T) {
	suite.Run(t, new(ChartsTestSuite))
}

func days(n int) []time.Time {
	out := make([]time.Time, n)

	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = t
		t = t.AddDate(0, 0, 1)
	}

	return out
}

func (suite *ChartsTestSuite) TestCumulativeReturnChart() {
	prices, err := frame.New(days(3), []string{"NVDA", "MSFT"},
		[][]float64{{100, 50}, {110, 51}, {121, 49}})
	suite.Require().NoError(err)

	png, err := CumulativeReturnChart(prices)
	suite.NoError(err)
	suite.NotEmpty(png)
}

func (suite *ChartsTestSuite) TestCumulativeReturnChartEmpty() {
	_, err := CumulativeReturnChart(frame.Frame{})
	suite.Error(err)
	suite.True(errors.IsEmptyInputError(err))
}

func (suite *ChartsTestSuite) TestSeriesChartDropsWarmup() {
	s, err := frame.NewSeries("corr", days(4), []float64{math.NaN(), math.NaN(), 0.5, 0.6})
	suite.Require().NoError(err)

	png, err := RollingCorrelationChart(s, 3)
	suite.NoError(err)
	suite.NotEmpty(png)
}

func (suite *ChartsTestSuite) TestSeriesChartAllNaN() {
	s, err := frame.NewSeries("corr", days(2), []float64{math.NaN(), math.NaN()})
	suite.Require().NoError(err)

	_, err = SeriesChart(s, "empty")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeRenderFailed))
}

func (suite *ChartsTestSuite) TestDrawdownChart() {
	s, err := frame.NewSeries("drawdown", days(4), []float64{0, 0, -0.25, 0})
	suite.Require().NoError(err)

	png, err := DrawdownChart(s)
	suite.NoError(err)
	suite.NotEmpty(png)
}

func (suite *ChartsTestSuite) TestWriteChart() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "charts", "test.png")

	suite.NoError(WriteChart(path, []byte{1, 2, 3}))

	data, err := os.ReadFile(path)
	suite.NoError(err)
	suite.Equal([]byte{1, 2, 3}, data)
}

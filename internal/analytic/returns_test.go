package analytic

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

func tradingDays(n int) []time.Time {
	days := make([]time.Time, n)

	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range days {
		days[i] = t
		t = t.AddDate(0, 0, 1)
	}

	return days
}

func priceFrame(t *testing.T, columns []string, data [][]float64) frame.Frame {
	t.Helper()

	f, err := frame.New(tradingDays(len(data)), columns, data)
	if err != nil {
		t.Fatalf("failed to build test frame: %v", err)
	}

	return f
}

func priceSeries(t *testing.T, name string, values []float64) frame.Series {
	t.Helper()

	s, err := frame.NewSeries(name, tradingDays(len(values)), values)
	if err != nil {
		t.Fatalf("failed to build test series: %v", err)
	}

	return s
}

type ReturnsTestSuite struct {
	suite.Suite
}

func TestReturnsSuite(t *testing.T) {
	suite.Run(t, new(ReturnsTestSuite))
}

func (suite *ReturnsTestSuite) TestSimpleReturns() {
	prices := priceFrame(suite.T(), []string{"A"}, [][]float64{{100}, {110}, {121}})

	returns, err := Returns(prices, false)
	suite.NoError(err)
	suite.Equal(2, returns.Rows())
	suite.InDelta(0.10, returns.At(0, 0), 1e-12)
	suite.InDelta(0.10, returns.At(1, 0), 1e-12)
}

func (suite *ReturnsTestSuite) TestLogReturns() {
	prices := priceFrame(suite.T(), []string{"A"}, [][]float64{{100}, {110}, {121}})

	returns, err := Returns(prices, true)
	suite.NoError(err)
	suite.Equal(2, returns.Rows())
	suite.InDelta(0.09531, returns.At(0, 0), 1e-5)
	suite.InDelta(0.09531, returns.At(1, 0), 1e-5)
	suite.InDelta(math.Log(110)-math.Log(100), returns.At(0, 0), 1e-12)
}

func (suite *ReturnsTestSuite) TestLengthIsSourceMinusOne() {
	prices := priceFrame(suite.T(), []string{"A", "B"},
		[][]float64{{100, 50}, {101, 51}, {99, 49}, {105, 52}})

	returns, err := Returns(prices, false)
	suite.NoError(err)
	suite.Equal(prices.Rows()-1, returns.Rows())

	for i := 0; i < returns.Rows(); i++ {
		for j := 0; j < returns.Cols(); j++ {
			suite.False(math.IsNaN(returns.At(i, j)))
		}
	}
}

func (suite *ReturnsTestSuite) TestSimpleReturnsRoundTrip() {
	prices := priceFrame(suite.T(), []string{"A"}, [][]float64{{100}, {93}, {117}, {104}})

	returns, err := Returns(prices, false)
	suite.NoError(err)

	for i := 0; i < returns.Rows(); i++ {
		reconstructed := prices.At(i, 0) * (1 + returns.At(i, 0))
		suite.InDelta(prices.At(i+1, 0), reconstructed, 1e-9)
	}
}

func (suite *ReturnsTestSuite) TestNaNRowsDropped() {
	nan := math.NaN()
	prices := priceFrame(suite.T(), []string{"A", "B"},
		[][]float64{{100, 50}, {110, nan}, {121, 52}, {133, 54}})

	returns, err := Returns(prices, false)
	suite.NoError(err)
	// rows 1 and 2 of the raw return panel touch the NaN price and are dropped
	suite.Equal(1, returns.Rows())
	suite.InDelta(133.0/121.0-1, returns.At(0, 0), 1e-12)
}

func (suite *ReturnsTestSuite) TestEmptyInput() {
	empty := frame.Frame{}

	_, err := Returns(empty, false)
	suite.Error(err)
	suite.True(errors.IsEmptyInputError(err))
}

func (suite *ReturnsTestSuite) TestSeriesReturns() {
	series := priceSeries(suite.T(), "idx", []float64{100, 110, 121})

	returns, err := SeriesReturns(series, false)
	suite.NoError(err)
	suite.Equal(2, returns.Len())
	suite.InDelta(0.10, returns.At(0), 1e-12)
	suite.Equal("idx", returns.Name())
}

func (suite *ReturnsTestSuite) TestSeriesReturnsEmptyInput() {
	_, err := SeriesReturns(frame.Series{}, false)
	suite.Error(err)
	suite.True(errors.IsEmptyInputError(err))
}

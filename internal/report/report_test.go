package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/marketlens/internal/analytic"
	"github.com/rxtech-lab/marketlens/internal/frame"
)

type ReportTestSuite struct {
	suite.Suite
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (suite *ReportTestSuite) analyzed() (frame.Frame, analytic.Result) {
	index := make([]time.Time, 8)

	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range index {
		index[i] = t
		t = t.AddDate(0, 0, 1)
	}

	data := make([][]float64, 8)

	// alternating growth rates keep the rolling volatility strictly positive
	aGrowth := []float64{1.04, 1.00}
	bGrowth := []float64{0.99, 0.97}

	a, b := 100.0, 50.0
	for i := range data {
		data[i] = []float64{a, b}
		a *= aGrowth[i%2]
		b *= bGrowth[i%2]
	}

	prices, err := frame.New(index, []string{"NVDA", "MSFT"}, data)
	suite.Require().NoError(err)

	result, err := analytic.Run(prices, analytic.Options{Window: optional.Some(3)})
	suite.Require().NoError(err)

	return prices, result
}

func (suite *ReportTestSuite) TestBuild() {
	prices, result := suite.analyzed()

	rep := Build(prices, result, []string{"charts/cumret.png"})
	suite.NotEmpty(rep.ID)
	suite.Equal(3, rep.Window)
	suite.Len(rep.Tickers, 2)
	// best performer sorted first
	suite.Equal("NVDA", rep.Tickers[0].Ticker)
	suite.Greater(rep.Tickers[0].TotalReturnPct, rep.Tickers[1].TotalReturnPct)
	suite.Greater(rep.Tickers[0].AnnualizedVolatility, 0.0)
	suite.LessOrEqual(rep.IndexMaxDrawdown, 0.0)
	suite.Equal(prices.Date(0), rep.Start)
}

func (suite *ReportTestSuite) TestWriteAndReload() {
	prices, result := suite.analyzed()
	rep := Build(prices, result, nil)

	path := filepath.Join(suite.T().TempDir(), "report.yaml")
	suite.NoError(Write(path, rep))

	data, err := os.ReadFile(path)
	suite.NoError(err)

	var reloaded AnalysisReport
	suite.NoError(yaml.Unmarshal(data, &reloaded))
	suite.Equal(rep.ID, reloaded.ID)
	suite.Equal(rep.Window, reloaded.Window)
	suite.Len(reloaded.Tickers, 2)
}

func (suite *ReportTestSuite) TestWriteBadPath() {
	prices, result := suite.analyzed()
	rep := Build(prices, result, nil)

	err := Write(filepath.Join(suite.T().TempDir(), "missing", "report.yaml"), rep)
	suite.Error(err)
}

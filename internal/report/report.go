// Package report writes a YAML summary of one analysis run.
package report

import (
	"math"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/marketlens/internal/analytic"
	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

// TickerSummary holds the per-ticker figures of an analysis run.
type TickerSummary struct {
	// Ticker symbol.
	Ticker string `yaml:"ticker"`
	// Total return over the analyzed window, in percent.
	TotalReturnPct float64 `yaml:"total_return_pct"`
	// Last defined annualized rolling volatility, NaN omitted as zero.
	AnnualizedVolatility float64 `yaml:"annualized_volatility"`
}

// AnalysisReport is the YAML document summarizing one analysis run.
type AnalysisReport struct {
	// ID is the unique identifier for this analysis run.
	ID string `yaml:"id"`
	// Timestamp is when this run was executed.
	Timestamp time.Time `yaml:"timestamp"`
	// Start and End bound the analyzed date range.
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
	// Window is the rolling window size in trading days.
	Window int `yaml:"window"`
	// RiskFreeRate is the annual risk-free rate used for the Sharpe ratio.
	RiskFreeRate float64 `yaml:"risk_free_rate"`
	// Tickers summarizes every analyzed column, best performer first.
	Tickers []TickerSummary `yaml:"tickers"`
	// IndexMaxDrawdown is the worst drawdown of the equal-weight index.
	IndexMaxDrawdown float64 `yaml:"index_max_drawdown"`
	// ChartPaths lists the rendered chart files.
	ChartPaths []string `yaml:"chart_paths,omitempty"`
}

// Build assembles an AnalysisReport from a price panel and its analysis
// result.
func Build(prices frame.Frame, result analytic.Result, chartPaths []string) AnalysisReport {
	columns := prices.Columns()
	summaries := make([]TickerSummary, 0, len(columns))

	for j, ticker := range columns {
		summaries = append(summaries, TickerSummary{
			Ticker:               ticker,
			TotalReturnPct:       (prices.At(prices.Rows()-1, j)/prices.At(0, j) - 1.0) * 100.0,
			AnnualizedVolatility: lastDefined(result.Volatility, j),
		})
	}

	sort.Slice(summaries, func(a, b int) bool {
		return summaries[a].TotalReturnPct > summaries[b].TotalReturnPct
	})

	return AnalysisReport{
		ID:               uuid.New().String(),
		Timestamp:        time.Now().UTC(),
		Start:            prices.Date(0),
		End:              prices.Date(prices.Rows() - 1),
		Window:           result.Window,
		RiskFreeRate:     result.RiskFreeRate,
		Tickers:          summaries,
		IndexMaxDrawdown: result.MaxDrawdown,
		ChartPaths:       chartPaths,
	}
}

// Write marshals the report to YAML and writes it to the given path.
func Write(path string, report AnalysisReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to marshal analysis report", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to write analysis report to %s", path)
	}

	return nil
}

func lastDefined(f frame.Frame, col int) float64 {
	for i := f.Rows() - 1; i >= 0; i-- {
		if v := f.At(i, col); !math.IsNaN(v) {
			return v
		}
	}

	return 0
}

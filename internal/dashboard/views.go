package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/rxtech-lab/marketlens/internal/analytic"
	"github.com/rxtech-lab/marketlens/internal/config"
	"github.com/rxtech-lab/marketlens/internal/frame"
)

// CustomPresetName is the synthetic preset that starts from the core
// selection and lets the user edit it freely.
const CustomPresetName = "custom selection"

// Timeframe labels, shortest first.
var timeframes = []struct {
	label string
	days  int
}{
	{"last 1 month", 30},
	{"last 6 months", 182},
	{"last 1 year", 365},
	{"last 3 years", 3 * 365},
	{"last 5 years", 5 * 365},
}

// ComputeStartDate maps a timeframe label to a start date relative to today.
// Unknown labels fall back to five years.
func ComputeStartDate(label string, today time.Time) time.Time {
	for _, tf := range timeframes {
		if tf.label == label {
			return today.AddDate(0, 0, -tf.days)
		}
	}

	return today.AddDate(0, 0, -5*365)
}

// downsampleByDefault reports whether a timeframe is long enough that weekly
// downsampling is on by default.
func downsampleByDefault(label string) bool {
	return label != "last 1 month"
}

// listItem implements list.Item interface for preset and timeframe lists.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// NewPresetList creates the ticker preset selection list.
func NewPresetList(cfg config.Config) list.Model {
	items := make([]list.Item, 0, len(cfg.Presets)+1)

	for _, p := range cfg.Presets {
		items = append(items, listItem{name: p.Name, description: p.Description})
	}

	items = append(items, listItem{
		name:        CustomPresetName,
		description: "choose any combination you like",
	})

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Ticker Preset"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewTimeframeList creates the timeframe selection list.
func NewTimeframeList() list.Model {
	items := make([]list.Item, 0, len(timeframes))

	for _, tf := range timeframes {
		items = append(items, listItem{
			name:        tf.label,
			description: fmt.Sprintf("start %d days back", tf.days),
		})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Time Frame"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewTickerInput creates the editable comma-separated ticker input.
func NewTickerInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "NVDA, MSFT, GOOGL"
	ti.CharLimit = 256
	ti.Width = 60

	return ti
}

// NewResultsTable creates the empty performance table.
func NewResultsTable() table.Model {
	columns := []table.Column{
		{Title: "Ticker", Width: 10},
		{Title: "Total Return", Width: 16},
		{Title: "Ann. Volatility", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return t
}

// UpdateResultsTable fills the performance table from an analysis pass, best
// performer first.
func UpdateResultsTable(t table.Model, prices frame.Frame, result analytic.Result) table.Model {
	type row struct {
		ticker      string
		totalReturn float64
		volatility  float64
	}

	columns := prices.Columns()
	rows := make([]row, 0, len(columns))

	for j, ticker := range columns {
		rows = append(rows, row{
			ticker:      ticker,
			totalReturn: prices.At(prices.Rows()-1, j)/prices.At(0, j) - 1.0,
			volatility:  lastDefined(result.Volatility, j),
		})
	}

	sort.Slice(rows, func(a, b int) bool { return rows[a].totalReturn > rows[b].totalReturn })

	tableRows := make([]table.Row, 0, len(rows))

	for _, r := range rows {
		volatility := "n/a"
		if !math.IsNaN(r.volatility) {
			volatility = fmt.Sprintf("%.1f%%", r.volatility*100.0)
		}

		tableRows = append(tableRows, table.Row{
			r.ticker,
			FormatPercent(r.totalReturn),
			volatility,
		})
	}

	t.SetRows(tableRows)

	return t
}

// summaryLines renders the panel-level figures under the results table.
func summaryLines(result analytic.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "equal-weight index max drawdown: %s\n", FormatPercent(result.MaxDrawdown))

	if corr, err := result.AvgCorrelation.Take(); err == nil {
		if v := lastDefinedSeries(corr); !math.IsNaN(v) {
			fmt.Fprintf(&b, "avg %dd rolling correlation: %.2f\n", result.Window, v)
		}
	}

	if v := lastDefinedSeries(result.Sharpe); !math.IsNaN(v) && !math.IsInf(v, 0) {
		fmt.Fprintf(&b, "%dd rolling Sharpe ratio: %.2f\n", result.Window, v)
	}

	return b.String()
}

func lastDefined(f frame.Frame, col int) float64 {
	for i := f.Rows() - 1; i >= 0; i-- {
		if v := f.At(i, col); !math.IsNaN(v) {
			return v
		}
	}

	return math.NaN()
}

func lastDefinedSeries(s frame.Series) float64 {
	for i := s.Len() - 1; i >= 0; i-- {
		if v := s.At(i); !math.IsNaN(v) {
			return v
		}
	}

	return math.NaN()
}

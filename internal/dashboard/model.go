// Package dashboard implements the interactive terminal dashboard: preset
// and timeframe selection over a cached price panel, with descriptive
// analytics rendered as a performance table.
package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/marketlens/internal/analytic"
	"github.com/rxtech-lab/marketlens/internal/config"
	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
	"github.com/rxtech-lab/marketlens/pkg/marketdata"
)

// Application states.
const (
	StatePresetSelect = iota
	StateTickerInput
	StateTimeframeSelect
	StateLoading
	StateResults
)

// Loader supplies the full price panel the dashboard slices in memory. The
// panel is fetched once and reused for every selection.
type Loader func(ctx context.Context) (frame.Frame, error)

// Model is the main Bubble Tea model for the analytics dashboard.
type Model struct {
	cfg    config.Config
	loader Loader

	state         int
	presetList    list.Model
	tickerInput   textinput.Model
	timeframeList list.Model
	resultsTable  table.Model

	tickers    []string
	timeframe  string
	startDate  time.Time
	downsample bool

	prices   frame.Frame // full panel, loaded once
	loaded   bool
	analyzed frame.Frame // slice the current results were computed on
	result   *analytic.Result

	warn string
	err  error

	width  int
	height int
}

// NewModel creates a dashboard model over a config and a panel loader.
func NewModel(cfg config.Config, loader Loader) Model {
	return Model{
		cfg:           cfg,
		loader:        loader,
		state:         StatePresetSelect,
		presetList:    NewPresetList(cfg),
		tickerInput:   NewTickerInput(),
		timeframeList: NewTimeframeList(),
		resultsTable:  NewResultsTable(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// Only quit on 'q' if not in text input mode
			if m.state != StateTickerInput {
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.presetList.SetSize(msg.Width, msg.Height-4)
		m.timeframeList.SetSize(msg.Width, msg.Height-4)
		m.resultsTable.SetWidth(msg.Width)

		return m, nil

	case PanelLoadedMsg:
		m.prices = msg.Prices
		m.loaded = true

		return m, m.analyzeCmd()

	case AnalysisMsg:
		m.analyzed = msg.Prices
		m.result = &msg.Result
		m.warn = ""
		m.err = nil
		m.state = StateResults
		m.resultsTable = UpdateResultsTable(m.resultsTable, msg.Prices, msg.Result)

		return m, nil

	case AnalysisWarnMsg:
		m.warn = msg.Warning
		m.result = nil
		m.state = StateResults

		return m, nil

	case LoadErrMsg:
		m.err = msg.Err
		m.state = StateResults

		return m, nil
	}

	// Delegate to state-specific update
	switch m.state {
	case StatePresetSelect:
		return m.updatePresetSelect(msg)
	case StateTickerInput:
		return m.updateTickerInput(msg)
	case StateTimeframeSelect:
		return m.updateTimeframeSelect(msg)
	case StateResults:
		return m.updateResults(msg)
	default:
		return m, nil
	}
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateTickerInput:
		m.state = StatePresetSelect
	case StateTimeframeSelect:
		m.state = StateTickerInput
	case StateResults:
		m.state = StateTimeframeSelect
		m.warn = ""
		m.err = nil
	}

	return m, nil
}

func (m Model) updatePresetSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.presetList.SelectedItem().(listItem); ok {
			m.tickerInput.SetValue(strings.Join(m.presetTickers(item.name), ", "))
			m.tickerInput.Focus()
			m.state = StateTickerInput
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.presetList, cmd = m.presetList.Update(msg)

	return m, cmd
}

func (m Model) updateTickerInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		tickers, err := marketdata.NormalizeTickers(marketdata.ParseTickers(m.tickerInput.Value()))
		if err != nil {
			m.warn = "select at least one ticker to display"

			return m, nil
		}

		m.tickers = tickers
		m.warn = ""
		m.state = StateTimeframeSelect

		return m, nil
	}

	var cmd tea.Cmd
	m.tickerInput, cmd = m.tickerInput.Update(msg)

	return m, cmd
}

func (m Model) updateTimeframeSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.timeframeList.SelectedItem().(listItem); ok {
			m.timeframe = item.name
			m.startDate = ComputeStartDate(item.name, time.Now().UTC())
			m.downsample = downsampleByDefault(item.name)
			m.state = StateLoading

			if m.loaded {
				return m, m.analyzeCmd()
			}

			return m, m.loadCmd()
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.timeframeList, cmd = m.timeframeList.Update(msg)

	return m, cmd
}

func (m Model) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "w" {
		// toggle weekly downsampling and recompute
		m.downsample = !m.downsample

		return m, m.analyzeCmd()
	}

	var cmd tea.Cmd
	m.resultsTable, cmd = m.resultsTable.Update(msg)

	return m, cmd
}

func (m Model) loadCmd() tea.Cmd {
	loader := m.loader

	return func() tea.Msg {
		prices, err := loader(context.Background())
		if err != nil {
			return LoadErrMsg{Err: err}
		}

		return PanelLoadedMsg{Prices: prices}
	}
}

// analyzeCmd slices the cached panel to the current selection and runs the
// full analytics pass. Precondition failures surface as warnings, not
// crashes.
func (m Model) analyzeCmd() tea.Cmd {
	prices := m.prices
	tickers := m.tickers
	startDate := m.startDate
	downsample := m.downsample
	window := m.cfg.Window
	riskFree := m.cfg.RiskFreeRate

	return func() tea.Msg {
		available := prices.Columns()

		selected := make([]string, 0, len(tickers))
		for _, t := range tickers {
			if slices.Contains(available, t) {
				selected = append(selected, t)
			}
		}

		if len(selected) == 0 {
			return AnalysisWarnMsg{Warning: "no data available for the selected tickers"}
		}

		slice, err := prices.Select(selected)
		if err != nil {
			return LoadErrMsg{Err: err}
		}

		slice = slice.Slice(startDate, time.Now().UTC()).DropEmptyColumns()
		if slice.IsEmpty() {
			return AnalysisWarnMsg{Warning: "no data available for this combination of date range and tickers"}
		}

		if downsample {
			slice = slice.ResampleWeeklyLast()
		}

		result, err := analytic.Run(slice, analytic.Options{
			Window:       optional.Some(window),
			RiskFreeRate: optional.Some(riskFree),
		})
		if err != nil {
			if errors.IsInsufficientDataError(err) || errors.IsEmptyInputError(err) {
				return AnalysisWarnMsg{Warning: err.Error()}
			}

			return LoadErrMsg{Err: err}
		}

		return AnalysisMsg{Prices: slice, Result: result}
	}
}

func (m Model) presetTickers(name string) []string {
	if preset, ok := m.cfg.PresetByName(name); ok {
		return preset.Tickers
	}

	// custom selection starts from the core names
	if len(m.cfg.Presets) > 0 {
		return m.cfg.Presets[0].Tickers
	}

	return m.cfg.Universe
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.state {
	case StatePresetSelect:
		return m.presetList.View()

	case StateTickerInput:
		view := TitleStyle.Render("Tickers (starting from preset)") + "\n\n" +
			m.tickerInput.View() + "\n\n" +
			HelpStyle.Render("enter: confirm • esc: back • comma or space separated")
		if m.warn != "" {
			view += "\n" + WarnStyle.Render(m.warn)
		}

		return view

	case StateTimeframeSelect:
		return m.timeframeList.View()

	case StateLoading:
		return TitleStyle.Render("Loading price history...") + "\n\n" +
			HelpStyle.Render("downloading once, then slicing in memory")

	case StateResults:
		return m.resultsView()

	default:
		return ""
	}
}

func (m Model) resultsView() string {
	if m.err != nil {
		return ErrorStyle.Render("error: "+m.err.Error()) + "\n\n" +
			HelpStyle.Render("esc: back • q: quit")
	}

	if m.warn != "" {
		return WarnStyle.Render(m.warn) + "\n\n" +
			HelpStyle.Render("esc: back • q: quit")
	}

	header := fmt.Sprintf("Performance %s (%d tickers", m.timeframe, m.analyzed.Cols())
	if m.downsample {
		header += ", weekly"
	}

	header += ")"

	view := TitleStyle.Render(header) + "\n\n" + m.resultsTable.View() + "\n\n"

	if m.result != nil {
		view += summaryLines(*m.result) + "\n"
	}

	return view + HelpStyle.Render("w: toggle weekly downsampling • esc: back • q: quit")
}

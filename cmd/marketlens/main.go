package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/marketlens/internal/analytic"
	"github.com/rxtech-lab/marketlens/internal/config"
	"github.com/rxtech-lab/marketlens/internal/dashboard"
	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/internal/logger"
	"github.com/rxtech-lab/marketlens/internal/render"
	"github.com/rxtech-lab/marketlens/internal/report"
	"github.com/rxtech-lab/marketlens/pkg/marketdata"
	"github.com/rxtech-lab/marketlens/pkg/marketdata/provider"
	"github.com/rxtech-lab/marketlens/pkg/marketdata/writer"
)

// loadConfig returns the configuration from --config, or the built-in AI
// universe when no file is given.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.Load(path)
	}

	return config.Default(), nil
}

// resolveTickers takes tickers from the --tickers flag, falling back to the
// configured universe.
func resolveTickers(cmd *cli.Command, cfg config.Config) ([]string, error) {
	raw := cmd.String("tickers")
	if raw == "" {
		return cfg.Universe, nil
	}

	return marketdata.NormalizeTickers(marketdata.ParseTickers(raw))
}

func newClient(cmd *cli.Command, cfg config.Config, log *logger.Logger) (*marketdata.Client, error) {
	clientConfig := marketdata.ClientConfig{
		ProviderType:  provider.ProviderType(cmd.String("provider")),
		DataPath:      cfg.DataPath,
		PolygonApiKey: os.Getenv("POLYGON_API_KEY"),
	}

	client, err := marketdata.NewClient(clientConfig, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create market data client: %w", err)
	}

	return client, nil
}

// downloadAction fetches the daily price panel for the selected tickers and
// persists it as a Parquet file under the configured data path.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	tickers, err := resolveTickers(cmd, cfg)
	if err != nil {
		return err
	}

	client, err := newClient(cmd, cfg, log)
	if err != nil {
		return err
	}

	_, path, err := client.Download(ctx, marketdata.DownloadParams{
		Tickers:   tickers,
		StartDate: cmd.Timestamp("start"),
		EndDate:   cmd.Timestamp("end"),
		Adjusted:  cmd.Bool("adjusted"),
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Printf("panel saved to %s\n", path)

	return nil
}

// analyzeAction runs the full analytics pass over a downloaded panel and
// writes charts plus a YAML report.
func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	prices, err := writer.LoadPanel(cmd.String("panel"))
	if err != nil {
		return err
	}

	if raw := cmd.String("tickers"); raw != "" {
		tickers, err := marketdata.NormalizeTickers(marketdata.ParseTickers(raw))
		if err != nil {
			return err
		}

		prices, err = prices.Select(tickers)
		if err != nil {
			return err
		}
	}

	window := cfg.Window
	if cmd.Int("window") > 0 {
		window = int(cmd.Int("window"))
	}

	result, err := analytic.Run(prices, analytic.Options{
		Window:       optional.Some(window),
		RiskFreeRate: optional.Some(cfg.RiskFreeRate),
		LogReturns:   cmd.Bool("log-returns"),
	})
	if err != nil {
		return err
	}

	chartPaths, err := renderCharts(cfg.ChartDir, prices, result)
	if err != nil {
		return err
	}

	reportPath := cmd.String("report")
	if err := report.Write(reportPath, report.Build(prices, result, chartPaths)); err != nil {
		return err
	}

	fmt.Printf("report written to %s, %d charts in %s\n", reportPath, len(chartPaths), cfg.ChartDir)

	return nil
}

// renderCharts writes every chart the analysis supports and returns the
// written file paths. The correlation chart is skipped for single-ticker
// panels.
func renderCharts(dir string, prices frame.Frame, result analytic.Result) ([]string, error) {
	type chart struct {
		name   string
		render func() ([]byte, error)
	}

	charts := []chart{
		{"cumulative_return.png", func() ([]byte, error) { return render.CumulativeReturnChart(prices) }},
		{"rolling_sharpe.png", func() ([]byte, error) { return render.RollingSharpeChart(result.Sharpe, result.Window) }},
		{"drawdown.png", func() ([]byte, error) { return render.DrawdownChart(result.Drawdown) }},
	}

	if corr, err := result.AvgCorrelation.Take(); err == nil {
		charts = append(charts, chart{"rolling_correlation.png", func() ([]byte, error) {
			return render.RollingCorrelationChart(corr, result.Window)
		}})
	}

	paths := make([]string, 0, len(charts))

	for _, c := range charts {
		data, err := c.render()
		if err != nil {
			return nil, err
		}

		path := filepath.Join(dir, c.name)
		if err := render.WriteChart(path, data); err != nil {
			return nil, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// dashboardAction launches the interactive terminal dashboard. The price
// panel is downloaded once up front and sliced in memory afterwards.
func dashboardAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var loader dashboard.Loader

	if panelPath := cmd.String("panel"); panelPath != "" {
		loader = func(ctx context.Context) (frame.Frame, error) {
			return writer.LoadPanel(panelPath)
		}
	} else {
		client, err := newClient(cmd, cfg, logger.NewNopLogger())
		if err != nil {
			return err
		}

		loader = func(ctx context.Context) (frame.Frame, error) {
			return client.FetchPanel(ctx, marketdata.DownloadParams{
				Tickers:   cfg.Universe,
				StartDate: time.Now().UTC().AddDate(-5, 0, 0),
				EndDate:   time.Now().UTC(),
				Adjusted:  true,
			})
		}
	}

	program := tea.NewProgram(dashboard.NewModel(cfg, loader), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard exited with error: %w", err)
	}

	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the YAML configuration file. Defaults to the built-in AI universe.",
	}
	providerFlag := &cli.StringFlag{
		Name:    "provider",
		Aliases: []string{"p"},
		Usage:   fmt.Sprintf("Data provider to use (%s, %s)", provider.ProviderYahoo, provider.ProviderPolygon),
		Value:   string(provider.ProviderYahoo),
	}
	tickersFlag := &cli.StringFlag{
		Name:    "tickers",
		Aliases: []string{"t"},
		Usage:   "Comma or space separated ticker symbols. Defaults to the configured universe.",
	}

	cmd := &cli.Command{
		Name:  "marketlens",
		Usage: "Descriptive analytics over daily stock price panels",
		Commands: []*cli.Command{
			{
				Name:  "download",
				Usage: "Download a daily price panel and save it as Parquet",
				Flags: []cli.Flag{
					configFlag,
					providerFlag,
					tickersFlag,
					&cli.TimestampFlag{
						Name:     "start",
						Aliases:  []string{"s"},
						Usage:    "Start date in `YYYY-MM-DD` format",
						Required: true,
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
						Value:   time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.BoolFlag{
						Name:  "adjusted",
						Usage: "Use split and dividend adjusted close prices",
						Value: true,
					},
				},
				Action: downloadAction,
			},
			{
				Name:  "analyze",
				Usage: "Run the full analytics pass over a downloaded panel",
				Flags: []cli.Flag{
					configFlag,
					tickersFlag,
					&cli.StringFlag{
						Name:     "panel",
						Usage:    "Path to a downloaded panel Parquet file",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "window",
						Aliases: []string{"w"},
						Usage:   "Rolling window size in trading days. Defaults to the configured window.",
					},
					&cli.BoolFlag{
						Name:  "log-returns",
						Usage: "Use log returns instead of simple returns",
					},
					&cli.StringFlag{
						Name:    "report",
						Aliases: []string{"r"},
						Usage:   "Path the YAML report is written to",
						Value:   "report.yaml",
					},
				},
				Action: analyzeAction,
			},
			{
				Name:  "dashboard",
				Usage: "Launch the interactive terminal dashboard",
				Flags: []cli.Flag{
					configFlag,
					providerFlag,
					&cli.StringFlag{
						Name:  "panel",
						Usage: "Analyze a downloaded panel Parquet file instead of fetching live data",
					},
				},
				Action: dashboardAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

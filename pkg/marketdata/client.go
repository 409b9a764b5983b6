package marketdata

import (
	"context"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/internal/logger"
	"github.com/rxtech-lab/marketlens/pkg/errors"
	"github.com/rxtech-lab/marketlens/pkg/marketdata/provider"
	"github.com/rxtech-lab/marketlens/pkg/marketdata/writer"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=yahoo polygon"`
	DataPath      string                `validate:"required"`
	PolygonApiKey string                `validate:"required_if=ProviderType polygon"`
}

// DownloadParams holds the parameters for a price panel download request.
type DownloadParams struct {
	Tickers   []string  `validate:"required,min=1"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
	// Adjusted selects adjusted close prices over raw close prices.
	Adjusted bool
}

// Client downloads price panels from a provider and persists them through
// the DuckDB panel writer.
type Client struct {
	provider provider.Provider
	config   ClientConfig
	validate *validator.Validate
	log      *logger.Logger
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewProvider(config.ProviderType, config.PolygonApiKey)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		provider: marketProvider,
		config:   config,
		validate: validate,
		log:      log,
	}, nil
}

// FetchPanel downloads daily prices for every ticker and aligns them into one
// price panel. Tickers the provider has no data for are dropped, mirroring
// the column-wise empty-column removal contract; the fetch fails only when no
// ticker yields data.
func (c *Client) FetchPanel(ctx context.Context, params DownloadParams) (frame.Frame, error) {
	if err := c.validate.Struct(params); err != nil {
		return frame.Frame{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	tickers, err := NormalizeTickers(params.Tickers)
	if err != nil {
		return frame.Frame{}, err
	}

	bar := progressbar.NewOptions(len(tickers),
		progressbar.OptionSetDescription("Downloading price history"),
		progressbar.OptionShowCount())

	series := make([]frame.Series, 0, len(tickers))

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return frame.Frame{}, errors.Wrap(errors.ErrCodeFetchFailed, "download canceled", err)
		}

		s, err := c.provider.FetchDaily(ctx, ticker, params.StartDate, params.EndDate, params.Adjusted)
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeNoDataFound) {
				c.log.Warn("no data for ticker, dropping column",
					zap.String("ticker", ticker), zap.Error(err))
				bar.Add(1)

				continue
			}

			return frame.Frame{}, err
		}

		series = append(series, s)
		bar.Add(1)
	}

	bar.Finish()

	if len(series) == 0 {
		return frame.Frame{}, errors.Newf(errors.ErrCodeNoDataFound, "no data fetched for tickers %v", tickers)
	}

	panel, err := frame.FromSeries(series)
	if err != nil {
		return frame.Frame{}, err
	}

	return panel.DropEmptyColumns(), nil
}

// Download fetches a panel and persists it as a Parquet file under the
// configured data path. Returns the loaded panel and the file path.
func (c *Client) Download(ctx context.Context, params DownloadParams) (frame.Frame, string, error) {
	panel, err := c.FetchPanel(ctx, params)
	if err != nil {
		return frame.Frame{}, "", err
	}

	outputPath := filepath.Join(c.config.DataPath, panelFileName(params))
	if err := writer.SavePanel(panel, outputPath); err != nil {
		return frame.Frame{}, "", err
	}

	c.log.Info("panel saved",
		zap.String("path", outputPath),
		zap.Int("rows", panel.Rows()),
		zap.Int("columns", panel.Cols()))

	return panel, outputPath, nil
}

func panelFileName(params DownloadParams) string {
	return "panel_" + params.StartDate.Format("2006-01-02") +
		"_" + params.EndDate.Format("2006-01-02") + ".parquet"
}

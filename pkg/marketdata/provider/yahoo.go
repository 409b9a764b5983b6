package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches daily bars from the Yahoo Finance v8 chart API.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
}

type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// NewYahooClient creates a Yahoo Finance provider.
func NewYahooClient() *YahooClient {
	return &YahooClient{
		baseURL:    defaultYahooBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewYahooClientWithBaseURL creates a Yahoo Finance provider pointed at a
// custom endpoint. Used by tests.
func NewYahooClientWithBaseURL(baseURL string) *YahooClient {
	c := NewYahooClient()
	c.baseURL = baseURL

	return c
}

// FetchDaily implements Provider.
func (c *YahooClient) FetchDaily(ctx context.Context, ticker string, start, end time.Time, adjusted bool) (frame.Series, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
		c.baseURL, ticker, start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return frame.Series{}, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to build request for %s", ticker)
	}

	// Yahoo rejects requests without a user agent.
	req.Header.Set("User-Agent", "curl/8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return frame.Series{}, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch data for %s", ticker)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return frame.Series{}, errors.Newf(errors.ErrCodeFetchFailed,
			"unexpected status %d fetching data for %s", resp.StatusCode, ticker)
	}

	var yc yahooChartResp
	if err := json.NewDecoder(resp.Body).Decode(&yc); err != nil {
		return frame.Series{}, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to decode payload for %s", ticker)
	}

	if len(yc.Chart.Result) == 0 {
		return frame.Series{}, errors.Newf(errors.ErrCodeNoDataFound, "no data fetched for ticker %s", ticker)
	}

	result := yc.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return frame.Series{}, errors.Newf(errors.ErrCodeNoDataFound, "no data fetched for ticker %s", ticker)
	}

	closes, err := extractCloses(result.Indicators.Quote, result.Indicators.AdjClose, adjusted, ticker)
	if err != nil {
		return frame.Series{}, err
	}

	return buildDailySeries(ticker, result.Timestamp, closes)
}

func extractCloses(
	quote []struct {
		Close []float64 `json:"close"`
	},
	adjClose []struct {
		AdjClose []float64 `json:"adjclose"`
	},
	adjusted bool,
	ticker string,
) ([]float64, error) {
	if adjusted {
		if len(adjClose) == 0 || len(adjClose[0].AdjClose) == 0 {
			return nil, errors.Newf(errors.ErrCodeFieldMissing,
				"adjclose field not found in payload for %s", ticker)
		}

		return adjClose[0].AdjClose, nil
	}

	if len(quote) == 0 || len(quote[0].Close) == 0 {
		return nil, errors.Newf(errors.ErrCodeFieldMissing,
			"close field not found in payload for %s", ticker)
	}

	return quote[0].Close, nil
}

// buildDailySeries converts bar timestamps to UTC dates and keeps the last
// observation per date, dropping zero placeholders Yahoo emits for halted
// sessions.
func buildDailySeries(ticker string, timestamps []int64, closes []float64) (frame.Series, error) {
	index := make([]time.Time, 0, len(timestamps))
	values := make([]float64, 0, len(timestamps))

	for i, ts := range timestamps {
		if i >= len(closes) {
			break
		}

		if closes[i] == 0 || math.IsNaN(closes[i]) {
			continue
		}

		date := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)

		if n := len(index); n > 0 && !date.After(index[n-1]) {
			values[n-1] = closes[i]
			continue
		}

		index = append(index, date)
		values = append(values, closes[i])
	}

	if len(index) == 0 {
		return frame.Series{}, errors.Newf(errors.ErrCodeNoDataFound, "no usable rows for ticker %s", ticker)
	}

	return frame.NewSeries(ticker, index, values)
}

package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

// PolygonClient fetches daily aggregates from the Polygon REST API.
type PolygonClient struct {
	client *polygon.Client
}

// NewPolygonClient creates a Polygon provider. An API key is required.
func NewPolygonClient(apiKey string) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon provider requires an API key")
	}

	return &PolygonClient{client: polygon.New(apiKey)}, nil
}

// FetchDaily implements Provider.
func (c *PolygonClient) FetchDaily(ctx context.Context, ticker string, start, end time.Time, adjusted bool) (frame.Series, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000).WithAdjusted(adjusted)

	iter := c.client.ListAggs(ctx, params)

	index := make([]time.Time, 0, 256)
	values := make([]float64, 0, 256)

	for iter.Next() {
		agg := iter.Item()
		date := time.Time(agg.Timestamp).UTC().Truncate(24 * time.Hour)

		if n := len(index); n > 0 && !date.After(index[n-1]) {
			values[n-1] = agg.Close
			continue
		}

		index = append(index, date)
		values = append(values, agg.Close)
	}

	if iter.Err() != nil {
		return frame.Series{}, errors.Wrapf(errors.ErrCodeFetchFailed, iter.Err(),
			"error iterating polygon aggregates for %s", ticker)
	}

	if len(index) == 0 {
		return frame.Series{}, errors.Newf(errors.ErrCodeNoDataFound, "no data fetched for ticker %s", ticker)
	}

	return frame.NewSeries(ticker, index, values)
}

// Package provider implements daily price history providers.
package provider

import (
	"context"
	"time"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderYahoo   ProviderType = "yahoo"
	ProviderPolygon ProviderType = "polygon"
)

// Provider fetches daily close prices for one ticker. Implementations must
// return a coded no-data error when the provider has nothing for the ticker
// and a coded field-missing error when the expected price field is absent
// from the payload.
type Provider interface {
	// FetchDaily downloads daily prices for the ticker over [start, end].
	// With adjusted true the provider returns adjusted close prices, raw
	// close prices otherwise. The context can be used to cancel the fetch.
	FetchDaily(ctx context.Context, ticker string, start, end time.Time, adjusted bool) (frame.Series, error)
}

// NewProvider creates a market data provider based on the provider type.
func NewProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderYahoo:
		return NewYahooClient(), nil
	case ProviderPolygon:
		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// Package marketdata downloads daily price history from external providers
// and assembles it into a validated price panel.
package marketdata

import (
	"slices"
	"strings"

	"github.com/rxtech-lab/marketlens/pkg/errors"
)

// ParseTickers splits a comma or whitespace separated ticker string into a
// list, dropping empty fragments.
func ParseTickers(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	tickers := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			tickers = append(tickers, t)
		}
	}

	return tickers
}

// NormalizeTickers trims, upcases, sorts and dedupes a ticker list for a
// consistent column order. At least one ticker must remain after trimming.
func NormalizeTickers(tickers []string) ([]string, error) {
	normalized := make([]string, 0, len(tickers))

	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			return nil, errors.New(errors.ErrCodeInvalidTicker, "ticker symbols must be non-empty strings")
		}

		normalized = append(normalized, t)
	}

	if len(normalized) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTicker, "at least one ticker must be provided")
	}

	slices.Sort(normalized)

	return slices.Compact(normalized), nil
}

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/marketlens/pkg/errors"
)

type YahooTestSuite struct {
	suite.Suite
}

func TestYahooSuite(t *testing.T) {
	suite.Run(t, new(YahooTestSuite))
}

func (suite *YahooTestSuite) serve(payload string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}))
}

func (suite *YahooTestSuite) fetch(payload string, adjusted bool) (int, error) {
	server := suite.serve(payload)
	defer server.Close()

	client := NewYahooClientWithBaseURL(server.URL)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	series, err := client.FetchDaily(context.Background(), "NVDA", start, end, adjusted)
	if err != nil {
		return 0, err
	}

	return series.Len(), nil
}

func (suite *YahooTestSuite) TestFetchDailyClose() {
	payload := `{"chart":{"result":[{
		"timestamp":[1704153600,1704240000,1704326400],
		"indicators":{"quote":[{"close":[100.0,110.0,121.0]}]}
	}],"error":null}}`

	n, err := suite.fetch(payload, false)
	suite.NoError(err)
	suite.Equal(3, n)
}

func (suite *YahooTestSuite) TestFetchDailyAdjusted() {
	payload := `{"chart":{"result":[{
		"timestamp":[1704153600,1704240000],
		"indicators":{
			"quote":[{"close":[100.0,110.0]}],
			"adjclose":[{"adjclose":[99.0,108.9]}]
		}
	}],"error":null}}`

	server := suite.serve(payload)
	defer server.Close()

	client := NewYahooClientWithBaseURL(server.URL)
	series, err := client.FetchDaily(context.Background(), "NVDA",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true)
	suite.NoError(err)
	suite.Equal([]float64{99.0, 108.9}, series.Values())
}

func (suite *YahooTestSuite) TestFetchDailySkipsZeroPlaceholders() {
	payload := `{"chart":{"result":[{
		"timestamp":[1704153600,1704240000,1704326400],
		"indicators":{"quote":[{"close":[100.0,0,121.0]}]}
	}],"error":null}}`

	n, err := suite.fetch(payload, false)
	suite.NoError(err)
	suite.Equal(2, n)
}

func (suite *YahooTestSuite) TestNoResult() {
	_, err := suite.fetch(`{"chart":{"result":[],"error":null}}`, false)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}

func (suite *YahooTestSuite) TestMissingCloseField() {
	payload := `{"chart":{"result":[{
		"timestamp":[1704153600],
		"indicators":{"quote":[]}
	}],"error":null}}`

	_, err := suite.fetch(payload, false)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeFieldMissing))
}

func (suite *YahooTestSuite) TestMissingAdjCloseField() {
	payload := `{"chart":{"result":[{
		"timestamp":[1704153600],
		"indicators":{"quote":[{"close":[100.0]}]}
	}],"error":null}}`

	_, err := suite.fetch(payload, true)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeFieldMissing))
}

func (suite *YahooTestSuite) TestHTTPError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewYahooClientWithBaseURL(server.URL)
	_, err := client.FetchDaily(context.Background(), "NVDA",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), false)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeFetchFailed))
}

func (suite *YahooTestSuite) TestProviderFactory() {
	p, err := NewProvider(ProviderYahoo, "")
	suite.NoError(err)
	suite.NotNil(p)

	_, err = NewProvider(ProviderPolygon, "")
	suite.Error(err)

	p, err = NewProvider(ProviderPolygon, "key")
	suite.NoError(err)
	suite.NotNil(p)

	_, err = NewProvider("unknown", "")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}

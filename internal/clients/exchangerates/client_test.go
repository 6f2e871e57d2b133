package exchangerates_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	"github.com/fintrackhq/fintrack/internal/clients/exchangerates"
	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
}

func (suite *ClientTestSuite) newClient(baseURL string) *exchangerates.Client {
	client, err := exchangerates.NewClient(exchangerates.Config{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		RequestTimeout: 2 * time.Second,
		MaxAttempts:    3,
		BackoffBase:    time.Millisecond, // keep retry tests fast
	}, nil)
	suite.Require().NoError(err)
	return client
}

func (suite *ClientTestSuite) TestNewClient_MissingAPIKey() {
	_, err := exchangerates.NewClient(exchangerates.Config{
		BaseURL: "https://example.com",
	}, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConfig)
}

func (suite *ClientTestSuite) TestNewClient_MissingBaseURL() {
	_, err := exchangerates.NewClient(exchangerates.Config{
		APIKey: "test-key",
	}, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConfig)
}

func (suite *ClientTestSuite) TestFetchRate_LatestSuccess() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.Equal("/v6/test-key/latest/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":"success","conversion_rates":{"EUR":0.9234567891234567,"GBP":0.79}}`)
	}))
	defer server.Close()

	client := suite.newClient(server.URL)
	rate, err := client.FetchRate(context.Background(), "USD", "EUR", nil)

	suite.Require().NoError(err)
	// Full precision must survive the decode.
	suite.Equal("0.9234567891234567", rate.String())
}

func (suite *ClientTestSuite) TestFetchRate_HistoricalEndpoint() {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":"success","conversion_rates":{"EUR":0.91}}`)
	}))
	defer server.Close()

	client := suite.newClient(server.URL)
	date := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	rate, err := client.FetchRate(context.Background(), "USD", "EUR", &date)

	suite.Require().NoError(err)
	suite.Equal("/v6/test-key/history/USD/2024/1/2", gotPath)
	suite.Equal("0.91", rate.String())
}

func (suite *ClientTestSuite) TestFetchRate_RetriesThenSucceeds() {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":"success","conversion_rates":{"EUR":0.92}}`)
	}))
	defer server.Close()

	client := suite.newClient(server.URL)
	rate, err := client.FetchRate(context.Background(), "USD", "EUR", nil)

	suite.Require().NoError(err)
	suite.Equal("0.92", rate.String())
	suite.Equal(int32(3), atomic.LoadInt32(&calls))
}

func (suite *ClientTestSuite) TestFetchRate_AttemptsExhausted() {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := suite.newClient(server.URL)
	_, err := client.FetchRate(context.Background(), "USD", "EUR", nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrProvider)
	suite.Equal(int32(3), atomic.LoadInt32(&calls))
}

func (suite *ClientTestSuite) TestFetchRate_ProviderLevelError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":"error","error_type":"invalid-key"}`)
	}))
	defer server.Close()

	client := suite.newClient(server.URL)
	_, err := client.FetchRate(context.Background(), "USD", "EUR", nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrProvider)
}

func (suite *ClientTestSuite) TestFetchRate_MalformedBody() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":`)
	}))
	defer server.Close()

	client := suite.newClient(server.URL)
	_, err := client.FetchRate(context.Background(), "USD", "EUR", nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrProvider)
}

func (suite *ClientTestSuite) TestFetchRate_MissingTargetCurrency() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":"success","conversion_rates":{"GBP":0.79}}`)
	}))
	defer server.Close()

	client := suite.newClient(server.URL)
	_, err := client.FetchRate(context.Background(), "USD", "XYZ", nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrProvider)
}

func (suite *ClientTestSuite) TestFetchRate_NonPositiveRate() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result":"success","conversion_rates":{"EUR":0}}`)
	}))
	defer server.Close()

	client := suite.newClient(server.URL)
	_, err := client.FetchRate(context.Background(), "USD", "EUR", nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrProvider)
}

func (suite *ClientTestSuite) TestFetchRate_ContextCancelledDuringBackoff() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := exchangerates.NewClient(exchangerates.Config{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		RequestTimeout: 2 * time.Second,
		MaxAttempts:    3,
		BackoffBase:    5 * time.Second,
	}, nil)
	suite.Require().NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = client.FetchRate(ctx, "USD", "EUR", nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrProvider)
	suite.Less(time.Since(start), time.Second)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

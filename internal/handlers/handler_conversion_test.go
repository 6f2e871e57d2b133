package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	"github.com/fintrackhq/fintrack/internal/core/domain"
	portssvc "github.com/fintrackhq/fintrack/internal/core/ports/services"
	"github.com/fintrackhq/fintrack/internal/dto"
	"github.com/fintrackhq/fintrack/internal/handlers"
	"github.com/fintrackhq/fintrack/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ConversionService ---
type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Convert(ctx context.Context, userID, fromCode, toCode string) (domain.ConversionSummary, error) {
	args := m.Called(ctx, userID, fromCode, toCode)
	return args.Get(0).(domain.ConversionSummary), args.Error(1)
}

func (m *MockConversionService) ListConversions(ctx context.Context, userID string, limit int) ([]domain.ConversionLog, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConversionLog), args.Error(1)
}

var _ portssvc.ConversionSvcFacade = (*MockConversionService)(nil)

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

var _ portssvc.CurrencySvcFacade = (*MockCurrencyService)(nil)

// --- Container fillers (no expectations needed in these tests) ---
type stubPortfolioService struct{}

func (stubPortfolioService) GetPortfolio(ctx context.Context, userID string, txnLimit int) (*domain.PortfolioSnapshot, error) {
	return &domain.PortfolioSnapshot{}, nil
}

type stubRatesService struct{}

func (stubRatesService) ResolveRate(ctx context.Context, fromCode, toCode string, date *time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (stubRatesService) ResolveHistoricalRates(ctx context.Context, userID, fromCode, toCode string) (map[time.Time]decimal.Decimal, error) {
	return nil, nil
}

// --- Test Suite ---
type ConversionHandlerTestSuite struct {
	suite.Suite
	router                *gin.Engine
	mockConversionService *MockConversionService
	mockCurrencyService   *MockCurrencyService
}

func (suite *ConversionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockConversionService = new(MockConversionService)
	suite.mockCurrencyService = new(MockCurrencyService)

	services := &portssvc.ServiceContainer{
		Currency:   suite.mockCurrencyService,
		Portfolio:  stubPortfolioService{},
		Rates:      stubRatesService{},
		Conversion: suite.mockConversionService,
	}
	handlers.RegisterRoutes(suite.router, &config.Config{}, services)
}

func (suite *ConversionHandlerTestSuite) postConversion(userID string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	url := fmt.Sprintf("/api/v1/users/%s/currency-conversions", userID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}


func (suite *ConversionHandlerTestSuite) expectSupportedCurrency(code string) {
	suite.mockCurrencyService.On("GetCurrencyByCode", mock.Anything, code).
		Return(&domain.Currency{CurrencyCode: code}, nil).Once()
}

// --- Test Cases ---

func (suite *ConversionHandlerTestSuite) TestConvertCurrency_Success() {
	userID := uuid.NewString()
	expectedSummary := domain.ConversionSummary{
		TransactionCount: 42,
		AccountCount:     3,
		BudgetCount:      5,
		GoalCount:        2,
	}

	suite.expectSupportedCurrency("EUR")
	suite.mockConversionService.On("Convert", mock.Anything, userID, "USD", "EUR").
		Return(expectedSummary, nil).Once()

	w := suite.postConversion(userID, dto.ConvertCurrencyRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ConversionSummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(42, resp.TransactionCount)
	suite.Equal(3, resp.AccountCount)
	suite.Equal(5, resp.BudgetCount)
	suite.Equal(2, resp.GoalCount)
	suite.mockConversionService.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestConvertCurrency_InvalidBody() {
	userID := uuid.NewString()

	// Lowercase code fails the uppercase binding before the service runs.
	w := suite.postConversion(userID, map[string]string{
		"fromCurrency": "usd",
		"toCurrency":   "EUR",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockConversionService.AssertNotCalled(suite.T(), "Convert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConversionHandlerTestSuite) TestConvertCurrency_SameCurrency() {
	userID := uuid.NewString()

	suite.expectSupportedCurrency("USD")
	suite.mockConversionService.On("Convert", mock.Anything, userID, "USD", "USD").
		Return(domain.ConversionSummary{}, apperrors.ErrSameCurrency).Once()

	w := suite.postConversion(userID, dto.ConvertCurrencyRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "USD",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockConversionService.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestConvertCurrency_AlreadyInProgress() {
	userID := uuid.NewString()

	suite.expectSupportedCurrency("EUR")
	suite.mockConversionService.On("Convert", mock.Anything, userID, "USD", "EUR").
		Return(domain.ConversionSummary{}, apperrors.ErrConversionInProgress).Once()

	w := suite.postConversion(userID, dto.ConvertCurrencyRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockConversionService.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestConvertCurrency_RateUnavailable() {
	userID := uuid.NewString()

	suite.expectSupportedCurrency("EUR")
	suite.mockConversionService.On("Convert", mock.Anything, userID, "USD", "EUR").
		Return(domain.ConversionSummary{}, apperrors.ErrRateUnavailable).Once()

	w := suite.postConversion(userID, dto.ConvertCurrencyRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
	})

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.mockConversionService.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestConvertCurrency_RewriteFailure() {
	userID := uuid.NewString()

	suite.expectSupportedCurrency("EUR")
	suite.mockConversionService.On("Convert", mock.Anything, userID, "USD", "EUR").
		Return(domain.ConversionSummary{}, apperrors.ErrAtomicWriteFailed).Once()

	w := suite.postConversion(userID, dto.ConvertCurrencyRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
	})

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.mockConversionService.AssertExpectations(suite.T())
}


func (suite *ConversionHandlerTestSuite) TestConvertCurrency_UnsupportedTarget() {
	userID := uuid.NewString()

	suite.mockCurrencyService.On("GetCurrencyByCode", mock.Anything, "XXX").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.postConversion(userID, dto.ConvertCurrencyRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "XXX",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockConversionService.AssertNotCalled(suite.T(), "Convert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockCurrencyService.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestListConversions_Success() {
	userID := uuid.NewString()
	completedAt := time.Now().UTC()
	durationMs := int64(1234)
	logs := []domain.ConversionLog{
		{
			ConversionLogID:  uuid.NewString(),
			UserID:           userID,
			FromCurrencyCode: "USD",
			ToCurrencyCode:   "EUR",
			Status:           domain.ConversionCompleted,
			ExchangeRate:     decimal.RequireFromString("0.92"),
			TransactionCount: 10,
			AccountCount:     2,
			StartedAt:        completedAt.Add(-2 * time.Second),
			CompletedAt:      &completedAt,
			DurationMs:       &durationMs,
		},
	}

	suite.mockConversionService.On("ListConversions", mock.Anything, userID, 20).
		Return(logs, nil).Once()

	url := fmt.Sprintf("/api/v1/users/%s/currency-conversions", userID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.ConversionLogResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal("COMPLETED", resp[0].Status)
	suite.Equal("0.92", resp[0].ExchangeRate)
	suite.Equal(10, resp[0].TransactionCount)
	suite.mockConversionService.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestListConversions_CustomLimit() {
	userID := uuid.NewString()

	suite.mockConversionService.On("ListConversions", mock.Anything, userID, 5).
		Return([]domain.ConversionLog{}, nil).Once()

	url := fmt.Sprintf("/api/v1/users/%s/currency-conversions?limit=5", userID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockConversionService.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestListConversions_InvalidLimit() {
	userID := uuid.NewString()

	url := fmt.Sprintf("/api/v1/users/%s/currency-conversions?limit=0", userID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockConversionService.AssertNotCalled(suite.T(), "ListConversions", mock.Anything, mock.Anything, mock.Anything)
}

func TestConversionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ConversionHandlerTestSuite))
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	"github.com/fintrackhq/fintrack/internal/core/domain"
	portssvc "github.com/fintrackhq/fintrack/internal/core/ports/services"
	"github.com/fintrackhq/fintrack/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ConversionLogRepository ---
type MockConversionLogRepository struct {
	mock.Mock
}

func (m *MockConversionLogRepository) BeginConversion(ctx context.Context, userID, fromCode, toCode string, startedAt time.Time) (string, error) {
	args := m.Called(ctx, userID, fromCode, toCode, startedAt)
	return args.String(0), args.Error(1)
}

func (m *MockConversionLogRepository) CompleteConversion(ctx context.Context, logID string, summary domain.ConversionSummary, rate decimal.Decimal, durationMs int64) error {
	args := m.Called(ctx, logID, summary, rate, durationMs)
	return args.Error(0)
}

func (m *MockConversionLogRepository) FailConversion(ctx context.Context, logID string, errMessage string, durationMs int64) error {
	args := m.Called(ctx, logID, errMessage, durationMs)
	return args.Error(0)
}

func (m *MockConversionLogRepository) ListConversionsByUser(ctx context.Context, userID string, limit int) ([]domain.ConversionLog, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConversionLog), args.Error(1)
}

// --- Mock PortfolioRepository ---
type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) ListTransactionDates(ctx context.Context, userID string) ([]time.Time, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockPortfolioRepository) GetPortfolioSnapshot(ctx context.Context, userID string, txnLimit int) (*domain.PortfolioSnapshot, error) {
	args := m.Called(ctx, userID, txnLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioSnapshot), args.Error(1)
}

func (m *MockPortfolioRepository) ApplyConversion(ctx context.Context, userID string, plan domain.ConversionPlan) (domain.ConversionSummary, error) {
	args := m.Called(ctx, userID, plan)
	return args.Get(0).(domain.ConversionSummary), args.Error(1)
}

// --- Mock RateResolver ---
type MockRateResolver struct {
	mock.Mock
}

func (m *MockRateResolver) ResolveRate(ctx context.Context, fromCode, toCode string, date *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateResolver) ResolveHistoricalRates(ctx context.Context, userID, fromCode, toCode string) (map[time.Time]decimal.Decimal, error) {
	args := m.Called(ctx, userID, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[time.Time]decimal.Decimal), args.Error(1)
}

// Ensure mocks implement their interfaces
var _ portssvc.RateResolverSvcFacade = (*MockRateResolver)(nil)

// --- Test Suite ---
type ConversionServiceTestSuite struct {
	suite.Suite
	mockLogRepo       *MockConversionLogRepository
	mockPortfolioRepo *MockPortfolioRepository
	mockResolver      *MockRateResolver
	service           portssvc.ConversionSvcFacade
	fixedNow          time.Time
}

func (suite *ConversionServiceTestSuite) SetupTest() {
	suite.mockLogRepo = new(MockConversionLogRepository)
	suite.mockPortfolioRepo = new(MockPortfolioRepository)
	suite.mockResolver = new(MockRateResolver)
	suite.fixedNow = time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewConversionService(
		suite.mockLogRepo,
		suite.mockPortfolioRepo,
		suite.mockResolver,
		services.WithConversionClock(func() time.Time { return suite.fixedNow }),
	)
}

// --- Test Cases ---

func (suite *ConversionServiceTestSuite) TestConvert_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	logID := uuid.NewString()

	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	currentRate := decimal.RequireFromString("0.92")
	historicalRates := map[time.Time]decimal.Decimal{
		day1: decimal.RequireFromString("0.90"),
		day2: decimal.RequireFromString("0.91"),
	}
	expectedSummary := domain.ConversionSummary{
		TransactionCount: 2,
		AccountCount:     1,
		BudgetCount:      1,
		GoalCount:        1,
	}

	suite.mockLogRepo.On("BeginConversion", ctx, userID, "USD", "EUR", suite.fixedNow).
		Return(logID, nil).Once()
	suite.mockResolver.On("ResolveRate", ctx, "USD", "EUR", (*time.Time)(nil)).
		Return(currentRate, nil).Once()
	suite.mockResolver.On("ResolveHistoricalRates", ctx, userID, "USD", "EUR").
		Return(historicalRates, nil).Once()
	suite.mockPortfolioRepo.On("ApplyConversion", ctx, userID, mock.MatchedBy(func(plan domain.ConversionPlan) bool {
		return plan.FromCurrencyCode == "USD" &&
			plan.ToCurrencyCode == "EUR" &&
			plan.CurrentRate.Equal(currentRate) &&
			len(plan.HistoricalRates) == 2 &&
			plan.HistoricalRates[day1].Equal(decimal.RequireFromString("0.90")) &&
			plan.HistoricalRates[day2].Equal(decimal.RequireFromString("0.91"))
	})).Return(expectedSummary, nil).Once()
	suite.mockLogRepo.On("CompleteConversion", ctx, logID, expectedSummary, currentRate, int64(0)).
		Return(nil).Once()

	summary, err := suite.service.Convert(ctx, userID, "usd", "eur")

	suite.Require().NoError(err)
	suite.Equal(expectedSummary, summary)
	suite.mockLogRepo.AssertNotCalled(suite.T(), "FailConversion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockLogRepo.AssertExpectations(suite.T())
	suite.mockPortfolioRepo.AssertExpectations(suite.T())
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestConvert_SameCurrency() {
	ctx := context.Background()
	userID := uuid.NewString()

	summary, err := suite.service.Convert(ctx, userID, "USD", "usd")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSameCurrency)
	suite.Equal(domain.ConversionSummary{}, summary)
	// No lock row and no provider traffic for a rejected request.
	suite.mockLogRepo.AssertNotCalled(suite.T(), "BeginConversion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockResolver.AssertNotCalled(suite.T(), "ResolveRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestConvert_AlreadyInProgress() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockLogRepo.On("BeginConversion", ctx, userID, "USD", "EUR", suite.fixedNow).
		Return("", apperrors.ErrConversionInProgress).Once()

	_, err := suite.service.Convert(ctx, userID, "USD", "EUR")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConversionInProgress)
	suite.mockLogRepo.AssertNotCalled(suite.T(), "FailConversion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockLogRepo.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestConvert_RateUnavailable_MarksFailed() {
	ctx := context.Background()
	userID := uuid.NewString()
	logID := uuid.NewString()

	suite.mockLogRepo.On("BeginConversion", ctx, userID, "USD", "EUR", suite.fixedNow).
		Return(logID, nil).Once()
	suite.mockResolver.On("ResolveRate", ctx, "USD", "EUR", (*time.Time)(nil)).
		Return(decimal.Zero, apperrors.ErrRateUnavailable).Once()
	suite.mockLogRepo.On("FailConversion", ctx, logID, mock.AnythingOfType("string"), int64(0)).
		Return(nil).Once()

	_, err := suite.service.Convert(ctx, userID, "USD", "EUR")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.mockLogRepo.AssertExpectations(suite.T())
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestConvert_RewriteFailure_MarksFailed() {
	ctx := context.Background()
	userID := uuid.NewString()
	logID := uuid.NewString()
	currentRate := decimal.RequireFromString("0.92")

	suite.mockLogRepo.On("BeginConversion", ctx, userID, "USD", "EUR", suite.fixedNow).
		Return(logID, nil).Once()
	suite.mockResolver.On("ResolveRate", ctx, "USD", "EUR", (*time.Time)(nil)).
		Return(currentRate, nil).Once()
	suite.mockResolver.On("ResolveHistoricalRates", ctx, userID, "USD", "EUR").
		Return(map[time.Time]decimal.Decimal{}, nil).Once()
	suite.mockPortfolioRepo.On("ApplyConversion", ctx, userID, mock.AnythingOfType("domain.ConversionPlan")).
		Return(domain.ConversionSummary{}, apperrors.ErrAtomicWriteFailed).Once()
	suite.mockLogRepo.On("FailConversion", ctx, logID, mock.AnythingOfType("string"), int64(0)).
		Return(nil).Once()

	_, err := suite.service.Convert(ctx, userID, "USD", "EUR")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAtomicWriteFailed)
	suite.mockLogRepo.AssertNotCalled(suite.T(), "CompleteConversion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockLogRepo.AssertExpectations(suite.T())
	suite.mockPortfolioRepo.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestListConversions_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	expected := []domain.ConversionLog{
		{ConversionLogID: uuid.NewString(), UserID: userID, Status: domain.ConversionCompleted},
	}

	suite.mockLogRepo.On("ListConversionsByUser", ctx, userID, 20).Return(expected, nil).Once()

	logs, err := suite.service.ListConversions(ctx, userID, 20)

	suite.Require().NoError(err)
	suite.Equal(expected, logs)
	suite.mockLogRepo.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestListConversions_RepoError() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockLogRepo.On("ListConversionsByUser", ctx, userID, 20).Return(nil, assert.AnError).Once()

	logs, err := suite.service.ListConversions(ctx, userID, 20)

	suite.Require().Error(err)
	suite.Nil(logs)
	suite.ErrorIs(err, assert.AnError)
	suite.mockLogRepo.AssertExpectations(suite.T())
}

func TestConversionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConversionServiceTestSuite))
}

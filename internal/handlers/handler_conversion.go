package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	portssvc "github.com/fintrackhq/fintrack/internal/core/ports/services"
	"github.com/fintrackhq/fintrack/internal/dto"
	"github.com/fintrackhq/fintrack/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// conversionHandler handles HTTP requests for the currency conversion engine.
type conversionHandler struct {
	conversionService portssvc.ConversionSvcFacade
	currencyService   portssvc.CurrencySvcFacade
}

// newConversionHandler creates a new conversionHandler.
func newConversionHandler(cs portssvc.ConversionSvcFacade, curr portssvc.CurrencySvcFacade) *conversionHandler {
	return &conversionHandler{
		conversionService: cs,
		currencyService:   curr,
	}
}

// registerConversionRoutes registers routes related to currency conversions.
// The POST route is rate limited: a conversion rewrites the user's whole
// portfolio and may fan out to the external rate provider.
func registerConversionRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionSvcFacade, currencyService portssvc.CurrencySvcFacade) {
	h := newConversionHandler(conversionService, currencyService)

	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	convertLimiter := limiter.New(store, rate)

	conversions := rg.Group("/users/:userID/currency-conversions")
	{
		conversions.POST("", middleware.RateLimit(convertLimiter), h.convertCurrency)
		conversions.GET("", h.listConversions)
	}
}

// convertCurrency re-denominates all of the user's monetary records into
// the target currency. The operation is synchronous: the response carries
// the per-entity rewrite counts once everything is committed.
func (h *conversionHandler) convertCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	var req dto.ConvertCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("user_id", userID),
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
	)
	logger.Info("Received request to convert currency")

	// The target must be on the supported-currency list before any lock
	// row or provider call happens.
	if _, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), req.ToCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Conversion rejected: unsupported target currency")
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Currency '%s' is not supported", req.ToCurrencyCode)})
		} else {
			logger.Error("Failed to validate target currency", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate target currency"})
		}
		return
	}

	summary, err := h.conversionService.Convert(c.Request.Context(), userID, req.FromCurrencyCode, req.ToCurrencyCode)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSameCurrency):
			logger.Warn("Conversion rejected: same source and target currency")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Source and target currency are the same"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error converting currency", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConversionInProgress):
			logger.Warn("Conversion rejected: another conversion in progress")
			c.JSON(http.StatusConflict, gin.H{"error": "A currency conversion is already in progress for this user"})
		case errors.Is(err, apperrors.ErrRateUnavailable):
			logger.Error("Conversion failed: exchange rate unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Exchange rates are currently unavailable, please try again later"})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Conversion failed: user not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			logger.Error("Failed to convert currency in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert currency"})
		}
		return
	}

	logger.Info("Currency conversion completed",
		slog.Int("transactions", summary.TransactionCount),
		slog.Int("accounts", summary.AccountCount),
		slog.Int("budgets", summary.BudgetCount),
		slog.Int("goals", summary.GoalCount))
	c.JSON(http.StatusOK, dto.ToConversionSummaryResponse(summary))
}

// listConversions retrieves the user's conversion audit trail, newest first.
func (h *conversionHandler) listConversions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter (1-100)"})
			return
		}
		limit = parsed
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to list conversions")

	logs, err := h.conversionService.ListConversions(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Error("Failed to list conversions from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversions"})
		return
	}

	logger.Info("Conversions listed successfully", slog.Int("count", len(logs)))
	c.JSON(http.StatusOK, dto.ToListConversionLogResponse(logs))
}

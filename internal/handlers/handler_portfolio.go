package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fintrackhq/fintrack/internal/apperrors"
	portssvc "github.com/fintrackhq/fintrack/internal/core/ports/services"
	"github.com/fintrackhq/fintrack/internal/dto"
	"github.com/fintrackhq/fintrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

// portfolioHandler handles HTTP requests for the portfolio read view.
type portfolioHandler struct {
	portfolioService portssvc.PortfolioSvcFacade
}

// newPortfolioHandler creates a new portfolioHandler.
func newPortfolioHandler(ps portssvc.PortfolioSvcFacade) *portfolioHandler {
	return &portfolioHandler{
		portfolioService: ps,
	}
}

// registerPortfolioRoutes registers the portfolio read route.
func registerPortfolioRoutes(rg *gin.RouterGroup, portfolioService portssvc.PortfolioSvcFacade) {
	h := newPortfolioHandler(portfolioService)
	rg.GET("/users/:userID/portfolio", h.getPortfolio)
}

// getPortfolio retrieves the user's accounts, budgets, goals and recent
// transactions in their current currency.
func (h *portfolioHandler) getPortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	txnLimit := 50
	if limitStr := c.Query("transactionLimit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transactionLimit parameter (1-500)"})
			return
		}
		txnLimit = parsed
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to get portfolio")

	snapshot, err := h.portfolioService.GetPortfolio(c.Request.Context(), userID, txnLimit)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("User not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			logger.Error("Failed to get portfolio from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve portfolio"})
		}
		return
	}

	logger.Info("Portfolio retrieved successfully")
	c.JSON(http.StatusOK, dto.ToPortfolioResponse(snapshot))
}

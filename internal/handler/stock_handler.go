package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stockrit/stockrit/internal/service"
)

// StockHandler handles market data requests
type StockHandler struct {
	marketService *service.MarketService
	logger        *zap.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(marketService *service.MarketService, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		marketService: marketService,
		logger:        logger,
	}
}

// Popular returns the quote board for the configured symbols
// GET /api/v1/stocks/popular
func (h *StockHandler) Popular(c *gin.Context) {
	quotes, err := h.marketService.Popular(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stocks": quotes})
}

// Analyze returns price history with indicators and signal badges
// GET /api/v1/stocks/:symbol/analysis?period=1y
func (h *StockHandler) Analyze(c *gin.Context) {
	symbol := c.Param("symbol")
	period := c.Query("period")

	analysis, err := h.marketService.Analyze(c.Request.Context(), symbol, period)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// Summary returns the display-formatted fundamentals record
// GET /api/v1/stocks/:symbol/summary
func (h *StockHandler) Summary(c *gin.Context) {
	symbol := c.Param("symbol")

	record, err := h.marketService.Summary(c.Request.Context(), symbol)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stockrit/stockrit/internal/middleware"
	"github.com/stockrit/stockrit/internal/model"
	"github.com/stockrit/stockrit/internal/service"
)

// FavoriteHandler handles bookmark requests
type FavoriteHandler struct {
	favoriteService *service.FavoriteService
	logger          *zap.Logger
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService *service.FavoriteService, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// List returns the user's favorites
// GET /api/v1/favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	stocks, err := h.favoriteService.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": stocks})
}

// Add bookmarks a ticker
// POST /api/v1/favorites
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var request model.FavoriteCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.favoriteService.Add(c.Request.Context(), userID, &request); err != nil {
		writeError(c, h.logger, err)
		return
	}

	symbol := model.NormalizeSymbol(request.Symbol)
	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("%s added to favorites.", symbol)})
}

// Remove deletes a bookmark
// DELETE /api/v1/favorites/:symbol
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	symbol := model.NormalizeSymbol(c.Param("symbol"))
	if err := h.favoriteService.Remove(c.Request.Context(), userID, symbol); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s removed from favorites.", symbol)})
}

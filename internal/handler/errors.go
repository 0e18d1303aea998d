package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stockrit/stockrit/internal/model"
)

// errorStatus maps the failure taxonomy to HTTP statuses. Responses
// carry the sentinel's message, never the wrapped cause.
var errorStatus = []struct {
	sentinel error
	status   int
}{
	{model.ErrInvalidEmail, http.StatusBadRequest},
	{model.ErrWeakPassword, http.StatusBadRequest},
	{model.ErrInvalidPeriod, http.StatusBadRequest},
	{model.ErrDuplicateUsername, http.StatusConflict},
	{model.ErrDuplicateEmail, http.StatusConflict},
	{model.ErrAlreadyFavorited, http.StatusConflict},
	{model.ErrAuthenticationFailed, http.StatusUnauthorized},
	{model.ErrNotFavorited, http.StatusNotFound},
	{model.ErrDataUnavailable, http.StatusNotFound},
	{model.ErrPersistenceFailure, http.StatusInternalServerError},
}

// writeError translates a service error into its HTTP response.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	for _, m := range errorStatus {
		if errors.Is(err, m.sentinel) {
			if m.status >= http.StatusInternalServerError {
				logger.Error("request failed", zap.Error(err))
			}
			c.JSON(m.status, gin.H{"error": m.sentinel.Error()})
			return
		}
	}

	logger.Error("unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

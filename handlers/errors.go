package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medibook/services/scheduling"
	"medibook/utils"
)

// respondError maps scheduling domain errors onto HTTP responses. Conflicts
// and past-slot attempts are ordinary user-facing outcomes; configuration
// and compensation failures are operator-facing and logged as errors.
func respondError(c *gin.Context, err error) {
	logger := utils.GetLogger()

	var (
		validationErr   scheduling.ValidationError
		notFoundErr     scheduling.NotFoundError
		forbiddenErr    scheduling.ForbiddenError
		conflictErr     scheduling.ConflictError
		pastSlotErr     scheduling.PastSlotError
		invalidStateErr scheduling.InvalidStateError
		configErr       scheduling.ConfigurationError
		compErr         scheduling.CompensationError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &pastSlotErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": pastSlotErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, gin.H{"error": forbiddenErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	case errors.As(err, &invalidStateErr):
		c.JSON(http.StatusConflict, gin.H{"error": invalidStateErr.Error()})
	case errors.As(err, &configErr):
		logger.Error("doctor availability misconfigured", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no availability configured"})
	case errors.As(err, &compErr):
		logger.Error("compensation failed, reservation may be orphaned", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal rollback failed; please contact support"})
	default:
		logger.Error("unexpected scheduling error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

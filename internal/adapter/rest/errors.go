package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// respondError maps service errors onto HTTP statuses
// Sentinels are matched first; a malformed pinned rate map is a defect and
// stays a 500 even though its message reads like a validation failure
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrMalformedRateMap):
		LoggerFrom(c).Error("pinned rate map is malformed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrSnapshotExists),
		errors.Is(err, domain.ErrInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRateSourceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "exchange rate source is unavailable, try again later"})
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		LoggerFrom(c).Error("request failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// isValidationError recognizes domain validation messages
func isValidationError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "must ") ||
		strings.Contains(msg, "cannot be") ||
		strings.Contains(msg, "is required") ||
		strings.Contains(msg, "duplicate balance")
}

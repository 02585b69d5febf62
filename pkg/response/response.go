package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gkicks/gkicks-pos-service/pkg/apperror"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Error writes the JSON error body matching err's kind. Unexpected errors are
// logged and answered with fallback so driver details never reach clients.
func Error(c *gin.Context, log logger.ZapLogger, err error, fallback string) {
	var sessionErr *apperror.ActiveSessionError

	switch {
	case errors.As(err, &sessionErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             sessionErr.Error(),
			"existingSessionId": sessionErr.SessionID,
		})
	case errors.Is(err, apperror.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": apperror.Message(err)})
	case errors.Is(err, apperror.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": apperror.Message(err)})
	case errors.Is(err, apperror.ErrInsufficientStock):
		// kept as a server error for compatibility with existing POS clients
		log.Warn("sale rejected", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperror.Message(err)})
	default:
		log.Error(fallback, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// Unauthorized aborts the request with the generic 401 body.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// Paging reads page and limit from the query string. Missing or invalid
// values fall back to the defaults; there is no upper bound on limit.
func Paging(c *gin.Context) (page, limit int) {
	page = positiveInt(c.Query("page"), DefaultPage)
	limit = positiveInt(c.Query("limit"), DefaultLimit)
	return page, limit
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

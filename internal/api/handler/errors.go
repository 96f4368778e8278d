package handler

import (
	"errors"
	"grievance/backend/internal/classifier"
	"grievance/backend/internal/models"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorStatus maps service errors onto HTTP status codes and client-safe
// messages.
func errorStatus(err error) (int, string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "Grievance not found"
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, classifier.ErrUnavailable):
		return http.StatusServiceUnavailable, "Classifier unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func respondError(c *gin.Context, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func abortWithError(c *gin.Context, err error) {
	respondError(c, err)
	c.Abort()
}

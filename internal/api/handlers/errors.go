package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/services"
)

// errorStatus maps domain errors to HTTP status codes. Unknown errors are
// internal errors.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, entities.ErrServiceError):
		return http.StatusBadGateway
	case errors.Is(err, entities.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, entities.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, entities.ErrSuperseded):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error body and records it on the gin
// context so the request logger can report it.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

package handler

import (
	"errors"
	"net/http"

	"medicore/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError maps domain error kinds onto structured {message, details?}
// JSON. Raw internals and provider payloads never reach the client.
func respondError(c *gin.Context, err error) {
	var pe *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"message": "not permitted"})
	case errors.As(err, &pe):
		c.JSON(http.StatusBadGateway, gin.H{"message": "external provider error", "details": pe.Provider})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

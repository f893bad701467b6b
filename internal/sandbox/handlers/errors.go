package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/client/internal/sandbox/repository"
	"marketplace/client/internal/sandbox/service"
)

// fail writes err as a {"message": ...} body with the matching status.
func (h HandlerSet) fail(c *gin.Context, err error) {
	var input *service.InputError
	var forbidden *service.ForbiddenError

	switch {
	case errors.As(err, &input):
		c.JSON(http.StatusBadRequest, gin.H{"message": input.Message})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": forbidden.Message})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, repository.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
	case errors.Is(err, repository.ErrMediaNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Media not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

// Package api holds the gin handlers of the HTTP API. Every handler registers its
// own routes on a /api/v1 group.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makansehat/backend/internal/service"
	"github.com/makansehat/backend/internal/types"
)

// Guards bundles the middleware that handlers attach to their routes.
type Guards struct {
	// Auth rejects requests without a valid token.
	Auth gin.HandlerFunc
	// OptionalAuth identifies the user when a valid token is present.
	OptionalAuth gin.HandlerFunc
	// RateLimit limits the public lookup endpoints.
	RateLimit gin.HandlerFunc
	// Role returns a middleware admitting only the given roles.
	Role func(roles ...string) gin.HandlerFunc
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrIngredientNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrMenuNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrImagesDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body for err. Internal errors are logged and their
// detail is not returned.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = "Internal server error"
	}
	c.JSON(status, types.ErrorResponse{
		Success: false,
		Error:   service.ErrorCode(err),
		Message: message,
	})
}

func invalidBody(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{
		Success: false,
		Error:   service.CodeInvalidInput,
		Message: message,
	})
}

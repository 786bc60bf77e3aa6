// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"errors"
	"net/http"

	"warung-pos/internal/transport/httpdto"
	warung_errors "warung-pos/pkg/errors"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, warung_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid input", "INVALID_INPUT"))
	case errors.Is(err, warung_errors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
	case errors.Is(err, warung_errors.ErrForbidden):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
	case errors.Is(err, warung_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
	case errors.Is(err, warung_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse("already exists", "ALREADY_EXISTS"))
	case errors.Is(err, warung_errors.ErrConflict):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse("conflict", "CONFLICT"))
	case errors.Is(err, warung_errors.ErrInsufficientStock):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse("insufficient stock", "INSUFFICIENT_STOCK"))
	case errors.Is(err, warung_errors.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, httpdto.NewErrorResponse("too large", "TOO_LARGE"))
	case errors.Is(err, warung_errors.ErrNotUploaded):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("file not uploaded", "NOT_UPLOADED"))
	case errors.Is(err, warung_errors.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limited", "RATE_LIMITED"))
	case errors.Is(err, warung_errors.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("service unavailable", "SERVICE_UNAVAILABLE"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
	}
}

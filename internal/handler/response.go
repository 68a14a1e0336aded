package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/repository"
	"courier/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
// Resolver precondition failures stay distinct so callers can render a
// specific message for each.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidOrderID),
		errors.Is(err, service.ErrInvalidClientID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidEventType),
		errors.Is(err, service.ErrInvalidPickupAddress),
		errors.Is(err, service.ErrInvalidDropoffAddress),
		errors.Is(err, service.ErrInvalidLocation):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, service.ErrAssignmentInProgress),
		errors.Is(err, service.ErrOrderNotAssigned),
		errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrOrderNotPickedUp),
		errors.Is(err, service.ErrOrderAlreadyCancelled),
		errors.Is(err, service.ErrOrderCannotBeCancelled):
		return http.StatusConflict

	// Upstream provider failure
	case errors.Is(err, service.ErrGeocodeFailure):
		return http.StatusBadGateway

	// No driver can be assigned right now
	case errors.Is(err, service.ErrNoAvailableDrivers),
		errors.Is(err, service.ErrNoLocationData),
		errors.Is(err, service.ErrNoSuitableDriver):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendConflictError sends a conflict error response with a reason string
func SendConflictError(c echo.Context, reason string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CONFLICT", reason, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// RespondError translates a service error into the matching HTTP response:
// validation and conflict errors map to 400, unknown identifiers to 404, and
// everything else (including aborted transactions) to a generic 500.
func RespondError(c echo.Context, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return SendValidationError(c, ve.Field, ve.Message)
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return SendConflictError(c, ce.Reason)
	}
	var ne *NotFoundError
	if errors.As(err, &ne) {
		return SendNotFoundError(c, ne.Resource)
	}
	return SendServerError(c, err.Error())
}

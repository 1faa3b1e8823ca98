package api

import (
	"encoding/json"
	"net/http"

	"github.com/captivegate/captivegate/src/internal/errors"
	"github.com/captivegate/captivegate/src/internal/log"
)

// ErrorCode represents standard API error codes.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates malformed or invalid request data.
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeForbidden indicates the client is not allowed to use the API.
	ErrCodeForbidden ErrorCode = "forbidden"

	// ErrCodeInternalError indicates an internal server error.
	ErrCodeInternalError ErrorCode = "internal_error"

	// ErrCodeValidationFailed indicates the request failed input validation.
	ErrCodeValidationFailed ErrorCode = "validation_failed"

	// ErrCodeChannelUnavailable indicates the kernel module is not loaded.
	ErrCodeChannelUnavailable ErrorCode = "channel_unavailable"

	// ErrCodeTimeout indicates a kernel write did not finish in time.
	ErrCodeTimeout ErrorCode = "timeout"

	// ErrCodeTransport indicates a kernel write or netlink query failed.
	ErrCodeTransport ErrorCode = "transport_error"
)

// APIError represents a structured API error response.
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError for JSON responses.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code ErrorCode, message string) APIError {
	return APIError{
		Code:    code,
		Message: message,
	}
}

// WithDetails adds details to an APIError.
func (e APIError) WithDetails(details map[string]interface{}) APIError {
	e.Details = details
	return e
}

// WriteError writes an error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, err APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// WriteInvalidRequest writes a 400 Bad Request error.
func WriteInvalidRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, NewAPIError(ErrCodeInvalidRequest, message))
}

// WriteNotFound writes a 404 Not Found error.
func WriteNotFound(w http.ResponseWriter, resource string) {
	WriteError(w, http.StatusNotFound, NewAPIError(ErrCodeNotFound, resource+" not found"))
}

// WriteForbidden writes a 403 Forbidden error.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// WriteInternalError writes a 500 Internal Server Error.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// WriteDomainError maps a coded error from the gate onto an HTTP status.
func WriteDomainError(w http.ResponseWriter, err error) {
	status, code := statusFor(errors.CodeOf(err))
	if status >= http.StatusInternalServerError {
		log.Errorf("Request failed: %v", err)
	}
	WriteError(w, status, NewAPIError(code, err.Error()))
}

func statusFor(code errors.ErrorCode) (int, ErrorCode) {
	switch code {
	case errors.ErrCodeValidation:
		return http.StatusBadRequest, ErrCodeValidationFailed
	case errors.ErrCodeNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case errors.ErrCodeChannelUnavailable:
		return http.StatusServiceUnavailable, ErrCodeChannelUnavailable
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, ErrCodeTimeout
	case errors.ErrCodeTransport:
		return http.StatusBadGateway, ErrCodeTransport
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

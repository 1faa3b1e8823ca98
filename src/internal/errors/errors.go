// Package errors provides domain-specific error types for captivegate.
//
// Errors carry a code so callers can branch with errors.Is against the
// exported sentinels without caring about the message or the cause.
package errors

import "fmt"

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeTransport indicates a socket or netlink query failure.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"

	// ErrCodeNotFound indicates a missing interface, address or ARP entry.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeChannelUnavailable indicates a kernel control file could not be
	// opened, usually because the enforcement module is not loaded.
	ErrCodeChannelUnavailable ErrorCode = "CHANNEL_UNAVAILABLE"

	// ErrCodeResolution indicates a DNS lookup failure.
	ErrCodeResolution ErrorCode = "RESOLUTION_FAILURE"

	// ErrCodeTimeout indicates a kernel write did not finish in time.
	ErrCodeTimeout ErrorCode = "TIMEOUT"

	// ErrCodeValidation indicates invalid caller input.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeConfig indicates a configuration-related error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrTransport          = New(ErrCodeTransport, "transport error")
	ErrNotFound           = New(ErrCodeNotFound, "not found")
	ErrChannelUnavailable = New(ErrCodeChannelUnavailable, "channel unavailable")
	ErrResolution         = New(ErrCodeResolution, "resolution failure")
	ErrTimeout            = New(ErrCodeTimeout, "timeout")
	ErrValidation         = New(ErrCodeValidation, "validation error")
	ErrConfig             = New(ErrCodeConfig, "configuration error")
	ErrInternal           = New(ErrCodeInternal, "internal error")
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrCodeInternal
}

func NewTransportError(message string, cause error) *Error {
	return Wrap(ErrCodeTransport, message, cause)
}

func NewNotFoundError(message string, cause error) *Error {
	return Wrap(ErrCodeNotFound, message, cause)
}

func NewChannelUnavailableError(message string, cause error) *Error {
	return Wrap(ErrCodeChannelUnavailable, message, cause)
}

func NewResolutionError(message string, cause error) *Error {
	return Wrap(ErrCodeResolution, message, cause)
}

func NewTimeoutError(message string, cause error) *Error {
	return Wrap(ErrCodeTimeout, message, cause)
}

func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds. Services wrap one of these into an AppError; handlers
// map the kind to an HTTP status with HTTPStatus.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrExternalService = errors.New("external service failure")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // human-readable error message
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
	}
}

func InvalidArgument(message string) *AppError {
	return &AppError{Err: ErrInvalidArgument, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

func Unauthenticated(message string) *AppError {
	return &AppError{Err: ErrUnauthenticated, Message: message}
}

// ExternalService marks a failure of an outside collaborator (identity
// provider, LLM). Handlers answer 502 so clients can distinguish it from
// a bug in this service.
func ExternalService(message string, cause error) *AppError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &AppError{Err: ErrExternalService, Message: message}
}

// HTTPStatus maps an error to the response status code. Unknown errors
// are a 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

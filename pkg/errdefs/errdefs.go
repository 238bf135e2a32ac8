package errdefs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTokenExpired is reported by a remote call whose bearer token is no
	// longer accepted. It is recovered inside the client and should not
	// reach callers unless the refresh failed.
	ErrTokenExpired = errors.New("access token expired")

	// ErrSessionExpired means the access token could not be refreshed. The
	// caller has to authenticate again.
	ErrSessionExpired = errors.New("session expired")

	// ErrUniquenessConflict is returned when an association is already registered.
	ErrUniquenessConflict = errors.New("association already registered")

	// ErrDependencyConflict is returned when deleting a row that is still referenced.
	ErrDependencyConflict = errors.New("association still has dependents")

	ErrNotFound        = errors.New("not found")
	ErrConfiguration   = errors.New("configuration error")
	ErrRemoteCall      = errors.New("remote call failed")
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidArgument wraps ErrInvalidArgument with a formatted message.
func InvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound with a formatted message.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// UniquenessConflict wraps ErrUniquenessConflict with a formatted message.
func UniquenessConflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUniquenessConflict, fmt.Sprintf(format, args...))
}

// DependencyConflict wraps ErrDependencyConflict with a formatted message.
func DependencyConflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDependencyConflict, fmt.Sprintf(format, args...))
}

// Configuration wraps ErrConfiguration with a formatted message.
func Configuration(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// RemoteCallError is a failed remote operation. It matches ErrRemoteCall and
// unwraps to the underlying cause.
type RemoteCallError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteCallError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", ErrRemoteCall, e.Operation, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s: %s", ErrRemoteCall, e.Operation, msg)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

func (e *RemoteCallError) Is(target error) bool { return target == ErrRemoteCall }

// Error codes carried in HTTP error bodies.
const (
	CodeInvalidArgument    = "invalid_argument"
	CodeTokenExpired       = "token_expired"
	CodeNotFound           = "not_found"
	CodeUniquenessConflict = "uniqueness_conflict"
	CodeDependencyConflict = "dependency_conflict"
	CodeInternal           = "internal"
	CodeUnauthorized       = "unauthorized"
)

// HTTPStatus maps an error to the status code and body code the server
// responds with.
func HTTPStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, CodeInvalidArgument
	case errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized, CodeTokenExpired
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, ErrUniquenessConflict):
		return http.StatusConflict, CodeUniquenessConflict
	case errors.Is(err, ErrDependencyConflict):
		return http.StatusConflict, CodeDependencyConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// FromStatus is the inverse of HTTPStatus. It returns the sentinel matching a
// non-2xx response, or nil when the status carries no typed meaning.
func FromStatus(status int, code string) error {
	switch code {
	case CodeInvalidArgument:
		return ErrInvalidArgument
	case CodeTokenExpired:
		return ErrTokenExpired
	case CodeNotFound:
		return ErrNotFound
	case CodeUniquenessConflict:
		return ErrUniquenessConflict
	case CodeDependencyConflict:
		return ErrDependencyConflict
	}
	switch status {
	case http.StatusUnauthorized:
		return ErrTokenExpired
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrInvalidArgument
	}
	return nil
}

// ErrorResponse is the JSON body of every non-2xx response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine readable code and a human readable message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse builds the body for err
func NewErrorResponse(err error) (int, ErrorResponse) {
	status, code := HTTPStatus(err)
	return status, ErrorResponse{Error: ErrorDetail{Code: code, Message: err.Error()}}
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JetxcheDev/f1-prode/internal/adapters/gateway"
	service "github.com/JetxcheDev/f1-prode/internal/app"
	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeds maximum")
	ErrUnavailable   = errors.New("rankings unavailable")
)

// Error carries the handler operation that failed alongside its cause.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewKind tags a sentinel kind with op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Err: kind}
}

// Wrap tags err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind tags err with op and kind so both match errors.Is.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return &Error{Op: op, Err: fmt.Errorf("%w: %w", kind, err)}
}

// classify maps an upstream error to an HTTP status and a response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrLimitExceeded):
		return http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ranking.ErrUnknownView):
		return http.StatusNotFound, "unknown_view"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, gateway.ErrUnavailable), errors.Is(err, service.ErrNoGateway), errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

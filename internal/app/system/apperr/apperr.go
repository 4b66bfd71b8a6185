// Package apperr defines the error taxonomy shared by stores, policies,
// and handlers, and maps each kind to an HTTP status and JSON body.
//
// Stores and policies return *apperr.Error (or wrap one); handlers pass
// whatever they get to Write, which picks the right status. Anything that
// is not an *apperr.Error is treated as a dependency failure so internal
// details never leak to clients.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies an error. The set is closed; add a kind only together
// with its status mapping below.
type Kind int

const (
	// Unauthenticated: no valid caller identity on the request.
	Unauthenticated Kind = iota
	// Forbidden: valid caller, insufficient relationship state.
	Forbidden
	// NotFound: referenced organization/post/user/relationship absent.
	NotFound
	// Validation: input rejected before any mutation (title length,
	// date window, access-code format).
	Validation
	// Conflict: a concurrent writer got there first.
	Conflict
	// Dependency: the object store or push collaborator failed.
	Dependency
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	default:
		return "dependency"
	}
}

// status maps a kind to its HTTP response code.
func (k Kind) status() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusUnprocessableEntity
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// Error is a classified error. Message is safe to show to clients;
// Err (optional) carries the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind with a client-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause. The message is still the client-facing text;
// cause goes to logs only.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or Dependency if err is not an
// *Error (unclassified failures are treated as collaborator failures).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Dependency
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// response is the JSON error body.
type response struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Write renders err as a JSON error response and logs server-side kinds.
// Client errors (4xx) log at debug; dependency failures at error with
// the cause.
func Write(w http.ResponseWriter, logger *zap.Logger, err error) {
	kind := KindOf(err)
	msg := "internal dependency failed"
	var e *Error
	if errors.As(err, &e) {
		msg = e.Message
	}

	if logger != nil {
		if kind == Dependency {
			logger.Error("request failed", zap.String("kind", kind.String()), zap.Error(err))
		} else {
			logger.Debug("request rejected", zap.String("kind", kind.String()), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(kind.status())
	_ = json.NewEncoder(w).Encode(response{
		Error:   http.StatusText(kind.status()),
		Code:    kind.String(),
		Message: msg,
	})
}

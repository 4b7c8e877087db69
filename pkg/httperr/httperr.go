// Package httperr defines the error taxonomy the API exposes to
// clients. Every collaborator failure gets translated into one of
// these kinds before it reaches the wire, raw internals never do.
package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindAuthentication  Kind = "authentication"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindInvalidToken    Kind = "invalid_token"
	KindExpiredToken    Kind = "expired_token"
	KindNotFound        Kind = "not_found"
	KindDependency      Kind = "dependency"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps a kind onto the HTTP status the client sees. Duplicate
// registrations answer 400, matching the documented contract.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindInvalidToken:
		return http.StatusBadRequest
	case KindAuthentication, KindUnauthenticated, KindExpiredToken:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error      { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }
func Authentication(msg string) *Error  { return &Error{Kind: KindAuthentication, Message: msg} }
func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Message: msg} }
func InvalidToken(msg string) *Error    { return &Error{Kind: KindInvalidToken, Message: msg} }
func ExpiredToken(msg string) *Error    { return &Error{Kind: KindExpiredToken, Message: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }

// Dependency wraps a store or mail failure. The wrapped error is for
// logs only and never serialized.
func Dependency(msg string, err error) *Error {
	return &Error{Kind: KindDependency, Message: msg, Err: err}
}

// Abort writes the error response and stops the handler chain.
func Abort(c *gin.Context, e *Error) {
	c.AbortWithStatusJSON(e.Status(), gin.H{
		"error":     e.Message,
		"kind":      e.Kind,
		"requestID": c.GetString("requestID"),
	})
}

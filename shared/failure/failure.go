package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a Failure so callers can branch on the class of
// error rather than on the HTTP code it maps to. The UI needs to tell
// "not yours" apart from "too late to cancel" even though both are
// rejections of the same operation.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindAuthorization     Kind = "authorization"
	KindState             Kind = "state"
	KindAuth              Kind = "auth"
	KindMalformedResponse Kind = "malformed_response"
	KindTransport         Kind = "transport"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal"
)

// Failure is a wrapper for error messages, kinds and codes using standard HTTP response codes.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Failure) Error() string {
	return e.Message
}

// Validation reports a payload that violates an entity invariant. The
// field name and the violated rule are part of the message.
func Validation(field, rule string) error {
	return &Failure{
		Kind:    KindValidation,
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("%s: %s", field, rule),
	}
}

// Authorization reports that the actor is not the owner of the resource.
func Authorization(msg string) error {
	return &Failure{
		Kind:    KindAuthorization,
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// State reports an operation that is not permitted given the current
// status of the entity, e.g. cancelling a completed reservation.
func State(msg string) error {
	return &Failure{
		Kind:    KindState,
		Code:    http.StatusConflict,
		Message: msg,
	}
}

// Auth reports rejected credentials or an invalid token.
func Auth(msg string) error {
	return &Failure{
		Kind:    KindAuth,
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// MalformedResponse reports a gateway response missing required fields.
func MalformedResponse(field string) error {
	return &Failure{
		Kind:    KindMalformedResponse,
		Code:    http.StatusBadGateway,
		Message: fmt.Sprintf("response is missing required field: %s", field),
	}
}

// Transport reports an unreachable gateway or a failed network call.
func Transport(err error) error {
	return &Failure{
		Kind:    KindTransport,
		Code:    http.StatusServiceUnavailable,
		Message: err.Error(),
	}
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Kind:    KindValidation,
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Kind:    KindValidation,
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Kind:    KindAuth,
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Kind:    KindInternal,
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Kind:    KindConflict,
		Code:    http.StatusConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Kind:    KindAuthorization,
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the Kind of an error interface, KindInternal when the
// error is not a Failure.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}

// IsKind reports whether err is a Failure of the given Kind.
func IsKind(err error, kind Kind) bool {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind == kind
	}

	return false
}

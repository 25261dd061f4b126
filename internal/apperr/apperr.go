// Package apperr classifies domain errors into the client/server taxonomy
// exposed over HTTP.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindForbidden
	KindUnauthenticated
	KindConflict
)

// Error is a classified sentinel. Domain packages declare their sentinels
// with New and wrap them with fmt.Errorf("%w: ...") to add detail.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, reason, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

const ReasonPersistenceFailure = "PERSISTENCE_FAILURE"

// Classify finds the first classified error in the chain. Unclassified
// errors are internal.
func Classify(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Response is the wire shape of every error reply.
type Response struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ToResponse renders err for a client. Client errors keep their full
// wrapped message; internal errors are masked unless exposeInternal is set.
func ToResponse(err error, exposeInternal bool) (int, Response) {
	if e, ok := Classify(err); ok && e.Kind != KindInternal {
		return HTTPStatus(e.Kind), Response{Reason: e.Reason, Message: err.Error()}
	}

	msg := "internal server error"
	if exposeInternal {
		msg = err.Error()
	}
	return http.StatusInternalServerError, Response{Reason: ReasonPersistenceFailure, Message: msg}
}

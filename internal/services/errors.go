package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so the HTTP boundary can pick a status
type ErrorKind string

const (
	KindValidation         ErrorKind = "ValidationError"
	KindUnauthenticated    ErrorKind = "Unauthenticated"
	KindInvalidCredentials ErrorKind = "InvalidCredentials"
	KindForbidden          ErrorKind = "Forbidden"
	KindNotFound           ErrorKind = "NotFound"
	KindDuplicateUser      ErrorKind = "DuplicateUser"
	KindInsufficientPoints ErrorKind = "InsufficientPoints"
	KindInvalidAction      ErrorKind = "InvalidAction"
	KindInvalidTransition  ErrorKind = "InvalidTransition"
	KindUpstream           ErrorKind = "UpstreamFailure"
)

// Error is a classified business failure
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, fmt.Sprintf(format, args...))
}

func notFound(what string) *Error {
	return newError(KindNotFound, what+" not found")
}

// KindOf returns the kind of err, or "" for unclassified errors
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

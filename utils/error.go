package utils

import (
	"errors"
	"fmt"
)

// ErrorKind classifies ledger errors so callers (HTTP layer, tests) can react
// without parsing messages.
type ErrorKind string

const (
	ErrorKindValidation   ErrorKind = "validation"
	ErrorKindPrecondition ErrorKind = "precondition"
	ErrorKindConflict     ErrorKind = "conflict"
	ErrorKindNotFound     ErrorKind = "not_found"
	ErrorKindCollaborator ErrorKind = "collaborator"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationError(format string, args ...any) error {
	return &AppError{Kind: ErrorKindValidation, Message: fmt.Sprintf(format, args...)}
}

func PreconditionError(format string, args ...any) error {
	return &AppError{Kind: ErrorKindPrecondition, Message: fmt.Sprintf(format, args...)}
}

func ConflictError(format string, args ...any) error {
	return &AppError{Kind: ErrorKindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...any) error {
	return &AppError{Kind: ErrorKindNotFound, Message: fmt.Sprintf(format, args...)}
}

// CollaboratorError wraps a store/auth/report collaborator failure. The cause
// is kept for logging; the message stays user-facing.
func CollaboratorError(err error, format string, args ...any) error {
	return &AppError{Kind: ErrorKindCollaborator, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the error's kind, or ErrorKindCollaborator for unclassified
// errors (anything unexpected comes from a collaborator).
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrorKindCollaborator
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

var ErrorRecordNotFound = NotFoundError("record not found")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}

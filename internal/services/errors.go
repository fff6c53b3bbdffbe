package services

import "fmt"

// ErrorKind classifies a domain failure for the request boundary.
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION_ERROR"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindConflict   ErrorKind = "CONFLICT"
	KindInternal   ErrorKind = "INTERNAL_ERROR"
)

// DomainError is the error type every service operation returns. Handlers
// map Kind to a status code and pass Message/Field through unchanged.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Field   string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// WithField attaches the offending input field name.
func (e *DomainError) WithField(field string) *DomainError {
	e.Field = field
	return e
}

func Validationf(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Internalf wraps an unexpected failure (storage down, IO error) so it
// surfaces distinctly from the three domain kinds.
func Internalf(cause error, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the kind of a DomainError, or KindInternal for anything else.
func KindOf(err error) ErrorKind {
	if de, ok := err.(*DomainError); ok {
		return de.Kind
	}
	return KindInternal
}

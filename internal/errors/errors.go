package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeStoreUnavailable ErrorType = "STORE_UNAVAILABLE"
	ErrTypeNoSession        ErrorType = "NO_SESSION"
	ErrTypePartialWrite     ErrorType = "PARTIAL_WRITE"
	ErrTypeUnauthorized     ErrorType = "UNAUTHORIZED"
	ErrTypeInvalidInput     ErrorType = "INVALID_INPUT"
	ErrTypeNotFound         ErrorType = "NOT_FOUND"
	ErrTypeInternal         ErrorType = "INTERNAL"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

// Cause returns the message of the innermost error, which is what operators
// see in the admin panel banner.
func (e *DomainError) Cause() string {
	if e.Err == nil {
		return e.Message
	}
	inner := e.Err
	for {
		next := stderrors.Unwrap(inner)
		if next == nil {
			return inner.Error()
		}
		inner = next
	}
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

// TypeOf reports the ErrorType of the first DomainError in err's chain, or
// ErrTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Type
	}
	return ErrTypeInternal
}

func IsType(err error, errType ErrorType) bool {
	var de *DomainError
	return stderrors.As(err, &de) && de.Type == errType
}

func StoreUnavailable(message string, err error) *DomainError {
	return New(ErrTypeStoreUnavailable, message, err)
}

func NoSession(message string, err error) *DomainError {
	return New(ErrTypeNoSession, message, err)
}

func PartialWrite(message string, err error) *DomainError {
	return New(ErrTypePartialWrite, message, err)
}

func Unauthorized(message string, err error) *DomainError {
	return New(ErrTypeUnauthorized, message, err)
}

func InvalidInput(message string, err error) *DomainError {
	return New(ErrTypeInvalidInput, message, err)
}

func NotFound(message string, err error) *DomainError {
	return New(ErrTypeNotFound, message, err)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

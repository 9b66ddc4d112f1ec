package modelslice

import (
	"errors"
	"fmt"
	"strings"
)

const maxCauseDepth = 16

// SerializableError is the plain-data form of an error stored in slice state.
// It is comparable field by field and safe to marshal.
type SerializableError struct {
	Name    string             `json:"name"`
	Message string             `json:"message"`
	Stack   string             `json:"stack,omitempty"`
	Cause   *SerializableError `json:"cause,omitempty"`
}

func (e *SerializableError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

func (e *SerializableError) clone() *SerializableError {
	if e == nil {
		return nil
	}
	out := *e
	out.Cause = e.Cause.clone()
	return &out
}

// ErrorNormalizer turns an arbitrary error into its stored form.
type ErrorNormalizer func(error) *SerializableError

type namedError interface {
	Name() string
}

type stackError interface {
	Stack() string
}

// ToSerializable is the default ErrorNormalizer. The name comes from a
// Name() method when present and the dynamic type otherwise. The stack comes
// from a Stack() method, or from "%+v" formatting when it adds detail beyond
// Error(). Wrapped errors become the Cause chain.
func ToSerializable(err error) *SerializableError {
	return toSerializable(err, 0)
}

func toSerializable(err error, depth int) *SerializableError {
	if err == nil {
		return nil
	}
	if existing, ok := err.(*SerializableError); ok {
		return existing.clone()
	}

	out := &SerializableError{
		Name:    errorName(err),
		Message: err.Error(),
		Stack:   errorStack(err),
	}
	if depth < maxCauseDepth {
		if cause := errors.Unwrap(err); cause != nil {
			out.Cause = toSerializable(cause, depth+1)
		}
	}
	return out
}

func errorName(err error) string {
	if named, ok := err.(namedError); ok {
		if name := strings.TrimSpace(named.Name()); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%T", err)
}

func errorStack(err error) string {
	if withStack, ok := err.(stackError); ok {
		return withStack.Stack()
	}
	if _, ok := err.(fmt.Formatter); !ok {
		return ""
	}
	verbose := fmt.Sprintf("%+v", err)
	if verbose == err.Error() {
		return ""
	}
	return verbose
}

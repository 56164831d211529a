// Package tools implements the tool gateway: the registry of callable
// operations, argument normalization, and the uniform response envelope
// returned to the MCP transport.
package tools

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway error for the caller. Kinds are stable strings
// serialized into the error envelope.
type Kind string

const (
	KindConfiguration Kind = "configuration_error"
	KindValidation    Kind = "validation_error"
	KindUnknownTool   Kind = "unknown_tool_error"
	KindNotFound      Kind = "not_found_error"
	KindBackend       Kind = "backend_error"
	KindNetwork       Kind = "network_error"
	KindInternal      Kind = "internal_error"
)

// Error is the typed error returned by every layer of the gateway.
// Retriable is only set for kinds where retrying can plausibly help.
type Error struct {
	Kind      Kind
	Message   string
	Retriable bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf builds a typed error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		Retriable: kind == KindNetwork,
	}
}

// AsError unwraps err to a *Error if one is anywhere in its chain.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindInternal for anything that is not
// a typed gateway error.
func KindOf(err error) Kind {
	if te, ok := AsError(err); ok {
		return te.Kind
	}
	return KindInternal
}

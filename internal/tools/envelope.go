package tools

// Envelope is the two-variant result wrapper returned by every dispatch.
// Exactly one of Result or Error is populated.
type Envelope struct {
	Result any            `json:"result,omitempty"`
	Error  *EnvelopeError `json:"error,omitempty"`
}

// EnvelopeError is the serialized form of a gateway error.
type EnvelopeError struct {
	Kind      Kind   `json:"kind"`
	Message   string `json:"message"`
	Retriable bool   `json:"retriable,omitempty"`
}

// Success wraps a handler payload. A nil payload is normalized to an empty
// object so the envelope always carries a result field on success.
func Success(payload any) Envelope {
	if payload == nil {
		payload = map[string]any{}
	}
	return Envelope{Result: payload}
}

// Failure wraps any error into the error variant, classifying untyped
// errors as internal.
func Failure(err error) Envelope {
	if te, ok := AsError(err); ok {
		return Envelope{Error: &EnvelopeError{
			Kind:      te.Kind,
			Message:   te.Message,
			Retriable: te.Retriable,
		}}
	}
	return Envelope{Error: &EnvelopeError{
		Kind:    KindInternal,
		Message: err.Error(),
	}}
}

// IsError reports whether the envelope holds the error variant.
func (e Envelope) IsError() bool {
	return e.Error != nil
}

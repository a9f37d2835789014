package llm

import (
	"encoding/json"
	"fmt"
)

// ErrorKind classifies a normalization failure
type ErrorKind string

const (
	// KindConnection covers transport failures and provider-reported errors
	KindConnection ErrorKind = "connection"
	// KindUnexpectedFormat means the response matched none of the known shapes
	KindUnexpectedFormat ErrorKind = "unexpected_format"
	// KindExtraction is a fault while reading the generated text out of the response
	KindExtraction ErrorKind = "extraction"
	// KindRecovery is a failure to recover a JSON value from the generated text
	KindRecovery ErrorKind = "recovery"
)

const (
	connectionPrefix = "LLM Connection Error: "
	extractionPrefix = "LLM Parsing Error: "
	recoveryPrefix   = "JSON Parsing Error: "

	msgUnexpectedFormat = connectionPrefix + "unexpected response format"
	msgNoJSONArray      = recoveryPrefix + "could not find a valid JSON array in model output"
)

// Error is the structured failure returned by the normalizer. Response holds the raw
// gateway response when it is useful for diagnosis.
type Error struct {
	Kind     ErrorKind
	Message  string
	Response any
}

func (e *Error) Error() string {
	return e.Message
}

// HasResponse reports whether the raw gateway response was attached
func (e *Error) HasResponse() bool {
	return e.Kind == KindUnexpectedFormat || e.Kind == KindExtraction
}

// MarshalJSON renders {"error": ..., "response": ...}; response is omitted when the
// failure kind does not carry one.
func (e *Error) MarshalJSON() ([]byte, error) {
	out := map[string]any{"error": e.Message}
	if e.HasResponse() {
		out["response"] = e.Response
	}
	return json.Marshal(out)
}

func connectionError(cause any) *Error {
	return &Error{Kind: KindConnection, Message: connectionPrefix + stringify(cause)}
}

func unexpectedFormatError(resp any) *Error {
	return &Error{Kind: KindUnexpectedFormat, Message: msgUnexpectedFormat, Response: resp}
}

func extractionError(cause any, resp any) *Error {
	return &Error{Kind: KindExtraction, Message: extractionPrefix + stringify(cause), Response: resp}
}

func recoveryError(cause any) *Error {
	return &Error{Kind: KindRecovery, Message: recoveryPrefix + stringify(cause)}
}

// stringify renders an arbitrary error payload the way a provider would show it:
// strings verbatim, everything else as compact JSON.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

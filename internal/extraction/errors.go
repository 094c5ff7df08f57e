package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse indicates the model returned no text at all.
	ErrEmptyResponse = errors.New("empty response from AI model")

	// ErrMalformedResponse indicates the model returned text with no
	// decodable JSON object in it.
	ErrMalformedResponse = errors.New("invalid JSON response from AI model")
)

// FieldError reports a schema violation in the model's candidate extraction.
// Field names the offending field; Reason is the human-readable description.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid response from AI model: %s", e.Reason)
}

// InvocationError wraps a failed model call. Upstream marks a server-side
// failure reported by the model provider, as opposed to a transport, auth or
// protocol problem on our end of the call.
type InvocationError struct {
	Upstream bool
	Err      error
}

func (e *InvocationError) Error() string {
	if e.Upstream {
		return fmt.Sprintf("AI model returned a server error: %v", e.Err)
	}
	return fmt.Sprintf("calling AI model: %v", e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

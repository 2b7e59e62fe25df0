package genai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoQuestions signals that a generation call produced no usable questions
// after parsing and invariant filtering.
var ErrNoQuestions = errors.New("no questions generated")

// InsufficientContentError is returned when course material cannot support
// question generation. Reasons are surfaced verbatim so the UI can direct the
// user to add content.
type InsufficientContentError struct {
	Reasons []string
}

func (e *InsufficientContentError) Error() string {
	if len(e.Reasons) == 0 {
		return "course content insufficient for quiz generation"
	}
	return fmt.Sprintf("course content insufficient for quiz generation: %s", strings.Join(e.Reasons, "; "))
}

// IsInsufficientContent reports whether err is an InsufficientContentError.
func IsInsufficientContent(err error) bool {
	var ice *InsufficientContentError
	return errors.As(err, &ice)
}

// GenerationError wraps an upstream completion-service failure or an internal
// timeout. Status and message are retained for logs; callers surface a
// generic failure to the end user.
type GenerationError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError reports whether err is a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

package workflow

import (
	"fmt"
	"strings"
)

// StepError is the error of a wizard step. Its message is a single line
// suitable for display; the cause stays available to errors.Is and
// errors.As.
type StepError struct {
	Step    string
	Message string
	err     error
}

func newStepError(step string, err error) *StepError {
	return &StepError{
		Step:    step,
		Message: fmt.Sprintf("Failed to save %s: %s", step, flatten(err)),
		err:     err,
	}
}

func (e *StepError) Error() string {
	return e.Message
}

func (e *StepError) Unwrap() error {
	return e.err
}

// flatten joins multi-error messages into one line.
func flatten(err error) string {
	lines := strings.Split(err.Error(), "\n")
	parts := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, "; ")
}

package store

import "fmt"

// StepError reports a step that failed with an error outside the attrerr
// taxonomy, such as a type mismatch inside a function.
type StepError struct {
	Attribute string
	// Index is the zero-based position of the step in the chain.
	Index int
	Step  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("attribute %q: step %d (%s): %v", e.Attribute, e.Index+1, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

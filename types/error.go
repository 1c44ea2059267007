package types

import (
	stderrors "errors"
	"fmt"
)

var (
	_ error = &StepError{}
)

// StepError marks a failure raised by a step executor and propagated out
// of the sequencing loop. The route is deregistered before the error
// reaches the caller; completed-step state on the route is left intact so
// the caller may resume it later.
type StepError struct {
	RouteID   string
	StepIndex int
	Tool      string
	Cause     error
}

func NewStepError(routeID string, index int, step *Step, cause error) *StepError {
	return &StepError{
		RouteID:   routeID,
		StepIndex: index,
		Tool:      step.Tool,
		Cause:     cause,
	}
}

func (e *StepError) Error() string {
	return fmt.Sprintf("route %s step %d (%s): %v", e.RouteID, e.StepIndex, e.Tool, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// AsStepError extracts a StepError from err's chain, if present.
func AsStepError(err error) (*StepError, bool) {
	var se *StepError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

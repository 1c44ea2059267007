package types

import (
	"github.com/juju/errors"
)

// Validate checks the route before any execution state is touched. A
// route that fails validation is never registered.
func (r *Route) Validate() error {
	if r == nil {
		return errors.NotValidf("nil route")
	}
	if r.ID == "" {
		return errors.NotValidf("route without id")
	}
	if len(r.Steps) == 0 {
		return errors.NotValidf("route %s without steps", r.ID)
	}
	for i, step := range r.Steps {
		if err := step.Validate(); err != nil {
			return errors.Annotatef(err, "route %s step %d", r.ID, i)
		}
	}
	return nil
}

func (s *Step) Validate() error {
	if s == nil {
		return errors.NotValidf("nil step")
	}
	if s.Type != StepSwap && s.Type != StepCross {
		return errors.NotValidf("step type %q", s.Type)
	}
	if s.Tool == "" {
		return errors.NotValidf("step without tool")
	}
	if s.Action.FromAmount == "" {
		return errors.NotValidf("step without from amount")
	}
	if s.Action.FromChainID == 0 || s.Action.ToChainID == 0 {
		return errors.NotValidf("step without chain ids")
	}
	return nil
}

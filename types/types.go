package types

// Status is the execution status of a single step, as reported by the
// step executor and mirrored onto Step.Execution.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusActionRequired Status = "ACTION_REQUIRED"
	StatusRunning        Status = "RUNNING"
	StatusDone           Status = "DONE"
	StatusFailed         Status = "FAILED"
)

// Terminal reports whether no further transitions are expected for s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// StepType distinguishes same-chain swaps from cross-chain transfers.
type StepType string

const (
	StepSwap  StepType = "swap"
	StepCross StepType = "cross"
)

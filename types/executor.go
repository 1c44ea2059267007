package types

import "context"

// Signer is the external authority used to approve a step's on-chain
// action. The engine never inspects it, it only passes it through to the
// step executor.
type Signer interface {
	Address() string
	SignTransaction(ctx context.Context, tx *TransactionRequest) ([]byte, error)
}

// UpdateHook receives every status transition of a step. Implementations
// write the execution onto the step and notify the caller.
type UpdateHook func(step *Step, execution *Execution)

// StepExecutor runs exactly one step to a terminal or stopped state.
//
// Execute must invoke onUpdate at least once per meaningful status
// transition. Stop is safe to call at any time, including before Execute
// returns; it causes Stopped to report true and Execute to resolve with a
// halted (nil error) outcome rather than a failure.
type StepExecutor interface {
	Execute(ctx context.Context, signer Signer, step *Step, onUpdate UpdateHook, settings *ExecutionSettings) error
	Stop()
	Stopped() bool
}

// ExecutorFactory produces a fresh StepExecutor for each step the engine
// dispatches. One executor instance never runs more than one step.
type ExecutorFactory func() StepExecutor

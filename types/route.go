package types

import "time"

// Token identifies an asset on a chain. Amounts referencing a token are
// decimal strings in the token's base unit (wei-style), never floats.
type Token struct {
	ChainID  int    `json:"chainId"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Route is an ordered sequence of steps moving an asset from one
// chain/token to another. The step order is fixed at construction; the
// engine never reorders or parallelizes steps within one route.
//
// The engine mutates Steps in place: the caller and the engine share the
// same Route value, so update callbacks observe live progress through
// whatever reference the caller already holds.
type Route struct {
	ID          string  `json:"id"`
	FromChainID int     `json:"fromChainId"`
	ToChainID   int     `json:"toChainId"`
	FromToken   Token   `json:"fromToken"`
	ToToken     Token   `json:"toToken"`
	FromAmount  string  `json:"fromAmount"`
	ToAmount    string  `json:"toAmount,omitempty"`
	FromAddress string  `json:"fromAddress,omitempty"`
	ToAddress   string  `json:"toAddress,omitempty"`
	Steps       []*Step `json:"steps"`
}

// Step is one atomic operation within a route: a swap or a bridge leg.
// Execution is nil until the engine has started the step at least once.
type Step struct {
	ID        string     `json:"id"`
	Type      StepType   `json:"type"`
	Tool      string     `json:"tool"`
	Action    Action     `json:"action"`
	Estimate  *Estimate  `json:"estimate,omitempty"`
	Execution *Execution `json:"execution,omitempty"`
}

// Action carries the requested operation. FromAmount is deliberately
// mutable: before a step runs, the engine overwrites it with the realized
// output of the previous step (amount chaining).
type Action struct {
	FromChainID int     `json:"fromChainId"`
	ToChainID   int     `json:"toChainId"`
	FromToken   Token   `json:"fromToken"`
	ToToken     Token   `json:"toToken"`
	FromAmount  string  `json:"fromAmount"`
	FromAddress string  `json:"fromAddress,omitempty"`
	ToAddress   string  `json:"toAddress,omitempty"`
	Slippage    float64 `json:"slippage,omitempty"`
}

// Estimate is the quote service's projection for a step.
type Estimate struct {
	FromAmount        string `json:"fromAmount"`
	ToAmount          string `json:"toAmount"`
	ToAmountMin       string `json:"toAmountMin,omitempty"`
	ApprovalAddress   string `json:"approvalAddress,omitempty"`
	ExecutionDuration int    `json:"executionDuration,omitempty"`
}

// Execution is the realized state of a step. It is owned by the engine and
// the step executor it delegates to; ToAmount is populated once the step's
// production completes and feeds the next step's Action.FromAmount.
type Execution struct {
	Status     Status     `json:"status"`
	FromAmount string     `json:"fromAmount,omitempty"`
	ToAmount   string     `json:"toAmount,omitempty"`
	TxHash     string     `json:"txHash,omitempty"`
	StartedAt  time.Time  `json:"startedAt,omitempty"`
	DoneAt     *time.Time `json:"doneAt,omitempty"`
	Error      string     `json:"error,omitempty"`
	Process    []*Process `json:"process,omitempty"`
}

// Process is one recorded sub-transition of a step's execution, e.g. the
// approval transaction and the main transaction of a swap.
type Process struct {
	Type      string     `json:"type"`
	Status    Status     `json:"status"`
	Message   string     `json:"message,omitempty"`
	TxHash    string     `json:"txHash,omitempty"`
	StartedAt time.Time  `json:"startedAt,omitempty"`
	DoneAt    *time.Time `json:"doneAt,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// TransactionRequest is the payload a signer authorizes for one step.
type TransactionRequest struct {
	ChainID  int    `json:"chainId"`
	To       string `json:"to"`
	Data     string `json:"data,omitempty"`
	Value    string `json:"value,omitempty"`
	GasLimit string `json:"gasLimit,omitempty"`
	GasPrice string `json:"gasPrice,omitempty"`
}

// LastExecution returns the execution of the last step that has one, or
// nil if no step has started yet.
func (r *Route) LastExecution() *Execution {
	for i := len(r.Steps) - 1; i >= 0; i-- {
		if r.Steps[i].Execution != nil {
			return r.Steps[i].Execution
		}
	}
	return nil
}

// Done reports whether every step of the route has completed.
func (r *Route) Done() bool {
	for _, step := range r.Steps {
		if step.Execution == nil || step.Execution.Status != StatusDone {
			return false
		}
	}
	return len(r.Steps) > 0
}

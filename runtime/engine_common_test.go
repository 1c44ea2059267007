package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chainroute/chainroute/store"
	"github.com/chainroute/chainroute/store/mem"
	"github.com/chainroute/chainroute/types"
	"github.com/stretchr/testify/assert"
)

type nopSigner struct{}

func (nopSigner) Address() string { return "0xtest" }

func (nopSigner) SignTransaction(ctx context.Context, tx *types.TransactionRequest) ([]byte, error) {
	return []byte("signed"), nil
}

// scriptedExecutor plays out one pre-decided outcome: produce toAmount,
// fail with failWith, or halt as if Stop had been requested mid-step.
type scriptedExecutor struct {
	mu      sync.Mutex
	stopped bool

	toAmount string
	failWith error
	halt     bool

	rig *executorRig
}

func (x *scriptedExecutor) Execute(ctx context.Context, signer types.Signer, step *types.Step, onUpdate types.UpdateHook, settings *types.ExecutionSettings) error {
	if x.rig != nil {
		x.rig.record(step)
	}

	execution := step.Execution
	if execution == nil {
		execution = &types.Execution{FromAmount: step.Action.FromAmount, StartedAt: time.Now()}
	}
	execution.Status = types.StatusRunning
	onUpdate(step, execution)

	if x.rig != nil && x.rig.midStep != nil {
		x.rig.midStep(step)
	}

	if x.failWith != nil {
		now := time.Now()
		execution.Status = types.StatusFailed
		execution.Error = x.failWith.Error()
		execution.DoneAt = &now
		onUpdate(step, execution)
		return x.failWith
	}

	if x.halt {
		x.Stop()
	}
	if x.Stopped() {
		return nil
	}

	now := time.Now()
	execution.Status = types.StatusDone
	execution.ToAmount = x.toAmount
	execution.DoneAt = &now
	onUpdate(step, execution)
	return nil
}

func (x *scriptedExecutor) Stop() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.stopped = true
}

func (x *scriptedExecutor) Stopped() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.stopped
}

// executorRig hands scripted executors to the engine in dispatch order
// and records which steps actually ran.
type executorRig struct {
	t *testing.T

	mu       sync.Mutex
	scripts  []*scriptedExecutor
	executed []string

	// invoked from inside Execute, after the first status update
	midStep func(step *types.Step)
}

func newRig(t *testing.T) *executorRig {
	return &executorRig{t: t}
}

func (r *executorRig) add(x *scriptedExecutor) *executorRig {
	x.rig = r
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts = append(r.scripts, x)
	return r
}

func (r *executorRig) factory() types.StepExecutor {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.scripts) == 0 {
		assert.Fail(r.t, "engine dispatched more executors than scripted")
		return &scriptedExecutor{halt: true}
	}
	x := r.scripts[0]
	r.scripts = r.scripts[1:]
	return x
}

func (r *executorRig) record(step *types.Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executed = append(r.executed, step.ID)
}

func (r *executorRig) executedSteps() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.executed))
	copy(out, r.executed)
	return out
}

func newTestEngine(rig *executorRig) (*engine, store.Store) {
	s := mem.NewMemStore()
	opts := types.NewEngineOptions()
	opts.ExecutorFactory = rig.factory
	return newEngine(s, opts), s
}

func buildRoute(id string, stepCount int) *types.Route {
	usdc := types.Token{ChainID: 1, Address: "0xusdc", Symbol: "USDC", Decimals: 6}

	route := &types.Route{
		ID:          id,
		FromChainID: 1,
		ToChainID:   137,
		FromToken:   usdc,
		ToToken:     usdc,
		FromAmount:  "10",
	}
	for i := 0; i < stepCount; i++ {
		stepType := types.StepSwap
		if i == stepCount-1 {
			stepType = types.StepCross
		}
		route.Steps = append(route.Steps, &types.Step{
			ID:   string(rune('A' + i)),
			Type: stepType,
			Tool: "testtool",
			Action: types.Action{
				FromChainID: 1,
				ToChainID:   1,
				FromToken:   usdc,
				ToToken:     usdc,
				FromAmount:  "10",
			},
		})
	}
	return route
}

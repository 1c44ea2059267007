package executor

import (
	"context"
	"sync"
	"time"

	"github.com/chainroute/chainroute/client"
	"github.com/chainroute/chainroute/types"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

const (
	maxStatusRetries = 5

	processTransaction = "TRANSACTION"
	processReceiving   = "RECEIVING_CHAIN"
)

var (
	_ types.StepExecutor = &Executor{}
)

// API is the slice of the route service the executor needs: the
// transaction payload for a step and the status of a sent transfer.
type API interface {
	StepTransaction(ctx context.Context, step *types.Step) (*types.TransactionRequest, error)
	Status(ctx context.Context, tool string, fromChainID, toChainID int, txHash string) (*client.StatusResponse, error)
}

// Broadcaster submits a signed transaction to its chain and waits for it
// to be mined on the sending chain.
type Broadcaster interface {
	Submit(ctx context.Context, chainID int, signedTx []byte) (txHash string, err error)
	WaitMined(ctx context.Context, chainID int, txHash string) error
}

/**
 * Executor runs exactly one step: fetch the transaction payload, have the
 * signer authorize it, broadcast it, then poll the route service until
 * the transfer settles. Stop is honored between phases and between status
 * polls; a stopped run resolves without error and leaves the step
 * resumable.
 */
type Executor struct {
	api         API
	broadcaster Broadcaster

	stopOnce sync.Once
	stopCh   chan struct{}
}

func New(api API, broadcaster Broadcaster) *Executor {
	return &Executor{
		api:         api,
		broadcaster: broadcaster,
		stopCh:      make(chan struct{}),
	}
}

// NewFactory adapts New to the engine's factory contract.
func NewFactory(api API, broadcaster Broadcaster) types.ExecutorFactory {
	return func() types.StepExecutor {
		return New(api, broadcaster)
	}
}

func (x *Executor) Stop() {
	x.stopOnce.Do(func() {
		close(x.stopCh)
	})
}

func (x *Executor) Stopped() bool {
	select {
	case <-x.stopCh:
		return true
	default:
		return false
	}
}

func (x *Executor) Execute(ctx context.Context, signer types.Signer, step *types.Step, onUpdate types.UpdateHook, settings *types.ExecutionSettings) error {
	execution := step.Execution
	if execution == nil {
		execution = &types.Execution{
			Status:     types.StatusPending,
			FromAmount: step.Action.FromAmount,
			StartedAt:  time.Now(),
		}
	}

	emit := func(status types.Status) {
		execution.Status = status
		onUpdate(step, execution)
	}
	fail := func(err error) error {
		now := time.Now()
		execution.Error = err.Error()
		execution.DoneAt = &now
		emit(types.StatusFailed)
		return errors.Trace(err)
	}

	emit(types.StatusPending)
	if x.Stopped() {
		return nil
	}

	tx, err := x.api.StepTransaction(ctx, step)
	if err != nil {
		return fail(errors.Annotatef(err, "fetch transaction for step %s", step.ID))
	}

	process := x.appendProcess(execution, processTransaction)
	emit(types.StatusActionRequired)
	if x.Stopped() {
		return nil
	}

	signed, err := signer.SignTransaction(ctx, tx)
	if err != nil {
		x.failProcess(process, err)
		return fail(errors.Annotatef(err, "sign transaction for step %s", step.ID))
	}
	if x.Stopped() {
		return nil
	}

	txHash, err := x.broadcaster.Submit(ctx, step.Action.FromChainID, signed)
	if err != nil {
		x.failProcess(process, err)
		return fail(errors.Annotatef(err, "broadcast step %s", step.ID))
	}
	execution.TxHash = txHash
	process.TxHash = txHash
	emit(types.StatusRunning)

	if err := x.broadcaster.WaitMined(ctx, step.Action.FromChainID, txHash); err != nil {
		x.failProcess(process, err)
		return fail(errors.Annotatef(err, "wait mined step %s", step.ID))
	}
	x.doneProcess(process)

	receiving := x.appendProcess(execution, processReceiving)
	emit(types.StatusRunning)

	status, err := x.awaitSettled(ctx, step, txHash, settings)
	if err != nil {
		x.failProcess(receiving, err)
		return fail(errors.Annotatef(err, "await settlement of step %s", step.ID))
	}
	if status == nil {
		// stopped while waiting; leave the step as-is for resume
		return nil
	}

	if status.TxHash != "" {
		receiving.TxHash = status.TxHash
	}
	x.doneProcess(receiving)

	now := time.Now()
	execution.ToAmount = status.ToAmount
	execution.DoneAt = &now
	emit(types.StatusDone)
	return nil
}

// awaitSettled polls the route service until the transfer reaches a
// terminal status. Transient poll failures back off exponentially; a
// stop request resolves with (nil, nil).
func (x *Executor) awaitSettled(ctx context.Context, step *types.Step, txHash string, settings *types.ExecutionSettings) (*client.StatusResponse, error) {
	pollInterval := time.Duration(settings.StatusPollSeconds) * time.Second
	retries := 0

	for {
		if x.Stopped() {
			return nil, nil
		}

		status, err := x.api.Status(ctx, step.Tool, step.Action.FromChainID, step.Action.ToChainID, txHash)
		if err != nil {
			if retries++; retries > maxStatusRetries {
				return nil, errors.Annotatef(err, "status poll gave up after %d retries", maxStatusRetries)
			}
			log.Debugf("status poll for %s failed, retrying: %v", txHash, err)
			if !x.wait(ctx, calculateBackoff(retries)) {
				return nil, errors.Trace(ctx.Err())
			}
			continue
		}
		retries = 0

		switch status.Status {
		case types.StatusDone:
			return status, nil
		case types.StatusFailed:
			return nil, errors.Errorf("transfer %s failed: %s", txHash, status.StatusNote)
		}

		if !x.wait(ctx, pollInterval) {
			return nil, errors.Trace(ctx.Err())
		}
	}
}

// wait sleeps for d unless the context is cancelled; a stop request also
// wakes it so Stop never blocks on a full poll interval.
func (x *Executor) wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-x.stopCh:
		return true
	case <-t.C:
		return true
	}
}

func (x *Executor) appendProcess(execution *types.Execution, processType string) *types.Process {
	process := &types.Process{
		Type:      processType,
		Status:    types.StatusPending,
		StartedAt: time.Now(),
	}
	execution.Process = append(execution.Process, process)
	return process
}

func (x *Executor) doneProcess(process *types.Process) {
	now := time.Now()
	process.Status = types.StatusDone
	process.DoneAt = &now
}

func (x *Executor) failProcess(process *types.Process, err error) {
	now := time.Now()
	process.Status = types.StatusFailed
	process.Error = err.Error()
	process.DoneAt = &now
}

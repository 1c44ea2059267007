package runtime

import (
	"context"

	"github.com/chainroute/chainroute/types"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

/**
 * executeSteps drives the route's steps strictly in order. Completed
 * steps are skipped, each step's input amount is chained from the
 * previous step's realized output, and a fresh executor is dispatched per
 * step. The loop observes cancellation at step boundaries only: a
 * concurrent Stop removes the registration and the next checkpoint read
 * aborts the loop without touching remaining steps.
 */
func (e *engine) executeSteps(ctx context.Context, signer types.Signer, route *types.Route, settings *types.ExecutionSettings) (*types.Route, error) {
	if data := e.reg.get(route.ID); data == nil {
		data = newExecutionData(route, settings)
		data.advancing = true
		if err := e.reg.register(route.ID, data); err != nil {
			// lost a concurrent start race; the other invocation owns the id
			log.Debugf("route %s registered concurrently, ignoring", route.ID)
			return route, nil
		}
		e.collector.RouteStarted()
	} else {
		// resume path: claim the entry first, so interleaved Resume calls
		// cannot both advance the same step; keep the executors already
		// recorded and adopt the freshly merged settings
		if !e.reg.tryAcquire(route.ID) {
			log.Debugf("route %s already advancing, ignoring", route.ID)
			return route, nil
		}
		if err := e.reg.setSettings(route.ID, settings); err != nil {
			return route, nil
		}
	}
	defer e.reg.release(route.ID)

	for i, step := range route.Steps {
		// stop checkpoint
		if !e.reg.exists(route.ID) {
			return route, nil
		}

		if step.Execution != nil && step.Execution.Status == types.StatusDone {
			continue
		}

		// amount chaining: the realized output of the previous step
		// replaces the quoted input of this one
		if i > 0 {
			if prev := route.Steps[i-1].Execution; prev != nil && prev.ToAmount != "" {
				step.Action.FromAmount = prev.ToAmount
			}
		}

		executor := e.effectiveSettings(route.ID, settings).ExecutorFactory()
		if err := e.reg.appendExecutor(route.ID, executor); err != nil {
			// registration vanished between checkpoint and dispatch
			return route, nil
		}

		onUpdate := func(s *types.Step, execution *types.Execution) {
			s.Execution = execution
			e.notify(route)
		}

		err := executor.Execute(ctx, signer, step, onUpdate, e.effectiveSettings(route.ID, settings))
		if err != nil {
			// a step failure aborts the whole route: signal executors,
			// deregister and re-raise; completed-step state stays on the
			// route object for a future Resume
			e.stopExecutors(route.ID)
			e.reg.remove(route.ID)
			e.deleteSnapshot(route.ID)
			e.collector.StepExecuted(string(types.StatusFailed))
			e.collector.RouteFailed()
			return route, errors.Trace(types.NewStepError(route.ID, i, step, err))
		}

		if executor.Stopped() {
			// halted, not failed: the registration stays so Resume can
			// detect the stopped executor. An explicit Stop during the
			// step already deregistered and cleaned up, so skip both.
			if e.reg.exists(route.ID) {
				e.saveSnapshot(ctx, route)
				e.collector.RouteHalted()
			}
			return route, nil
		}

		e.collector.StepExecuted(string(types.StatusDone))
		e.saveSnapshot(ctx, route)
	}

	e.reg.remove(route.ID)
	e.deleteSnapshot(route.ID)
	e.collector.RouteCompleted()
	return route, nil
}

// effectiveSettings prefers the registry's current settings so that
// UpdateExecutionSettings takes effect mid-route.
func (e *engine) effectiveSettings(id string, fallback *types.ExecutionSettings) *types.ExecutionSettings {
	if settings := e.reg.settings(id); settings != nil {
		return settings
	}
	return fallback
}

// notify invokes the caller's update callback with the live route. The
// callback runs inline with state mutation; panics are contained so a
// misbehaving callback cannot kill the sequencing loop.
func (e *engine) notify(route *types.Route) {
	settings := e.reg.settings(route.ID)
	if settings == nil || settings.UpdateCallback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("route %s update callback panic: %v", route.ID, r)
		}
	}()
	settings.UpdateCallback(route)
}

package runtime

import (
	"context"

	"github.com/chainroute/chainroute/metrics"
	"github.com/chainroute/chainroute/store"
	"github.com/chainroute/chainroute/types"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

func NewEngine(store store.Store, opts *types.EngineOptions) types.Engine {
	return newEngine(store, opts)
}

type engine struct {
	reg       *registry
	store     store.Store
	factory   types.ExecutorFactory
	collector *metrics.Collector
}

func newEngine(store store.Store, opts *types.EngineOptions) *engine {
	e := &engine{}
	e.reg = newRegistry()
	e.store = store
	e.factory = opts.ExecutorFactory
	e.collector = metrics.NewCollector()
	return e
}

// Metrics exposes the engine's Prometheus collector for scraping.
func (e *engine) Metrics() *metrics.Collector {
	return e.collector
}

func (e *engine) Execute(ctx context.Context, signer types.Signer, route *types.Route, opts ...types.ExecutionOption) (*types.Route, error) {
	if err := route.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if e.reg.exists(route.ID) {
		// an execution already owns this id; callers can check via ActiveRoute
		log.Debugf("route %s already executing, ignoring", route.ID)
		return route, nil
	}

	settings, err := e.newSettings(opts...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return e.executeSteps(ctx, signer, route, settings)
}

func (e *engine) Resume(ctx context.Context, signer types.Signer, route *types.Route, opts ...types.ExecutionOption) (*types.Route, error) {
	if err := route.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if e.reg.exists(route.ID) && !e.anyStopped(route.ID) {
		// still actively advancing, nothing to resume
		return route, nil
	}

	settings, err := e.newSettings(opts...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return e.executeSteps(ctx, signer, route, settings)
}

func (e *engine) Stop(route *types.Route) *types.Route {
	if route == nil {
		return nil
	}
	if !e.reg.exists(route.ID) {
		return route
	}

	e.stopExecutors(route.ID)
	e.reg.remove(route.ID)
	e.deleteSnapshot(route.ID)
	e.collector.RouteHalted()
	e.collector.RouteDeregistered()
	return route
}

func (e *engine) MoveToBackground(route *types.Route) *types.Route {
	if route == nil {
		return nil
	}
	if !e.reg.exists(route.ID) {
		return route
	}

	// keep the registration: the route stays execution-owned while in
	// background, so Execute/Resume on it remain no-ops
	e.stopExecutors(route.ID)
	return route
}

func (e *engine) UpdateExecutionSettings(route *types.Route, opts ...types.ExecutionOption) error {
	if route == nil {
		return errors.NotValidf("nil route")
	}
	settings, err := e.newSettings(opts...)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(e.reg.setSettings(route.ID, settings))
}

func (e *engine) ActiveRoutes() []*types.Route {
	return e.reg.routes()
}

func (e *engine) ActiveRoute(id string) (*types.Route, bool) {
	data := e.reg.get(id)
	if data == nil {
		return nil, false
	}
	return data.route, true
}

func (e *engine) ReloadRoutes(ctx context.Context) ([]*types.Route, error) {
	routes, err := e.store.ListRoutes(ctx)
	return routes, errors.Trace(err)
}

func (e *engine) Close() error {
	return errors.Trace(e.store.Close())
}

// newSettings merges caller options against defaults and falls back to
// the engine-wide executor factory.
func (e *engine) newSettings(opts ...types.ExecutionOption) (*types.ExecutionSettings, error) {
	settings := types.NewExecutionSettings(opts...)
	if settings.ExecutorFactory == nil {
		settings.ExecutorFactory = e.factory
	}
	if settings.ExecutorFactory == nil {
		return nil, errors.NotValidf("engine without step executor factory")
	}
	return settings, nil
}

func (e *engine) anyStopped(id string) bool {
	for _, executor := range e.reg.executorSnapshot(id) {
		if executor.Stopped() {
			return true
		}
	}
	return false
}

func (e *engine) stopExecutors(id string) {
	for _, executor := range e.reg.executorSnapshot(id) {
		executor.Stop()
	}
}

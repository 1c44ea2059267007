package types

import "context"

type Engine interface {
	/**
	 * Execute runs all pending steps of the route in order, blocking until
	 * the route completes, fails, or is stopped. If the route id is already
	 * registered the call is a no-op and returns the route unchanged; use
	 * ActiveRoute to find out whether an execution is in flight.
	 */
	Execute(ctx context.Context, signer Signer, route *Route, opts ...ExecutionOption) (*Route, error)
	/**
	 * Resume continues a halted route from its first non-DONE step. If the
	 * route is registered and none of its executors were stopped there is
	 * nothing to resume and the route is returned unchanged. A route that
	 * is not registered at all (e.g. after a failure, or reloaded from the
	 * store) is re-entered from scratch; completed steps are skipped.
	 */
	Resume(ctx context.Context, signer Signer, route *Route, opts ...ExecutionOption) (*Route, error)
	/**
	 * Stop signals every executor of the route to halt and removes the
	 * registration. In-flight transactions are not cancelled; the loop
	 * stops at the next step boundary. No-op if not registered.
	 */
	Stop(route *Route) *Route

	/**
	 * MoveToBackground signals the route's executors to stop producing
	 * further progress but keeps the registration, so the route cannot be
	 * started or resumed while conceptually in background.
	 */
	MoveToBackground(route *Route) *Route

	/**
	 * UpdateExecutionSettings replaces the effective settings of an active
	 * route. Returns a not-found error if the route is not registered.
	 */
	UpdateExecutionSettings(route *Route, opts ...ExecutionOption) error

	ActiveRoutes() []*Route
	ActiveRoute(id string) (*Route, bool)

	/**
	 * ReloadRoutes loads route snapshots persisted by earlier executions
	 * (halted or interrupted) from the store. The returned routes are not
	 * registered; pass them to Resume to continue them.
	 */
	ReloadRoutes(ctx context.Context) ([]*Route, error)

	Close() error
}

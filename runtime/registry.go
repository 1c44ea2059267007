package runtime

import (
	"sync"

	"github.com/chainroute/chainroute/types"
	"github.com/juju/errors"
)

// executionData is the registry entry for one active route: the shared
// Route reference, every step executor created so far (for stop
// propagation), and the effective settings. Exclusively owned by the
// registry entry; all access goes through registry methods so that
// read-modify-write on one entry is mutually exclusive with the
// sequencing loop's checkpoint reads.
type executionData struct {
	route     *types.Route
	executors []types.StepExecutor
	settings  *types.ExecutionSettings

	// true while a sequencing loop owns the entry; cleared on halt so
	// Resume can claim it again
	advancing bool
}

func newExecutionData(route *types.Route, settings *types.ExecutionSettings) *executionData {
	return &executionData{
		route:     route,
		executors: make([]types.StepExecutor, 0, len(route.Steps)),
		settings:  settings,
	}
}

// registry maps route id to executionData. Presence of an entry means the
// route is execution-owned: actively running, in background, or halted
// but not cleaned up. At most one entry per route id.
type registry struct {
	mu      sync.Mutex
	entries map[string]*executionData
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*executionData)}
}

func (r *registry) register(id string, data *executionData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return errors.AlreadyExistsf("route id: %s", id)
	}
	r.entries[id] = data
	return nil
}

func (r *registry) exists(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.entries[id]
	return exists
}

func (r *registry) get(id string) *executionData {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.entries[id]
}

// remove deletes the entry; idempotent.
func (r *registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
}

func (r *registry) routes() []*types.Route {
	r.mu.Lock()
	defer r.mu.Unlock()

	routes := make([]*types.Route, 0, len(r.entries))
	for _, data := range r.entries {
		routes = append(routes, data.route)
	}
	return routes
}

func (r *registry) appendExecutor(id string, executor types.StepExecutor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.entries[id]
	if !exists {
		return errors.NotFoundf("route id: %s", id)
	}
	data.executors = append(data.executors, executor)
	return nil
}

// executorSnapshot returns a copy of the executor list so callers can
// signal stop without holding the registry lock.
func (r *registry) executorSnapshot(id string) []types.StepExecutor {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.entries[id]
	if !exists {
		return nil
	}
	executors := make([]types.StepExecutor, len(data.executors))
	copy(executors, data.executors)
	return executors
}

// tryAcquire claims the entry for a sequencing loop. It fails when the
// entry is missing or another loop is already advancing the route, so
// two interleaved Resume calls can never both dispatch the same step.
func (r *registry) tryAcquire(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.entries[id]
	if !exists || data.advancing {
		return false
	}
	data.advancing = true
	return true
}

// release gives the claim back; idempotent, and a no-op once the entry
// has been removed.
func (r *registry) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if data, exists := r.entries[id]; exists {
		data.advancing = false
	}
}

func (r *registry) settings(id string) *types.ExecutionSettings {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.entries[id]
	if !exists {
		return nil
	}
	return data.settings
}

func (r *registry) setSettings(id string, settings *types.ExecutionSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.entries[id]
	if !exists {
		return errors.NotFoundf("route id: %s", id)
	}
	data.settings = settings
	return nil
}

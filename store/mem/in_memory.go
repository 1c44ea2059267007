package mem

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/chainroute/chainroute/store"
	"github.com/chainroute/chainroute/types"
	"github.com/juju/errors"
)

var (
	_ store.Store = &memStore{}
)

func NewMemStore() store.Store {
	return &memStore{
		m: make(map[string][]byte),
		// setup no error as default
		mockErrHandler: defaultNoErr,
	}
}

// NewMemStoreWithErrHandler injects a hook returning the error every
// operation should surface; used to exercise persistence failure paths.
func NewMemStoreWithErrHandler(errHandler func() error) store.Store {
	return &memStore{
		m:              make(map[string][]byte),
		mockErrHandler: errHandler,
	}
}

func defaultNoErr() error {
	return nil
}

/**
 * memStore is a snapshot store based on pure memory, it aims to provide a
 * method for debug & testing. NEVER use it in the Production!
 */
type memStore struct {
	mu sync.Mutex

	mockErrHandler func() error

	m map[string][]byte
}

func (m *memStore) String() string {
	s := "\n----------\n"
	for id, value := range m.m {
		s += fmt.Sprintf("%s: %s\n", id, string(value))
	}
	s += "----------\n"
	return s
}

func (m *memStore) SaveRoute(ctx context.Context, route *types.Route) error {
	b, err := json.Marshal(route)
	if err != nil {
		return errors.Trace(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.m[route.ID] = b
	return m.mockErrHandler()
}

func (m *memStore) LoadRoute(ctx context.Context, id string) (*types.Route, error) {
	m.mu.Lock()
	b, exists := m.m[id]
	m.mu.Unlock()

	if err := m.mockErrHandler(); err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	route := &types.Route{}
	if err := json.Unmarshal(b, route); err != nil {
		return nil, errors.Trace(err)
	}
	return route, nil
}

func (m *memStore) DeleteRoute(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.m, id)
	return m.mockErrHandler()
}

func (m *memStore) ListRoutes(ctx context.Context) ([]*types.Route, error) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.m))
	for id := range m.m {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	sort.Strings(ids)

	routes := make([]*types.Route, 0, len(ids))
	for _, id := range ids {
		route, err := m.LoadRoute(ctx, id)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if route != nil {
			routes = append(routes, route)
		}
	}
	return routes, m.mockErrHandler()
}

func (m *memStore) Close() error {
	return nil
}

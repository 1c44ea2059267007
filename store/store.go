package store

import (
	"context"

	"github.com/chainroute/chainroute/types"
)

// Store persists route snapshots so halted or interrupted executions can
// be reloaded and resumed after a restart. The engine saves a snapshot
// after every completed step and on halt, and deletes it once the route
// finishes or is explicitly stopped.
type Store interface {
	SaveRoute(ctx context.Context, route *types.Route) error
	/**
	 * LoadRoute returns (nil, nil) when no snapshot exists for id.
	 */
	LoadRoute(ctx context.Context, id string) (*types.Route, error)
	/**
	 * DeleteRoute removes the snapshot for id.
	 * Deleting an unknown id would NOT return error.
	 */
	DeleteRoute(ctx context.Context, id string) error

	ListRoutes(ctx context.Context) ([]*types.Route, error)

	Close() error
}

package runtime

import (
	"context"

	"github.com/chainroute/chainroute/types"
	log "github.com/sirupsen/logrus"
)

// Snapshot persistence is best-effort: a store failure must not abort a
// route that is otherwise progressing, so errors are logged and dropped.

func (e *engine) saveSnapshot(ctx context.Context, route *types.Route) {
	if err := e.store.SaveRoute(ctx, route); err != nil {
		log.Errorf("route %s failed to save snapshot: %v", route.ID, err)
	}
}

func (e *engine) deleteSnapshot(id string) {
	if err := e.store.DeleteRoute(context.Background(), id); err != nil {
		log.Errorf("route %s failed to delete snapshot: %v", id, err)
	}
}

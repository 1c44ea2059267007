package mem

import (
	"context"
	"testing"

	"github.com/chainroute/chainroute/types"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotRoute(id string) *types.Route {
	return &types.Route{
		ID: id,
		Steps: []*types.Step{
			{
				ID:        "s0",
				Type:      types.StepSwap,
				Tool:      "uniswap",
				Action:    types.Action{FromChainID: 1, ToChainID: 1, FromAmount: "100"},
				Execution: &types.Execution{Status: types.StatusDone, ToAmount: "98"},
			},
		},
	}
}

func TestMemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	loaded, err := s.LoadRoute(ctx, "r1")
	assert.Nil(t, err)
	assert.Nil(t, loaded)

	require.Nil(t, s.SaveRoute(ctx, snapshotRoute("r1")))

	loaded, err = s.LoadRoute(ctx, "r1")
	require.Nil(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "r1", loaded.ID)
	assert.Equal(t, types.StatusDone, loaded.Steps[0].Execution.Status)
	assert.Equal(t, "98", loaded.Steps[0].Execution.ToAmount)

	assert.Nil(t, s.DeleteRoute(ctx, "r1"))
	loaded, err = s.LoadRoute(ctx, "r1")
	assert.Nil(t, err)
	assert.Nil(t, loaded)

	// deleting an unknown id would NOT return error
	assert.Nil(t, s.DeleteRoute(ctx, "r1"))
}

func TestMemStoreListOrdered(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.Nil(t, s.SaveRoute(ctx, snapshotRoute("r2")))
	require.Nil(t, s.SaveRoute(ctx, snapshotRoute("r1")))
	require.Nil(t, s.SaveRoute(ctx, snapshotRoute("r3")))

	routes, err := s.ListRoutes(ctx)
	require.Nil(t, err)
	require.Len(t, routes, 3)
	assert.Equal(t, "r1", routes[0].ID)
	assert.Equal(t, "r2", routes[1].ID)
	assert.Equal(t, "r3", routes[2].ID)
}

func TestMemStoreErrHandler(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")
	s := NewMemStoreWithErrHandler(func() error { return boom })

	assert.Equal(t, boom, errors.Cause(s.SaveRoute(ctx, snapshotRoute("r1"))))
	_, err := s.LoadRoute(ctx, "r1")
	assert.Equal(t, boom, errors.Cause(err))
	assert.Equal(t, boom, errors.Cause(s.DeleteRoute(ctx, "r1")))
}

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chainroute/chainroute/types"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		RequestTimeout: 5 * time.Second,
	}
}

func validStep() *types.Step {
	return &types.Step{
		ID:   "s0",
		Type: types.StepCross,
		Tool: "hop",
		Action: types.Action{
			FromChainID: 1,
			ToChainID:   137,
			FromAmount:  "1000",
		},
	}
}

func TestConfigValidate(t *testing.T) {
	assert.Nil(t, testConfig("https://api.example.com").Validate())
	assert.True(t, errors.IsNotValid(testConfig("").Validate()))

	cfg := testConfig("https://api.example.com")
	cfg.RequestTimeout = 0
	assert.True(t, errors.IsNotValid(cfg.Validate()))
}

func TestRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/routes", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		req := &RoutesRequest{}
		require.Nil(t, json.NewDecoder(r.Body).Decode(req))
		assert.Equal(t, 1, req.FromChainID)
		assert.Equal(t, "1000", req.FromAmount)

		json.NewEncoder(w).Encode(&RoutesResponse{
			Routes: []*types.Route{{ID: "quoted-1", Steps: []*types.Step{validStep()}}},
		})
	}))
	defer server.Close()

	c, err := New(testConfig(server.URL))
	require.Nil(t, err)

	resp, err := c.Routes(context.Background(), &RoutesRequest{
		FromChainID: 1,
		ToChainID:   137,
		FromToken:   "0xusdc",
		ToToken:     "0xusdc",
		FromAmount:  "1000",
	})
	require.Nil(t, err)
	require.Len(t, resp.Routes, 1)
	assert.Equal(t, "quoted-1", resp.Routes[0].ID)
}

func TestStepTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/steps/transaction", r.URL.Path)
		json.NewEncoder(w).Encode(&types.TransactionRequest{
			ChainID: 1,
			To:      "0xbridge",
			Data:    "0xcalldata",
			Value:   "0",
		})
	}))
	defer server.Close()

	c, err := New(testConfig(server.URL))
	require.Nil(t, err)

	tx, err := c.StepTransaction(context.Background(), validStep())
	require.Nil(t, err)
	assert.Equal(t, "0xbridge", tx.To)
	assert.Equal(t, "0xcalldata", tx.Data)

	// malformed steps are rejected before any request goes out
	_, err = c.StepTransaction(context.Background(), &types.Step{})
	assert.True(t, errors.IsNotValid(errors.Cause(err)))
}

func TestStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		// reserved characters in parameters must survive the round trip
		assert.Equal(t, "hop&v2", r.URL.Query().Get("bridge"))
		assert.Equal(t, "0xsent", r.URL.Query().Get("txHash"))
		json.NewEncoder(w).Encode(&StatusResponse{
			Status:   types.StatusDone,
			ToAmount: "970",
			TxHash:   "0xdst",
		})
	}))
	defer server.Close()

	c, err := New(testConfig(server.URL))
	require.Nil(t, err)

	status, err := c.Status(context.Background(), "hop&v2", 1, 137, "0xsent")
	require.Nil(t, err)
	assert.Equal(t, types.StatusDone, status.Status)
	assert.Equal(t, "970", status.ToAmount)

	_, err = c.Status(context.Background(), "hop", 1, 137, "")
	assert.True(t, errors.IsNotValid(errors.Cause(err)))
}

func TestErrorStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/routes":
			http.Error(w, "no routes found", http.StatusNotFound)
		default:
			http.Error(w, "backend exploded", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	c, err := New(testConfig(server.URL))
	require.Nil(t, err)

	_, err = c.Routes(context.Background(), &RoutesRequest{})
	assert.True(t, errors.IsNotFound(errors.Cause(err)))

	_, err = c.Status(context.Background(), "hop", 1, 137, "0xsent")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "backend exploded")
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chainroute/chainroute/types"
	"github.com/google/uuid"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

// Client talks to the remote route/quote service. The engine treats it as
// an opaque request/response collaborator: it asks for possible routes,
// per-step transaction payloads and cross-chain transfer status.
type Client struct {
	cfg  *Config
	http *http.Client
}

func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		var err error
		if cfg, err = ConfigFromEnv(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.RequestTimeout},
	}, nil
}

// RoutesRequest describes the transfer the caller wants quoted.
type RoutesRequest struct {
	FromChainID int     `json:"fromChainId"`
	ToChainID   int     `json:"toChainId"`
	FromToken   string  `json:"fromTokenAddress"`
	ToToken     string  `json:"toTokenAddress"`
	FromAmount  string  `json:"fromAmount"`
	FromAddress string  `json:"fromAddress,omitempty"`
	ToAddress   string  `json:"toAddress,omitempty"`
	Slippage    float64 `json:"slippage,omitempty"`
}

type RoutesResponse struct {
	Routes []*types.Route `json:"routes"`
}

// StatusResponse reports the destination-chain state of a cross-chain
// transfer identified by its sending transaction.
type StatusResponse struct {
	Status     types.Status `json:"status"`
	TxHash     string       `json:"txHash,omitempty"`
	ToAmount   string       `json:"toAmount,omitempty"`
	Substatus  string       `json:"substatus,omitempty"`
	StatusNote string       `json:"statusNote,omitempty"`
}

// Routes returns the possible routes for the requested transfer.
func (c *Client) Routes(ctx context.Context, req *RoutesRequest) (*RoutesResponse, error) {
	resp := &RoutesResponse{}
	if err := c.post(ctx, "/routes", req, resp); err != nil {
		return nil, errors.Trace(err)
	}
	return resp, nil
}

// StepTransaction returns the transaction payload for one step.
func (c *Client) StepTransaction(ctx context.Context, step *types.Step) (*types.TransactionRequest, error) {
	if err := step.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	tx := &types.TransactionRequest{}
	if err := c.post(ctx, "/steps/transaction", step, tx); err != nil {
		return nil, errors.Trace(err)
	}
	return tx, nil
}

// Status polls the transfer status of a cross-chain step by the hash of
// its sending transaction.
func (c *Client) Status(ctx context.Context, tool string, fromChainID, toChainID int, txHash string) (*StatusResponse, error) {
	if txHash == "" {
		return nil, errors.NotValidf("empty tx hash")
	}
	query := url.Values{}
	query.Set("bridge", tool)
	query.Set("fromChain", strconv.Itoa(fromChainID))
	query.Set("toChain", strconv.Itoa(toChainID))
	query.Set("txHash", txHash)
	path := "/status?" + query.Encode()
	resp := &StatusResponse{}
	if err := c.get(ctx, path, resp); err != nil {
		return nil, errors.Trace(err)
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return errors.Trace(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return errors.Trace(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return errors.Trace(err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.APIKey)
	}

	log.Debugf("%s %s request %s", req.Method, req.URL.Path, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Annotatef(err, "request %s failed", requestID)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Annotatef(err, "request %s read body", requestID)
	}
	if resp.StatusCode == http.StatusNotFound {
		return errors.NotFoundf("%s %s", req.Method, req.URL.Path)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Annotatef(err, "request %s decode response", requestID)
	}
	return nil
}

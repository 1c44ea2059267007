package balance

import (
	"context"
	"sync"

	"github.com/chainroute/chainroute/types"
	"github.com/gammazero/workerpool"
	"github.com/juju/errors"
)

// ChainReader reads one token balance from a chain. Implementations wrap
// whatever RPC access the host application already has.
type ChainReader interface {
	TokenBalance(ctx context.Context, token types.Token, wallet string) (string, error)
}

// Balance is a token paired with the wallet's current amount in base units.
type Balance struct {
	types.Token
	Amount string `json:"amount"`
}

// Service answers token balance queries for a wallet. It is unrelated to
// execution sequencing; the engine never consults it.
type Service struct {
	reader      ChainReader
	concurrency int
}

func NewService(reader ChainReader, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Service{reader: reader, concurrency: concurrency}
}

// TokenBalance fetches the balance of a single token.
func (s *Service) TokenBalance(ctx context.Context, wallet string, token types.Token) (*Balance, error) {
	amount, err := s.reader.TokenBalance(ctx, token, wallet)
	if err != nil {
		return nil, errors.Annotatef(err, "balance of %s on chain %d", token.Symbol, token.ChainID)
	}
	return &Balance{Token: token, Amount: amount}, nil
}

/**
 * TokenBalances fans one query per token out over a bounded worker pool
 * and returns balances in the order of the requested tokens. A failed
 * query fails the whole call; partial results are not returned.
 */
func (s *Service) TokenBalances(ctx context.Context, wallet string, tokens []types.Token) ([]*Balance, error) {
	if wallet == "" {
		return nil, errors.NotValidf("empty wallet address")
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	wp := workerpool.New(s.concurrency)
	balances := make([]*Balance, len(tokens))

	var mu sync.Mutex
	var retErr error

	for i, token := range tokens {
		i, token := i, token
		wp.Submit(func() {
			balance, err := s.TokenBalance(ctx, wallet, token)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				retErr = errors.Wrapf(retErr, err, "failed on %s", token.Symbol)
				return
			}
			balances[i] = balance
		})
	}
	wp.StopWait()

	if retErr != nil {
		return nil, errors.Trace(retErr)
	}
	return balances, nil
}

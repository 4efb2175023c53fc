// Package router picks the best execution venue for a swap request from the
// pools discovery returns.
package router

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/Solana-ZH/poolscout/pkg"
	"github.com/Solana-ZH/poolscout/pkg/sol"
)

// Tie-break bonuses, in output-token raw units. Small enough to only decide
// between near-identical quotes.
const (
	stablePairBonus = 1000
	clmmBonus       = 100
)

// PoolDirectory is the discovery surface the selector consumes.
type PoolDirectory interface {
	FindPools(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]pkg.PoolInfo, error)
}

// PoolSelector quotes a request against every discovered pool and picks the
// winner by output amount.
type PoolSelector struct {
	pools  PoolDirectory
	engine pkg.QuoteCalculator
}

func NewPoolSelector(pools PoolDirectory, engine pkg.QuoteCalculator) *PoolSelector {
	return &PoolSelector{pools: pools, engine: engine}
}

// SelectBestPool returns the quote with the highest output amount, or nil
// when no pool exists or every quote attempt failed. Neither end state is an
// error.
func (s *PoolSelector) SelectBestPool(ctx context.Context, req pkg.QuoteRequest) (*pkg.QuoteResult, error) {
	quotes, err := s.AllQuotes(ctx, req)
	if err != nil {
		return nil, err
	}
	return bestQuote(quotes), nil
}

// AllQuotes discovers the pair's pools and prices the request against each.
// Pools whose quote calculation fails are skipped with a debug log.
func (s *PoolSelector) AllQuotes(ctx context.Context, req pkg.QuoteRequest) ([]pkg.QuoteResult, error) {
	pools, err := s.pools.FindPools(ctx, req.TokenIn, req.TokenOut)
	if err != nil {
		return nil, err
	}

	quotes := make([]pkg.QuoteResult, 0, len(pools))
	for _, pool := range pools {
		quote, err := s.engine.CalculateQuote(pool, req)
		if err != nil {
			log.Debug().Err(err).Stringer("pool", pool.Address).Msg("skipping pool, quote unavailable")
			continue
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// TypedQuotes groups quotes for one pair by pool design.
type TypedQuotes struct {
	ByType map[pkg.PoolType][]pkg.QuoteResult
	Counts map[pkg.PoolType]int
	// BestByType holds each design's highest-output quote.
	BestByType map[pkg.PoolType]*pkg.QuoteResult
	Best       *pkg.QuoteResult
}

// QuotesByType prices the request against every pool and reports the results
// grouped per design, with the per-design and overall winners.
func (s *PoolSelector) QuotesByType(ctx context.Context, req pkg.QuoteRequest) (*TypedQuotes, error) {
	quotes, err := s.AllQuotes(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &TypedQuotes{
		ByType:     make(map[pkg.PoolType][]pkg.QuoteResult),
		Counts:     make(map[pkg.PoolType]int),
		BestByType: make(map[pkg.PoolType]*pkg.QuoteResult),
	}
	for _, quote := range quotes {
		t := quote.Pool.PoolType
		out.ByType[t] = append(out.ByType[t], quote)
		out.Counts[t]++
	}
	for t, list := range out.ByType {
		out.BestByType[t] = bestQuote(list)
	}
	out.Best = bestQuote(quotes)
	return out, nil
}

// bestQuote picks the maximum by amount_out plus the flat design bonus, nil
// for an empty list.
func bestQuote(quotes []pkg.QuoteResult) *pkg.QuoteResult {
	var best *pkg.QuoteResult
	var bestRank uint64
	for i := range quotes {
		rank := quotes[i].AmountOut + rankBonus(quotes[i].Pool)
		if best == nil || rank > bestRank {
			best = &quotes[i]
			bestRank = rank
		}
	}
	return best
}

// rankBonus favors stable pools on recognized stablecoin pairs and
// concentrated pools generally.
func rankBonus(pool pkg.PoolInfo) uint64 {
	switch pool.PoolType {
	case pkg.PoolTypeStable:
		if sol.IsStableSymbol(pool.TokenA.Symbol) && sol.IsStableSymbol(pool.TokenB.Symbol) {
			return stablePairBonus
		}
		return 0
	case pkg.PoolTypeCLMM:
		return clmmBonus
	default:
		return 0
	}
}

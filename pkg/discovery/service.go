package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Solana-ZH/poolscout/pkg"
)

// Service fans a pair query out over every pool design, aggregates whatever
// succeeded, and memoizes the ranked result. One design's failure costs only
// that design's pools.
type Service struct {
	finders []pkg.PoolFinder
	cache   *Cache
	scorer  *Scorer

	// minLiquidityUSD drops dust pools from results; 0 disables the filter.
	minLiquidityUSD float64
}

// NewService builds a Service over the given finders. ttl bounds cache
// freshness, minLiquidityUSD filters dust pools.
func NewService(finders []pkg.PoolFinder, ttl time.Duration, minLiquidityUSD float64) *Service {
	return &Service{
		finders:         finders,
		cache:           NewCache(ttl),
		scorer:          NewScorer(),
		minLiquidityUSD: minLiquidityUSD,
	}
}

// FindPools returns every tradable pool for the pair, best ranked first.
// Cached results are served until their TTL lapses.
func (s *Service) FindPools(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]pkg.PoolInfo, error) {
	if pools, ok := s.cache.Get(tokenA, tokenB); ok {
		return pools, nil
	}

	pools := s.collect(ctx, func(ctx context.Context, f pkg.PoolFinder) ([]pkg.PoolInfo, error) {
		return f.FindPools(ctx, tokenA, tokenB)
	})

	s.scorer.SortByScore(pools)
	s.cache.Set(tokenA, tokenB, pools)
	return pools, nil
}

// FindPoolsByToken returns every tradable pool holding mint on either side.
// Results are not cached; single-token scans are an exploratory surface.
func (s *Service) FindPoolsByToken(ctx context.Context, mint solana.PublicKey) ([]pkg.PoolInfo, error) {
	pools := s.collect(ctx, func(ctx context.Context, f pkg.PoolFinder) ([]pkg.PoolInfo, error) {
		return f.FindPoolsByToken(ctx, mint)
	})
	s.scorer.SortByScore(pools)
	return pools, nil
}

// Invalidate drops the cached result for the pair in both orderings.
func (s *Service) Invalidate(tokenA, tokenB solana.PublicKey) {
	s.cache.Invalidate(tokenA, tokenB)
}

// collect runs query against every finder concurrently and aggregates the
// successful results. A failing design logs a warning and contributes zero
// pools; it never aborts the others.
func (s *Service) collect(ctx context.Context, query func(context.Context, pkg.PoolFinder) ([]pkg.PoolInfo, error)) []pkg.PoolInfo {
	var (
		mu    sync.Mutex
		pools []pkg.PoolInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, finder := range s.finders {
		finder := finder
		g.Go(func() error {
			found, err := query(gctx, finder)
			if err != nil {
				log.Warn().Err(err).Stringer("design", finder.PoolType()).Msg("pool scan failed, continuing without this design")
				return nil
			}
			mu.Lock()
			pools = append(pools, s.filter(found)...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return pools
}

func (s *Service) filter(pools []pkg.PoolInfo) []pkg.PoolInfo {
	if s.minLiquidityUSD <= 0 {
		return pools
	}
	kept := pools[:0]
	for _, pool := range pools {
		if pool.LiquidityUSD < s.minLiquidityUSD {
			log.Debug().Stringer("pool", pool.Address).Float64("liquidity_usd", pool.LiquidityUSD).Msg("dropping pool below liquidity floor")
			continue
		}
		kept = append(kept, pool)
	}
	return kept
}

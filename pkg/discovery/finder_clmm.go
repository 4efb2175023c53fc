package discovery

import (
	"context"
	"math"
	"math/big"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Solana-ZH/poolscout/pkg"
	"github.com/Solana-ZH/poolscout/pkg/layout"
	"github.com/Solana-ZH/poolscout/pkg/sol"
)

// ClmmFinder discovers concentrated-liquidity pools. Candidate accounts are
// decoded and resolved concurrently since each one needs its own metadata
// lookups.
type ClmmFinder struct {
	scanner  pkg.AccountScanner
	resolver pkg.MetadataResolver
}

func NewClmmFinder(scanner pkg.AccountScanner, resolver pkg.MetadataResolver) *ClmmFinder {
	return &ClmmFinder{scanner: scanner, resolver: resolver}
}

func (f *ClmmFinder) PoolType() pkg.PoolType { return pkg.PoolTypeCLMM }

func (f *ClmmFinder) FindPools(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]pkg.PoolInfo, error) {
	accounts, err := scanBothOrders(ctx, f.scanner, sol.ClmmProgramID, layout.ClmmSpan,
		layout.ClmmMint0Offset, layout.ClmmMint1Offset, tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	return f.buildPools(ctx, accounts), nil
}

func (f *ClmmFinder) FindPoolsByToken(ctx context.Context, mint solana.PublicKey) ([]pkg.PoolInfo, error) {
	accounts, err := scanEitherSlot(ctx, f.scanner, sol.ClmmProgramID, layout.ClmmSpan,
		layout.ClmmMint0Offset, layout.ClmmMint1Offset, mint)
	if err != nil {
		return nil, err
	}
	return f.buildPools(ctx, accounts), nil
}

func (f *ClmmFinder) buildPools(ctx context.Context, accounts []pkg.KeyedAccount) []pkg.PoolInfo {
	var (
		mu    sync.Mutex
		pools []pkg.PoolInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, acct := range accounts {
		acct := acct
		g.Go(func() error {
			pool, ok := f.buildPool(gctx, acct)
			if ok {
				mu.Lock()
				pools = append(pools, pool)
				mu.Unlock()
			}
			return nil
		})
	}
	// Workers never return errors; skipped candidates are logged in place.
	_ = g.Wait()
	return pools
}

func (f *ClmmFinder) buildPool(ctx context.Context, acct pkg.KeyedAccount) (pkg.PoolInfo, bool) {
	var l layout.ClmmLayout
	if err := l.Decode(acct.Data); err != nil {
		log.Debug().Err(err).Stringer("pool", acct.Address).Msg("skipping undecodable clmm account")
		return pkg.PoolInfo{}, false
	}
	if !l.HasLiquidity() {
		log.Debug().Stringer("pool", acct.Address).Msg("skipping clmm pool with zero liquidity")
		return pkg.PoolInfo{}, false
	}

	token0, err := f.resolver.Resolve(ctx, l.TokenMint0)
	if err != nil {
		log.Debug().Err(err).Stringer("mint", l.TokenMint0).Msg("skipping clmm pool, metadata unavailable")
		return pkg.PoolInfo{}, false
	}
	token1, err := f.resolver.Resolve(ctx, l.TokenMint1)
	if err != nil {
		log.Debug().Err(err).Stringer("mint", l.TokenMint1).Msg("skipping clmm pool, metadata unavailable")
		return pkg.PoolInfo{}, false
	}

	reserve0, reserve1 := clmmVirtualReserves(l)
	liquidityUSD := estimateLiquidityUSD(token0, token1, reserve0, reserve1)
	pool, err := pkg.NewPoolInfo(pkg.PoolTypeCLMM, acct.Address, token0, token1,
		liquidityUSD, 0, l.FeeRate(), sol.ClmmProgramID,
		pkg.CLMMState{
			CurrentTick: l.CurrentTick,
			TickSpacing: l.TickSpacing,
			Liquidity:   l.Liquidity,
			FeeTierBps:  l.FeeTierBps(),
		})
	if err != nil {
		log.Debug().Err(err).Stringer("pool", acct.Address).Msg("skipping inconsistent clmm pool")
		return pkg.PoolInfo{}, false
	}
	return pool, true
}

// clmmVirtualReserves derives approximate token amounts from the active-tick
// liquidity: x = L / sqrt(P), y = L * sqrt(P), with sqrt(P) read from the
// Q64.64 sqrt-price field. Only used for the USD liquidity estimate.
func clmmVirtualReserves(l layout.ClmmLayout) (float64, float64) {
	liquidity, _ := new(big.Float).SetInt(l.Liquidity.Big()).Float64()
	sqrtPriceQ, _ := new(big.Float).SetInt(l.SqrtPrice.Big()).Float64()
	sqrtPrice := sqrtPriceQ / math.Pow(2, 64)
	if sqrtPrice <= 0 || liquidity <= 0 {
		return 0, 0
	}
	return liquidity / sqrtPrice, liquidity * sqrtPrice
}

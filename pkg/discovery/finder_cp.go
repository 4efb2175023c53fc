package discovery

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/Solana-ZH/poolscout/pkg"
	"github.com/Solana-ZH/poolscout/pkg/layout"
	"github.com/Solana-ZH/poolscout/pkg/sol"
)

// cpDefaultFeeRate is the common CP-swap trade fee tier. The actual rate
// lives in the pool's shared AmmConfig account, which discovery does not
// fetch per pool.
const cpDefaultFeeRate = 0.0025

// CpFinder discovers CP-swap pools.
type CpFinder struct {
	scanner  pkg.AccountScanner
	resolver pkg.MetadataResolver
}

func NewCpFinder(scanner pkg.AccountScanner, resolver pkg.MetadataResolver) *CpFinder {
	return &CpFinder{scanner: scanner, resolver: resolver}
}

func (f *CpFinder) PoolType() pkg.PoolType { return pkg.PoolTypeStandard }

func (f *CpFinder) FindPools(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]pkg.PoolInfo, error) {
	accounts, err := scanBothOrders(ctx, f.scanner, sol.CpSwapProgramID, layout.CpSwapSpan,
		layout.CpMint0Offset, layout.CpMint1Offset, tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	return f.buildPools(ctx, accounts), nil
}

func (f *CpFinder) FindPoolsByToken(ctx context.Context, mint solana.PublicKey) ([]pkg.PoolInfo, error) {
	accounts, err := scanEitherSlot(ctx, f.scanner, sol.CpSwapProgramID, layout.CpSwapSpan,
		layout.CpMint0Offset, layout.CpMint1Offset, mint)
	if err != nil {
		return nil, err
	}
	return f.buildPools(ctx, accounts), nil
}

func (f *CpFinder) buildPools(ctx context.Context, accounts []pkg.KeyedAccount) []pkg.PoolInfo {
	pools := make([]pkg.PoolInfo, 0, len(accounts))
	for _, acct := range accounts {
		pool, ok := f.buildPool(ctx, acct)
		if ok {
			pools = append(pools, pool)
		}
	}
	return pools
}

func (f *CpFinder) buildPool(ctx context.Context, acct pkg.KeyedAccount) (pkg.PoolInfo, bool) {
	var l layout.CpSwapLayout
	if err := l.Decode(acct.Data); err != nil {
		log.Debug().Err(err).Stringer("pool", acct.Address).Msg("skipping undecodable cp-swap account")
		return pkg.PoolInfo{}, false
	}
	if !l.IsActive() {
		log.Debug().Stringer("pool", acct.Address).Uint8("status", l.Status).Msg("skipping inactive cp-swap pool")
		return pkg.PoolInfo{}, false
	}

	reserve0 := sol.VaultBalance(ctx, f.scanner, l.Token0Vault)
	reserve1 := sol.VaultBalance(ctx, f.scanner, l.Token1Vault)
	if reserve0 == 0 || reserve1 == 0 {
		log.Debug().Stringer("pool", acct.Address).Msg("skipping cp-swap pool with empty reserves")
		return pkg.PoolInfo{}, false
	}

	token0, err := f.resolver.Resolve(ctx, l.Token0Mint)
	if err != nil {
		log.Debug().Err(err).Stringer("mint", l.Token0Mint).Msg("skipping cp-swap pool, metadata unavailable")
		return pkg.PoolInfo{}, false
	}
	token1, err := f.resolver.Resolve(ctx, l.Token1Mint)
	if err != nil {
		log.Debug().Err(err).Stringer("mint", l.Token1Mint).Msg("skipping cp-swap pool, metadata unavailable")
		return pkg.PoolInfo{}, false
	}

	liquidityUSD := estimateLiquidityUSD(token0, token1, float64(reserve0), float64(reserve1))
	pool, err := pkg.NewPoolInfo(pkg.PoolTypeStandard, acct.Address, token0, token1,
		liquidityUSD, 0, cpDefaultFeeRate, sol.CpSwapProgramID,
		pkg.StandardState{ReserveA: reserve0, ReserveB: reserve1})
	if err != nil {
		log.Debug().Err(err).Stringer("pool", acct.Address).Msg("skipping inconsistent cp-swap pool")
		return pkg.PoolInfo{}, false
	}
	return pool, true
}

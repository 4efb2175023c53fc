package discovery

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/Solana-ZH/poolscout/pkg"
	"github.com/Solana-ZH/poolscout/pkg/layout"
	"github.com/Solana-ZH/poolscout/pkg/sol"
)

// StableFinder discovers amplified stable-pair pools.
type StableFinder struct {
	scanner  pkg.AccountScanner
	resolver pkg.MetadataResolver

	// now feeds the amplification ramp interpolation.
	now func() time.Time
}

func NewStableFinder(scanner pkg.AccountScanner, resolver pkg.MetadataResolver) *StableFinder {
	return &StableFinder{scanner: scanner, resolver: resolver, now: time.Now}
}

func (f *StableFinder) PoolType() pkg.PoolType { return pkg.PoolTypeStable }

func (f *StableFinder) FindPools(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]pkg.PoolInfo, error) {
	accounts, err := scanBothOrders(ctx, f.scanner, sol.StableProgramID, layout.StableSpan,
		layout.StableMintAOffset, layout.StableMintBOffset, tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	return f.buildPools(ctx, accounts), nil
}

func (f *StableFinder) FindPoolsByToken(ctx context.Context, mint solana.PublicKey) ([]pkg.PoolInfo, error) {
	accounts, err := scanEitherSlot(ctx, f.scanner, sol.StableProgramID, layout.StableSpan,
		layout.StableMintAOffset, layout.StableMintBOffset, mint)
	if err != nil {
		return nil, err
	}
	return f.buildPools(ctx, accounts), nil
}

func (f *StableFinder) buildPools(ctx context.Context, accounts []pkg.KeyedAccount) []pkg.PoolInfo {
	pools := make([]pkg.PoolInfo, 0, len(accounts))
	for _, acct := range accounts {
		pool, ok := f.buildPool(ctx, acct)
		if ok {
			pools = append(pools, pool)
		}
	}
	return pools
}

func (f *StableFinder) buildPool(ctx context.Context, acct pkg.KeyedAccount) (pkg.PoolInfo, bool) {
	var l layout.StableLayout
	if err := l.Decode(acct.Data); err != nil {
		log.Debug().Err(err).Stringer("pool", acct.Address).Msg("skipping undecodable stable account")
		return pkg.PoolInfo{}, false
	}
	if !l.IsTradable() {
		log.Debug().Stringer("pool", acct.Address).Bool("initialized", l.IsInitialized).Bool("paused", l.IsPaused).
			Msg("skipping stable pool not open for trading")
		return pkg.PoolInfo{}, false
	}

	reserveA := sol.VaultBalance(ctx, f.scanner, l.TokenAccountA)
	reserveB := sol.VaultBalance(ctx, f.scanner, l.TokenAccountB)
	if reserveA == 0 || reserveB == 0 {
		log.Debug().Stringer("pool", acct.Address).Msg("skipping stable pool with empty reserves")
		return pkg.PoolInfo{}, false
	}

	amp := l.CurrentAmp(f.now().Unix())
	if amp == 0 {
		log.Debug().Stringer("pool", acct.Address).Msg("skipping stable pool with zero amplification")
		return pkg.PoolInfo{}, false
	}

	tokenA, err := f.resolver.Resolve(ctx, l.TokenMintA)
	if err != nil {
		log.Debug().Err(err).Stringer("mint", l.TokenMintA).Msg("skipping stable pool, metadata unavailable")
		return pkg.PoolInfo{}, false
	}
	tokenB, err := f.resolver.Resolve(ctx, l.TokenMintB)
	if err != nil {
		log.Debug().Err(err).Stringer("mint", l.TokenMintB).Msg("skipping stable pool, metadata unavailable")
		return pkg.PoolInfo{}, false
	}

	liquidityUSD := estimateLiquidityUSD(tokenA, tokenB, float64(reserveA), float64(reserveB))
	pool, err := pkg.NewPoolInfo(pkg.PoolTypeStable, acct.Address, tokenA, tokenB,
		liquidityUSD, 0, l.TradeFeeRate(), sol.StableProgramID,
		pkg.StableState{Reserves: [2]uint64{reserveA, reserveB}, AmpFactor: amp})
	if err != nil {
		log.Debug().Err(err).Stringer("pool", acct.Address).Msg("skipping inconsistent stable pool")
		return pkg.PoolInfo{}, false
	}
	return pool, true
}

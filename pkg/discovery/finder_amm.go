package discovery

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/Solana-ZH/poolscout/pkg"
	"github.com/Solana-ZH/poolscout/pkg/layout"
	"github.com/Solana-ZH/poolscout/pkg/sol"
)

// AmmFinder discovers AMM v4 pools.
type AmmFinder struct {
	scanner  pkg.AccountScanner
	resolver pkg.MetadataResolver
}

func NewAmmFinder(scanner pkg.AccountScanner, resolver pkg.MetadataResolver) *AmmFinder {
	return &AmmFinder{scanner: scanner, resolver: resolver}
}

func (f *AmmFinder) PoolType() pkg.PoolType { return pkg.PoolTypeAMM }

func (f *AmmFinder) FindPools(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]pkg.PoolInfo, error) {
	accounts, err := scanBothOrders(ctx, f.scanner, sol.AmmV4ProgramID, layout.AmmV4Span,
		layout.AmmCoinMintOffset, layout.AmmPcMintOffset, tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	return f.buildPools(ctx, accounts), nil
}

func (f *AmmFinder) FindPoolsByToken(ctx context.Context, mint solana.PublicKey) ([]pkg.PoolInfo, error) {
	accounts, err := scanEitherSlot(ctx, f.scanner, sol.AmmV4ProgramID, layout.AmmV4Span,
		layout.AmmCoinMintOffset, layout.AmmPcMintOffset, mint)
	if err != nil {
		return nil, err
	}
	return f.buildPools(ctx, accounts), nil
}

func (f *AmmFinder) buildPools(ctx context.Context, accounts []pkg.KeyedAccount) []pkg.PoolInfo {
	pools := make([]pkg.PoolInfo, 0, len(accounts))
	for _, acct := range accounts {
		pool, ok := f.buildPool(ctx, acct)
		if ok {
			pools = append(pools, pool)
		}
	}
	return pools
}

func (f *AmmFinder) buildPool(ctx context.Context, acct pkg.KeyedAccount) (pkg.PoolInfo, bool) {
	var l layout.AmmV4Layout
	if err := l.Decode(acct.Data); err != nil {
		log.Debug().Err(err).Stringer("pool", acct.Address).Msg("skipping undecodable amm account")
		return pkg.PoolInfo{}, false
	}
	if !l.IsEnabled() {
		log.Debug().Stringer("pool", acct.Address).Uint64("status", l.Status).Msg("skipping amm pool not enabled for trading")
		return pkg.PoolInfo{}, false
	}

	// Some deployed pools carry swapped vault/mint fields. Trust reserves
	// only when each vault's embedded mint agrees with the declared mint.
	reserveCoin, ok := sol.VaultBalanceChecked(ctx, f.scanner, l.CoinVault, l.CoinMint)
	if !ok {
		log.Debug().Stringer("pool", acct.Address).Stringer("vault", l.CoinVault).Msg("skipping amm pool with mismatched coin vault mint")
		return pkg.PoolInfo{}, false
	}
	reservePc, ok := sol.VaultBalanceChecked(ctx, f.scanner, l.PcVault, l.PcMint)
	if !ok {
		log.Debug().Stringer("pool", acct.Address).Stringer("vault", l.PcVault).Msg("skipping amm pool with mismatched pc vault mint")
		return pkg.PoolInfo{}, false
	}
	if reserveCoin == 0 || reservePc == 0 {
		log.Debug().Stringer("pool", acct.Address).Msg("skipping amm pool with empty reserves")
		return pkg.PoolInfo{}, false
	}

	tokenA, err := f.resolver.Resolve(ctx, l.CoinMint)
	if err != nil {
		log.Debug().Err(err).Stringer("mint", l.CoinMint).Msg("skipping amm pool, coin metadata unavailable")
		return pkg.PoolInfo{}, false
	}
	tokenB, err := f.resolver.Resolve(ctx, l.PcMint)
	if err != nil {
		log.Debug().Err(err).Stringer("mint", l.PcMint).Msg("skipping amm pool, pc metadata unavailable")
		return pkg.PoolInfo{}, false
	}

	liquidityUSD := estimateLiquidityUSD(tokenA, tokenB, float64(reserveCoin), float64(reservePc))
	pool, err := pkg.NewPoolInfo(pkg.PoolTypeAMM, acct.Address, tokenA, tokenB,
		liquidityUSD, 0, l.SwapFeeRate(), sol.AmmV4ProgramID,
		pkg.AMMState{ReserveA: reserveCoin, ReserveB: reservePc, Nonce: uint8(l.Nonce)})
	if err != nil {
		log.Debug().Err(err).Stringer("pool", acct.Address).Msg("skipping inconsistent amm pool")
		return pkg.PoolInfo{}, false
	}
	return pool, true
}

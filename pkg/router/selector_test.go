package router

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Solana-ZH/poolscout/pkg"
	"github.com/Solana-ZH/poolscout/pkg/quote"
	"github.com/Solana-ZH/poolscout/pkg/sol"
)

type stubDirectory struct {
	pools []pkg.PoolInfo
	err   error
}

func (d *stubDirectory) FindPools(context.Context, solana.PublicKey, solana.PublicKey) ([]pkg.PoolInfo, error) {
	return d.pools, d.err
}

// stubEngine returns a canned output amount per pool address.
type stubEngine struct {
	outputs map[solana.PublicKey]uint64
}

func (e *stubEngine) CalculateQuote(pool pkg.PoolInfo, req pkg.QuoteRequest) (pkg.QuoteResult, error) {
	out, ok := e.outputs[pool.Address]
	if !ok {
		return pkg.QuoteResult{}, pkg.ErrInsufficientLiquidity
	}
	return pkg.QuoteResult{
		Pool:      pool,
		AmountIn:  req.AmountIn,
		AmountOut: out,
		TokenIn:   req.TokenIn,
		TokenOut:  req.TokenOut,
	}, nil
}

func pool(poolType pkg.PoolType, symbolA, symbolB string) pkg.PoolInfo {
	return pkg.PoolInfo{
		PoolType: poolType,
		Address:  solana.NewWallet().PublicKey(),
		TokenA:   pkg.TokenInfo{Mint: sol.USDC, Symbol: symbolA},
		TokenB:   pkg.TokenInfo{Mint: sol.USDT, Symbol: symbolB},
	}
}

func TestSelectBestPoolPicksHighestOutput(t *testing.T) {
	worse := pool(pkg.PoolTypeAMM, "SOL", "USDC")
	better := pool(pkg.PoolTypeAMM, "SOL", "USDC")

	selector := NewPoolSelector(
		&stubDirectory{pools: []pkg.PoolInfo{worse, better}},
		&stubEngine{outputs: map[solana.PublicKey]uint64{
			worse.Address:  99_000,
			better.Address: 100_000,
		}},
	)

	best, err := selector.SelectBestPool(context.Background(), pkg.QuoteRequest{AmountIn: 100_000})
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, better.Address, best.Pool.Address)
}

func TestSelectBestPoolStablePairBonus(t *testing.T) {
	amm := pool(pkg.PoolTypeAMM, "USDC", "USDT")
	stable := pool(pkg.PoolTypeStable, "USDC", "USDT")

	// The AMM leads by less than the stable-pair bonus, so the stable pool
	// wins the tie-break.
	selector := NewPoolSelector(
		&stubDirectory{pools: []pkg.PoolInfo{amm, stable}},
		&stubEngine{outputs: map[solana.PublicKey]uint64{
			amm.Address:    100_500,
			stable.Address: 100_000,
		}},
	)

	best, err := selector.SelectBestPool(context.Background(), pkg.QuoteRequest{AmountIn: 100_000})
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, stable.Address, best.Pool.Address)
}

func TestSelectBestPoolStableBonusNeedsStablePair(t *testing.T) {
	amm := pool(pkg.PoolTypeAMM, "SOL", "USDC")
	stable := pool(pkg.PoolTypeStable, "SOL", "USDC")

	selector := NewPoolSelector(
		&stubDirectory{pools: []pkg.PoolInfo{amm, stable}},
		&stubEngine{outputs: map[solana.PublicKey]uint64{
			amm.Address:    100_500,
			stable.Address: 100_000,
		}},
	)

	best, err := selector.SelectBestPool(context.Background(), pkg.QuoteRequest{AmountIn: 100_000})
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, amm.Address, best.Pool.Address)
}

func TestSelectBestPoolClmmBonus(t *testing.T) {
	amm := pool(pkg.PoolTypeAMM, "SOL", "USDC")
	clmm := pool(pkg.PoolTypeCLMM, "SOL", "USDC")

	selector := NewPoolSelector(
		&stubDirectory{pools: []pkg.PoolInfo{amm, clmm}},
		&stubEngine{outputs: map[solana.PublicKey]uint64{
			amm.Address:  100_050,
			clmm.Address: 100_000,
		}},
	)

	best, err := selector.SelectBestPool(context.Background(), pkg.QuoteRequest{AmountIn: 100_000})
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, clmm.Address, best.Pool.Address)
}

func TestSelectBestPoolNoPools(t *testing.T) {
	selector := NewPoolSelector(&stubDirectory{}, quote.NewEngine())

	best, err := selector.SelectBestPool(context.Background(), pkg.QuoteRequest{AmountIn: 1000})
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestSelectBestPoolAllQuotesFailing(t *testing.T) {
	broken := pool(pkg.PoolTypeAMM, "SOL", "USDC")

	selector := NewPoolSelector(
		&stubDirectory{pools: []pkg.PoolInfo{broken}},
		&stubEngine{}, // no canned output: every quote fails
	)

	best, err := selector.SelectBestPool(context.Background(), pkg.QuoteRequest{AmountIn: 1000})
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestSelectBestPoolDiscoveryError(t *testing.T) {
	selector := NewPoolSelector(&stubDirectory{err: errors.New("rpc down")}, quote.NewEngine())

	_, err := selector.SelectBestPool(context.Background(), pkg.QuoteRequest{AmountIn: 1000})
	assert.Error(t, err)
}

func TestSelectBestPoolSkipsFailingQuotes(t *testing.T) {
	broken := pool(pkg.PoolTypeAMM, "SOL", "USDC")
	healthy := pool(pkg.PoolTypeAMM, "SOL", "USDC")

	selector := NewPoolSelector(
		&stubDirectory{pools: []pkg.PoolInfo{broken, healthy}},
		&stubEngine{outputs: map[solana.PublicKey]uint64{healthy.Address: 42}},
	)

	best, err := selector.SelectBestPool(context.Background(), pkg.QuoteRequest{AmountIn: 1000})
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, healthy.Address, best.Pool.Address)
}

func TestQuotesByType(t *testing.T) {
	amm1 := pool(pkg.PoolTypeAMM, "SOL", "USDC")
	amm2 := pool(pkg.PoolTypeAMM, "SOL", "USDC")
	stable := pool(pkg.PoolTypeStable, "USDC", "USDT")

	selector := NewPoolSelector(
		&stubDirectory{pools: []pkg.PoolInfo{amm1, amm2, stable}},
		&stubEngine{outputs: map[solana.PublicKey]uint64{
			amm1.Address:   90,
			amm2.Address:   95,
			stable.Address: 80,
		}},
	)

	typed, err := selector.QuotesByType(context.Background(), pkg.QuoteRequest{AmountIn: 100})
	require.NoError(t, err)

	assert.Equal(t, 2, typed.Counts[pkg.PoolTypeAMM])
	assert.Equal(t, 1, typed.Counts[pkg.PoolTypeStable])
	assert.Len(t, typed.ByType[pkg.PoolTypeAMM], 2)

	require.NotNil(t, typed.BestByType[pkg.PoolTypeAMM])
	assert.Equal(t, amm2.Address, typed.BestByType[pkg.PoolTypeAMM].Pool.Address)
	require.NotNil(t, typed.Best)
	// The stable pool's pair bonus (+1000) outweighs the raw lead.
	assert.Equal(t, stable.Address, typed.Best.Pool.Address)
}

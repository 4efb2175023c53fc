package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Solana-ZH/poolscout/pkg"
)

func TestEngineDispatch(t *testing.T) {
	engine := NewEngine()
	req := pkg.QuoteRequest{TokenIn: mintA, TokenOut: mintB, AmountIn: 10_000}

	pools := []pkg.PoolInfo{
		ammPool(1_000_000, 1_000_000, 0.0025),
		stablePool(1_000_000, 1_000_000, 1000, 0.0004),
		clmmPool(0, 1_000_000_000_000, 0.0025),
	}
	for _, pool := range pools {
		quote, err := engine.CalculateQuote(pool, req)
		require.NoError(t, err, "type %s", pool.PoolType)
		assert.NotZero(t, quote.AmountOut, "type %s", pool.PoolType)
		assert.Equal(t, pool.Address, quote.Pool.Address)
	}
}

func TestEngineStandardUsesConstantProduct(t *testing.T) {
	engine := NewEngine()
	req := pkg.QuoteRequest{TokenIn: mintA, TokenOut: mintB, AmountIn: 1000}

	standard := ammPool(1_000_000, 1_000_000, 0.0025)
	standard.PoolType = pkg.PoolTypeStandard
	standard.State = pkg.StandardState{ReserveA: 1_000_000, ReserveB: 1_000_000}

	stdQuote, err := engine.CalculateQuote(standard, req)
	require.NoError(t, err)
	ammQuote, err := engine.CalculateQuote(ammPool(1_000_000, 1_000_000, 0.0025), req)
	require.NoError(t, err)

	assert.Equal(t, ammQuote.AmountOut, stdQuote.AmountOut)
}

func TestEngineRejectsMismatchedState(t *testing.T) {
	engine := NewEngine()

	pool := ammPool(1_000_000, 1_000_000, 0.0025)
	pool.PoolType = pkg.PoolTypeCLMM

	_, err := engine.CalculateQuote(pool, pkg.QuoteRequest{TokenIn: mintA, TokenOut: mintB, AmountIn: 1000})
	assert.ErrorIs(t, err, pkg.ErrInvalidPoolState)
}

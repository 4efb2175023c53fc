package pkg

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// TokenInfo describes one side of a pool. Immutable once resolved.
type TokenInfo struct {
	Mint     solana.PublicKey
	Symbol   string
	Name     string
	Decimals uint8
}

// PoolState is a closed tagged union over the four pool designs. The variant
// must agree with the owning PoolInfo's PoolType; consumers observing a
// mismatch fail with ErrInvalidPoolState rather than coerce.
type PoolState interface {
	PoolType() PoolType
	sealed()
}

// AMMState holds constant-product vault balances for the AMM v4 design.
type AMMState struct {
	ReserveA uint64
	ReserveB uint64
	Nonce    uint8
}

// StableState holds StableSwap vault balances and the current amplification.
type StableState struct {
	Reserves  [2]uint64
	AmpFactor uint64
}

// CLMMState holds concentrated-liquidity pool state.
type CLMMState struct {
	CurrentTick int32
	TickSpacing uint16
	Liquidity   uint128.Uint128
	FeeTierBps  uint32
}

// StandardState holds constant-product vault balances for the CP-swap design.
type StandardState struct {
	ReserveA uint64
	ReserveB uint64
}

func (AMMState) PoolType() PoolType      { return PoolTypeAMM }
func (StableState) PoolType() PoolType   { return PoolTypeStable }
func (CLMMState) PoolType() PoolType     { return PoolTypeCLMM }
func (StandardState) PoolType() PoolType { return PoolTypeStandard }

func (AMMState) sealed()      {}
func (StableState) sealed()   {}
func (CLMMState) sealed()     {}
func (StandardState) sealed() {}

// PoolInfo is a point-in-time snapshot of one discovered pool. Reserves are
// never mutated; a fresh discovery produces a new PoolInfo.
type PoolInfo struct {
	PoolType     PoolType
	Address      solana.PublicKey
	TokenA       TokenInfo
	TokenB       TokenInfo
	LiquidityUSD float64
	Volume24hUSD float64
	// FeeRate is a fraction (0.0025 = 25 bps), not bps.
	FeeRate   float64
	ProgramID solana.PublicKey
	State     PoolState
}

// NewPoolInfo constructs a PoolInfo, rejecting state/type mismatches at the
// single boundary where the pair is assembled.
func NewPoolInfo(poolType PoolType, address solana.PublicKey, tokenA, tokenB TokenInfo,
	liquidityUSD, volume24hUSD, feeRate float64, programID solana.PublicKey, state PoolState) (PoolInfo, error) {

	p := PoolInfo{
		PoolType:     poolType,
		Address:      address,
		TokenA:       tokenA,
		TokenB:       tokenB,
		LiquidityUSD: liquidityUSD,
		Volume24hUSD: volume24hUSD,
		FeeRate:      feeRate,
		ProgramID:    programID,
		State:        state,
	}
	if err := p.Validate(); err != nil {
		return PoolInfo{}, err
	}
	return p, nil
}

// Validate checks that the state variant matches the declared pool type.
func (p PoolInfo) Validate() error {
	if p.State == nil {
		return fmt.Errorf("pool %s: missing state: %w", p.Address, ErrInvalidPoolState)
	}
	if p.State.PoolType() != p.PoolType {
		return fmt.Errorf("pool %s: state variant %s does not match pool type %s: %w",
			p.Address, p.State.PoolType(), p.PoolType, ErrInvalidPoolState)
	}
	return nil
}

// HasToken reports whether mint is one of the pool's two sides.
func (p PoolInfo) HasToken(mint solana.PublicKey) bool {
	return p.TokenA.Mint.Equals(mint) || p.TokenB.Mint.Equals(mint)
}

// QuoteRequest describes one desired swap.
type QuoteRequest struct {
	TokenIn  solana.PublicKey
	TokenOut solana.PublicKey
	// AmountIn is in the input token's smallest units.
	AmountIn uint64
	// SlippageBps bounds the tolerated output shortfall, 0..10000.
	SlippageBps uint16
}

// QuoteResult is a priced swap against one pool. Derived, never cached.
type QuoteResult struct {
	Pool         PoolInfo
	AmountIn     uint64
	AmountOut    uint64
	MinAmountOut uint64
	// PriceImpact is a percentage, reported as a positive magnitude for any
	// nontrivial trade.
	PriceImpact float64
	// Fee is in input-token units.
	Fee      uint64
	Route    []solana.PublicKey
	TokenIn  solana.PublicKey
	TokenOut solana.PublicKey
}

// PoolScore is the scorer's ranking record, consumed immediately for ordering.
type PoolScore struct {
	Pool           PoolInfo
	Score          float64
	LiquidityScore float64
	VolumeScore    float64
	TypeBonus      float64
}

// NewPoolScore derives the composite score from its components.
func NewPoolScore(pool PoolInfo, liquidityScore, volumeScore, typeBonus float64) PoolScore {
	return PoolScore{
		Pool:           pool,
		Score:          (liquidityScore*0.6 + volumeScore*0.4) * typeBonus,
		LiquidityScore: liquidityScore,
		VolumeScore:    volumeScore,
		TypeBonus:      typeBonus,
	}
}

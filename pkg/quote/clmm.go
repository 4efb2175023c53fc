package quote

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"github.com/Solana-ZH/poolscout/pkg"
)

// sqrtIterations is enough Newton steps to converge sqrt to well below one
// raw token unit across the representable tick range.
const sqrtIterations = 10

// tickBase is the concentrated-liquidity price ratio per tick, 1.0001.
var tickBase = math.LegacyMustNewDecFromStr("1.0001")

// ConcentratedCalculator prices swaps on concentrated-liquidity pools using a
// single-tick approximation: the quote assumes the active tick's liquidity
// covers the whole trade and does not walk tick boundaries.
type ConcentratedCalculator struct{}

func NewConcentratedCalculator() *ConcentratedCalculator {
	return &ConcentratedCalculator{}
}

func (c *ConcentratedCalculator) CalculateQuote(pool pkg.PoolInfo, req pkg.QuoteRequest) (pkg.QuoteResult, error) {
	if err := pool.Validate(); err != nil {
		return pkg.QuoteResult{}, err
	}
	st, ok := pool.State.(pkg.CLMMState)
	if !ok {
		return pkg.QuoteResult{}, fmt.Errorf("pool %s: state is not concentrated: %w", pool.Address, pkg.ErrInvalidPoolState)
	}

	var aToB bool
	switch {
	case req.TokenIn.Equals(pool.TokenA.Mint) && req.TokenOut.Equals(pool.TokenB.Mint):
		aToB = true
	case req.TokenIn.Equals(pool.TokenB.Mint) && req.TokenOut.Equals(pool.TokenA.Mint):
		aToB = false
	default:
		return pkg.QuoteResult{}, fmt.Errorf("pool %s does not trade %s -> %s: %w",
			pool.Address, req.TokenIn, req.TokenOut, pkg.ErrInvalidTokenMint)
	}

	if st.Liquidity.IsZero() {
		return pkg.QuoteResult{}, fmt.Errorf("pool %s: no active liquidity: %w", pool.Address, pkg.ErrInsufficientLiquidity)
	}
	if req.AmountIn == 0 {
		return zeroQuote(pool, req), nil
	}

	feeRate, err := decFromFloat(pool.FeeRate)
	if err != nil {
		return pkg.QuoteResult{}, err
	}

	liquidity := math.LegacyNewDecFromBigInt(st.Liquidity.Big())
	price := tickPrice(st.CurrentTick)
	sqrtPrice := decSqrt(price)

	amountIn := decFromUint64(req.AmountIn)
	netIn := amountIn.Mul(math.LegacyOneDec().Sub(feeRate))
	delta := netIn.Quo(liquidity)

	// Token A trades move sqrt(P) down, token B trades move it up.
	var outDec math.LegacyDec
	if aToB {
		newSqrt := sqrtPrice.Sub(delta)
		if !newSqrt.IsPositive() {
			return pkg.QuoteResult{}, fmt.Errorf("pool %s: trade exhausts tick range: %w", pool.Address, pkg.ErrInsufficientLiquidity)
		}
		outDec = liquidity.Mul(math.LegacyOneDec().Quo(newSqrt).Sub(math.LegacyOneDec().Quo(sqrtPrice)))
	} else {
		newSqrt := sqrtPrice.Add(delta)
		outDec = liquidity.Mul(newSqrt.Sub(sqrtPrice))
	}

	amountOut, err := floorToUint64(outDec)
	if err != nil {
		return pkg.QuoteResult{}, err
	}
	fee, err := floorToUint64(amountIn.Mul(feeRate))
	if err != nil {
		return pkg.QuoteResult{}, err
	}

	return pkg.QuoteResult{
		Pool:         pool,
		AmountIn:     req.AmountIn,
		AmountOut:    amountOut,
		MinAmountOut: minAmountOut(amountOut, req.SlippageBps),
		PriceImpact:  tickImpact(price, amountIn, outDec, aToB),
		Fee:          fee,
		Route:        []solana.PublicKey{pool.Address},
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
	}, nil
}

// tickPrice computes 1.0001^tick by binary exponentiation, exact in decimal
// arithmetic for the whole supported tick range.
func tickPrice(tick int32) math.LegacyDec {
	exp := int64(tick)
	invert := exp < 0
	if invert {
		exp = -exp
	}

	result := math.LegacyOneDec()
	base := tickBase
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exp >>= 1
	}
	if invert {
		return math.LegacyOneDec().Quo(result)
	}
	return result
}

// decSqrt approximates sqrt(v) with Newton iterations: s' = (s + v/s) / 2.
func decSqrt(v math.LegacyDec) math.LegacyDec {
	if !v.IsPositive() {
		return math.LegacyZeroDec()
	}
	s := v.Add(math.LegacyOneDec()).QuoInt64(2)
	for i := 0; i < sqrtIterations; i++ {
		s = s.Add(v.Quo(s)).QuoInt64(2)
	}
	return s
}

// tickImpact compares the execution price against the active-tick spot price.
// The A-side execution price is in/out; the B side inverts it back into the
// pool's A-denominated price.
func tickImpact(price, amountIn, amountOut math.LegacyDec, aToB bool) float64 {
	if amountIn.IsZero() || amountOut.IsZero() {
		return 0
	}
	var exec math.LegacyDec
	if aToB {
		exec = amountOut.Quo(amountIn)
	} else {
		exec = amountIn.Quo(amountOut)
	}
	impact := price.Sub(exec).Abs().Quo(price).MulInt64(100)
	v, err := impact.Float64()
	if err != nil {
		return 0
	}
	return v
}

// Package quote prices swap requests against discovered pools, one bonding
// curve per pool design. All amount arithmetic runs in arbitrary-precision
// decimals and is floored back to integer token amounts at the boundary.
package quote

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"github.com/Solana-ZH/poolscout/pkg"
)

func decFromUint64(v uint64) math.LegacyDec {
	return math.LegacyNewDecFromInt(math.NewIntFromUint64(v))
}

// decFromFloat converts a float fee or rate into a decimal, failing with
// ErrMathOverflow when the value has no finite decimal form.
func decFromFloat(v float64) (math.LegacyDec, error) {
	d, err := math.LegacyNewDecFromStr(strconv.FormatFloat(v, 'f', -1, 64))
	if err != nil {
		return math.LegacyDec{}, fmt.Errorf("rate %v: %w", v, pkg.ErrMathOverflow)
	}
	return d, nil
}

// floorToUint64 truncates a decimal amount to integer token units. Negative
// values floor to 0; values beyond uint64 fail with ErrMathOverflow.
func floorToUint64(d math.LegacyDec) (uint64, error) {
	if d.IsNegative() {
		return 0, nil
	}
	i := d.TruncateInt()
	if !i.IsUint64() {
		return 0, fmt.Errorf("amount %s: %w", i, pkg.ErrMathOverflow)
	}
	return i.Uint64(), nil
}

// minAmountOut applies the slippage bound exactly:
// floor(amountOut * (10000 - slippageBps) / 10000).
func minAmountOut(amountOut uint64, slippageBps uint16) uint64 {
	if slippageBps >= 10000 {
		return 0
	}
	out := math.NewIntFromUint64(amountOut)
	return out.MulRaw(int64(10000 - slippageBps)).QuoRaw(10000).Uint64()
}

// zeroQuote is the valid quote for a zero input amount.
func zeroQuote(pool pkg.PoolInfo, req pkg.QuoteRequest) pkg.QuoteResult {
	return pkg.QuoteResult{
		Pool:         pool,
		AmountIn:     0,
		AmountOut:    0,
		MinAmountOut: 0,
		PriceImpact:  0,
		Fee:          0,
		Route:        []solana.PublicKey{pool.Address},
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
	}
}

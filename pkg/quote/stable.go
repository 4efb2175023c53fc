package quote

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"github.com/Solana-ZH/poolscout/pkg"
)

const (
	// Two-coin pool: n = 2, ann = amp * n^n.
	stableCoins = 2
	// Newton-Raphson iteration cap. Well-formed pools converge within a
	// handful of steps; the cap only bounds pathological inputs.
	maxStableIterations = 255
)

// stableTolerance is the convergence threshold for both Newton-Raphson
// passes, in raw token units.
var stableTolerance = math.LegacyMustNewDecFromStr("0.0001")

// StableSwapCalculator prices swaps on amplified stable-pair pools using the
// StableSwap invariant: ann*S + D = ann*D + D^(n+1) / (n^n * prod(x_i)).
type StableSwapCalculator struct{}

func NewStableSwapCalculator() *StableSwapCalculator {
	return &StableSwapCalculator{}
}

func (c *StableSwapCalculator) CalculateQuote(pool pkg.PoolInfo, req pkg.QuoteRequest) (pkg.QuoteResult, error) {
	if err := pool.Validate(); err != nil {
		return pkg.QuoteResult{}, err
	}
	st, ok := pool.State.(pkg.StableState)
	if !ok {
		return pkg.QuoteResult{}, fmt.Errorf("pool %s: state is not stable-swap: %w", pool.Address, pkg.ErrInvalidPoolState)
	}

	reserveIn, reserveOut, err := orientReserves(pool, req, st.Reserves[0], st.Reserves[1])
	if err != nil {
		return pkg.QuoteResult{}, err
	}
	if reserveIn == 0 || reserveOut == 0 {
		return pkg.QuoteResult{}, fmt.Errorf("pool %s: empty reserves: %w", pool.Address, pkg.ErrInvalidPoolState)
	}
	if st.AmpFactor == 0 {
		return pkg.QuoteResult{}, fmt.Errorf("pool %s: zero amplification: %w", pool.Address, pkg.ErrInvalidPoolState)
	}
	if req.AmountIn == 0 {
		return zeroQuote(pool, req), nil
	}

	feeRate, err := decFromFloat(pool.FeeRate)
	if err != nil {
		return pkg.QuoteResult{}, err
	}

	amountIn := decFromUint64(req.AmountIn)
	netIn := amountIn.Mul(math.LegacyOneDec().Sub(feeRate))
	xOld := decFromUint64(reserveIn)
	yOld := decFromUint64(reserveOut)
	amp := decFromUint64(st.AmpFactor)

	d := computeD(xOld, yOld, amp)
	yNew := solveY(xOld.Add(netIn), d, amp)
	if yNew.GTE(yOld) {
		return pkg.QuoteResult{}, fmt.Errorf("pool %s: invariant produced no output: %w", pool.Address, pkg.ErrInvalidPoolState)
	}

	outDec := yOld.Sub(yNew)
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
		PriceImpact:  pegImpact(amountIn, outDec),
		Fee:          fee,
		Route:        []solana.PublicKey{pool.Address},
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
	}, nil
}

// computeD finds the invariant D for the current reserves by Newton-Raphson:
//
//	D_{k+1} = D_k * (ann*S + n*D_p) / (D_k*(ann-1) + (n+1)*D_p)
//
// with D_p = D^(n+1) / (n^n * x * y) and S = x + y.
func computeD(x, y, amp math.LegacyDec) math.LegacyDec {
	s := x.Add(y)
	if s.IsZero() {
		return math.LegacyZeroDec()
	}
	ann := amp.MulInt64(stableCoins * stableCoins)
	n := math.LegacyNewDec(stableCoins)

	d := s
	for i := 0; i < maxStableIterations; i++ {
		dp := d.Mul(d).Quo(x.MulInt64(stableCoins))
		dp = dp.Mul(d).Quo(y.MulInt64(stableCoins))

		numerator := d.Mul(ann.Mul(s).Add(dp.Mul(n)))
		denominator := d.Mul(ann.Sub(math.LegacyOneDec())).Add(dp.Mul(n.Add(math.LegacyOneDec())))
		next := numerator.Quo(denominator)

		if next.Sub(d).Abs().LT(stableTolerance) {
			return next
		}
		d = next
	}
	return d
}

// solveY finds the output-side reserve that keeps the invariant at D after
// the input-side reserve moves to x. Reduces to y^2 + y*(b - D) = c with
// c = D^3 / (n^n * x * ann) and b = x + D/ann, iterated as
//
//	y_{k+1} = (y_k^2 + c) / (2*y_k + b - D)
func solveY(x, d, amp math.LegacyDec) math.LegacyDec {
	ann := amp.MulInt64(stableCoins * stableCoins)

	c := d.Mul(d).Quo(x.MulInt64(stableCoins))
	c = c.Mul(d).Quo(ann.MulInt64(stableCoins))
	b := x.Add(d.Quo(ann))

	y := d
	for i := 0; i < maxStableIterations; i++ {
		next := y.Mul(y).Add(c).Quo(y.MulInt64(2).Add(b).Sub(d))
		if next.Sub(y).Abs().LT(stableTolerance) {
			return next
		}
		y = next
	}
	return y
}

// pegImpact measures the execution rate's deviation from the 1:1 peg as a
// percentage, capped at 1.0. Amplified pairs trade near parity, so any
// larger deviation carries no ranking signal.
func pegImpact(amountIn, amountOut math.LegacyDec) float64 {
	if amountIn.IsZero() || amountOut.IsZero() {
		return 0
	}
	deviation := math.LegacyOneDec().Sub(amountOut.Quo(amountIn)).Abs().MulInt64(100)
	v, err := deviation.Float64()
	if err != nil || v > 1.0 {
		return 1.0
	}
	return v
}

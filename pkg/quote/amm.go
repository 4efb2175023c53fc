package quote

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"github.com/Solana-ZH/poolscout/pkg"
)

// ConstantProductCalculator prices swaps on x*y=k pools. It serves both the
// AMM and Standard pool designs, which share the curve and differ only in
// account layout.
type ConstantProductCalculator struct{}

func NewConstantProductCalculator() *ConstantProductCalculator {
	return &ConstantProductCalculator{}
}

func (c *ConstantProductCalculator) CalculateQuote(pool pkg.PoolInfo, req pkg.QuoteRequest) (pkg.QuoteResult, error) {
	if err := pool.Validate(); err != nil {
		return pkg.QuoteResult{}, err
	}

	var reserveA, reserveB uint64
	switch st := pool.State.(type) {
	case pkg.AMMState:
		reserveA, reserveB = st.ReserveA, st.ReserveB
	case pkg.StandardState:
		reserveA, reserveB = st.ReserveA, st.ReserveB
	default:
		return pkg.QuoteResult{}, fmt.Errorf("pool %s: state is not constant-product: %w", pool.Address, pkg.ErrInvalidPoolState)
	}

	reserveIn, reserveOut, err := orientReserves(pool, req, reserveA, reserveB)
	if err != nil {
		return pkg.QuoteResult{}, err
	}
	if reserveIn == 0 || reserveOut == 0 {
		return pkg.QuoteResult{}, fmt.Errorf("pool %s: empty reserves: %w", pool.Address, pkg.ErrInvalidPoolState)
	}
	if req.AmountIn == 0 {
		return zeroQuote(pool, req), nil
	}

	feeRate, err := decFromFloat(pool.FeeRate)
	if err != nil {
		return pkg.QuoteResult{}, err
	}

	// out = reserveOut * netIn / (reserveIn + netIn), netIn = in * (1 - fee)
	amountIn := decFromUint64(req.AmountIn)
	netIn := amountIn.Mul(math.LegacyOneDec().Sub(feeRate))
	rIn := decFromUint64(reserveIn)
	rOut := decFromUint64(reserveOut)
	outDec := rOut.Mul(netIn).Quo(rIn.Add(netIn))

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
		PriceImpact:  spotImpact(rIn, rOut, amountIn, outDec),
		Fee:          fee,
		Route:        []solana.PublicKey{pool.Address},
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
	}, nil
}

// orientReserves maps pool reserves onto the request's swap direction.
func orientReserves(pool pkg.PoolInfo, req pkg.QuoteRequest, reserveA, reserveB uint64) (uint64, uint64, error) {
	switch {
	case req.TokenIn.Equals(pool.TokenA.Mint) && req.TokenOut.Equals(pool.TokenB.Mint):
		return reserveA, reserveB, nil
	case req.TokenIn.Equals(pool.TokenB.Mint) && req.TokenOut.Equals(pool.TokenA.Mint):
		return reserveB, reserveA, nil
	default:
		return 0, 0, fmt.Errorf("pool %s does not trade %s -> %s: %w",
			pool.Address, req.TokenIn, req.TokenOut, pkg.ErrInvalidTokenMint)
	}
}

// spotImpact is the percentage degradation of the execution rate against the
// pre-trade spot rate, 0 when either amount is zero.
func spotImpact(rIn, rOut, amountIn, amountOut math.LegacyDec) float64 {
	if amountIn.IsZero() || amountOut.IsZero() {
		return 0
	}
	spot := rOut.Quo(rIn)
	exec := amountOut.Quo(amountIn)
	impact := math.LegacyOneDec().Sub(exec.Quo(spot)).MulInt64(100)
	if impact.IsNegative() {
		return 0
	}
	v, err := impact.Float64()
	if err != nil {
		return 0
	}
	return v
}

// Package discovery scans the ledger for pools of each supported design,
// filters out untradable ones, prices their liquidity and ranks the results.
package discovery

import (
	"math"

	"github.com/Solana-ZH/poolscout/pkg"
	"github.com/Solana-ZH/poolscout/pkg/sol"
)

// estimateLiquidityUSD values a pool's reserves with the stablecoin-anchored
// heuristic: a side whose mint carries a recognized USD peg is valued at that
// peg, and an unpegged side opposite a pegged one is valued at parity with it
// since both sides of an active pool hold equal value at the marginal price.
// A pool with no pegged side contributes 0. This is a ranking heuristic, not
// an oracle.
func estimateLiquidityUSD(tokenA, tokenB pkg.TokenInfo, rawReserveA, rawReserveB float64) float64 {
	uiA := rawReserveA / math.Pow(10, float64(tokenA.Decimals))
	uiB := rawReserveB / math.Pow(10, float64(tokenB.Decimals))

	pegA, okA := sol.StablecoinPegs[tokenA.Mint]
	pegB, okB := sol.StablecoinPegs[tokenB.Mint]

	switch {
	case okA && okB:
		return uiA*pegA + uiB*pegB
	case okA:
		return 2 * uiA * pegA
	case okB:
		return 2 * uiB * pegB
	default:
		return 0
	}
}

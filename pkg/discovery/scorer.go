package discovery

import (
	"math"
	"sort"

	"github.com/Solana-ZH/poolscout/pkg"
	"github.com/Solana-ZH/poolscout/pkg/sol"
)

// Normalization anchors: a pool at $1M liquidity or $100k daily volume
// saturates its component score.
const (
	liquidityScoreAnchor = 1e6
	volumeScoreAnchor    = 1e5
)

// Scorer ranks pools by a composite of log-normalized liquidity and volume,
// weighted by a per-design bonus. Pure, no I/O.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

func (s *Scorer) ScorePool(pool pkg.PoolInfo) pkg.PoolScore {
	liquidity := logScore(pool.LiquidityUSD, liquidityScoreAnchor)
	volume := logScore(pool.Volume24hUSD, volumeScoreAnchor)
	return pkg.NewPoolScore(pool, liquidity, volume, typeBonus(pool))
}

// SortByScore orders pools best first, in place.
func (s *Scorer) SortByScore(pools []pkg.PoolInfo) {
	sort.SliceStable(pools, func(i, j int) bool {
		return s.ScorePool(pools[i]).Score > s.ScorePool(pools[j]).Score
	})
}

// logScore is clamp(ln(value)/ln(anchor), 0, 1) * 100, 0 for any value <= 0.
func logScore(value, anchor float64) float64 {
	if value <= 0 {
		return 0
	}
	norm := math.Log(value) / math.Log(anchor)
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	return norm * 100
}

func typeBonus(pool pkg.PoolInfo) float64 {
	switch pool.PoolType {
	case pkg.PoolTypeStable:
		if sol.IsStableSymbol(pool.TokenA.Symbol) && sol.IsStableSymbol(pool.TokenB.Symbol) {
			return 1.5
		}
		return 1.2
	case pkg.PoolTypeCLMM:
		return clmmFeeTierBonus(pool)
	case pkg.PoolTypeAMM:
		return 1.0
	case pkg.PoolTypeStandard:
		return 0.9
	default:
		return 1.0
	}
}

// clmmFeeTierBonus favors the tight, heavily traded fee tiers. Uncommon
// tiers still rank above the legacy designs.
func clmmFeeTierBonus(pool pkg.PoolInfo) float64 {
	st, ok := pool.State.(pkg.CLMMState)
	if !ok {
		return 1.1
	}
	switch {
	case st.FeeTierBps <= 1:
		return 1.3
	case st.FeeTierBps <= 5:
		return 1.25
	case st.FeeTierBps <= 30:
		return 1.2
	default:
		return 1.1
	}
}

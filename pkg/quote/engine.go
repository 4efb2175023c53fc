package quote

import (
	"fmt"

	"github.com/Solana-ZH/poolscout/pkg"
)

// Engine routes a quote request to the calculator for the pool's design.
type Engine struct {
	calculators map[pkg.PoolType]pkg.QuoteCalculator
}

func NewEngine() *Engine {
	constantProduct := NewConstantProductCalculator()
	return &Engine{
		calculators: map[pkg.PoolType]pkg.QuoteCalculator{
			pkg.PoolTypeAMM:      constantProduct,
			pkg.PoolTypeStandard: constantProduct,
			pkg.PoolTypeStable:   NewStableSwapCalculator(),
			pkg.PoolTypeCLMM:     NewConcentratedCalculator(),
		},
	}
}

func (e *Engine) CalculateQuote(pool pkg.PoolInfo, req pkg.QuoteRequest) (pkg.QuoteResult, error) {
	calc, ok := e.calculators[pool.PoolType]
	if !ok {
		return pkg.QuoteResult{}, fmt.Errorf("pool %s: no calculator for type %s: %w",
			pool.Address, pool.PoolType, pkg.ErrInvalidPoolState)
	}
	return calc.CalculateQuote(pool, req)
}

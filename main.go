package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Solana-ZH/poolscout/pkg"
	"github.com/Solana-ZH/poolscout/pkg/config"
	"github.com/Solana-ZH/poolscout/pkg/discovery"
	"github.com/Solana-ZH/poolscout/pkg/quote"
	"github.com/Solana-ZH/poolscout/pkg/router"
	"github.com/Solana-ZH/poolscout/pkg/sol"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	client := sol.NewClient(cfg.RPCURL, cfg.MaxConcurrent)
	resolver := sol.NewTokenResolver(client)

	service := discovery.NewService([]pkg.PoolFinder{
		discovery.NewAmmFinder(client, resolver),
		discovery.NewStableFinder(client, resolver),
		discovery.NewClmmFinder(client, resolver),
		discovery.NewCpFinder(client, resolver),
	}, cfg.CacheTTL, cfg.MinLiquidityUSD)

	selector := router.NewPoolSelector(service, quote.NewEngine())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RPCTimeout)
	defer cancel()

	// Price 1 SOL into USDC across every discovered venue.
	req := pkg.QuoteRequest{
		TokenIn:     sol.WSOL,
		TokenOut:    sol.USDC,
		AmountIn:    1_000_000_000,
		SlippageBps: 50,
	}

	best, err := selector.SelectBestPool(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("pool selection failed")
	}
	if best == nil {
		log.Info().Msg("no tradable pools found for the pair")
		return
	}

	log.Info().
		Stringer("pool", best.Pool.Address).
		Stringer("design", best.Pool.PoolType).
		Uint64("amount_in", best.AmountIn).
		Uint64("amount_out", best.AmountOut).
		Uint64("min_amount_out", best.MinAmountOut).
		Float64("price_impact_pct", best.PriceImpact).
		Uint64("fee", best.Fee).
		Msg("best execution venue")
}

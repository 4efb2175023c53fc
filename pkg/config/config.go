// Package config loads runtime settings from the environment, with a .env
// file honored for local development. Real environment variables win over
// .env values.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environment keys.
const (
	EnvRPCURL          = "SOLANA_RPC_URL"
	EnvCacheTTLSeconds = "POOL_CACHE_TTL_SECONDS"
	EnvMinLiquidityUSD = "MIN_LIQUIDITY_USD"
	EnvRPCTimeout      = "RPC_TIMEOUT_SECONDS"
	EnvMaxConcurrent   = "MAX_CONCURRENT_REQUESTS"
)

// Defaults applied when a key is unset or malformed.
const (
	DefaultRPCURL          = "https://api.mainnet-beta.solana.com"
	DefaultCacheTTL        = 30 * time.Second
	DefaultMinLiquidityUSD = 1000.0
	DefaultRPCTimeout      = 30 * time.Second
	DefaultMaxConcurrent   = 10
)

type Config struct {
	RPCURL          string
	CacheTTL        time.Duration
	MinLiquidityUSD float64
	RPCTimeout      time.Duration
	MaxConcurrent   int64
}

// Load reads the configuration from the process environment. A missing .env
// file is not an error.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	return Config{
		RPCURL:          envString(EnvRPCURL, DefaultRPCURL),
		CacheTTL:        envSeconds(EnvCacheTTLSeconds, DefaultCacheTTL),
		MinLiquidityUSD: envFloat(EnvMinLiquidityUSD, DefaultMinLiquidityUSD),
		RPCTimeout:      envSeconds(EnvRPCTimeout, DefaultRPCTimeout),
		MaxConcurrent:   envInt(EnvMaxConcurrent, DefaultMaxConcurrent),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid duration setting")
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid numeric setting")
		return fallback
	}
	return f
}

func envInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid integer setting")
		return fallback
	}
	return n
}

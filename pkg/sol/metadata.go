package sol

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/Solana-ZH/poolscout/pkg"
)

type knownToken struct {
	symbol   string
	name     string
	decimals uint8
}

// Well-known tokens resolved without a mint fetch.
var knownTokens = map[solana.PublicKey]knownToken{
	WSOL: {"SOL", "Wrapped SOL", 9},
	USDC: {"USDC", "USD Coin", 6},
	USDT: {"USDT", "Tether USD", 6},
	USDH: {"USDH", "USDH", 6},
	UXD:  {"UXD", "UXD Stablecoin", 6},
	solana.MustPublicKeyFromBase58("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"): {"BONK", "Bonk", 5},
	solana.MustPublicKeyFromBase58("mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So"):  {"mSOL", "Marinade staked SOL", 9},
	solana.MustPublicKeyFromBase58("7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs"): {"ETH", "Ether (Portal)", 8},
}

// TokenResolver is the default pkg.MetadataResolver: a static table for
// well-known mints, with decimals read from the mint account for everything
// else. Symbol and name fall back to placeholders; decimals are always set.
type TokenResolver struct {
	scanner pkg.AccountScanner
}

func NewTokenResolver(scanner pkg.AccountScanner) *TokenResolver {
	return &TokenResolver{scanner: scanner}
}

func (r *TokenResolver) Resolve(ctx context.Context, mint solana.PublicKey) (pkg.TokenInfo, error) {
	if known, ok := knownTokens[mint]; ok {
		return pkg.TokenInfo{
			Mint:     mint,
			Symbol:   known.symbol,
			Name:     known.name,
			Decimals: known.decimals,
		}, nil
	}
	return pkg.TokenInfo{
		Mint:     mint,
		Symbol:   "UNKNOWN",
		Name:     "Unknown Token",
		Decimals: MintDecimals(ctx, r.scanner, mint),
	}, nil
}

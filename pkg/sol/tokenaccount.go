package sol

import (
	"context"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/Solana-ZH/poolscout/pkg"
)

// SPL token-account sizes. The extended form carries the full account record;
// the reduced form lacks the extension tail.
const (
	TokenAccountSize        = 165
	ReducedTokenAccountSize = 82

	tokenAmountOffset        = 64
	reducedTokenAmountOffset = 32

	mintDecimalsOffset = 44
)

// DecodeTokenAmount reads the u64 balance out of a raw token-account buffer.
// Unknown shapes decode to 0 so an unreadable vault renders the pool
// illiquid rather than failing the batch.
func DecodeTokenAmount(data []byte) uint64 {
	switch {
	case len(data) >= TokenAccountSize:
		return binary.LittleEndian.Uint64(data[tokenAmountOffset : tokenAmountOffset+8])
	case len(data) >= ReducedTokenAccountSize:
		return binary.LittleEndian.Uint64(data[reducedTokenAmountOffset : reducedTokenAmountOffset+8])
	default:
		return 0
	}
}

// DecodeTokenAccountMint reads the mint address embedded at the head of a
// token account. Returns the zero key for a truncated buffer.
func DecodeTokenAccountMint(data []byte) solana.PublicKey {
	if len(data) < 32 {
		return solana.PublicKey{}
	}
	return solana.PublicKeyFromBytes(data[:32])
}

// VaultBalance fetches a vault token account and returns its balance. A
// missing or unreadable vault is balance 0, never an error.
func VaultBalance(ctx context.Context, scanner pkg.AccountScanner, vault solana.PublicKey) uint64 {
	data, err := scanner.GetAccountData(ctx, vault)
	if err != nil {
		log.Debug().Str("vault", vault.String()).Err(err).Msg("vault unreadable, treating balance as 0")
		return 0
	}
	return DecodeTokenAmount(data)
}

// VaultBalanceChecked fetches a vault balance and re-verifies that the
// vault's own embedded mint matches the expected one. Some deployed AMM pools
// have their vault and mint fields logically swapped; a mismatch means the
// caller must drop the pool.
func VaultBalanceChecked(ctx context.Context, scanner pkg.AccountScanner, vault, expectedMint solana.PublicKey) (uint64, bool) {
	data, err := scanner.GetAccountData(ctx, vault)
	if err != nil {
		log.Debug().Str("vault", vault.String()).Err(err).Msg("vault unreadable, treating balance as 0")
		return 0, true
	}
	if len(data) >= 32 {
		if mint := DecodeTokenAccountMint(data); !mint.Equals(expectedMint) {
			return 0, false
		}
	}
	return DecodeTokenAmount(data), true
}

// MintDecimals reads the decimals byte from a mint account, defaulting to 9
// when the account is missing or truncated.
func MintDecimals(ctx context.Context, scanner pkg.AccountScanner, mint solana.PublicKey) uint8 {
	data, err := scanner.GetAccountData(ctx, mint)
	if err != nil || len(data) <= mintDecimalsOffset {
		return 9
	}
	return data[mintDecimalsOffset]
}

package pkg

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// PoolType identifies one of the supported pool designs.
type PoolType uint8

const (
	PoolTypeAMM PoolType = iota
	PoolTypeStable
	PoolTypeCLMM
	PoolTypeStandard
)

func (t PoolType) String() string {
	switch t {
	case PoolTypeAMM:
		return "AMM"
	case PoolTypeStable:
		return "Stable"
	case PoolTypeCLMM:
		return "CLMM"
	case PoolTypeStandard:
		return "Standard"
	default:
		return "UNKNOWN"
	}
}

// KeyedAccount is one account returned by a program scan.
type KeyedAccount struct {
	Address solana.PublicKey
	Data    []byte
}

// MemcmpFilter is a byte-equality filter at a fixed offset within account data.
type MemcmpFilter struct {
	Offset uint64
	Bytes  []byte
}

// AccountScanner is the ledger access this core consumes. It only relies on
// byte-equality and data-size filters and assumes nothing about transport.
type AccountScanner interface {
	// ScanProgramAccounts returns all accounts owned by program matching the
	// exact data size and every memcmp filter.
	ScanProgramAccounts(ctx context.Context, program solana.PublicKey, dataSize uint64, filters []MemcmpFilter) ([]KeyedAccount, error)

	// GetAccountData fetches a single account's raw data. Returns
	// ErrAccountNotFound if the account does not exist.
	GetAccountData(ctx context.Context, address solana.PublicKey) ([]byte, error)
}

// MetadataResolver resolves token metadata by mint. Implementations must
// tolerate missing metadata and return a best-effort TokenInfo (decimals are
// always populated, symbol/name may be placeholders).
type MetadataResolver interface {
	Resolve(ctx context.Context, mint solana.PublicKey) (TokenInfo, error)
}

// PoolFinder discovers pools of a single design for a token pair.
type PoolFinder interface {
	PoolType() PoolType

	// FindPools returns every tradable pool holding both mints, in either
	// slot order. A design with zero matches returns an empty slice, not an
	// error.
	FindPools(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]PoolInfo, error)

	// FindPoolsByToken returns every tradable pool containing the mint on
	// either side.
	FindPoolsByToken(ctx context.Context, mint solana.PublicKey) ([]PoolInfo, error)
}

// QuoteCalculator prices a swap request against one pool. Calculation is pure
// and synchronous; it fails loudly for the pool it evaluates.
type QuoteCalculator interface {
	CalculateQuote(pool PoolInfo, req QuoteRequest) (QuoteResult, error)
}

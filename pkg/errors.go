package pkg

import (
	"errors"
	"fmt"
)

// Error taxonomy. Decode failures and per-pool contract violations are local
// to one account and are skipped by the aggregating layers; only quote
// calculation surfaces them to its direct caller.
var (
	// ErrInvalidPoolState marks a data-model contract violation: mismatched
	// state variant, zero reserves, or a solver result that implies the pool
	// state is inconsistent.
	ErrInvalidPoolState = errors.New("invalid pool state")

	// ErrInvalidTokenMint marks a request whose input token is not one of the
	// pool's two sides.
	ErrInvalidTokenMint = errors.New("invalid token mint")

	// ErrInsufficientLiquidity marks a pool whose liquidity is zero or
	// structurally unusable for the requested trade.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrMathOverflow marks arithmetic that would lose correctness. It is
	// never silently truncated away.
	ErrMathOverflow = errors.New("math overflow")

	// ErrAccountNotFound is returned by AccountScanner implementations for a
	// missing account.
	ErrAccountNotFound = errors.New("account not found")
)

// DecodeError reports a malformed or wrong-length account buffer. It is local
// to one account and never fatal to a discovery batch.
type DecodeError struct {
	Layout string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s", e.Layout, e.Reason)
}

// NewInvalidLength builds the DecodeError for a buffer whose size does not
// match the layout's exact span.
func NewInvalidLength(layout string, got, want int) *DecodeError {
	return &DecodeError{
		Layout: layout,
		Reason: fmt.Sprintf("invalid data length %d (expected %d)", got, want),
	}
}

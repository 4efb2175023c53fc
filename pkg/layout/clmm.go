package layout

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/poolscout/pkg"
)

// ClmmSpan is the exact account size of a concentrated-liquidity pool state.
const ClmmSpan = 1544

// Byte offsets of the memcmp-filterable mint fields (after the bump byte).
const (
	ClmmMint0Offset = 1
	ClmmMint1Offset = 33
)

// ClmmLayout is the concentrated-liquidity pool state: a length-prefixed
// struct carrying the tick position, in-range liquidity, Q-format sqrt price
// and the fee rate in parts per million. The long padding tail is not read.
type ClmmLayout struct {
	Bump             uint8
	TokenMint0       solana.PublicKey
	TokenMint1       solana.PublicKey
	TickSpacing      uint16
	Liquidity        uint128.Uint128
	SqrtPrice        uint128.Uint128
	CurrentTick      int32
	FeeGrowthGlobal0 uint128.Uint128
	FeeGrowthGlobal1 uint128.Uint128
	FeeRatePpm       uint64
	ProtocolFeeRate  uint64
	ProtocolFeeOwed0 uint64
	ProtocolFeeOwed1 uint64
	FundFeeOwed0     uint64
	FundFeeOwed1     uint64
}

func (l *ClmmLayout) Span() uint64 { return ClmmSpan }

// Decode parses a raw 1544-byte CLMM account.
func (l *ClmmLayout) Decode(data []byte) error {
	if len(data) != ClmmSpan {
		return pkg.NewInvalidLength("clmm", len(data), ClmmSpan)
	}

	offset := 0

	l.Bump = data[offset]
	offset++

	l.TokenMint0 = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.TokenMint1 = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.TickSpacing = binary.LittleEndian.Uint16(data[offset : offset+2])
	offset += 2

	l.Liquidity = uint128.FromBytes(data[offset : offset+16])
	offset += 16

	l.SqrtPrice = uint128.FromBytes(data[offset : offset+16])
	offset += 16

	l.CurrentTick = int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4

	l.FeeGrowthGlobal0 = uint128.FromBytes(data[offset : offset+16])
	offset += 16

	l.FeeGrowthGlobal1 = uint128.FromBytes(data[offset : offset+16])
	offset += 16

	l.FeeRatePpm = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	l.ProtocolFeeRate = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	l.ProtocolFeeOwed0 = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	l.ProtocolFeeOwed1 = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	l.FundFeeOwed0 = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	l.FundFeeOwed1 = binary.LittleEndian.Uint64(data[offset : offset+8])

	return nil
}

// HasLiquidity reports whether the pool carries any in-range liquidity. A
// zero-liquidity pool is valid but uninteresting and is filtered out during
// discovery.
func (l *ClmmLayout) HasLiquidity() bool {
	return !l.Liquidity.IsZero()
}

// FeeRate returns the swap fee as a fraction.
func (l *ClmmLayout) FeeRate() float64 {
	return float64(l.FeeRatePpm) / 1_000_000.0
}

// FeeTierBps converts the parts-per-million fee rate to basis points.
func (l *ClmmLayout) FeeTierBps() uint32 {
	return uint32(l.FeeRatePpm * 10_000 / 1_000_000)
}

package layout

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/Solana-ZH/poolscout/pkg"
)

// CpSwapSpan is the exact account size of a CP-swap pool state.
const CpSwapSpan = 653

// Byte offsets of the memcmp-filterable mint fields.
const (
	CpMint0Offset = 168
	CpMint1Offset = 200
)

// CpStatusActive is the only status under which a CP-swap pool trades.
const CpStatusActive = 1

// CpSwapLayout is the CP-swap pool state: an 8-byte discriminator followed by
// the config/creator/vault/mint/program addresses, the status byte, decimals
// and the fee accumulators.
type CpSwapLayout struct {
	Discriminator      [8]byte
	AmmConfig          solana.PublicKey
	PoolCreator        solana.PublicKey
	Token0Vault        solana.PublicKey
	Token1Vault        solana.PublicKey
	LpMint             solana.PublicKey
	Token0Mint         solana.PublicKey
	Token1Mint         solana.PublicKey
	Token0Program      solana.PublicKey
	Token1Program      solana.PublicKey
	ObservationKey     solana.PublicKey
	AuthBump           uint8
	Status             uint8
	LpMintDecimals     uint8
	Mint0Decimals      uint8
	Mint1Decimals      uint8
	LpSupply           uint64
	ProtocolFeesToken0 uint64
	ProtocolFeesToken1 uint64
	FundFeesToken0     uint64
	FundFeesToken1     uint64
	OpenTime           uint64
}

func (l *CpSwapLayout) Span() uint64 { return CpSwapSpan }

// Decode parses a raw 653-byte CP-swap account.
func (l *CpSwapLayout) Decode(data []byte) error {
	if len(data) != CpSwapSpan {
		return pkg.NewInvalidLength("cp_swap", len(data), CpSwapSpan)
	}

	copy(l.Discriminator[:], data[0:8])

	keyAt := func(off int) solana.PublicKey { return solana.PublicKeyFromBytes(data[off : off+32]) }
	u64At := func(off int) uint64 { return binary.LittleEndian.Uint64(data[off : off+8]) }

	l.AmmConfig = keyAt(8)
	l.PoolCreator = keyAt(40)
	l.Token0Vault = keyAt(72)
	l.Token1Vault = keyAt(104)
	l.LpMint = keyAt(136)
	l.Token0Mint = keyAt(CpMint0Offset)
	l.Token1Mint = keyAt(CpMint1Offset)
	l.Token0Program = keyAt(232)
	l.Token1Program = keyAt(264)
	l.ObservationKey = keyAt(296)

	l.AuthBump = data[328]
	l.Status = data[329]
	l.LpMintDecimals = data[330]
	l.Mint0Decimals = data[331]
	l.Mint1Decimals = data[332]

	l.LpSupply = u64At(333)
	l.ProtocolFeesToken0 = u64At(341)
	l.ProtocolFeesToken1 = u64At(349)
	l.FundFeesToken0 = u64At(357)
	l.FundFeesToken1 = u64At(365)
	l.OpenTime = u64At(373)

	return nil
}

// IsActive reports whether the pool's status byte marks it open for trading.
func (l *CpSwapLayout) IsActive() bool {
	return l.Status == CpStatusActive
}

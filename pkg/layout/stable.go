package layout

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/Solana-ZH/poolscout/pkg"
)

// StableSpan is the exact account size of a stable-swap pool state.
const StableSpan = 315

// Byte offsets of the memcmp-filterable mint fields.
const (
	StableMintAOffset = 107
	StableMintBOffset = 139
)

// StableLayout is the stable-swap pool state: lifecycle flags, an
// amplification ramp, the admin/mint/vault addresses and the trade fee as a
// numerator/denominator pair.
type StableLayout struct {
	IsInitialized       bool
	IsPaused            bool
	Nonce               uint8
	InitialAmpFactor    uint64
	TargetAmpFactor     uint64
	StartRampTimestamp  int64
	StopRampTimestamp   int64
	FutureAdminDeadline int64
	FutureAdmin         solana.PublicKey
	Admin               solana.PublicKey
	TokenMintA          solana.PublicKey
	TokenMintB          solana.PublicKey
	TokenAccountA       solana.PublicKey
	TokenAccountB       solana.PublicKey
	PoolMint            solana.PublicKey
	TokenAFees          uint64
	TokenBFees          uint64
	AdminTradeFeeNum    uint64
	AdminTradeFeeDenom  uint64
	TradeFeeNum         uint64
	TradeFeeDenom       uint64
}

func (l *StableLayout) Span() uint64 { return StableSpan }

// Decode parses a raw 315-byte stable pool account.
func (l *StableLayout) Decode(data []byte) error {
	if len(data) != StableSpan {
		return pkg.NewInvalidLength("stable", len(data), StableSpan)
	}

	dec := bin.NewBinDecoder(data)

	var err error
	if l.IsInitialized, err = dec.ReadBool(); err != nil {
		return &pkg.DecodeError{Layout: "stable", Reason: err.Error()}
	}
	if l.IsPaused, err = dec.ReadBool(); err != nil {
		return &pkg.DecodeError{Layout: "stable", Reason: err.Error()}
	}
	if l.Nonce, err = dec.ReadUint8(); err != nil {
		return &pkg.DecodeError{Layout: "stable", Reason: err.Error()}
	}

	readU64 := func(dst *uint64) error {
		v, err := dec.ReadUint64(bin.LE)
		*dst = v
		return err
	}
	readI64 := func(dst *int64) error {
		v, err := dec.ReadInt64(bin.LE)
		*dst = v
		return err
	}
	readKey := func(dst *solana.PublicKey) error {
		raw, err := dec.ReadNBytes(32)
		if err != nil {
			return err
		}
		*dst = solana.PublicKeyFromBytes(raw)
		return nil
	}

	steps := []func() error{
		func() error { return readU64(&l.InitialAmpFactor) },
		func() error { return readU64(&l.TargetAmpFactor) },
		func() error { return readI64(&l.StartRampTimestamp) },
		func() error { return readI64(&l.StopRampTimestamp) },
		func() error { return readI64(&l.FutureAdminDeadline) },
		func() error { return readKey(&l.FutureAdmin) },
		func() error { return readKey(&l.Admin) },
		func() error { return readKey(&l.TokenMintA) },
		func() error { return readKey(&l.TokenMintB) },
		func() error { return readKey(&l.TokenAccountA) },
		func() error { return readKey(&l.TokenAccountB) },
		func() error { return readKey(&l.PoolMint) },
		func() error { return readU64(&l.TokenAFees) },
		func() error { return readU64(&l.TokenBFees) },
		func() error { return readU64(&l.AdminTradeFeeNum) },
		func() error { return readU64(&l.AdminTradeFeeDenom) },
		func() error { return readU64(&l.TradeFeeNum) },
		func() error { return readU64(&l.TradeFeeDenom) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return &pkg.DecodeError{Layout: "stable", Reason: err.Error()}
		}
	}
	return nil
}

// IsTradable reports whether the pool is initialized and not paused. Paused
// or uninitialized pools are filtered out during discovery, not errors.
func (l *StableLayout) IsTradable() bool {
	return l.IsInitialized && !l.IsPaused
}

// CurrentAmp returns the amplification factor at the given unix time,
// linearly interpolated while the pool ramps between initial and target.
func (l *StableLayout) CurrentAmp(now int64) uint64 {
	if now >= l.StopRampTimestamp {
		return l.TargetAmpFactor
	}
	if now <= l.StartRampTimestamp {
		return l.InitialAmpFactor
	}

	timeRange := uint64(l.StopRampTimestamp - l.StartRampTimestamp)
	elapsed := uint64(now - l.StartRampTimestamp)
	if l.TargetAmpFactor > l.InitialAmpFactor {
		return l.InitialAmpFactor + (l.TargetAmpFactor-l.InitialAmpFactor)*elapsed/timeRange
	}
	return l.InitialAmpFactor - (l.InitialAmpFactor-l.TargetAmpFactor)*elapsed/timeRange
}

// TradeFeeRate returns the trade fee as a fraction.
func (l *StableLayout) TradeFeeRate() float64 {
	if l.TradeFeeDenom == 0 {
		return 0
	}
	return float64(l.TradeFeeNum) / float64(l.TradeFeeDenom)
}

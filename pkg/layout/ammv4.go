package layout

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/Solana-ZH/poolscout/pkg"
)

// AmmV4Span is the exact account size of an AMM v4 pool state.
const AmmV4Span = 752

// AMM v4 pool status sentinels. Only StatusEnabled pools are tradable; the
// others are filtered out during discovery, never treated as decode failures.
const (
	AmmStatusInitializing = 1
	AmmStatusEnabled      = 6
	AmmStatusDisabled     = 7
)

// AmmV4Layout is the fixed-offset AMM v4 pool state. The format carries no
// self-describing tags: every field lives at a hard byte offset within the
// 752-byte buffer, little-endian.
type AmmV4Layout struct {
	Status           uint64
	Nonce            uint64
	OrderNum         uint64
	Depth            uint64
	CoinDecimals     uint64
	PcDecimals       uint64
	State            uint64
	ResetFlag        uint64
	MinSize          uint64
	VolMaxCutRatio   uint64
	AmountWave       uint64
	CoinLotSize      uint64
	PcLotSize        uint64
	MinPriceMul      uint64
	MaxPriceMul      uint64
	SysDecimalValue  uint64
	MinSeparateNum   uint64
	MinSeparateDenom uint64
	TradeFeeNum      uint64
	TradeFeeDenom    uint64
	PnlNum           uint64
	PnlDenom         uint64
	SwapFeeNum       uint64
	SwapFeeDenom     uint64
	NeedTakePnlCoin  uint64
	NeedTakePnlPc    uint64
	TotalPnlPc       uint64
	TotalPnlCoin     uint64
	PoolDepositPc    uint128.Uint128
	PoolDepositCoin  uint128.Uint128

	CoinVault  solana.PublicKey
	PcVault    solana.PublicKey
	CoinMint   solana.PublicKey
	PcMint     solana.PublicKey
	LpMint     solana.PublicKey
	OpenOrders solana.PublicKey
	Market     solana.PublicKey
	MarketProg solana.PublicKey
	Owner      solana.PublicKey
}

// Byte offsets of the memcmp-filterable mint fields.
const (
	AmmCoinMintOffset = 400
	AmmPcMintOffset   = 432
)

func (l *AmmV4Layout) Span() uint64 { return AmmV4Span }

// Decode parses a raw 752-byte AMM v4 account. Any other length fails
// immediately.
func (l *AmmV4Layout) Decode(data []byte) error {
	if len(data) != AmmV4Span {
		return pkg.NewInvalidLength("amm_v4", len(data), AmmV4Span)
	}

	u64At := func(off int) uint64 { return binary.LittleEndian.Uint64(data[off : off+8]) }
	keyAt := func(off int) solana.PublicKey { return solana.PublicKeyFromBytes(data[off : off+32]) }

	l.Status = u64At(0)
	l.Nonce = u64At(8)
	l.OrderNum = u64At(16)
	l.Depth = u64At(24)
	l.CoinDecimals = u64At(32)
	l.PcDecimals = u64At(40)
	l.State = u64At(48)
	l.ResetFlag = u64At(56)
	l.MinSize = u64At(64)
	l.VolMaxCutRatio = u64At(72)
	l.AmountWave = u64At(80)
	l.CoinLotSize = u64At(88)
	l.PcLotSize = u64At(96)
	l.MinPriceMul = u64At(104)
	l.MaxPriceMul = u64At(112)
	l.SysDecimalValue = u64At(120)
	l.MinSeparateNum = u64At(128)
	l.MinSeparateDenom = u64At(136)
	l.TradeFeeNum = u64At(144)
	l.TradeFeeDenom = u64At(152)
	l.PnlNum = u64At(160)
	l.PnlDenom = u64At(168)
	l.SwapFeeNum = u64At(176)
	l.SwapFeeDenom = u64At(184)
	l.NeedTakePnlCoin = u64At(192)
	l.NeedTakePnlPc = u64At(200)
	l.TotalPnlPc = u64At(208)
	l.TotalPnlCoin = u64At(216)
	l.PoolDepositPc = uint128.FromBytes(data[224:240])
	l.PoolDepositCoin = uint128.FromBytes(data[240:256])

	l.LpMint = keyAt(256)
	l.OpenOrders = keyAt(288)
	l.Market = keyAt(320)
	l.CoinVault = keyAt(336)
	l.MarketProg = keyAt(352)
	l.PcVault = keyAt(368)
	l.CoinMint = keyAt(AmmCoinMintOffset)
	l.PcMint = keyAt(AmmPcMintOffset)
	l.Owner = keyAt(480)

	return nil
}

// IsEnabled reports whether the pool is open for trading. Status 1 means the
// pool is still initializing, 7 means disabled.
func (l *AmmV4Layout) IsEnabled() bool {
	return l.Status == AmmStatusEnabled
}

// SwapFeeRate returns the swap fee as a fraction.
func (l *AmmV4Layout) SwapFeeRate() float64 {
	if l.SwapFeeDenom == 0 {
		return 0
	}
	return float64(l.SwapFeeNum) / float64(l.SwapFeeDenom)
}

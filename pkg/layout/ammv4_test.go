package layout

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Solana-ZH/poolscout/pkg"
)

func testKey(seed byte) solana.PublicKey {
	var raw [32]byte
	for i := range raw {
		raw[i] = seed
	}
	return solana.PublicKeyFromBytes(raw[:])
}

func buildAmmAccount(status uint64) []byte {
	data := make([]byte, AmmV4Span)
	binary.LittleEndian.PutUint64(data[0:8], status)
	binary.LittleEndian.PutUint64(data[8:16], 254)   // nonce
	binary.LittleEndian.PutUint64(data[32:40], 9)    // coin decimals
	binary.LittleEndian.PutUint64(data[40:48], 6)    // pc decimals
	binary.LittleEndian.PutUint64(data[176:184], 25) // swap fee num
	binary.LittleEndian.PutUint64(data[184:192], 10000)

	copy(data[336:368], testKey(1).Bytes()) // coin vault
	copy(data[368:400], testKey(2).Bytes()) // pc vault
	copy(data[AmmCoinMintOffset:AmmCoinMintOffset+32], testKey(3).Bytes())
	copy(data[AmmPcMintOffset:AmmPcMintOffset+32], testKey(4).Bytes())
	return data
}

func TestAmmV4Decode(t *testing.T) {
	var l AmmV4Layout
	require.NoError(t, l.Decode(buildAmmAccount(AmmStatusEnabled)))

	assert.Equal(t, uint64(AmmStatusEnabled), l.Status)
	assert.Equal(t, uint64(254), l.Nonce)
	assert.Equal(t, uint64(9), l.CoinDecimals)
	assert.Equal(t, uint64(6), l.PcDecimals)
	assert.Equal(t, testKey(1), l.CoinVault)
	assert.Equal(t, testKey(2), l.PcVault)
	assert.Equal(t, testKey(3), l.CoinMint)
	assert.Equal(t, testKey(4), l.PcMint)
	assert.InDelta(t, 0.0025, l.SwapFeeRate(), 1e-12)
}

func TestAmmV4DecodeRejectsWrongLength(t *testing.T) {
	var l AmmV4Layout

	err := l.Decode(make([]byte, AmmV4Span-1))
	require.Error(t, err)

	var decodeErr *pkg.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "amm_v4", decodeErr.Layout)
}

func TestAmmV4StatusGating(t *testing.T) {
	cases := []struct {
		status  uint64
		enabled bool
	}{
		{AmmStatusInitializing, false},
		{AmmStatusEnabled, true},
		{AmmStatusDisabled, false},
		{0, false},
	}
	for _, tc := range cases {
		var l AmmV4Layout
		require.NoError(t, l.Decode(buildAmmAccount(tc.status)))
		assert.Equal(t, tc.enabled, l.IsEnabled(), "status %d", tc.status)
	}
}

func TestAmmV4SwapFeeRateZeroDenominator(t *testing.T) {
	var l AmmV4Layout
	assert.Zero(t, l.SwapFeeRate())
}

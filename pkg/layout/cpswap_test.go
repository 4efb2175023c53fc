package layout

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Solana-ZH/poolscout/pkg"
)

func buildCpSwapAccount(status uint8) []byte {
	data := make([]byte, CpSwapSpan)
	copy(data[0:8], []byte{0xf7, 0xed, 0xe3, 0xf5, 0xd7, 0xc3, 0xde, 0x46})
	copy(data[72:104], testKey(11).Bytes())  // token0 vault
	copy(data[104:136], testKey(12).Bytes()) // token1 vault
	copy(data[CpMint0Offset:CpMint0Offset+32], testKey(13).Bytes())
	copy(data[CpMint1Offset:CpMint1Offset+32], testKey(14).Bytes())
	data[329] = status
	data[331] = 9 // mint0 decimals
	data[332] = 6
	binary.LittleEndian.PutUint64(data[333:341], 123456) // lp supply
	return data
}

func TestCpSwapDecode(t *testing.T) {
	var l CpSwapLayout
	require.NoError(t, l.Decode(buildCpSwapAccount(CpStatusActive)))

	assert.Equal(t, testKey(11), l.Token0Vault)
	assert.Equal(t, testKey(12), l.Token1Vault)
	assert.Equal(t, testKey(13), l.Token0Mint)
	assert.Equal(t, testKey(14), l.Token1Mint)
	assert.Equal(t, uint8(9), l.Mint0Decimals)
	assert.Equal(t, uint8(6), l.Mint1Decimals)
	assert.Equal(t, uint64(123456), l.LpSupply)
	assert.True(t, l.IsActive())
}

func TestCpSwapDecodeRejectsWrongLength(t *testing.T) {
	var l CpSwapLayout

	var decodeErr *pkg.DecodeError
	require.ErrorAs(t, l.Decode(nil), &decodeErr)
}

func TestCpSwapStatusGating(t *testing.T) {
	for _, status := range []uint8{0, 2, 3} {
		var l CpSwapLayout
		require.NoError(t, l.Decode(buildCpSwapAccount(status)))
		assert.False(t, l.IsActive(), "status %d", status)
	}
}

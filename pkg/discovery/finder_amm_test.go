package discovery

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Solana-ZH/poolscout/pkg"
	"github.com/Solana-ZH/poolscout/pkg/layout"
	"github.com/Solana-ZH/poolscout/pkg/sol"
)

// stubScanner serves canned program accounts and single accounts, applying
// the same size and memcmp semantics as the live transport.
type stubScanner struct {
	programAccounts map[solana.PublicKey][]pkg.KeyedAccount
	accounts        map[solana.PublicKey][]byte
}

func newStubScanner() *stubScanner {
	return &stubScanner{
		programAccounts: make(map[solana.PublicKey][]pkg.KeyedAccount),
		accounts:        make(map[solana.PublicKey][]byte),
	}
}

func (s *stubScanner) ScanProgramAccounts(_ context.Context, program solana.PublicKey, dataSize uint64, filters []pkg.MemcmpFilter) ([]pkg.KeyedAccount, error) {
	var out []pkg.KeyedAccount
	for _, acct := range s.programAccounts[program] {
		if uint64(len(acct.Data)) != dataSize {
			continue
		}
		match := true
		for _, f := range filters {
			end := f.Offset + uint64(len(f.Bytes))
			if end > uint64(len(acct.Data)) || !bytes.Equal(acct.Data[f.Offset:end], f.Bytes) {
				match = false
				break
			}
		}
		if match {
			out = append(out, acct)
		}
	}
	return out, nil
}

func (s *stubScanner) GetAccountData(_ context.Context, address solana.PublicKey) ([]byte, error) {
	data, ok := s.accounts[address]
	if !ok {
		return nil, pkg.ErrAccountNotFound
	}
	return data, nil
}

func tokenAccount(mint solana.PublicKey, amount uint64) []byte {
	data := make([]byte, sol.TokenAccountSize)
	copy(data[:32], mint.Bytes())
	binary.LittleEndian.PutUint64(data[64:72], amount)
	return data
}

type ammFixture struct {
	status    uint64
	coinMint  solana.PublicKey
	pcMint    solana.PublicKey
	coinVault solana.PublicKey
	pcVault   solana.PublicKey
}

func ammAccount(f ammFixture) []byte {
	data := make([]byte, layout.AmmV4Span)
	binary.LittleEndian.PutUint64(data[0:8], f.status)
	binary.LittleEndian.PutUint64(data[176:184], 25) // swap fee 25/10000
	binary.LittleEndian.PutUint64(data[184:192], 10000)
	copy(data[336:368], f.coinVault.Bytes())
	copy(data[368:400], f.pcVault.Bytes())
	copy(data[layout.AmmCoinMintOffset:layout.AmmCoinMintOffset+32], f.coinMint.Bytes())
	copy(data[layout.AmmPcMintOffset:layout.AmmPcMintOffset+32], f.pcMint.Bytes())
	return data
}

func TestAmmFinderFindsEnabledPool(t *testing.T) {
	scanner := newStubScanner()
	coinVault := solana.NewWallet().PublicKey()
	pcVault := solana.NewWallet().PublicKey()
	poolAddr := solana.NewWallet().PublicKey()

	scanner.programAccounts[sol.AmmV4ProgramID] = []pkg.KeyedAccount{{
		Address: poolAddr,
		Data: ammAccount(ammFixture{
			status: layout.AmmStatusEnabled, coinMint: sol.WSOL, pcMint: sol.USDC,
			coinVault: coinVault, pcVault: pcVault,
		}),
	}}
	scanner.accounts[coinVault] = tokenAccount(sol.WSOL, 5_000_000_000)
	scanner.accounts[pcVault] = tokenAccount(sol.USDC, 1_000_000_000)

	finder := NewAmmFinder(scanner, sol.NewTokenResolver(scanner))

	pools, err := finder.FindPools(context.Background(), sol.WSOL, sol.USDC)
	require.NoError(t, err)
	require.Len(t, pools, 1)

	pool := pools[0]
	assert.Equal(t, poolAddr, pool.Address)
	assert.Equal(t, pkg.PoolTypeAMM, pool.PoolType)
	assert.Equal(t, "SOL", pool.TokenA.Symbol)
	assert.Equal(t, "USDC", pool.TokenB.Symbol)
	assert.InDelta(t, 0.0025, pool.FeeRate, 1e-12)
	assert.InDelta(t, 2000, pool.LiquidityUSD, 0.01)

	state, ok := pool.State.(pkg.AMMState)
	require.True(t, ok)
	assert.Equal(t, uint64(5_000_000_000), state.ReserveA)
	assert.Equal(t, uint64(1_000_000_000), state.ReserveB)
}

func TestAmmFinderMatchesSwappedOperands(t *testing.T) {
	scanner := newStubScanner()
	coinVault := solana.NewWallet().PublicKey()
	pcVault := solana.NewWallet().PublicKey()

	scanner.programAccounts[sol.AmmV4ProgramID] = []pkg.KeyedAccount{{
		Address: solana.NewWallet().PublicKey(),
		Data: ammAccount(ammFixture{
			status: layout.AmmStatusEnabled, coinMint: sol.WSOL, pcMint: sol.USDC,
			coinVault: coinVault, pcVault: pcVault,
		}),
	}}
	scanner.accounts[coinVault] = tokenAccount(sol.WSOL, 1)
	scanner.accounts[pcVault] = tokenAccount(sol.USDC, 1)

	finder := NewAmmFinder(scanner, sol.NewTokenResolver(scanner))

	// Querying with the pair reversed still finds the pool, exactly once.
	pools, err := finder.FindPools(context.Background(), sol.USDC, sol.WSOL)
	require.NoError(t, err)
	assert.Len(t, pools, 1)
}

func TestAmmFinderFiltersDisabledPools(t *testing.T) {
	scanner := newStubScanner()
	for _, status := range []uint64{layout.AmmStatusInitializing, layout.AmmStatusDisabled} {
		scanner.programAccounts[sol.AmmV4ProgramID] = append(scanner.programAccounts[sol.AmmV4ProgramID], pkg.KeyedAccount{
			Address: solana.NewWallet().PublicKey(),
			Data: ammAccount(ammFixture{
				status: status, coinMint: sol.WSOL, pcMint: sol.USDC,
				coinVault: solana.NewWallet().PublicKey(), pcVault: solana.NewWallet().PublicKey(),
			}),
		})
	}

	finder := NewAmmFinder(scanner, sol.NewTokenResolver(scanner))

	pools, err := finder.FindPools(context.Background(), sol.WSOL, sol.USDC)
	require.NoError(t, err)
	assert.Empty(t, pools)
}

func TestAmmFinderDropsMismatchedVaultMint(t *testing.T) {
	scanner := newStubScanner()
	coinVault := solana.NewWallet().PublicKey()
	pcVault := solana.NewWallet().PublicKey()

	scanner.programAccounts[sol.AmmV4ProgramID] = []pkg.KeyedAccount{{
		Address: solana.NewWallet().PublicKey(),
		Data: ammAccount(ammFixture{
			status: layout.AmmStatusEnabled, coinMint: sol.WSOL, pcMint: sol.USDC,
			coinVault: coinVault, pcVault: pcVault,
		}),
	}}
	// The coin vault actually holds USDC: swapped fields on chain.
	scanner.accounts[coinVault] = tokenAccount(sol.USDC, 1_000)
	scanner.accounts[pcVault] = tokenAccount(sol.USDC, 1_000)

	finder := NewAmmFinder(scanner, sol.NewTokenResolver(scanner))

	pools, err := finder.FindPools(context.Background(), sol.WSOL, sol.USDC)
	require.NoError(t, err)
	assert.Empty(t, pools)
}

func TestAmmFinderFiltersEmptyReserves(t *testing.T) {
	scanner := newStubScanner()
	coinVault := solana.NewWallet().PublicKey()
	pcVault := solana.NewWallet().PublicKey()

	scanner.programAccounts[sol.AmmV4ProgramID] = []pkg.KeyedAccount{{
		Address: solana.NewWallet().PublicKey(),
		Data: ammAccount(ammFixture{
			status: layout.AmmStatusEnabled, coinMint: sol.WSOL, pcMint: sol.USDC,
			coinVault: coinVault, pcVault: pcVault,
		}),
	}}
	scanner.accounts[coinVault] = tokenAccount(sol.WSOL, 0)
	scanner.accounts[pcVault] = tokenAccount(sol.USDC, 1_000)

	finder := NewAmmFinder(scanner, sol.NewTokenResolver(scanner))

	pools, err := finder.FindPools(context.Background(), sol.WSOL, sol.USDC)
	require.NoError(t, err)
	assert.Empty(t, pools)
}

func TestAmmFinderByToken(t *testing.T) {
	scanner := newStubScanner()
	coinVault := solana.NewWallet().PublicKey()
	pcVault := solana.NewWallet().PublicKey()

	scanner.programAccounts[sol.AmmV4ProgramID] = []pkg.KeyedAccount{{
		Address: solana.NewWallet().PublicKey(),
		Data: ammAccount(ammFixture{
			status: layout.AmmStatusEnabled, coinMint: sol.WSOL, pcMint: sol.USDC,
			coinVault: coinVault, pcVault: pcVault,
		}),
	}}
	scanner.accounts[coinVault] = tokenAccount(sol.WSOL, 10)
	scanner.accounts[pcVault] = tokenAccount(sol.USDC, 10)

	finder := NewAmmFinder(scanner, sol.NewTokenResolver(scanner))

	pools, err := finder.FindPoolsByToken(context.Background(), sol.USDC)
	require.NoError(t, err)
	assert.Len(t, pools, 1)
}

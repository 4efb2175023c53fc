package discovery

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/Solana-ZH/poolscout/pkg"
)

// scanBothOrders issues two memcmp scans with swapped mint operands, since a
// pool may hold the pair in either slot order, and dedupes by pool address.
func scanBothOrders(ctx context.Context, scanner pkg.AccountScanner, program solana.PublicKey,
	span uint64, offsetA, offsetB uint64, tokenA, tokenB solana.PublicKey) ([]pkg.KeyedAccount, error) {

	forward, err := scanner.ScanProgramAccounts(ctx, program, span, []pkg.MemcmpFilter{
		{Offset: offsetA, Bytes: tokenA.Bytes()},
		{Offset: offsetB, Bytes: tokenB.Bytes()},
	})
	if err != nil {
		return nil, err
	}
	reverse, err := scanner.ScanProgramAccounts(ctx, program, span, []pkg.MemcmpFilter{
		{Offset: offsetA, Bytes: tokenB.Bytes()},
		{Offset: offsetB, Bytes: tokenA.Bytes()},
	})
	if err != nil {
		return nil, err
	}
	return dedupeAccounts(append(forward, reverse...)), nil
}

// scanEitherSlot finds accounts holding mint in either the first or the
// second mint slot.
func scanEitherSlot(ctx context.Context, scanner pkg.AccountScanner, program solana.PublicKey,
	span uint64, offsetA, offsetB uint64, mint solana.PublicKey) ([]pkg.KeyedAccount, error) {

	first, err := scanner.ScanProgramAccounts(ctx, program, span, []pkg.MemcmpFilter{
		{Offset: offsetA, Bytes: mint.Bytes()},
	})
	if err != nil {
		return nil, err
	}
	second, err := scanner.ScanProgramAccounts(ctx, program, span, []pkg.MemcmpFilter{
		{Offset: offsetB, Bytes: mint.Bytes()},
	})
	if err != nil {
		return nil, err
	}
	return dedupeAccounts(append(first, second...)), nil
}

func dedupeAccounts(accounts []pkg.KeyedAccount) []pkg.KeyedAccount {
	seen := make(map[solana.PublicKey]struct{}, len(accounts))
	out := accounts[:0]
	for _, acct := range accounts {
		if _, ok := seen[acct.Address]; ok {
			continue
		}
		seen[acct.Address] = struct{}{}
		out = append(out, acct)
	}
	return out
}

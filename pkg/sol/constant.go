package sol

import "github.com/gagliardetto/solana-go"

// Mainnet program IDs for the four supported pool designs.
var (
	AmmV4ProgramID  = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	StableProgramID = solana.MustPublicKeyFromBase58("5quBtoiQqxF9Jv6KYKctB59NT3gtJD2Y65kdnB1Uev3h")
	ClmmProgramID   = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	CpSwapProgramID = solana.MustPublicKeyFromBase58("CPMDWBwJDtYax9qW7AyRuVC19Cc4L4Vcy4n2BHAbHkCW")
)

// Common mints.
var (
	WSOL = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	USDC = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	USDT = solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
	USDH = solana.MustPublicKeyFromBase58("USDH1SM1ojwWUga67PGrgFWUHibbjqMvuMaDkRJTgkX")
	UXD  = solana.MustPublicKeyFromBase58("7kbnvuGBxxj8AG9qp8Scn56muWGaRaFqxg1FsRp3PaFT")
)

// StablecoinPegs maps recognized stablecoin mints to their USD peg. Immutable
// after init; the liquidity heuristic resolves a reserve's USD value only
// through this set.
var StablecoinPegs = map[solana.PublicKey]float64{
	USDC: 1.0,
	USDT: 1.0,
	USDH: 1.0,
	UXD:  1.0,
}

// StablecoinSymbols is the symbol set used for stable-pair detection in the
// scorer and the selector tie-break.
var StablecoinSymbols = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"USDH": {},
	"DAI":  {},
	"BUSD": {},
	"TUSD": {},
	"USDP": {},
}

// IsStableSymbol reports whether symbol belongs to the recognized set.
func IsStableSymbol(symbol string) bool {
	_, ok := StablecoinSymbols[symbol]
	return ok
}

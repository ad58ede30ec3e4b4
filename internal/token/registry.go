// internal/token/registry.go
package token

// Well-known Solana mints.
const (
	WSOLMint = "So11111111111111111111111111111111111111112"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMint = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

// DefaultDecimals is assumed for any mint absent from the registry.
const DefaultDecimals = 6

// Metadata describes a known token for display purposes.
type Metadata struct {
	Symbol string
	Name   string
}

// Registry is a static lookup of on-chain precision and display metadata
// for well-known mints. Lookups never touch the network and never fail.
type Registry struct {
	decimals map[string]int
	metadata map[string]Metadata
	stables  map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		decimals: map[string]int{
			WSOLMint: 9,
			USDCMint: 6,
			USDTMint: 6,
			"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": 5, // BONK
			"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN":  6, // JUP
			"EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm": 6, // WIF
			"4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R": 6, // RAY
			"HZ1JovNiVvGrGNiiYvEozEVgZ58xaU3RKwX8eACQBCt3": 6, // PYTH
		},
		metadata: map[string]Metadata{
			WSOLMint: {Symbol: "SOL", Name: "Solana"},
			USDCMint: {Symbol: "USDC", Name: "USD Coin"},
			USDTMint: {Symbol: "USDT", Name: "Tether USD"},
			"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": {Symbol: "BONK", Name: "Bonk"},
			"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN":  {Symbol: "JUP", Name: "Jupiter"},
			"EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm": {Symbol: "WIF", Name: "dogwifhat"},
			"4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R": {Symbol: "RAY", Name: "Raydium"},
			"HZ1JovNiVvGrGNiiYvEozEVgZ58xaU3RKwX8eACQBCt3": {Symbol: "PYTH", Name: "Pyth Network"},
			"jtojtomepa8beP8AuQc6eXt5FriJwfFMwQx2v2f9mCL":  {Symbol: "JTO", Name: "Jito"},
			"orcaEKTdK7LKz57vaAYr9QeNsVEPfiu6QeMU1kektZE":  {Symbol: "ORCA", Name: "Orca"},
			"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So":  {Symbol: "mSOL", Name: "Marinade SOL"},
			"bSo13r4TkiE4KumL71LsHTPpL2euBYLFx6h9HP3piy1":  {Symbol: "bSOL", Name: "BlazeStake SOL"},
		},
		stables: map[string]bool{
			USDCMint: true,
			USDTMint: true,
		},
	}
}

// Decimals returns the on-chain precision for mint, or DefaultDecimals when
// the mint is unknown.
func (r *Registry) Decimals(mint string) int {
	if d, ok := r.decimals[mint]; ok {
		return d
	}
	return DefaultDecimals
}

// Lookup returns display metadata for mint.
func (r *Registry) Lookup(mint string) (Metadata, bool) {
	m, ok := r.metadata[mint]
	return m, ok
}

// IsStable reports whether mint is a recognized stable-value token whose USD
// price is treated as the constant 1.0.
func (r *Registry) IsStable(mint string) bool {
	return r.stables[mint]
}

// IsNative reports whether mint is the wrapped-SOL sentinel used for the
// chain-native asset.
func (r *Registry) IsNative(mint string) bool {
	return mint == WSOLMint
}

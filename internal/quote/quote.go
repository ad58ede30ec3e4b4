// internal/quote/quote.go
package quote

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ProviderID tags which backend produced a quote.
type ProviderID string

const (
	ProviderJupiter     ProviderID = "jupiter"
	ProviderRaydium     ProviderID = "raydium"
	ProviderOrca        ProviderID = "orca"
	ProviderDexScreener ProviderID = "dexscreener"
	ProviderFallback    ProviderID = "fallback"
)

var (
	// ErrProviderUnavailable marks a single backend failure; the chain
	// advances to the next provider.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrNoQuote means every provider and the price-based synthesizer failed.
	ErrNoQuote = errors.New("no quote available")
	// ErrNoPriceData means the synthesizer could not price one of the assets.
	ErrNoPriceData = errors.New("no price data")
)

// Request carries the logical swap-quote parameters shared by all providers.
type Request struct {
	InputMint   string
	OutputMint  string
	Amount      uint64
	SlippageBps int
}

func (r Request) Validate() error {
	if r.InputMint == "" || r.OutputMint == "" {
		return errors.New("inputMint and outputMint are required")
	}
	if r.InputMint == r.OutputMint {
		return errors.New("inputMint and outputMint must differ")
	}
	if r.Amount == 0 {
		return errors.New("amount must be positive")
	}
	if r.SlippageBps < 0 || r.SlippageBps > 10000 {
		return errors.New("slippageBps must be within [0, 10000]")
	}
	return nil
}

// PriceInfo is auxiliary display data attached to a quote. It is never used
// for execution.
type PriceInfo struct {
	InputPrice  float64 `json:"inputPrice"`
	OutputPrice float64 `json:"outputPrice"`
	Rate        float64 `json:"rate"`
}

// RouteHop describes one liquidity venue traversed by a quote.
type RouteHop struct {
	Pool  string `json:"pool,omitempty"`
	Dex   string `json:"dex,omitempty"`
	Label string `json:"label,omitempty"`
}

// Quote is the normalized result of a swap-quote lookup, independent of
// which backend produced it. Amounts are in smallest units.
type Quote struct {
	InputMint            string     `json:"inputMint"`
	OutputMint           string     `json:"outputMint"`
	InAmount             uint64     `json:"inAmount,string"`
	OutAmount            uint64     `json:"outAmount,string"`
	OtherAmountThreshold uint64     `json:"otherAmountThreshold,string"`
	SwapMode             string     `json:"swapMode"`
	SlippageBps          int        `json:"slippageBps"`
	PriceImpactPct       float64    `json:"priceImpactPct"`
	RoutePlan            []RouteHop `json:"routePlan"`
	PriceInfo            *PriceInfo `json:"priceInfo,omitempty"`
	Provider             ProviderID `json:"provider"`
	Executable           bool       `json:"executable"`

	// ProviderPayload preserves the provider's native quote verbatim so the
	// transaction builder can hand it back without re-deriving provider
	// state. Its shape is only meaningful to the provider that set it.
	ProviderPayload json.RawMessage `json:"providerPayload,omitempty"`
}

// CheckInvariants verifies the cross-field rules every normalized quote must
// satisfy regardless of provider.
func (q *Quote) CheckInvariants() error {
	if q.InAmount == 0 {
		return errors.New("inAmount must be positive")
	}
	if q.OtherAmountThreshold > q.OutAmount {
		return fmt.Errorf("minimum output %d exceeds output %d", q.OtherAmountThreshold, q.OutAmount)
	}
	return nil
}

// MinOutForSlippage computes the worst-case output after applying the
// requested slippage tolerance: floor(outAmount * (1 - slippageBps/10000)).
// Integer math keeps the floor exact for amounts beyond float precision.
func MinOutForSlippage(outAmount uint64, slippageBps int) uint64 {
	keep := uint64(10000 - slippageBps)
	return (outAmount/10000)*keep + (outAmount%10000)*keep/10000
}

package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/dexscreener"
	"github.com/Ibxdevgh/gaia-main/internal/token"
)

const solPairsBody = `{"pairs": [
	{"chainId": "solana", "dexId": "raydium", "pairAddress": "SolUsdcPool",
	 "baseToken": {"address": "So11111111111111111111111111111111111111112", "symbol": "SOL"},
	 "quoteToken": {"address": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "symbol": "USDC"},
	 "priceUsd": "135.0", "liquidity": {"usd": 5000000}}
]}`

func TestPoolProviderDerivesQuoteFromPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(solPairsBody))
	}))
	t.Cleanup(srv.Close)

	ds := dexscreener.New(srv.URL, zap.NewNop())
	t.Cleanup(ds.Close)
	p := NewPoolProvider(ds, token.NewRegistry(), zap.NewNop())

	q, err := p.GetQuote(context.Background(), validRequest())
	require.NoError(t, err)

	// 1 SOL at $135 into USDC minus the 0.3% venue fee.
	assert.InDelta(t, 134_595_000, float64(q.OutAmount), 2)
	assert.Equal(t, ProviderDexScreener, q.Provider)
	assert.True(t, q.Executable)
	assert.InDelta(t, 0.3, q.PriceImpactPct, 1e-9)

	require.Len(t, q.RoutePlan, 1)
	assert.Equal(t, "SolUsdcPool", q.RoutePlan[0].Pool)
	assert.Equal(t, "raydium", q.RoutePlan[0].Dex)

	require.NotNil(t, q.PriceInfo)
	assert.InDelta(t, 135.0, q.PriceInfo.InputPrice, 1e-9)
	assert.InDelta(t, 1.0, q.PriceInfo.OutputPrice, 1e-9)
	require.NoError(t, q.CheckInvariants())
}

func TestPoolProviderFailsWithoutPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": []}`))
	}))
	t.Cleanup(srv.Close)

	ds := dexscreener.New(srv.URL, zap.NewNop())
	t.Cleanup(ds.Close)
	p := NewPoolProvider(ds, token.NewRegistry(), zap.NewNop())

	_, err := p.GetQuote(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/token"
)

func testPrices() stubPrices {
	return stubPrices{token.WSOLMint: 135.0, token.USDCMint: 1.0}
}

func TestRaydiumUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compute/swap-base-in", r.URL.Path)
		assert.Equal(t, "V0", r.URL.Query().Get("txVersion"))
		w.Write([]byte(`{"success": true, "data": {
			"outputAmount": "134900000",
			"otherAmountThreshold": "134225500",
			"priceImpactPct": 0.05,
			"routePlan": [{"poolId": "RayPool1"}]
		}}`))
	}))
	t.Cleanup(srv.Close)

	p := NewRaydiumProvider(srv.URL, testPrices(), token.NewRegistry(), zap.NewNop())
	q, err := p.GetQuote(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, ProviderRaydium, q.Provider)
	assert.True(t, q.Executable)
	assert.Equal(t, uint64(134_900_000), q.OutAmount)
	assert.Equal(t, uint64(134_225_500), q.OtherAmountThreshold)
	require.Len(t, q.RoutePlan, 1)
	assert.Equal(t, "RayPool1", q.RoutePlan[0].Pool)
	assert.Equal(t, "raydium", q.RoutePlan[0].Dex)
	// Only the inner data object travels with the quote.
	assert.JSONEq(t, `{
		"outputAmount": "134900000",
		"otherAmountThreshold": "134225500",
		"priceImpactPct": 0.05,
		"routePlan": [{"poolId": "RayPool1"}]
	}`, string(q.ProviderPayload))
	require.NoError(t, q.CheckInvariants())
}

func TestRaydiumRejectsUnsuccessfulEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	t.Cleanup(srv.Close)

	p := NewRaydiumProvider(srv.URL, testPrices(), token.NewRegistry(), zap.NewNop())
	_, err := p.GetQuote(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestOrcaSendsFractionalSlippage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/quote", r.URL.Path)
		assert.Equal(t, "0.005", r.URL.Query().Get("slippage"))
		w.Write([]byte(`{"outAmount": "134800000", "priceImpact": "0.08"}`))
	}))
	t.Cleanup(srv.Close)

	p := NewOrcaProvider(srv.URL, testPrices(), token.NewRegistry(), zap.NewNop())
	q, err := p.GetQuote(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, ProviderOrca, q.Provider)
	assert.Equal(t, uint64(134_800_000), q.OutAmount)
	// No threshold in the response, so the slippage floor applies.
	assert.Equal(t, MinOutForSlippage(134_800_000, 50), q.OtherAmountThreshold)
	assert.InDelta(t, 0.08, q.PriceImpactPct, 1e-9)
	assert.Empty(t, q.RoutePlan)
	require.NoError(t, q.CheckInvariants())
}

func TestOrcaEmptyOutputFailsProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	p := NewOrcaProvider(srv.URL, testPrices(), token.NewRegistry(), zap.NewNop())
	_, err := p.GetQuote(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

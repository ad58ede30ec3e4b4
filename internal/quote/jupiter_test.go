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

const jupiterQuoteBody = `{
	"inputMint": "So11111111111111111111111111111111111111112",
	"inAmount": "1000000000",
	"outputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	"outAmount": "135000000",
	"otherAmountThreshold": "134325000",
	"swapMode": "ExactIn",
	"slippageBps": 50,
	"priceImpactPct": "0.01",
	"routePlan": [{"swapInfo": {"ammKey": "Amm111", "label": "Whirlpool"}, "percent": 100}]
}`

func newJupiterProvider(t *testing.T, handlers ...http.HandlerFunc) (*JupiterProvider, []*int) {
	t.Helper()

	endpoints := make([]string, 0, len(handlers))
	counts := make([]*int, 0, len(handlers))
	for _, h := range handlers {
		h := h
		count := new(int)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*count++
			h(w, r)
		}))
		t.Cleanup(srv.Close)
		endpoints = append(endpoints, srv.URL)
		counts = append(counts, count)
	}

	prices := stubPrices{token.WSOLMint: 135.0, token.USDCMint: 1.0}
	return NewJupiterProvider(endpoints, prices, token.NewRegistry(), zap.NewNop()), counts
}

func TestJupiterNormalizesQuote(t *testing.T) {
	p, _ := newJupiterProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "1000000000", r.URL.Query().Get("amount"))
		assert.Equal(t, "50", r.URL.Query().Get("slippageBps"))
		assert.Equal(t, "ExactIn", r.URL.Query().Get("swapMode"))
		w.Write([]byte(jupiterQuoteBody))
	})

	q, err := p.GetQuote(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, ProviderJupiter, q.Provider)
	assert.True(t, q.Executable)
	assert.Equal(t, uint64(1_000_000_000), q.InAmount)
	assert.Equal(t, uint64(135_000_000), q.OutAmount)
	assert.Equal(t, uint64(134_325_000), q.OtherAmountThreshold)
	assert.Equal(t, "ExactIn", q.SwapMode)
	assert.InDelta(t, 0.01, q.PriceImpactPct, 1e-9)
	require.Len(t, q.RoutePlan, 1)
	assert.Equal(t, "Amm111", q.RoutePlan[0].Pool)
	assert.Equal(t, "Whirlpool", q.RoutePlan[0].Label)

	require.NotNil(t, q.PriceInfo)
	assert.InDelta(t, 135.0, q.PriceInfo.InputPrice, 1e-9)
	assert.InDelta(t, 1.0, q.PriceInfo.OutputPrice, 1e-9)
	assert.InDelta(t, 135.0, q.PriceInfo.Rate, 1e-6)

	assert.JSONEq(t, jupiterQuoteBody, string(q.ProviderPayload))
	require.NoError(t, q.CheckInvariants())
}

func TestJupiterTriesSecondEndpointOnFailure(t *testing.T) {
	p, counts := newJupiterProvider(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(jupiterQuoteBody))
		},
	)

	q, err := p.GetQuote(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, uint64(135_000_000), q.OutAmount)
	assert.Equal(t, 1, *counts[0])
	assert.Equal(t, 1, *counts[1])
}

func TestJupiterEmptyOutputIsProviderFailureNotEndpointFailure(t *testing.T) {
	// A 2xx body without an output amount is a valid negative answer for the
	// endpoint loop but still counts as a provider failure for the chain.
	p, counts := newJupiterProvider(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"inputMint": "x"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(jupiterQuoteBody))
		},
	)

	_, err := p.GetQuote(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 1, *counts[0])
	assert.Equal(t, 0, *counts[1], "2xx response must end the endpoint loop")
}

func TestJupiterAllEndpointsDown(t *testing.T) {
	p, _ := newJupiterProvider(t,
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
	)

	_, err := p.GetQuote(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

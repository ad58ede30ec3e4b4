package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/alerts"
	"github.com/Ibxdevgh/gaia-main/internal/coingecko"
	"github.com/Ibxdevgh/gaia-main/internal/market"
	"github.com/Ibxdevgh/gaia-main/internal/quote"
	"github.com/Ibxdevgh/gaia-main/internal/swap"
	"github.com/Ibxdevgh/gaia-main/internal/token"
	"github.com/Ibxdevgh/gaia-main/internal/wallet"
)

type stubQuoter struct {
	quote *quote.Quote
	err   error
}

func (s *stubQuoter) GetQuote(ctx context.Context, req quote.Request) (*quote.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}

type stubBuilder struct {
	tx  *swap.Transaction
	err error
}

func (s *stubBuilder) BuildTransaction(ctx context.Context, q *quote.Quote, userPublicKey string) (*swap.Transaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tx, nil
}

type stubWallets struct {
	balance *wallet.Balance
	err     error
}

func (s *stubWallets) Balance(ctx context.Context, address string) (*wallet.Balance, error) {
	return s.balance, s.err
}

func (s *stubWallets) Portfolio(ctx context.Context, address string) (*wallet.Portfolio, error) {
	return nil, s.err
}

func (s *stubWallets) Transactions(ctx context.Context, address string, limit int) ([]wallet.TransactionRecord, error) {
	return nil, s.err
}

type stubMarket struct {
	price *coingecko.SolPrice
	err   error
}

func (s *stubMarket) SolPrice(ctx context.Context) (*coingecko.SolPrice, error) {
	return s.price, s.err
}

func (s *stubMarket) SolMarket(ctx context.Context) (*coingecko.MarketSnapshot, error) {
	return nil, s.err
}

func (s *stubMarket) Trending(ctx context.Context) ([]market.TrendingToken, error) {
	return nil, s.err
}

func (s *stubMarket) Search(ctx context.Context, query string) ([]market.SearchResult, error) {
	return []market.SearchResult{{Mint: "Found"}}, s.err
}

func (s *stubMarket) TokenInfo(ctx context.Context, mint string) (*market.TokenDetail, error) {
	return nil, s.err
}

type stubPrices map[string]float64

func (s stubPrices) GetUsdPrice(ctx context.Context, mint string) (float64, error) {
	return s[mint], nil
}

func newTestServer(t *testing.T, quoter Quoter, builder Builder) *Server {
	t.Helper()

	logger := zap.NewNop()
	alertSvc := alerts.NewService(alerts.NewMemoryAlertStore(), stubPrices{}, token.NewRegistry(), logger)
	return New(
		quoter,
		builder,
		&stubWallets{balance: &wallet.Balance{Address: "w", Sol: 2.0}},
		&stubMarket{price: &coingecko.SolPrice{Price: 135.0}},
		alertSvc,
		alerts.NewMemoryWatchlistStore(),
		logger,
	)
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestQuoteEndpoint(t *testing.T) {
	quoter := &stubQuoter{quote: &quote.Quote{
		InAmount:   1_000_000_000,
		OutAmount:  135_000_000,
		Provider:   quote.ProviderJupiter,
		Executable: true,
	}}
	s := newTestServer(t, quoter, &stubBuilder{})

	rec := doRequest(t, s, http.MethodGet, "/api/quote?inputMint=a&outputMint=b&amount=1000000000&slippageBps=50", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got quote.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(135_000_000), got.OutAmount)
	assert.Equal(t, quote.ProviderJupiter, got.Provider)
}

func TestQuoteEndpointRejectsBadAmount(t *testing.T) {
	s := newTestServer(t, &stubQuoter{}, &stubBuilder{})

	rec := doRequest(t, s, http.MethodGet, "/api/quote?inputMint=a&outputMint=b&amount=nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteEndpointMapsNoQuoteTo503(t *testing.T) {
	s := newTestServer(t, &stubQuoter{err: quote.ErrNoQuote}, &stubBuilder{})

	rec := doRequest(t, s, http.MethodGet, "/api/quote?inputMint=a&outputMint=b&amount=1", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DEX_UNAVAILABLE", resp.Code)
}

func TestSwapEndpoint(t *testing.T) {
	builder := &stubBuilder{tx: &swap.Transaction{SwapTransaction: "dHg=", Provider: quote.ProviderJupiter}}
	s := newTestServer(t, &stubQuoter{}, builder)

	body := `{"quote": {"inAmount": "1", "outAmount": "1", "provider": "jupiter", "executable": true}, "userPublicKey": "w"}`
	rec := doRequest(t, s, http.MethodPost, "/api/swap", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var tx swap.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tx))
	assert.Equal(t, "dHg=", tx.SwapTransaction)
}

func TestSwapEndpointErrorCodes(t *testing.T) {
	body := `{"quote": {"inAmount": "1", "outAmount": "1"}, "userPublicKey": "w"}`

	s := newTestServer(t, &stubQuoter{}, &stubBuilder{err: swap.ErrBuildFailed})
	rec := doRequest(t, s, http.MethodPost, "/api/swap", body)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BUILD_FAILED", resp.Code)

	s = newTestServer(t, &stubQuoter{}, &stubBuilder{err: swap.ErrNotExecutable})
	rec = doRequest(t, s, http.MethodPost, "/api/swap", body)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_EXECUTABLE", resp.Code)
}

func TestSwapEndpointRequiresQuote(t *testing.T) {
	s := newTestServer(t, &stubQuoter{}, &stubBuilder{})

	rec := doRequest(t, s, http.MethodPost, "/api/swap", `{"userPublicKey": "w"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBalanceEndpointRequiresAddress(t *testing.T) {
	s := newTestServer(t, &stubQuoter{}, &stubBuilder{})

	rec := doRequest(t, s, http.MethodGet, "/api/solana/balance", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/solana/balance?address=w", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSolPriceEndpoint(t *testing.T) {
	s := newTestServer(t, &stubQuoter{}, &stubBuilder{})

	rec := doRequest(t, s, http.MethodGet, "/api/solana/price", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var price coingecko.SolPrice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &price))
	assert.InDelta(t, 135.0, price.Price, 1e-9)
}

func TestAlertLifecycle(t *testing.T) {
	s := newTestServer(t, &stubQuoter{}, &stubBuilder{})

	body := `{"walletAddress": "11111111111111111111111111111111", "tokenMint": "` + token.WSOLMint + `", "targetPrice": 150, "condition": "above"}`
	rec := doRequest(t, s, http.MethodPost, "/api/alerts", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created alerts.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = doRequest(t, s, http.MethodGet, "/api/alerts?wallet=11111111111111111111111111111111", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []alerts.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = doRequest(t, s, http.MethodDelete, "/api/alerts?id="+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, s, http.MethodDelete, "/api/alerts?id="+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlertCreateRejectsBadCondition(t *testing.T) {
	s := newTestServer(t, &stubQuoter{}, &stubBuilder{})

	body := `{"walletAddress": "11111111111111111111111111111111", "tokenMint": "m", "targetPrice": 1, "condition": "sideways"}`
	rec := doRequest(t, s, http.MethodPost, "/api/alerts", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchlistLifecycle(t *testing.T) {
	s := newTestServer(t, &stubQuoter{}, &stubBuilder{})

	rec := doRequest(t, s, http.MethodPost, "/api/wallets", `{"address": "w1", "label": "main"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/wallets?balances=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var views []watchedWalletView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "main", views[0].Label)
	assert.InDelta(t, 2.0, views[0].Sol, 1e-9)
	assert.InDelta(t, 270.0, views[0].ValueUsd, 1e-6)

	rec = doRequest(t, s, http.MethodDelete, "/api/wallets?address=w1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t, &stubQuoter{}, &stubBuilder{})

	rec := doRequest(t, s, http.MethodGet, "/api/tokens/search?q=bonk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var results []market.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Found", results[0].Mint)
}

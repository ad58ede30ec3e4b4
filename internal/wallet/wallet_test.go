package wallet

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/coingecko"
	"github.com/Ibxdevgh/gaia-main/internal/oracle"
	"github.com/Ibxdevgh/gaia-main/internal/token"
)

const testAddress = "11111111111111111111111111111111"

type stubRPC struct {
	lamports uint64
	accounts []*rpc.TokenAccount
	sigs     []*rpc.TransactionSignature

	balanceErrs int
}

func (s *stubRPC) GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	if s.balanceErrs > 0 {
		s.balanceErrs--
		return nil, errors.New("429 too many requests")
	}
	return &rpc.GetBalanceResult{Value: s.lamports}, nil
}

func (s *stubRPC) GetTokenAccountsByOwner(ctx context.Context, owner solana.PublicKey, conf *rpc.GetTokenAccountsConfig, opts *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error) {
	return &rpc.GetTokenAccountsResult{Value: s.accounts}, nil
}

func (s *stubRPC) GetSignaturesForAddressWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error) {
	limit := len(s.sigs)
	if opts.Limit != nil && *opts.Limit < limit {
		limit = *opts.Limit
	}
	return s.sigs[:limit], nil
}

type stubPrices map[string]float64

func (s stubPrices) GetUsdPrice(ctx context.Context, mint string) (float64, error) {
	if v, ok := s[mint]; ok {
		return v, nil
	}
	return 0, oracle.ErrPriceUnavailable
}

func tokenAccount(t *testing.T, mint string, amount uint64) *rpc.TokenAccount {
	t.Helper()

	data := make([]byte, tokenAccountSize)
	copy(data[:32], solana.MustPublicKeyFromBase58(mint).Bytes())
	binary.LittleEndian.PutUint64(data[tokenAccountAmountOffset:tokenAccountAmountOffset+8], amount)

	encoded := rpc.DataBytesOrJSONFromBytes(data)
	return &rpc.TokenAccount{Account: rpc.Account{Data: encoded}}
}

func newCoinGecko(t *testing.T, price, change float64) *coingecko.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"solana": map[string]float64{
				"usd":            price,
				"usd_24h_change": change,
			},
		})
	}))
	t.Cleanup(srv.Close)
	return coingecko.New(srv.URL, zap.NewNop())
}

func TestBalanceParsesTokenAccounts(t *testing.T) {
	rpcStub := &stubRPC{
		lamports: 2_500_000_000,
		accounts: []*rpc.TokenAccount{
			tokenAccount(t, token.USDCMint, 10_000_000),
			tokenAccount(t, token.USDTMint, 0), // empty, skipped
		},
	}
	svc := NewService(rpcStub, token.NewRegistry(), stubPrices{}, nil, zap.NewNop())

	b, err := svc.Balance(context.Background(), testAddress)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, b.Sol, 1e-9)
	assert.Equal(t, uint64(2_500_000_000), b.Lamports)
	require.Len(t, b.Tokens, 1)
	assert.Equal(t, token.USDCMint, b.Tokens[0].Mint)
	assert.Equal(t, "USDC", b.Tokens[0].Symbol)
	assert.InDelta(t, 10.0, b.Tokens[0].Amount, 1e-9)
	assert.Equal(t, uint64(10_000_000), b.Tokens[0].RawAmount)
}

func TestBalanceRetriesTransientFailures(t *testing.T) {
	rpcStub := &stubRPC{lamports: 1_000_000_000, balanceErrs: 2}
	svc := NewService(rpcStub, token.NewRegistry(), stubPrices{}, nil, zap.NewNop())

	b, err := svc.Balance(context.Background(), testAddress)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, b.Sol, 1e-9)
}

func TestBalanceRejectsBadAddress(t *testing.T) {
	svc := NewService(&stubRPC{}, token.NewRegistry(), stubPrices{}, nil, zap.NewNop())

	_, err := svc.Balance(context.Background(), "not-an-address")
	assert.Error(t, err)
}

func TestPortfolioValuesHoldings(t *testing.T) {
	rpcStub := &stubRPC{
		lamports: 2_000_000_000,
		accounts: []*rpc.TokenAccount{tokenAccount(t, token.USDCMint, 50_000_000)},
	}
	prices := stubPrices{token.USDCMint: 1.0}
	svc := NewService(rpcStub, token.NewRegistry(), prices, newCoinGecko(t, 135.0, -2.5), zap.NewNop())

	p, err := svc.Portfolio(context.Background(), testAddress)
	require.NoError(t, err)

	assert.InDelta(t, 270.0, p.SolValueUsd, 1e-6)
	assert.InDelta(t, -2.5, p.SolChange24h, 1e-9)
	require.Len(t, p.Items, 1)
	assert.InDelta(t, 50.0, p.Items[0].ValueUsd, 1e-6)
	assert.InDelta(t, 320.0, p.TotalValueUsd, 1e-6)
}

func TestPortfolioKeepsUnpricedTokens(t *testing.T) {
	rpcStub := &stubRPC{
		lamports: 0,
		accounts: []*rpc.TokenAccount{tokenAccount(t, token.USDCMint, 50_000_000)},
	}
	svc := NewService(rpcStub, token.NewRegistry(), stubPrices{}, newCoinGecko(t, 135.0, 0), zap.NewNop())

	p, err := svc.Portfolio(context.Background(), testAddress)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Zero(t, p.Items[0].ValueUsd)
}

func TestTransactionsClampsLimit(t *testing.T) {
	sigs := make([]*rpc.TransactionSignature, 60)
	now := solana.UnixTimeSeconds(time.Now().Unix())
	for i := range sigs {
		sigs[i] = &rpc.TransactionSignature{Slot: uint64(100 + i), BlockTime: &now}
	}
	svc := NewService(&stubRPC{sigs: sigs}, token.NewRegistry(), stubPrices{}, nil, zap.NewNop())

	records, err := svc.Transactions(context.Background(), testAddress, 0)
	require.NoError(t, err)
	assert.Len(t, records, maxSignatures)
	assert.True(t, records[0].Succeeded)
	assert.NotNil(t, records[0].BlockTime)
}

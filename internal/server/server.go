// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/alerts"
	"github.com/Ibxdevgh/gaia-main/internal/coingecko"
	"github.com/Ibxdevgh/gaia-main/internal/market"
	"github.com/Ibxdevgh/gaia-main/internal/oracle"
	"github.com/Ibxdevgh/gaia-main/internal/quote"
	"github.com/Ibxdevgh/gaia-main/internal/swap"
	"github.com/Ibxdevgh/gaia-main/internal/wallet"
)

// Quoter resolves swap quotes through the provider chain.
type Quoter interface {
	GetQuote(ctx context.Context, req quote.Request) (*quote.Quote, error)
}

// Builder turns executable quotes into unsigned transactions.
type Builder interface {
	BuildTransaction(ctx context.Context, q *quote.Quote, userPublicKey string) (*swap.Transaction, error)
}

// WalletReader answers read-only wallet queries.
type WalletReader interface {
	Balance(ctx context.Context, address string) (*wallet.Balance, error)
	Portfolio(ctx context.Context, address string) (*wallet.Portfolio, error)
	Transactions(ctx context.Context, address string, limit int) ([]wallet.TransactionRecord, error)
}

// MarketData serves Solana market lookups.
type MarketData interface {
	SolPrice(ctx context.Context) (*coingecko.SolPrice, error)
	SolMarket(ctx context.Context) (*coingecko.MarketSnapshot, error)
	Trending(ctx context.Context) ([]market.TrendingToken, error)
	Search(ctx context.Context, query string) ([]market.SearchResult, error)
	TokenInfo(ctx context.Context, mint string) (*market.TokenDetail, error)
}

// AlertManager manages per-wallet price alerts.
type AlertManager interface {
	Create(ctx context.Context, walletAddress, mint string, targetPrice float64, condition alerts.Condition) (*alerts.Alert, error)
	List(ctx context.Context, walletAddress string) ([]*alerts.Alert, error)
	Delete(ctx context.Context, id string) error
	CheckOnce(ctx context.Context) ([]*alerts.Alert, error)
}

// Server is the HTTP surface of the dashboard backend.
type Server struct {
	quoter    Quoter
	builder   Builder
	wallets   WalletReader
	market    MarketData
	alerts    AlertManager
	watchlist alerts.WatchlistStore
	logger    *zap.Logger
	mux       *http.ServeMux
}

func New(quoter Quoter, builder Builder, wallets WalletReader, md MarketData, am AlertManager, watchlist alerts.WatchlistStore, logger *zap.Logger) *Server {
	s := &Server{
		quoter:    quoter,
		builder:   builder,
		wallets:   wallets,
		market:    md,
		alerts:    am,
		watchlist: watchlist,
		logger:    logger.Named("http"),
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/quote", s.handleQuote)
	s.mux.HandleFunc("POST /api/swap", s.handleSwap)
	s.mux.HandleFunc("GET /api/solana/price", s.handleSolPrice)
	s.mux.HandleFunc("GET /api/solana/market", s.handleSolMarket)
	s.mux.HandleFunc("GET /api/solana/balance", s.handleBalance)
	s.mux.HandleFunc("GET /api/portfolio", s.handlePortfolio)
	s.mux.HandleFunc("GET /api/transactions", s.handleTransactions)
	s.mux.HandleFunc("GET /api/tokens/trending", s.handleTrending)
	s.mux.HandleFunc("GET /api/tokens/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/tokens/info", s.handleTokenInfo)
	s.mux.HandleFunc("GET /api/alerts", s.handleListAlerts)
	s.mux.HandleFunc("POST /api/alerts", s.handleCreateAlert)
	s.mux.HandleFunc("DELETE /api/alerts", s.handleDeleteAlert)
	s.mux.HandleFunc("GET /api/wallets", s.handleListWallets)
	s.mux.HandleFunc("POST /api/wallets", s.handleAddWallet)
	s.mux.HandleFunc("DELETE /api/wallets", s.handleRemoveWallet)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.logger.Debug("request handled",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Duration("duration", time.Since(start)))
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

// writeError maps domain errors to HTTP statuses and stable error codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quote.ErrNoQuote):
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: "DEX_UNAVAILABLE"})
	case errors.Is(err, swap.ErrBuildFailed):
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: "BUILD_FAILED"})
	case errors.Is(err, swap.ErrNotExecutable):
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: "NOT_EXECUTABLE"})
	case errors.Is(err, oracle.ErrPriceUnavailable):
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: "PRICE_UNAVAILABLE"})
	case errors.Is(err, alerts.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
}

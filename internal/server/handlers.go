// internal/server/handlers.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ibxdevgh/gaia-main/internal/alerts"
	"github.com/Ibxdevgh/gaia-main/internal/quote"
)

const defaultSlippageBps = 50

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := strconv.ParseUint(q.Get("amount"), 10, 64)
	if err != nil {
		s.writeError(w, fmt.Errorf("invalid amount: %q", q.Get("amount")))
		return
	}
	slippageBps := defaultSlippageBps
	if raw := q.Get("slippageBps"); raw != "" {
		slippageBps, err = strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, fmt.Errorf("invalid slippageBps: %q", raw))
			return
		}
	}

	result, err := s.quoter.GetQuote(r.Context(), quote.Request{
		InputMint:   q.Get("inputMint"),
		OutputMint:  q.Get("outputMint"),
		Amount:      amount,
		SlippageBps: slippageBps,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

type swapRequest struct {
	Quote         *quote.Quote `json:"quote"`
	UserPublicKey string       `json:"userPublicKey"`
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Quote == nil {
		s.writeError(w, fmt.Errorf("quote is required"))
		return
	}

	tx, err := s.builder.BuildTransaction(r.Context(), req.Quote, req.UserPublicKey)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleSolPrice(w http.ResponseWriter, r *http.Request) {
	price, err := s.market.SolPrice(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: "PRICE_UNAVAILABLE"})
		return
	}
	s.writeJSON(w, http.StatusOK, price)
}

func (s *Server) handleSolMarket(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.market.SolMarket(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: "PRICE_UNAVAILABLE"})
		return
	}
	s.writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		s.writeError(w, fmt.Errorf("address is required"))
		return
	}
	balance, err := s.wallets.Balance(r.Context(), address)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, balance)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		s.writeError(w, fmt.Errorf("address is required"))
		return
	}
	portfolio, err := s.wallets.Portfolio(r.Context(), address)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, portfolio)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		s.writeError(w, fmt.Errorf("address is required"))
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil {
			s.writeError(w, fmt.Errorf("invalid limit: %q", raw))
			return
		}
	}
	records, err := s.wallets.Transactions(r.Context(), address, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.market.Trending(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.market.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	mint := r.URL.Query().Get("address")
	if mint == "" {
		s.writeError(w, fmt.Errorf("address is required"))
		return
	}
	detail, err := s.market.TokenInfo(r.Context(), mint)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	// Alerts are refreshed on read so the dashboard always sees current
	// prices and trigger states.
	if _, err := s.alerts.CheckOnce(r.Context()); err != nil {
		s.logger.Warn("alert refresh failed", zap.Error(err))
	}
	list, err := s.alerts.List(r.Context(), r.URL.Query().Get("wallet"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

type createAlertRequest struct {
	WalletAddress string  `json:"walletAddress"`
	TokenMint     string  `json:"tokenMint"`
	TargetPrice   float64 `json:"targetPrice"`
	Condition     string  `json:"condition"`
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	alert, err := s.alerts.Create(r.Context(), req.WalletAddress, req.TokenMint, req.TargetPrice, alerts.Condition(req.Condition))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, alert)
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeError(w, fmt.Errorf("id is required"))
		return
	}
	if err := s.alerts.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type watchedWalletView struct {
	alerts.WatchedWallet
	Sol      float64 `json:"sol,omitempty"`
	ValueUsd float64 `json:"valueUsd,omitempty"`
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.watchlist.ListWallets(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	views := make([]watchedWalletView, len(wallets))
	for i, wl := range wallets {
		views[i] = watchedWalletView{WatchedWallet: *wl}
	}

	if r.URL.Query().Get("balances") == "true" {
		solPrice := 0.0
		if price, err := s.market.SolPrice(r.Context()); err == nil {
			solPrice = price.Price
		}
		g, gctx := errgroup.WithContext(r.Context())
		for i := range views {
			i := i
			g.Go(func() error {
				balance, err := s.wallets.Balance(gctx, views[i].Address)
				if err != nil {
					s.logger.Debug("cannot load watched balance",
						zap.String("address", views[i].Address), zap.Error(err))
					return nil
				}
				views[i].Sol = balance.Sol
				views[i].ValueUsd = balance.Sol * solPrice
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, views)
}

type addWalletRequest struct {
	Address string `json:"address"`
	Label   string `json:"label"`
}

func (s *Server) handleAddWallet(w http.ResponseWriter, r *http.Request) {
	var req addWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Address == "" {
		s.writeError(w, fmt.Errorf("address is required"))
		return
	}
	entry := &alerts.WatchedWallet{
		Address: req.Address,
		Label:   req.Label,
		AddedAt: time.Now().UTC(),
	}
	if err := s.watchlist.AddWallet(r.Context(), entry); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleRemoveWallet(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		s.writeError(w, fmt.Errorf("address is required"))
		return
	}
	if err := s.watchlist.RemoveWallet(r.Context(), address); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

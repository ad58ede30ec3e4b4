// internal/alerts/service.go
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/oracle"
	"github.com/Ibxdevgh/gaia-main/internal/token"
)

// checkInterval paces the background alert sweep. Each sweep prices every
// watched mint once, so the interval also bounds oracle load.
const checkInterval = time.Minute

// Service manages price alerts and evaluates them against the oracle.
type Service struct {
	store    AlertStore
	prices   oracle.PriceSource
	registry *token.Registry
	logger   *zap.Logger
}

func NewService(store AlertStore, prices oracle.PriceSource, registry *token.Registry, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		prices:   prices,
		registry: registry,
		logger:   logger.Named("alerts"),
	}
}

// Create validates and stores a new alert, stamping the current price so the
// user can see the starting point.
func (s *Service) Create(ctx context.Context, walletAddress, mint string, targetPrice float64, condition Condition) (*Alert, error) {
	if _, err := solana.PublicKeyFromBase58(walletAddress); err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}
	if mint == "" {
		return nil, fmt.Errorf("token mint is required")
	}
	if targetPrice <= 0 {
		return nil, fmt.Errorf("target price must be positive")
	}
	if condition != ConditionAbove && condition != ConditionBelow {
		return nil, ErrInvalidCondition
	}

	alert := &Alert{
		WalletAddress: walletAddress,
		TokenMint:     mint,
		TargetPrice:   targetPrice,
		Condition:     condition,
		CreatedAt:     time.Now().UTC(),
	}
	if meta, ok := s.registry.Lookup(mint); ok {
		alert.TokenSymbol = meta.Symbol
	}
	if price, err := s.prices.GetUsdPrice(ctx, mint); err == nil {
		alert.CurrentPrice = price
	}

	if err := s.store.SaveAlert(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// List returns a wallet's alerts, newest first.
func (s *Service) List(ctx context.Context, walletAddress string) ([]*Alert, error) {
	return s.store.ListAlerts(ctx, walletAddress)
}

// Delete removes an alert.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteAlert(ctx, id)
}

// CheckOnce prices every active alert and marks the ones whose condition is
// now satisfied. It returns the alerts that fired.
func (s *Service) CheckOnce(ctx context.Context) ([]*Alert, error) {
	active, err := s.store.ListActiveAlerts(ctx)
	if err != nil {
		return nil, err
	}

	var fired []*Alert
	for _, alert := range active {
		price, err := s.prices.GetUsdPrice(ctx, alert.TokenMint)
		if err != nil {
			s.logger.Debug("cannot price alert",
				zap.String("id", alert.ID),
				zap.String("mint", alert.TokenMint),
				zap.Error(err))
			continue
		}

		alert.CurrentPrice = price
		if alert.ShouldTrigger(price) {
			now := time.Now().UTC()
			alert.Triggered = true
			alert.TriggeredAt = &now
			fired = append(fired, alert)
			s.logger.Info("alert triggered",
				zap.String("id", alert.ID),
				zap.String("mint", alert.TokenMint),
				zap.Float64("target", alert.TargetPrice),
				zap.Float64("price", price))
		}
		if err := s.store.SaveAlert(ctx, alert); err != nil {
			return fired, err
		}
	}
	return fired, nil
}

// Run sweeps alerts on a fixed interval until the context is canceled.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CheckOnce(ctx); err != nil {
				s.logger.Warn("alert sweep failed", zap.Error(err))
			}
		}
	}
}

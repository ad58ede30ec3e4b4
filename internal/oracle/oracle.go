// internal/oracle/oracle.go
package oracle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/coingecko"
	"github.com/Ibxdevgh/gaia-main/internal/dexscreener"
	"github.com/Ibxdevgh/gaia-main/internal/token"
)

// ErrPriceUnavailable signals that no USD price could be determined for a
// mint. Callers treat it as a legitimate outcome and degrade, never crash.
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceSource resolves a mint to its current USD unit price.
type PriceSource interface {
	GetUsdPrice(ctx context.Context, mint string) (float64, error)
}

// Service resolves prices from three sources depending on the mint:
// CoinGecko for native SOL, a constant for recognized stables, and the
// highest-liquidity DexScreener pair for everything else.
type Service struct {
	registry    *token.Registry
	coingecko   *coingecko.Client
	dexscreener *dexscreener.Client
	logger      *zap.Logger
}

func New(registry *token.Registry, cg *coingecko.Client, ds *dexscreener.Client, logger *zap.Logger) *Service {
	return &Service{
		registry:    registry,
		coingecko:   cg,
		dexscreener: ds,
		logger:      logger.Named("oracle"),
	}
}

func (s *Service) GetUsdPrice(ctx context.Context, mint string) (float64, error) {
	if s.registry.IsNative(mint) {
		sol, err := s.coingecko.SolPrice(ctx)
		if err != nil {
			s.logger.Debug("SOL price lookup failed", zap.Error(err))
			return 0, fmt.Errorf("%w: %s", ErrPriceUnavailable, mint)
		}
		return sol.Price, nil
	}

	// Stable-value tokens are definitionally ~1 USD; skipping the network
	// call avoids burning rate limit on a constant.
	if s.registry.IsStable(mint) {
		return 1.0, nil
	}

	pair, err := s.dexscreener.BestSolanaPair(ctx, mint)
	if err != nil {
		s.logger.Debug("token price lookup failed",
			zap.String("mint", mint),
			zap.Error(err))
		return 0, fmt.Errorf("%w: %s", ErrPriceUnavailable, mint)
	}
	price := pair.Price()
	if price == 0 {
		return 0, fmt.Errorf("%w: %s", ErrPriceUnavailable, mint)
	}
	return price, nil
}

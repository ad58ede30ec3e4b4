// internal/quote/fallback.go
package quote

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ibxdevgh/gaia-main/internal/oracle"
	"github.com/Ibxdevgh/gaia-main/internal/token"
)

// fallbackSpreadFactor is the synthetic spread applied to oracle-derived
// quotes. It is wider than the pool fee because no venue backs the number.
const fallbackSpreadFactor = 0.995

// Synthesizer computes a display-only quote purely from oracle prices when
// every live provider is unreachable. The result is never executable.
type Synthesizer struct {
	prices   oracle.PriceSource
	registry *token.Registry
	logger   *zap.Logger
}

func NewSynthesizer(prices oracle.PriceSource, registry *token.Registry, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		prices:   prices,
		registry: registry,
		logger:   logger.Named("fallback"),
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (*Quote, error) {
	var inputPrice, outputPrice float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.prices.GetUsdPrice(gctx, req.InputMint)
		inputPrice = v
		return err
	})
	g.Go(func() error {
		v, err := s.prices.GetUsdPrice(gctx, req.OutputMint)
		outputPrice = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPriceData, err)
	}
	if inputPrice == 0 || outputPrice == 0 {
		return nil, ErrNoPriceData
	}

	inDecimals := s.registry.Decimals(req.InputMint)
	outDecimals := s.registry.Decimals(req.OutputMint)

	inNum := float64(req.Amount) / math.Pow10(inDecimals)
	inputValueUsd := inNum * inputPrice
	outNum := inputValueUsd / outputPrice
	outWithSpread := outNum * fallbackSpreadFactor
	outAmount := uint64(math.Floor(outWithSpread * math.Pow10(outDecimals)))

	return &Quote{
		InputMint:            req.InputMint,
		OutputMint:           req.OutputMint,
		InAmount:             req.Amount,
		OutAmount:            outAmount,
		OtherAmountThreshold: MinOutForSlippage(outAmount, req.SlippageBps),
		SwapMode:             "ExactIn",
		SlippageBps:          req.SlippageBps,
		PriceImpactPct:       0.5,
		RoutePlan:            []RouteHop{},
		PriceInfo: &PriceInfo{
			InputPrice:  inputPrice,
			OutputPrice: outputPrice,
			Rate:        (inputPrice / outputPrice) * fallbackSpreadFactor,
		},
		Provider:   ProviderFallback,
		Executable: false,
	}, nil
}

// internal/quote/pool.go
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ibxdevgh/gaia-main/internal/dexscreener"
	"github.com/Ibxdevgh/gaia-main/internal/token"
)

// poolFeeFactor is the fixed venue-fee haircut applied to pool-derived
// output amounts.
const poolFeeFactor = 0.997

// PoolProvider derives a quote from aggregated pool prices when no DEX
// aggregator answers. It prices both assets from their deepest Solana pools
// and attaches the matching pool, when one exists, as the route. The result
// is an estimate: no transaction can be built from it.
type PoolProvider struct {
	ds       *dexscreener.Client
	registry *token.Registry
	logger   *zap.Logger
}

func NewPoolProvider(ds *dexscreener.Client, registry *token.Registry, logger *zap.Logger) *PoolProvider {
	return &PoolProvider{
		ds:       ds,
		registry: registry,
		logger:   logger.Named("pool-quote"),
	}
}

func (p *PoolProvider) ID() ProviderID { return ProviderDexScreener }

func (p *PoolProvider) GetQuote(ctx context.Context, req Request) (*Quote, error) {
	var inputPrice, outputPrice float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := p.poolPrice(gctx, req.InputMint)
		inputPrice = v
		return err
	})
	g.Go(func() error {
		v, err := p.poolPrice(gctx, req.OutputMint)
		outputPrice = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: dexscreener: %v", ErrProviderUnavailable, err)
	}

	inDecimals := p.registry.Decimals(req.InputMint)
	outDecimals := p.registry.Decimals(req.OutputMint)

	inNum := float64(req.Amount) / math.Pow10(inDecimals)
	inputValueUsd := inNum * inputPrice
	outNum := inputValueUsd / outputPrice
	outWithFee := outNum * poolFeeFactor
	outAmount := uint64(math.Floor(outWithFee * math.Pow10(outDecimals)))

	route := []RouteHop{}
	var payload json.RawMessage
	if pair, err := p.ds.PairForMints(ctx, req.InputMint, req.OutputMint); err == nil {
		route = append(route, RouteHop{Pool: pair.PairAddress, Dex: pair.DexID})
		payload, _ = json.Marshal(pair)
	}

	return &Quote{
		InputMint:            req.InputMint,
		OutputMint:           req.OutputMint,
		InAmount:             req.Amount,
		OutAmount:            outAmount,
		OtherAmountThreshold: MinOutForSlippage(outAmount, req.SlippageBps),
		SwapMode:             "ExactIn",
		SlippageBps:          req.SlippageBps,
		PriceImpactPct:       0.3,
		RoutePlan:            route,
		PriceInfo: &PriceInfo{
			InputPrice:  inputPrice,
			OutputPrice: outputPrice,
			Rate:        outWithFee / inNum,
		},
		Provider:        ProviderDexScreener,
		Executable:      true,
		ProviderPayload: payload,
	}, nil
}

// poolPrice resolves a mint's USD price from its deepest Solana pool,
// short-circuiting recognized stables to 1.0.
func (p *PoolProvider) poolPrice(ctx context.Context, mint string) (float64, error) {
	if p.registry.IsStable(mint) {
		return 1.0, nil
	}
	pair, err := p.ds.BestSolanaPair(ctx, mint)
	if err != nil {
		return 0, err
	}
	price := pair.Price()
	if price == 0 {
		return 0, fmt.Errorf("pair for %s has no usable price", mint)
	}
	return price, nil
}

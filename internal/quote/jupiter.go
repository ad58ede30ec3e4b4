// internal/quote/jupiter.go
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/oracle"
	"github.com/Ibxdevgh/gaia-main/internal/token"
)

const providerTimeout = 5 * time.Second

// JupiterProvider is the primary aggregator. It exposes several equivalent
// endpoints; only a network failure or non-2xx status moves the lookup to
// the next endpoint. A 2xx response is final for the endpoint loop even if
// it carries no route.
type JupiterProvider struct {
	endpoints []string
	client    *http.Client
	prices    oracle.PriceSource
	registry  *token.Registry
	logger    *zap.Logger
}

func NewJupiterProvider(endpoints []string, prices oracle.PriceSource, registry *token.Registry, logger *zap.Logger) *JupiterProvider {
	return &JupiterProvider{
		endpoints: endpoints,
		client:    &http.Client{},
		prices:    prices,
		registry:  registry,
		logger:    logger.Named("jupiter"),
	}
}

func (p *JupiterProvider) ID() ProviderID { return ProviderJupiter }

type jupiterRouteStep struct {
	SwapInfo struct {
		AmmKey string `json:"ammKey"`
		Label  string `json:"label"`
	} `json:"swapInfo"`
	Percent int `json:"percent"`
}

type jupiterQuote struct {
	InputMint            string             `json:"inputMint"`
	InAmount             string             `json:"inAmount"`
	OutputMint           string             `json:"outputMint"`
	OutAmount            string             `json:"outAmount"`
	OtherAmountThreshold string             `json:"otherAmountThreshold"`
	SwapMode             string             `json:"swapMode"`
	SlippageBps          int                `json:"slippageBps"`
	PriceImpactPct       json.Number        `json:"priceImpactPct"`
	RoutePlan            []jupiterRouteStep `json:"routePlan"`
}

func (p *JupiterProvider) GetQuote(ctx context.Context, req Request) (*Quote, error) {
	var body []byte
	var lastErr error
	for _, base := range p.endpoints {
		b, err := p.fetchQuote(ctx, base, req)
		if err != nil {
			p.logger.Debug("endpoint failed", zap.String("endpoint", base), zap.Error(err))
			lastErr = err
			continue
		}
		body = b
		break
	}
	if body == nil {
		return nil, fmt.Errorf("%w: jupiter: %v", ErrProviderUnavailable, lastErr)
	}

	var native jupiterQuote
	if err := json.Unmarshal(body, &native); err != nil {
		return nil, fmt.Errorf("%w: jupiter: malformed response: %v", ErrProviderUnavailable, err)
	}
	if native.OutAmount == "" {
		return nil, fmt.Errorf("%w: jupiter: empty output amount", ErrProviderUnavailable)
	}

	outAmount, err := strconv.ParseUint(native.OutAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: jupiter: bad output amount %q", ErrProviderUnavailable, native.OutAmount)
	}
	minOut := MinOutForSlippage(outAmount, req.SlippageBps)
	if native.OtherAmountThreshold != "" {
		if v, err := strconv.ParseUint(native.OtherAmountThreshold, 10, 64); err == nil {
			minOut = v
		}
	}
	priceImpact, _ := native.PriceImpactPct.Float64()

	route := make([]RouteHop, 0, len(native.RoutePlan))
	for _, step := range native.RoutePlan {
		route = append(route, RouteHop{
			Pool:  step.SwapInfo.AmmKey,
			Label: step.SwapInfo.Label,
		})
	}

	return &Quote{
		InputMint:            req.InputMint,
		OutputMint:           req.OutputMint,
		InAmount:             req.Amount,
		OutAmount:            outAmount,
		OtherAmountThreshold: minOut,
		SwapMode:             "ExactIn",
		SlippageBps:          req.SlippageBps,
		PriceImpactPct:       priceImpact,
		RoutePlan:            route,
		PriceInfo:            buildPriceInfo(ctx, p.prices, p.registry, req, outAmount),
		Provider:             ProviderJupiter,
		Executable:           true,
		ProviderPayload:      body,
	}, nil
}

func (p *JupiterProvider) fetchQuote(ctx context.Context, base string, req Request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/quote?inputMint=%s&outputMint=%s&amount=%d&slippageBps=%d&swapMode=ExactIn",
		base, req.InputMint, req.OutputMint, req.Amount, req.SlippageBps)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// internal/quote/raydium.go
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/oracle"
	"github.com/Ibxdevgh/gaia-main/internal/token"
)

// RaydiumProvider queries the Raydium trade API compute endpoint.
type RaydiumProvider struct {
	baseURL  string
	client   *http.Client
	prices   oracle.PriceSource
	registry *token.Registry
	logger   *zap.Logger
}

func NewRaydiumProvider(baseURL string, prices oracle.PriceSource, registry *token.Registry, logger *zap.Logger) *RaydiumProvider {
	return &RaydiumProvider{
		baseURL:  baseURL,
		client:   &http.Client{},
		prices:   prices,
		registry: registry,
		logger:   logger.Named("raydium"),
	}
}

func (p *RaydiumProvider) ID() ProviderID { return ProviderRaydium }

type raydiumResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type raydiumSwapData struct {
	OutputAmount         string      `json:"outputAmount"`
	OtherAmountThreshold string      `json:"otherAmountThreshold"`
	PriceImpactPct       json.Number `json:"priceImpactPct"`
	RoutePlan            []struct {
		PoolID string `json:"poolId"`
	} `json:"routePlan"`
}

func (p *RaydiumProvider) GetQuote(ctx context.Context, req Request) (*Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/compute/swap-base-in?inputMint=%s&outputMint=%s&amount=%d&slippageBps=%d&txVersion=V0",
		p.baseURL, req.InputMint, req.OutputMint, req.Amount, req.SlippageBps)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: raydium: %v", ErrProviderUnavailable, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: raydium: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: raydium: unexpected status code %d", ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: raydium: %v", ErrProviderUnavailable, err)
	}

	var parsed raydiumResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: raydium: malformed response: %v", ErrProviderUnavailable, err)
	}
	if !parsed.Success || len(parsed.Data) == 0 {
		return nil, fmt.Errorf("%w: raydium: unsuccessful response", ErrProviderUnavailable)
	}

	var data raydiumSwapData
	if err := json.Unmarshal(parsed.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: raydium: malformed data: %v", ErrProviderUnavailable, err)
	}
	if data.OutputAmount == "" {
		return nil, fmt.Errorf("%w: raydium: empty output amount", ErrProviderUnavailable)
	}
	outAmount, err := strconv.ParseUint(data.OutputAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: raydium: bad output amount %q", ErrProviderUnavailable, data.OutputAmount)
	}

	minOut := MinOutForSlippage(outAmount, req.SlippageBps)
	if data.OtherAmountThreshold != "" {
		if v, err := strconv.ParseUint(data.OtherAmountThreshold, 10, 64); err == nil {
			minOut = v
		}
	}
	priceImpact, _ := data.PriceImpactPct.Float64()

	route := make([]RouteHop, 0, len(data.RoutePlan))
	for _, step := range data.RoutePlan {
		route = append(route, RouteHop{Pool: step.PoolID, Dex: "raydium"})
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
		Provider:             ProviderRaydium,
		Executable:           true,
		ProviderPayload:      parsed.Data,
	}, nil
}

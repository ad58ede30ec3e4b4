// internal/quote/orca.go
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

// OrcaProvider queries the Orca Whirlpools quote API. Orca expects slippage
// as a fraction rather than basis points.
type OrcaProvider struct {
	baseURL  string
	client   *http.Client
	prices   oracle.PriceSource
	registry *token.Registry
	logger   *zap.Logger
}

func NewOrcaProvider(baseURL string, prices oracle.PriceSource, registry *token.Registry, logger *zap.Logger) *OrcaProvider {
	return &OrcaProvider{
		baseURL:  baseURL,
		client:   &http.Client{},
		prices:   prices,
		registry: registry,
		logger:   logger.Named("orca"),
	}
}

func (p *OrcaProvider) ID() ProviderID { return ProviderOrca }

type orcaQuote struct {
	OutAmount            string      `json:"outAmount"`
	OtherAmountThreshold string      `json:"otherAmountThreshold"`
	PriceImpact          json.Number `json:"priceImpact"`
}

func (p *OrcaProvider) GetQuote(ctx context.Context, req Request) (*Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1/quote?inputMint=%s&outputMint=%s&amount=%d&slippage=%s",
		p.baseURL, req.InputMint, req.OutputMint, req.Amount,
		strconv.FormatFloat(float64(req.SlippageBps)/10000, 'f', -1, 64))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: orca: %v", ErrProviderUnavailable, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: orca: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: orca: unexpected status code %d", ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: orca: %v", ErrProviderUnavailable, err)
	}

	var native orcaQuote
	if err := json.Unmarshal(body, &native); err != nil {
		return nil, fmt.Errorf("%w: orca: malformed response: %v", ErrProviderUnavailable, err)
	}
	if native.OutAmount == "" {
		return nil, fmt.Errorf("%w: orca: empty output amount", ErrProviderUnavailable)
	}
	outAmount, err := strconv.ParseUint(native.OutAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: orca: bad output amount %q", ErrProviderUnavailable, native.OutAmount)
	}

	minOut := MinOutForSlippage(outAmount, req.SlippageBps)
	if native.OtherAmountThreshold != "" {
		if v, err := strconv.ParseUint(native.OtherAmountThreshold, 10, 64); err == nil {
			minOut = v
		}
	}
	priceImpact, _ := native.PriceImpact.Float64()

	return &Quote{
		InputMint:            req.InputMint,
		OutputMint:           req.OutputMint,
		InAmount:             req.Amount,
		OutAmount:            outAmount,
		OtherAmountThreshold: minOut,
		SwapMode:             "ExactIn",
		SlippageBps:          req.SlippageBps,
		PriceImpactPct:       priceImpact,
		RoutePlan:            []RouteHop{},
		PriceInfo:            buildPriceInfo(ctx, p.prices, p.registry, req, outAmount),
		Provider:             ProviderOrca,
		Executable:           true,
		ProviderPayload:      body,
	}, nil
}

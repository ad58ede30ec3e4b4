// internal/swap/jupiter.go
package swap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/quote"
)

// JupiterBuilder builds swap transactions through Jupiter's /swap endpoint.
// Like the quote lookup it walks the equivalent endpoints in order and only
// a transport failure or non-2xx status advances to the next one.
type JupiterBuilder struct {
	endpoints []string
	client    *http.Client
	logger    *zap.Logger
}

func NewJupiterBuilder(endpoints []string, logger *zap.Logger) *JupiterBuilder {
	return &JupiterBuilder{
		endpoints: endpoints,
		client:    &http.Client{},
		logger:    logger.Named("jupiter-build"),
	}
}

func (b *JupiterBuilder) ID() quote.ProviderID { return quote.ProviderJupiter }

type jupiterSwapResponse struct {
	SwapTransaction string `json:"swapTransaction"`
	Error           string `json:"error"`
}

func (b *JupiterBuilder) Build(ctx context.Context, q *quote.Quote, userPublicKey string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()

	payload, err := b.requestBody(q, userPublicKey)
	if err != nil {
		return "", err
	}

	var lastErr error
	for _, base := range b.endpoints {
		tx, err := b.postSwap(ctx, base, payload)
		if err != nil {
			b.logger.Debug("endpoint failed", zap.String("endpoint", base), zap.Error(err))
			lastErr = err
			continue
		}
		return tx, nil
	}
	return "", fmt.Errorf("jupiter: %w", lastErr)
}

// requestBody hands Jupiter back its own quote verbatim when we have it, and
// reconstructs an equivalent one from the normalized fields when the quote
// came from elsewhere.
func (b *JupiterBuilder) requestBody(q *quote.Quote, userPublicKey string) ([]byte, error) {
	var quoteResponse json.RawMessage
	if q.Provider == quote.ProviderJupiter && len(q.ProviderPayload) > 0 {
		quoteResponse = q.ProviderPayload
	} else {
		synthesized, err := json.Marshal(map[string]any{
			"inputMint":            q.InputMint,
			"inAmount":             fmt.Sprintf("%d", q.InAmount),
			"outputMint":           q.OutputMint,
			"outAmount":            fmt.Sprintf("%d", q.OutAmount),
			"otherAmountThreshold": fmt.Sprintf("%d", q.OtherAmountThreshold),
			"swapMode":             q.SwapMode,
			"slippageBps":          q.SlippageBps,
			"priceImpactPct":       fmt.Sprintf("%g", q.PriceImpactPct),
			"routePlan":            []any{},
		})
		if err != nil {
			return nil, err
		}
		quoteResponse = synthesized
	}

	return json.Marshal(map[string]any{
		"quoteResponse":           quoteResponse,
		"userPublicKey":           userPublicKey,
		"wrapAndUnwrapSol":        true,
		"dynamicComputeUnitLimit": true,
		"dynamicSlippage":         map[string]any{"maxBps": 300},
		"prioritizationFeeLamports": map[string]any{
			"priorityLevelWithMaxLamports": map[string]any{
				"maxLamports":   10_000_000,
				"priorityLevel": "high",
			},
		},
	})
}

func (b *JupiterBuilder) postSwap(ctx context.Context, base string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/swap", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed jupiterSwapResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("malformed response: %w", err)
	}
	if parsed.SwapTransaction == "" {
		if parsed.Error != "" {
			return "", fmt.Errorf("swap rejected: %s", parsed.Error)
		}
		return "", fmt.Errorf("response has no transaction")
	}
	return parsed.SwapTransaction, nil
}

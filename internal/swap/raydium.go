// internal/swap/raydium.go
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

// RaydiumBuilder builds swap transactions through Raydium's trade API.
type RaydiumBuilder struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewRaydiumBuilder(baseURL string, logger *zap.Logger) *RaydiumBuilder {
	return &RaydiumBuilder{
		baseURL: baseURL,
		client:  &http.Client{},
		logger:  logger.Named("raydium-build"),
	}
}

func (b *RaydiumBuilder) ID() quote.ProviderID { return quote.ProviderRaydium }

type raydiumSwapResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Transaction string `json:"transaction"`
	} `json:"data"`
	Msg string `json:"msg"`
}

func (b *RaydiumBuilder) Build(ctx context.Context, q *quote.Quote, userPublicKey string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]any{
		"wallet":                        userPublicKey,
		"computeUnitPriceMicroLamports": 100_000,
		"inputMint":                     q.InputMint,
		"outputMint":                    q.OutputMint,
		"amount":                        q.InAmount,
		"slippageBps":                   q.SlippageBps,
		"txVersion":                     "V0",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/compute/swap-base-in", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("raydium: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("raydium: unexpected status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed raydiumSwapResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("raydium: malformed response: %w", err)
	}
	if !parsed.Success || parsed.Data.Transaction == "" {
		return "", fmt.Errorf("raydium: swap rejected: %s", parsed.Msg)
	}
	return parsed.Data.Transaction, nil
}

// internal/swap/orca.go
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

// OrcaBuilder builds swap transactions through Orca's whirlpool API. The
// provider payload captured at quote time carries pool state Orca wants
// echoed back, so it is merged into the request when present.
type OrcaBuilder struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewOrcaBuilder(baseURL string, logger *zap.Logger) *OrcaBuilder {
	return &OrcaBuilder{
		baseURL: baseURL,
		client:  &http.Client{},
		logger:  logger.Named("orca-build"),
	}
}

func (b *OrcaBuilder) ID() quote.ProviderID { return quote.ProviderOrca }

type orcaSwapResponse struct {
	Transaction string `json:"transaction"`
	Error       string `json:"error"`
}

func (b *OrcaBuilder) Build(ctx context.Context, q *quote.Quote, userPublicKey string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()

	body := map[string]any{
		"wallet":     userPublicKey,
		"inputMint":  q.InputMint,
		"outputMint": q.OutputMint,
		"amount":     q.InAmount,
		"slippage":   float64(q.SlippageBps) / 10000,
	}
	if q.Provider == quote.ProviderOrca && len(q.ProviderPayload) > 0 {
		var extra map[string]any
		if err := json.Unmarshal(q.ProviderPayload, &extra); err == nil {
			for k, v := range extra {
				if _, taken := body[k]; !taken {
					body[k] = v
				}
			}
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/swap", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("orca: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("orca: unexpected status code: %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed orcaSwapResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("orca: malformed response: %w", err)
	}
	if parsed.Transaction == "" {
		if parsed.Error != "" {
			return "", fmt.Errorf("orca: swap rejected: %s", parsed.Error)
		}
		return "", fmt.Errorf("orca: response has no transaction")
	}
	return parsed.Transaction, nil
}

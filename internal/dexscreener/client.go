// internal/dexscreener/client.go
package dexscreener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	// DexScreener allows 300 requests per minute on the pair endpoints.
	rateLimit      = 300
	requestTimeout = 5 * time.Second

	// SolanaChainID is the chainId value DexScreener uses for Solana pairs.
	SolanaChainID = "solana"
)

// ErrNoPair is returned when no matching Solana pair exists for a token.
var ErrNoPair = errors.New("no matching pair found")

// Client talks to the DexScreener aggregated-liquidity API.
type Client struct {
	baseURL     string
	client      *http.Client
	logger      *zap.Logger
	rateLimiter *time.Ticker
}

func New(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger:      logger.Named("dexscreener"),
		rateLimiter: time.NewTicker(time.Minute / rateLimit),
	}
}

// Close stops the rate limiter's ticker. The client must not be used after
// Close; long-lived callers may skip it, short-lived ones (tests) should not.
func (c *Client) Close() {
	c.rateLimiter.Stop()
}

// TokenInfo identifies one side of a trading pair.
type TokenInfo struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// LiquidityInfo holds the pooled liquidity of a pair.
type LiquidityInfo struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// WindowedStat carries a metric bucketed by time window.
type WindowedStat struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// TxnCount counts buys and sells in a window.
type TxnCount struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// TxnStats buckets transaction counts by time window.
type TxnStats struct {
	M5  TxnCount `json:"m5"`
	H1  TxnCount `json:"h1"`
	H6  TxnCount `json:"h6"`
	H24 TxnCount `json:"h24"`
}

// Pair is a single trading pair as reported by DexScreener.
type Pair struct {
	ChainID       string        `json:"chainId"`
	DexID         string        `json:"dexId"`
	PairAddress   string        `json:"pairAddress"`
	BaseToken     TokenInfo     `json:"baseToken"`
	QuoteToken    TokenInfo     `json:"quoteToken"`
	PriceNative   string        `json:"priceNative"`
	PriceUsd      string        `json:"priceUsd"`
	PriceChange   WindowedStat  `json:"priceChange"`
	Volume        WindowedStat  `json:"volume"`
	Liquidity     LiquidityInfo `json:"liquidity"`
	FDV           float64       `json:"fdv"`
	Txns          TxnStats      `json:"txns"`
	PairCreatedAt int64         `json:"pairCreatedAt"`
}

// Price returns the pair's USD price as a float, 0 when unparseable.
func (p *Pair) Price() float64 {
	v, err := strconv.ParseFloat(p.PriceUsd, 64)
	if err != nil {
		return 0
	}
	return v
}

// PriceInNative returns the pair's price in the chain-native asset.
func (p *Pair) PriceInNative() float64 {
	v, err := strconv.ParseFloat(p.PriceNative, 64)
	if err != nil {
		return 0
	}
	return v
}

type pairsResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

// TokenPairs returns all pairs DexScreener knows for the given mint.
func (c *Client) TokenPairs(ctx context.Context, mint string) ([]Pair, error) {
	var parsed pairsResponse
	if err := c.doRequest(ctx, c.baseURL+"/latest/dex/tokens/"+mint, &parsed); err != nil {
		return nil, fmt.Errorf("failed to get token pairs: %w", err)
	}
	return parsed.Pairs, nil
}

// BestSolanaPair returns the highest-liquidity Solana pair for the mint.
func (c *Client) BestSolanaPair(ctx context.Context, mint string) (*Pair, error) {
	pairs, err := c.TokenPairs(ctx, mint)
	if err != nil {
		return nil, err
	}

	var best *Pair
	maxLiquidity := 0.0
	for i := range pairs {
		pair := &pairs[i]
		if pair.ChainID != SolanaChainID {
			continue
		}
		if best == nil || pair.Liquidity.USD > maxLiquidity {
			maxLiquidity = pair.Liquidity.USD
			best = pair
		}
	}
	if best == nil {
		return nil, ErrNoPair
	}
	return best, nil
}

// PairForMints returns a Solana pair whose two sides are exactly the given
// mints, preferring the one with the deepest liquidity.
func (c *Client) PairForMints(ctx context.Context, mintA, mintB string) (*Pair, error) {
	pairs, err := c.TokenPairs(ctx, mintA)
	if err != nil {
		return nil, err
	}

	var best *Pair
	for i := range pairs {
		pair := &pairs[i]
		if pair.ChainID != SolanaChainID {
			continue
		}
		matches := (pair.BaseToken.Address == mintA && pair.QuoteToken.Address == mintB) ||
			(pair.BaseToken.Address == mintB && pair.QuoteToken.Address == mintA)
		if !matches {
			continue
		}
		if best == nil || pair.Liquidity.USD > best.Liquidity.USD {
			best = pair
		}
	}
	if best == nil {
		return nil, ErrNoPair
	}
	return best, nil
}

// Search runs a free-text pair search.
func (c *Client) Search(ctx context.Context, query string) ([]Pair, error) {
	var parsed pairsResponse
	endpoint := c.baseURL + "/latest/dex/search?q=" + url.QueryEscape(query)
	if err := c.doRequest(ctx, endpoint, &parsed); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return parsed.Pairs, nil
}

// TokenProfile is an entry from the latest token-profiles feed.
type TokenProfile struct {
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	URL          string `json:"url"`
}

// LatestTokenProfiles returns the most recently promoted token profiles.
func (c *Client) LatestTokenProfiles(ctx context.Context) ([]TokenProfile, error) {
	var profiles []TokenProfile
	if err := c.doRequest(ctx, c.baseURL+"/token-profiles/latest/v1", &profiles); err != nil {
		return nil, fmt.Errorf("failed to get token profiles: %w", err)
	}
	return profiles, nil
}

// doRequest performs a rate-limited GET and decodes the JSON body into out.
func (c *Client) doRequest(ctx context.Context, endpoint string, out interface{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.rateLimiter.C:
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

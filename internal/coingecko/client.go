// internal/coingecko/client.go
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// CoinGecko's free tier rate-limits aggressively; the spot price call
	// carries a short timeout so a throttled response fails instead of
	// stalling quote normalization.
	priceTimeout  = 3 * time.Second
	marketTimeout = 5 * time.Second
)

// Client talks to the CoinGecko REST API for SOL market data.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
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
		logger: logger.Named("coingecko"),
	}
}

// SolPrice is the simple-price snapshot for SOL.
type SolPrice struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	Volume24h float64 `json:"volume24h"`
	MarketCap float64 `json:"marketCap"`
}

type simplePriceResponse struct {
	Solana struct {
		USD          float64 `json:"usd"`
		USD24hChange float64 `json:"usd_24h_change"`
		USD24hVol    float64 `json:"usd_24h_vol"`
		USDMarketCap float64 `json:"usd_market_cap"`
	} `json:"solana"`
}

// SolPrice fetches the current SOL spot price in USD.
func (c *Client) SolPrice(ctx context.Context) (*SolPrice, error) {
	ctx, cancel := context.WithTimeout(ctx, priceTimeout)
	defer cancel()

	url := c.baseURL + "/api/v3/simple/price?ids=solana&vs_currencies=usd" +
		"&include_24hr_change=true&include_24hr_vol=true&include_market_cap=true"

	var parsed simplePriceResponse
	if err := c.doRequest(ctx, url, &parsed); err != nil {
		return nil, err
	}
	if parsed.Solana.USD == 0 {
		return nil, fmt.Errorf("coingecko returned no SOL price")
	}

	return &SolPrice{
		Price:     parsed.Solana.USD,
		Change24h: parsed.Solana.USD24hChange,
		Volume24h: parsed.Solana.USD24hVol,
		MarketCap: parsed.Solana.USDMarketCap,
	}, nil
}

// MarketSnapshot is the extended market view of SOL used by the dashboard.
type MarketSnapshot struct {
	Price               float64   `json:"price"`
	MarketCap           float64   `json:"marketCap"`
	MarketCapRank       int       `json:"marketCapRank"`
	Volume24h           float64   `json:"volume24h"`
	High24h             float64   `json:"high24h"`
	Low24h              float64   `json:"low24h"`
	PriceChange24h      float64   `json:"priceChange24h"`
	PriceChange7d       float64   `json:"priceChange7d"`
	PriceChange30d      float64   `json:"priceChange30d"`
	ATH                 float64   `json:"ath"`
	ATHDate             string    `json:"athDate"`
	ATHChangePercentage float64   `json:"athChangePercentage"`
	ATL                 float64   `json:"atl"`
	ATLDate             string    `json:"atlDate"`
	CirculatingSupply   float64   `json:"circulatingSupply"`
	TotalSupply         float64   `json:"totalSupply"`
	Sparkline7d         []float64 `json:"sparkline7d"`
}

type coinResponse struct {
	MarketCapRank int `json:"market_cap_rank"`
	MarketData    struct {
		CurrentPrice struct {
			USD float64 `json:"usd"`
		} `json:"current_price"`
		MarketCap struct {
			USD float64 `json:"usd"`
		} `json:"market_cap"`
		TotalVolume struct {
			USD float64 `json:"usd"`
		} `json:"total_volume"`
		High24h struct {
			USD float64 `json:"usd"`
		} `json:"high_24h"`
		Low24h struct {
			USD float64 `json:"usd"`
		} `json:"low_24h"`
		PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
		PriceChangePercentage7d  float64 `json:"price_change_percentage_7d"`
		PriceChangePercentage30d float64 `json:"price_change_percentage_30d"`
		ATH                      struct {
			USD float64 `json:"usd"`
		} `json:"ath"`
		ATHDate struct {
			USD string `json:"usd"`
		} `json:"ath_date"`
		ATHChangePercentage struct {
			USD float64 `json:"usd"`
		} `json:"ath_change_percentage"`
		ATL struct {
			USD float64 `json:"usd"`
		} `json:"atl"`
		ATLDate struct {
			USD string `json:"usd"`
		} `json:"atl_date"`
		CirculatingSupply float64 `json:"circulating_supply"`
		TotalSupply       float64 `json:"total_supply"`
		Sparkline7d       struct {
			Price []float64 `json:"price"`
		} `json:"sparkline_7d"`
	} `json:"market_data"`
}

// SolMarket fetches the full SOL market snapshot.
func (c *Client) SolMarket(ctx context.Context) (*MarketSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, marketTimeout)
	defer cancel()

	url := c.baseURL + "/api/v3/coins/solana?localization=false&tickers=false" +
		"&community_data=false&developer_data=false&sparkline=true"

	var parsed coinResponse
	if err := c.doRequest(ctx, url, &parsed); err != nil {
		return nil, err
	}

	md := parsed.MarketData
	return &MarketSnapshot{
		Price:               md.CurrentPrice.USD,
		MarketCap:           md.MarketCap.USD,
		MarketCapRank:       parsed.MarketCapRank,
		Volume24h:           md.TotalVolume.USD,
		High24h:             md.High24h.USD,
		Low24h:              md.Low24h.USD,
		PriceChange24h:      md.PriceChangePercentage24h,
		PriceChange7d:       md.PriceChangePercentage7d,
		PriceChange30d:      md.PriceChangePercentage30d,
		ATH:                 md.ATH.USD,
		ATHDate:             md.ATHDate.USD,
		ATHChangePercentage: md.ATHChangePercentage.USD,
		ATL:                 md.ATL.USD,
		ATLDate:             md.ATLDate.USD,
		CirculatingSupply:   md.CirculatingSupply,
		TotalSupply:         md.TotalSupply,
		Sparkline7d:         md.Sparkline7d.Price,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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

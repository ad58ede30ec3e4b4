// internal/market/market.go
package market

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ibxdevgh/gaia-main/internal/coingecko"
	"github.com/Ibxdevgh/gaia-main/internal/dexscreener"
	"github.com/Ibxdevgh/gaia-main/internal/token"
)

const (
	maxSearchResults = 20
	maxTrending      = 8

	// Rough circulating SOL supply used only to approximate market cap when
	// the primary market data source is down.
	approxSolSupply = 590_000_000
)

// Service aggregates Solana market data across CoinGecko and DexScreener.
type Service struct {
	cg       *coingecko.Client
	ds       *dexscreener.Client
	registry *token.Registry
	logger   *zap.Logger
}

func NewService(cg *coingecko.Client, ds *dexscreener.Client, registry *token.Registry, logger *zap.Logger) *Service {
	return &Service{
		cg:       cg,
		ds:       ds,
		registry: registry,
		logger:   logger.Named("market"),
	}
}

// SolPrice returns the current SOL spot snapshot. When CoinGecko is down it
// degrades to the deepest wrapped-SOL pool on DexScreener, with the market
// cap approximated from circulating supply.
func (s *Service) SolPrice(ctx context.Context) (*coingecko.SolPrice, error) {
	price, err := s.cg.SolPrice(ctx)
	if err == nil {
		return price, nil
	}
	s.logger.Warn("coingecko unavailable, falling back to pool price", zap.Error(err))

	pair, dsErr := s.ds.BestSolanaPair(ctx, token.WSOLMint)
	if dsErr != nil {
		return nil, fmt.Errorf("failed to get SOL price: %w", err)
	}
	usd := pair.Price()
	if usd == 0 {
		return nil, fmt.Errorf("failed to get SOL price: %w", err)
	}
	return &coingecko.SolPrice{
		Price:     usd,
		Change24h: pair.PriceChange.H24,
		Volume24h: pair.Volume.H24,
		MarketCap: usd * approxSolSupply,
	}, nil
}

// SolMarket returns the extended SOL market snapshot.
func (s *Service) SolMarket(ctx context.Context) (*coingecko.MarketSnapshot, error) {
	return s.cg.SolMarket(ctx)
}

// TrendingToken is one recently promoted Solana token with its deepest pool
// attached when one is discoverable.
type TrendingToken struct {
	Mint        string  `json:"mint"`
	Symbol      string  `json:"symbol,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	PriceUsd    float64 `json:"priceUsd,omitempty"`
	Change24h   float64 `json:"change24h,omitempty"`
	Volume24h   float64 `json:"volume24h,omitempty"`
	Liquidity   float64 `json:"liquidity,omitempty"`
}

// Trending lists recently promoted Solana tokens, skipping the majors that
// are always promoted and never interesting.
func (s *Service) Trending(ctx context.Context) ([]TrendingToken, error) {
	profiles, err := s.ds.LatestTokenProfiles(ctx)
	if err != nil {
		return nil, err
	}

	excluded := map[string]bool{
		token.WSOLMint: true,
		token.USDCMint: true,
		token.USDTMint: true,
		"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So": true,
		"bSo13r4TkiE4KumL71LsHTPpL2euBYLFx6h9HP3piy1": true,
	}

	tokens := make([]TrendingToken, 0, maxTrending)
	for _, profile := range profiles {
		if profile.ChainID != dexscreener.SolanaChainID || excluded[profile.TokenAddress] {
			continue
		}
		tokens = append(tokens, TrendingToken{
			Mint:        profile.TokenAddress,
			Description: profile.Description,
			Icon:        profile.Icon,
		})
		if len(tokens) == maxTrending {
			break
		}
	}

	// Pool enrichment is best effort: a token without a discoverable pool
	// still appears in the list.
	g, gctx := errgroup.WithContext(ctx)
	for i := range tokens {
		i := i
		g.Go(func() error {
			pair, err := s.ds.BestSolanaPair(gctx, tokens[i].Mint)
			if err != nil {
				s.logger.Debug("no pool for trending token",
					zap.String("mint", tokens[i].Mint), zap.Error(err))
				return nil
			}
			tokens[i].Symbol = pair.BaseToken.Symbol
			tokens[i].Name = pair.BaseToken.Name
			tokens[i].PriceUsd = pair.Price()
			tokens[i].Change24h = pair.PriceChange.H24
			tokens[i].Volume24h = pair.Volume.H24
			tokens[i].Liquidity = pair.Liquidity.USD
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// SearchResult is one pair matched by a free-text token search.
type SearchResult struct {
	Mint        string  `json:"mint"`
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	PairAddress string  `json:"pairAddress"`
	Dex         string  `json:"dex"`
	PriceUsd    float64 `json:"priceUsd"`
	Change24h   float64 `json:"change24h"`
	Volume24h   float64 `json:"volume24h"`
	Liquidity   float64 `json:"liquidity"`
}

// Search runs a free-text token search over Solana pairs, deepest liquidity
// first.
func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	pairs, err := s.ds.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, maxSearchResults)
	for i := range pairs {
		pair := &pairs[i]
		if pair.ChainID != dexscreener.SolanaChainID {
			continue
		}
		results = append(results, SearchResult{
			Mint:        pair.BaseToken.Address,
			Symbol:      pair.BaseToken.Symbol,
			Name:        pair.BaseToken.Name,
			PairAddress: pair.PairAddress,
			Dex:         pair.DexID,
			PriceUsd:    pair.Price(),
			Change24h:   pair.PriceChange.H24,
			Volume24h:   pair.Volume.H24,
			Liquidity:   pair.Liquidity.USD,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Liquidity > results[j].Liquidity })
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results, nil
}

// TokenDetail is the full market view of one token derived from its most
// traded Solana pair.
type TokenDetail struct {
	Mint          string                    `json:"mint"`
	Symbol        string                    `json:"symbol"`
	Name          string                    `json:"name"`
	PriceUsd      float64                   `json:"priceUsd"`
	PriceNative   float64                   `json:"priceNative"`
	PriceChange   dexscreener.WindowedStat  `json:"priceChange"`
	Volume        dexscreener.WindowedStat  `json:"volume"`
	Liquidity     dexscreener.LiquidityInfo `json:"liquidity"`
	FDV           float64                   `json:"fdv"`
	Txns          dexscreener.TxnStats      `json:"txns"`
	PairAddress   string                    `json:"pairAddress"`
	Dex           string                    `json:"dex"`
	PairCreatedAt int64                     `json:"pairCreatedAt"`
}

// TokenInfo returns market detail for a mint from its highest-volume Solana
// pair. Volume ranks better than liquidity here: the most traded pair has
// the freshest price.
func (s *Service) TokenInfo(ctx context.Context, mint string) (*TokenDetail, error) {
	pairs, err := s.ds.TokenPairs(ctx, mint)
	if err != nil {
		return nil, err
	}

	var best *dexscreener.Pair
	for i := range pairs {
		pair := &pairs[i]
		if pair.ChainID != dexscreener.SolanaChainID {
			continue
		}
		if best == nil || pair.Volume.H24 > best.Volume.H24 {
			best = pair
		}
	}
	if best == nil {
		return nil, dexscreener.ErrNoPair
	}

	detail := &TokenDetail{
		Mint:          mint,
		Symbol:        best.BaseToken.Symbol,
		Name:          best.BaseToken.Name,
		PriceUsd:      best.Price(),
		PriceNative:   best.PriceInNative(),
		PriceChange:   best.PriceChange,
		Volume:        best.Volume,
		Liquidity:     best.Liquidity,
		FDV:           best.FDV,
		Txns:          best.Txns,
		PairAddress:   best.PairAddress,
		Dex:           best.DexID,
		PairCreatedAt: best.PairCreatedAt,
	}
	if meta, ok := s.registry.Lookup(mint); ok {
		detail.Symbol = meta.Symbol
		detail.Name = meta.Name
	}
	return detail, nil
}

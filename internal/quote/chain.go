// internal/quote/chain.go
package quote

import (
	"context"

	"go.uber.org/zap"
)

// Provider is a single swap-quote backend. A nil error means a well-formed
// quote with a populated output amount; everything else advances the chain.
type Provider interface {
	ID() ProviderID
	GetQuote(ctx context.Context, req Request) (*Quote, error)
}

// Chain queries providers in priority order and stops at the first success.
// When every provider fails it falls back to a price-derived estimate, and
// only when that is impossible too does the lookup fail.
//
// The chain is intentionally sequential: each step only runs when the
// previous one failed, so parallel dispatch would waste provider calls.
type Chain struct {
	providers   []Provider
	synthesizer *Synthesizer
	logger      *zap.Logger
}

func NewChain(logger *zap.Logger, synthesizer *Synthesizer, providers ...Provider) *Chain {
	return &Chain{
		providers:   providers,
		synthesizer: synthesizer,
		logger:      logger.Named("quote-chain"),
	}
}

func (c *Chain) GetQuote(ctx context.Context, req Request) (*Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	for _, p := range c.providers {
		q, err := p.GetQuote(ctx, req)
		if err != nil {
			c.logger.Debug("provider failed, trying next",
				zap.String("provider", string(p.ID())),
				zap.Error(err))
			continue
		}
		c.logger.Info("quote obtained",
			zap.String("provider", string(p.ID())),
			zap.Uint64("out_amount", q.OutAmount))
		return q, nil
	}

	if c.synthesizer != nil {
		q, err := c.synthesizer.Synthesize(ctx, req)
		if err != nil {
			c.logger.Warn("all providers and fallback synthesis failed", zap.Error(err))
			return nil, ErrNoQuote
		}
		c.logger.Info("all providers failed, returning price-derived estimate")
		return q, nil
	}

	return nil, ErrNoQuote
}

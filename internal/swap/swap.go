// internal/swap/swap.go
package swap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/quote"
)

const buildTimeout = 15 * time.Second

var (
	// ErrNotExecutable means the quote is an estimate that no venue will
	// honor; no builder is even attempted for it.
	ErrNotExecutable = errors.New("quote is not executable")
	// ErrBuildFailed means every capable builder was tried and none
	// produced a transaction.
	ErrBuildFailed = errors.New("transaction build failed")
)

// Transaction is a serialized unsigned swap transaction ready for wallet
// signing, tagged with the venue that built it.
type Transaction struct {
	SwapTransaction string           `json:"swapTransaction"`
	Provider        quote.ProviderID `json:"provider"`
}

// ProviderBuilder turns a normalized quote into a base64 serialized
// transaction for one venue.
type ProviderBuilder interface {
	ID() quote.ProviderID
	Build(ctx context.Context, q *quote.Quote, userPublicKey string) (string, error)
}

// Service dispatches transaction building across venue builders. The
// builder matching the quote's provider goes first so the transaction is
// built against the route the user was actually quoted; the rest act as
// fallbacks.
type Service struct {
	builders []ProviderBuilder
	logger   *zap.Logger
}

func NewService(logger *zap.Logger, builders ...ProviderBuilder) *Service {
	return &Service{
		builders: builders,
		logger:   logger.Named("swap"),
	}
}

func (s *Service) BuildTransaction(ctx context.Context, q *quote.Quote, userPublicKey string) (*Transaction, error) {
	if q == nil {
		return nil, errors.New("quote is required")
	}
	if _, err := solana.PublicKeyFromBase58(userPublicKey); err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}
	if !q.Executable || q.Provider == quote.ProviderDexScreener || q.Provider == quote.ProviderFallback {
		return nil, fmt.Errorf("%w: provider %s", ErrNotExecutable, q.Provider)
	}

	var lastErr error
	for _, b := range s.ordered(q.Provider) {
		tx, err := b.Build(ctx, q, userPublicKey)
		if err != nil {
			s.logger.Debug("builder failed, trying next",
				zap.String("builder", string(b.ID())),
				zap.Error(err))
			lastErr = err
			continue
		}
		s.logger.Info("transaction built",
			zap.String("builder", string(b.ID())),
			zap.String("quoted_by", string(q.Provider)))
		return &Transaction{SwapTransaction: tx, Provider: b.ID()}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrBuildFailed, lastErr)
}

// ordered returns the builders with the quote's own venue first.
func (s *Service) ordered(preferred quote.ProviderID) []ProviderBuilder {
	out := make([]ProviderBuilder, 0, len(s.builders))
	for _, b := range s.builders {
		if b.ID() == preferred {
			out = append(out, b)
		}
	}
	for _, b := range s.builders {
		if b.ID() != preferred {
			out = append(out, b)
		}
	}
	return out
}

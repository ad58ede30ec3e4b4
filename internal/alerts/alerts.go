// internal/alerts/alerts.go
package alerts

import (
	"context"
	"errors"
	"time"
)

// Condition tells which way a price has to cross the target.
type Condition string

const (
	ConditionAbove Condition = "above"
	ConditionBelow Condition = "below"
)

var (
	ErrNotFound         = errors.New("alert not found")
	ErrInvalidCondition = errors.New("condition must be above or below")
)

// Alert is a standing price watch for one token on behalf of one wallet.
type Alert struct {
	ID            string     `json:"id"`
	WalletAddress string     `json:"walletAddress"`
	TokenMint     string     `json:"tokenMint"`
	TokenSymbol   string     `json:"tokenSymbol,omitempty"`
	TargetPrice   float64    `json:"targetPrice"`
	Condition     Condition  `json:"condition"`
	CurrentPrice  float64    `json:"currentPrice"`
	CreatedAt     time.Time  `json:"createdAt"`
	Triggered     bool       `json:"triggered"`
	TriggeredAt   *time.Time `json:"triggeredAt,omitempty"`
}

// ShouldTrigger reports whether price satisfies the alert's condition.
func (a *Alert) ShouldTrigger(price float64) bool {
	switch a.Condition {
	case ConditionAbove:
		return price >= a.TargetPrice
	case ConditionBelow:
		return price <= a.TargetPrice
	}
	return false
}

// WatchedWallet is an address the user follows without owning.
type WatchedWallet struct {
	Address string    `json:"address"`
	Label   string    `json:"label,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

// AlertStore persists price alerts.
type AlertStore interface {
	SaveAlert(ctx context.Context, alert *Alert) error
	GetAlert(ctx context.Context, id string) (*Alert, error)
	ListAlerts(ctx context.Context, walletAddress string) ([]*Alert, error)
	ListActiveAlerts(ctx context.Context) ([]*Alert, error)
	DeleteAlert(ctx context.Context, id string) error
}

// WatchlistStore persists followed wallets.
type WatchlistStore interface {
	AddWallet(ctx context.Context, wallet *WatchedWallet) error
	ListWallets(ctx context.Context) ([]*WatchedWallet, error)
	RemoveWallet(ctx context.Context, address string) error
}

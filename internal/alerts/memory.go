// internal/alerts/memory.go
package alerts

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryAlertStore keeps alerts in process memory.
type MemoryAlertStore struct {
	mu     sync.RWMutex
	alerts map[string]*Alert
	nextID int
}

func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{alerts: make(map[string]*Alert)}
}

func (s *MemoryAlertStore) SaveAlert(ctx context.Context, alert *Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if alert.ID == "" {
		s.nextID++
		alert.ID = fmt.Sprintf("alert-%d", s.nextID)
	}
	cp := *alert
	s.alerts[alert.ID] = &cp
	return nil
}

func (s *MemoryAlertStore) GetAlert(ctx context.Context, id string) (*Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alert, ok := s.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *alert
	return &cp, nil
}

func (s *MemoryAlertStore) ListAlerts(ctx context.Context, walletAddress string) ([]*Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Alert
	for _, alert := range s.alerts {
		if walletAddress != "" && alert.WalletAddress != walletAddress {
			continue
		}
		cp := *alert
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryAlertStore) ListActiveAlerts(ctx context.Context) ([]*Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Alert
	for _, alert := range s.alerts {
		if alert.Triggered {
			continue
		}
		cp := *alert
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryAlertStore) DeleteAlert(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alerts[id]; !ok {
		return ErrNotFound
	}
	delete(s.alerts, id)
	return nil
}

// MemoryWatchlistStore keeps followed wallets in process memory.
type MemoryWatchlistStore struct {
	mu      sync.RWMutex
	wallets map[string]*WatchedWallet
}

func NewMemoryWatchlistStore() *MemoryWatchlistStore {
	return &MemoryWatchlistStore{wallets: make(map[string]*WatchedWallet)}
}

func (s *MemoryWatchlistStore) AddWallet(ctx context.Context, wallet *WatchedWallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *wallet
	s.wallets[wallet.Address] = &cp
	return nil
}

func (s *MemoryWatchlistStore) ListWallets(ctx context.Context) ([]*WatchedWallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*WatchedWallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		cp := *w
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.Before(out[j].AddedAt) })
	return out, nil
}

func (s *MemoryWatchlistStore) RemoveWallet(ctx context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[address]; !ok {
		return ErrNotFound
	}
	delete(s.wallets, address)
	return nil
}

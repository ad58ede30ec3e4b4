// internal/app/app.go
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/Ibxdevgh/gaia-main/internal/alerts"
	"github.com/Ibxdevgh/gaia-main/internal/coingecko"
	"github.com/Ibxdevgh/gaia-main/internal/config"
	"github.com/Ibxdevgh/gaia-main/internal/dexscreener"
	"github.com/Ibxdevgh/gaia-main/internal/market"
	"github.com/Ibxdevgh/gaia-main/internal/oracle"
	"github.com/Ibxdevgh/gaia-main/internal/quote"
	"github.com/Ibxdevgh/gaia-main/internal/server"
	"github.com/Ibxdevgh/gaia-main/internal/swap"
	"github.com/Ibxdevgh/gaia-main/internal/token"
	"github.com/Ibxdevgh/gaia-main/internal/wallet"
)

const shutdownTimeout = 10 * time.Second

// Runner wires the full dashboard backend together and owns its lifecycle.
type Runner struct {
	logger     *zap.Logger
	config     *config.Config
	httpServer *http.Server
	alertSvc   *alerts.Service
	ds         *dexscreener.Client
	shutdownCh chan os.Signal
}

func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	registry := token.NewRegistry()
	cg := coingecko.New(cfg.CoinGeckoURL, logger)
	ds := dexscreener.New(cfg.DexScreenerURL, logger)
	prices := oracle.New(registry, cg, ds, logger)

	chain := quote.NewChain(logger,
		quote.NewSynthesizer(prices, registry, logger),
		quote.NewJupiterProvider(cfg.JupiterURLs, prices, registry, logger),
		quote.NewRaydiumProvider(cfg.RaydiumURL, prices, registry, logger),
		quote.NewOrcaProvider(cfg.OrcaURL, prices, registry, logger),
		quote.NewPoolProvider(ds, registry, logger),
	)

	builder := swap.NewService(logger,
		swap.NewJupiterBuilder(cfg.JupiterURLs, logger),
		swap.NewRaydiumBuilder(cfg.RaydiumURL, logger),
		swap.NewOrcaBuilder(cfg.OrcaURL, logger),
	)

	rpcClient := rpc.New(cfg.RPCList[0])
	walletSvc := wallet.NewService(rpcClient, registry, prices, cg, logger)
	marketSvc := market.NewService(cg, ds, registry, logger)

	alertStore := alerts.NewMemoryAlertStore()
	alertSvc := alerts.NewService(alertStore, prices, registry, logger)
	watchlist := alerts.NewMemoryWatchlistStore()

	srv := server.New(chain, builder, walletSvc, marketSvc, alertSvc, watchlist, logger)

	return &Runner{
		logger: logger,
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Listen,
			Handler:           srv,
			ReadHeaderTimeout: 5 * time.Second,
		},
		alertSvc:   alertSvc,
		ds:         ds,
		shutdownCh: make(chan os.Signal, 1),
	}
}

// Run starts the HTTP server and the background alert sweep, then blocks
// until a shutdown signal arrives or the context is canceled.
func (r *Runner) Run(ctx context.Context) error {
	signal.Notify(r.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go r.alertSvc.Run(runCtx)

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("🚀 Listening", zap.String("addr", r.config.Listen))
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-r.shutdownCh:
		r.logger.Info("📡 Signal received: " + sig.String())
	case <-runCtx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	r.ds.Close()

	r.logger.Info("✅ Server stopped")
	return nil
}

package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/digital-guild/guild/internal/api"
	"github.com/digital-guild/guild/internal/app/cache"
	"github.com/digital-guild/guild/internal/app/incentive"
	"github.com/digital-guild/guild/internal/app/lifecycle"
	"github.com/digital-guild/guild/internal/app/marketplace"
	"github.com/digital-guild/guild/internal/app/recommend"
	"github.com/digital-guild/guild/internal/app/scoring"
	"github.com/digital-guild/guild/internal/app/wallet"
	"github.com/digital-guild/guild/internal/health"
	_ "github.com/digital-guild/guild/internal/infra/metrics" // Register Prometheus metrics
	"github.com/digital-guild/guild/internal/infra/repo"
	"github.com/digital-guild/guild/internal/infra/seed"
	"github.com/digital-guild/guild/internal/infra/store"
)

// Daemon is the core guild runtime. It wires together all services.
type Daemon struct {
	Config Config
	Store  *store.Store
	Repos  *repo.Registry
	Server *api.Server

	Incentives  *incentive.Service
	Market      *marketplace.Service
	Passports   *scoring.PassportService
	Wallet      *wallet.Service
	Lifecycle   *lifecycle.Service
	Recommender *recommend.Service
	Session     *cache.Session
	Health      *health.Checker

	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Storage.Dir
	if dataDir == "" {
		dataDir = GuildHome()
	}
	st, err := store.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	repos := repo.NewRegistry(st)

	incentives := incentive.NewService(repos.Subsidies)
	market := marketplace.NewService(repos.Jobs, repos.Requesters, incentives)
	passports := scoring.NewPassportService(repos.UndertakenJobs, repos.TrustPassports)
	w := wallet.NewService(repos.Transactions)
	lc := lifecycle.NewService(repos.UndertakenJobs, repos.Jobs, repos.Notifications, passports, w)

	generator := recommend.NewOpenAIClient(
		cfg.Recommend.Endpoint,
		cfg.Recommend.Model,
		cfg.Recommend.APIKey,
		time.Duration(cfg.Recommend.TimeoutSeconds)*time.Second,
	)
	recommender := recommend.NewService(
		repos.Jobs, repos.Workers, repos.WorkerSkills, repos.Recommendations,
		generator, cfg.Recommend.ConfidenceThreshold,
	)

	session := cache.NewSession(repos)

	srv := api.NewServer(repos, session, market, incentives, lc, passports, w, recommender)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(st, dataDir)
	srv.SetHealth(checker)

	d := &Daemon{
		Config:      cfg,
		Store:       st,
		Repos:       repos,
		Server:      srv,
		Incentives:  incentives,
		Market:      market,
		Passports:   passports,
		Wallet:      w,
		Lifecycle:   lc,
		Recommender: recommender,
		Session:     session,
		Health:      checker,
	}

	if cfg.Storage.SeedDemo {
		if _, err := seed.Load(st, repos, w, market); err != nil {
			log.Printf("[daemon] seed demo data: %v", err)
		}
	}

	return d, nil
}

// Run starts the HTTP server and blocks until the context is canceled or a
// shutdown signal arrives.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.Store.Close()
	}()

	fmt.Printf("Guild serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.Store != nil {
		_ = d.Store.Close()
	}
}

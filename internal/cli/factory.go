package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/admitcheck"
	"github.com/aretw0/admitcheck/internal/config"
	httpAdapter "github.com/aretw0/admitcheck/pkg/adapters/http"
	loamAdapter "github.com/aretw0/admitcheck/pkg/adapters/loam"
	"github.com/aretw0/admitcheck/pkg/adapters/memory"
	"github.com/aretw0/admitcheck/pkg/adapters/redis"
	"github.com/aretw0/admitcheck/pkg/catalog"
	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/aretw0/admitcheck/pkg/journal"
	"github.com/aretw0/admitcheck/pkg/narrator"
	"github.com/aretw0/admitcheck/pkg/observability"
	"github.com/aretw0/admitcheck/pkg/persistence/middleware"
	"github.com/aretw0/admitcheck/pkg/ports"
	"github.com/aretw0/admitcheck/pkg/rules"
	"github.com/prometheus/client_golang/prometheus"
)

// App is a fully wired assistant together with the infrastructure the
// commands expose around it.
type App struct {
	Assistant *admitcheck.Assistant
	Config    config.Config
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Metrics   *observability.Metrics
	Streams   *httpAdapter.StreamManager

	sweeper *memory.Store
	closers []func() error
}

// NewApp builds the assistant from cfg. A missing or broken rule source
// degrades to empty rules; every other failure is returned.
func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		Streams:  httpAdapter.NewStreamManager(logger),
	}
	app.Metrics = observability.NewMetrics(app.Registry)

	cat, err := LoadCatalog(ctx, cfg.Catalog)
	if err != nil {
		return nil, err
	}
	table := rules.LoadOrEmpty(cfg.Rules, logger)

	log, err := journal.Open(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	opts := []admitcheck.Option{
		admitcheck.WithCatalog(cat),
		admitcheck.WithRules(table),
		admitcheck.WithJournal(log),
		admitcheck.WithLogger(logger),
		admitcheck.WithLifecycleHooks(observability.Combine(
			observability.LoggingHooks(logger),
			app.Metrics.Hooks(),
			app.Streams.Hooks(),
		)),
	}

	storeOpts, err := app.sessionStore(ctx)
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	opts = append(opts, storeOpts...)

	if cfg.LLM.Enabled() {
		logger.Info("LLM narration enabled", "model", cfg.LLM.Model)
		opts = append(opts, admitcheck.WithNarrator(
			narrator.NewLLM(cfg.LLM, narrator.WithObserver(app.Metrics.NarrationObserver())),
		))
	}

	a, err := admitcheck.New(opts...)
	if err != nil {
		_ = log.Close()
		app.closeAll()
		return nil, err
	}
	app.Assistant = a
	app.closers = append(app.closers, a.Close)
	return app, nil
}

func (app *App) sessionStore(ctx context.Context) ([]admitcheck.Option, error) {
	sc := app.Config.Session

	var mws []middleware.Middleware
	if sc.EncryptionKeys != "" {
		keys, err := middleware.ParseKeys(sc.EncryptionKeys)
		if err != nil {
			return nil, fmt.Errorf("invalid session encryption keys: %w", err)
		}
		mw, err := middleware.NewEncryptionMiddleware(keys)
		if err != nil {
			return nil, fmt.Errorf("invalid session encryption keys: %w", err)
		}
		mws = append(mws, mw)
		app.Logger.Info("Session encryption enabled", "fallback_keys", len(keys.FallbackKeys))
	}
	wrap := func(s ports.SessionStore) ports.SessionStore {
		return middleware.Chain(s, mws...)
	}

	switch sc.Store {
	case config.StoreRedis:
		store := redis.New(sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB,
			redis.WithTTL(sc.TTL),
			redis.WithPrefix(sc.Redis.Prefix),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", sc.Redis.Addr, err)
		}
		app.closers = append(app.closers, store.Close)
		app.Logger.Info("Using redis session store", "addr", sc.Redis.Addr, "ttl", sc.TTL)
		return []admitcheck.Option{
			admitcheck.WithStore(wrap(store)),
			admitcheck.WithLocker(redis.NewLocker(store.Client(), sc.Redis.Prefix)),
		}, nil
	default:
		store := memory.New(
			memory.WithTTL(sc.TTL),
			memory.WithEvictionHandler(func(ctx context.Context, state *domain.State) {
				app.Metrics.SessionsExpired.Inc()
				app.Logger.Debug("session expired", "session_id", state.SessionID)
			}),
		)
		app.sweeper = store
		return []admitcheck.Option{admitcheck.WithStore(wrap(store))}, nil
	}
}

// Run starts background maintenance and blocks until ctx is done.
func (app *App) Run(ctx context.Context) {
	if app.sweeper == nil || app.Config.Session.SweepInterval <= 0 {
		<-ctx.Done()
		return
	}
	app.sweeper.Run(ctx, app.Config.Session.SweepInterval)
}

// Close releases the journal and the session backend.
func (app *App) Close() error {
	return app.closeAll()
}

func (app *App) closeAll() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}

// LoadCatalog resolves a catalog source: empty uses the embedded catalog,
// a directory is read as Markdown questions, anything else as a YAML file.
func LoadCatalog(ctx context.Context, path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog source %s: %w", path, err)
	}
	if info.IsDir() {
		return loamAdapter.LoadCatalog(ctx, path)
	}
	return catalog.Load(path)
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/okian/nutrilookup/internal/adapters/http/api"
	"github.com/okian/nutrilookup/internal/adapters/http/site"
	"github.com/okian/nutrilookup/internal/adapters/http/swagger"
	"github.com/okian/nutrilookup/internal/adapters/repository"
	app "github.com/okian/nutrilookup/internal/app"
	"github.com/okian/nutrilookup/internal/config"
	"github.com/okian/nutrilookup/pkg/logger"
	"github.com/okian/nutrilookup/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	// Initialize logging; the configured format is applied once config is loaded.
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Fatal(ctx, "failed to load config", logger.Error(err))
	}

	if err := logger.InitWith(cfg.LogFormat, os.Stdout); err != nil {
		os.Stderr.WriteString("invalid log_format: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts, err := metricsOptions(cfg)
	if err != nil {
		log.Fatal(ctx, "invalid metrics settings", logger.Error(err))
	}
	metrics.Configure(opts...)

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		// The server never listens without a reachable store.
		log.Fatal(ctx, "database connection failed",
			logger.String("driver", cfg.DBDriver),
			logger.Error(err))
	}
	log.Info(ctx, "database connection established",
		logger.String("driver", cfg.DBDriver),
		logger.Int("max_open_conns", cfg.DBMaxOpenConns))

	svc := app.New(store, app.WithLogger(log.Named("service")))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := serve(ctx, srv, store, cfg.ShutdownTimeout, log)
	if err := store.Close(); err != nil {
		log.Error(context.Background(), "closing store failed", logger.Error(err))
	}
	if serveErr != nil {
		log.Error(context.Background(), "server error", logger.Error(serveErr))
		os.Exit(1)
	}
	log.Info(context.Background(), "server stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (*repository.GormStore, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	return repository.Open(ctx, cfg.DBDriver, dsn,
		repository.WithMaxOpenConns(cfg.DBMaxOpenConns),
		repository.WithMaxIdleConns(cfg.DBMaxIdleConns),
		repository.WithConnMaxLifetime(cfg.DBConnMaxLifetime),
		repository.WithSlowThreshold(cfg.DBSlowThreshold),
		repository.WithLogger(log.Named("store")),
	)
}

// metricsOptions maps the metrics settings onto manager options.
func metricsOptions(cfg *config.Config) ([]metrics.Option, error) {
	labels, err := cfg.ConstLabels()
	if err != nil {
		return nil, err
	}
	buckets, err := cfg.LatencyBuckets()
	if err != nil {
		return nil, err
	}
	return []metrics.Option{
		metrics.WithRecording(cfg.MetricsEnabled),
		metrics.WithName(cfg.MetricsNamespace, cfg.MetricsSubsystem),
		metrics.WithPoolSampling(cfg.MetricsRefreshInterval),
		metrics.WithConstLabels(labels),
		metrics.WithLatencyBuckets(buckets...),
	}, nil
}

// newHandler registers every route and wraps the mux with the CORS policy.
func newHandler(ctx context.Context, cfg *config.Config, deps api.Dependencies, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(deps, api.WithLogger(log.Named("http"))).Register(ctx, mux)

	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{api.HeaderRequestID},
		AllowCredentials: true,
	}).Handler(mux)
}

// poolStats is satisfied by the store's connection pool.
type poolStats interface {
	Stats() sql.DBStats
}

// serve runs srv until ctx is cancelled or it fails, sampling pool gauges
// alongside, then shuts down within timeout.
func serve(ctx context.Context, srv *http.Server, pool poolStats, timeout time.Duration, log logger.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		startPoolStatsUpdater(gctx, pool)
		return nil
	})

	return g.Wait()
}

// startPoolStatsUpdater copies pool statistics into gauges until ctx is done.
func startPoolStatsUpdater(ctx context.Context, pool poolStats) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	metrics.UpdateDBPoolStats(pool.Stats())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolStats(pool.Stats())
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JetxcheDev/f1-prode/internal/adapters/gateway"
	"github.com/JetxcheDev/f1-prode/internal/adapters/http/api"
	"github.com/JetxcheDev/f1-prode/internal/adapters/http/site"
	"github.com/JetxcheDev/f1-prode/internal/adapters/http/swagger"
	"github.com/JetxcheDev/f1-prode/internal/adapters/repository"
	app "github.com/JetxcheDev/f1-prode/internal/app"
	"github.com/JetxcheDev/f1-prode/internal/config"
	"github.com/JetxcheDev/f1-prode/pkg/logger"
	"github.com/JetxcheDev/f1-prode/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "prode server failed", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	// Defaults -> optional file -> env.
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	gw, closeGateway, err := openGateway(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGateway()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := app.New(
		app.WithLogger(logger.Named("service")),
		app.WithGateway(gateway.Instrument(gw)),
		app.WithStore(store),
		app.WithRankingSize(cfg.RankingSize),
		app.WithMinVotes(cfg.MinVotes),
		app.WithRefreshInterval(cfg.RefreshInterval()),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc, cfg),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("gateway", cfg.Gateway),
			logger.String("cache", cfg.Cache))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// openGateway connects the configured contest data source. The returned
// func releases it.
func openGateway(ctx context.Context, cfg *config.Config) (gateway.Gateway, func(), error) {
	switch cfg.Gateway {
	case config.GatewayPostgres:
		pg, err := gateway.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, pg.Close, nil

	case config.GatewaySQLite:
		db, err := gateway.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil

	default:
		var snap gateway.Snapshot
		if cfg.SnapshotPath != "" {
			loaded, err := gateway.LoadSnapshotFile(cfg.SnapshotPath)
			if err != nil {
				return nil, nil, err
			}
			snap = loaded
		}
		return gateway.NewMemory(snap), func() {}, nil
	}
}

// openStore builds the ranking store. A Redis store is pinged up front so a
// bad address fails at startup.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	opts := []repository.Option{repository.WithTTL(cfg.CacheTTL())}
	if cfg.Cache != config.CacheRedis {
		return repository.NewMemoryStore(opts...), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	store := repository.NewRedisStore(client, opts...)
	if err := store.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}
	return store, func() { _ = client.Close() }, nil
}

func newMux(ctx context.Context, svc *app.Service, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cfg.MaxRankingLimit).Register(ctx, mux)
	return mux
}

func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

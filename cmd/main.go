// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Shivanand-hulikatti/wedding-wander/internal/config"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/database"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/handler"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/logger"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/metrics"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/notice"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/notify"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/repository"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/service"
	"github.com/Shivanand-hulikatti/wedding-wander/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "weddingwander: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Storage backend ───────────────────────────────────────────────
	backend, closeBackend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend()
	store := storage.New(backend, cfg.StoreNamespace)

	// ── 2. Metrics ───────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// ── 3. Notifications ─────────────────────────────────────────────────
	host, err := notificationHost(cfg, log)
	if err != nil {
		return err
	}
	dispatcher := notify.NewDispatcher(host, log.Named("notify"),
		notify.WithReminderDelay(cfg.ReminderDelay),
		notify.WithMetrics(m),
	)
	defer dispatcher.Close()

	// ── 4. Wire up layers ────────────────────────────────────────────────
	feed := notice.NewFeed(100, log.Named("notice"))
	session, err := service.NewSessionService(ctx, repository.NewUserRepository(store), feed, m, log.Named("session"))
	if err != nil {
		return err
	}
	catalog, err := service.NewCatalogService(ctx,
		repository.NewEventRepository(store),
		repository.NewRegistrationRepository(store),
		dispatcher, feed, m, log.Named("catalog"))
	if err != nil {
		return err
	}

	router := handler.NewRouter(
		handler.New(session, catalog, feed),
		log.Named("http"),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)

	// ── 5. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Backend, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := storage.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		return storage.NewRedisBackend(client), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database(), log)
		if err != nil {
			return nil, nil, err
		}
		backend, err := database.NewPostgresBackend(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("connected to postgres", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
		return backend, pool.Close, nil

	default:
		return storage.NewMemoryBackend(), func() {}, nil
	}
}

func notificationHost(cfg *config.Config, log *zap.Logger) (notify.Host, error) {
	if cfg.NotifyBackend == config.NotifyPubNub {
		return notify.NewPubNubHost(cfg.PubNubPublishKey, cfg.PubNubSubscribeKey, cfg.PubNubUUID), nil
	}
	permission, err := notify.ParsePermission(cfg.NotifyPermission)
	if err != nil {
		return nil, err
	}
	return notify.NewLogHost(log.Named("notifications"), permission), nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"vibetracker/internal/api"
	"vibetracker/internal/config"
	"vibetracker/internal/feed"
	"vibetracker/internal/feed/remote"
	"vibetracker/internal/metrics"
	"vibetracker/internal/notifier"
	"vibetracker/internal/publisher"
	"vibetracker/internal/roster"
	"vibetracker/internal/scheduler"
	"vibetracker/internal/service"
	"vibetracker/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("vibetracker stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	clock := clockwork.NewRealClock()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	inbox := notifier.NewInbox(cfg.Notifier.InboxSize)
	sinks := []notifier.Sink{notifier.NewLogSink(logger), inbox}

	if cfg.RabbitMQ.Enabled() {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		defer rabbitMQ.Close()
		sinks = append(sinks, rabbitMQ)
	}

	n := notifier.New(notifier.Config{
		Clock:          clock,
		DeliverTimeout: cfg.Notifier.DeliverTimeout,
		Metrics:        m,
	}, logger, sinks...)
	defer n.Close()

	influencers := roster.New(roster.WithClock(clock))
	if *cfg.Roster.SeedDefaults {
		influencers.Seed(roster.DefaultInfluencers())
	}

	var source service.FeedSource = feed.NewStaticSource(clock)
	if cfg.Feed.Remote() {
		source = remote.New(remote.Config{
			BaseURL:        cfg.Feed.BaseURL,
			PageSize:       cfg.Feed.PageSize,
			Timeout:        cfg.Feed.Timeout,
			MaxAttempts:    cfg.Feed.Retry.MaxAttempts,
			InitialBackoff: cfg.Feed.Retry.InitialBackoff,
			MaxBackoff:     cfg.Feed.Retry.MaxBackoff,
		}, logger)
	}

	feedReader := service.NewSourceFeed(source, cfg.Sync.MaxPagesPerSync)

	if cfg.Database.Enabled() {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		logger.Info("connected to database")

		contentStore := postgres.NewContentStore(db)
		syncService := service.NewFeedSyncService(
			source,
			contentStore,
			postgres.NewFeedStateStore(db),
			postgres.NewTransactionManager(db),
			n,
			m,
			logger,
			cfg.Sync,
			clock,
		)
		feedReader = service.NewStoreFeed(contentStore, cfg.Feed.Limit, clock)

		sched := scheduler.NewScheduler(syncService, cfg.Sync.Interval, logger)
		go func() {
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheduler error", "error", err)
			}
		}()
	}

	monitor := service.NewMonitorService(influencers, n, feedReader, m, logger, service.MonitorConfig{
		AddAnalysisDelay: cfg.Notifier.AddAnalysisDelay,
		AnalysisDelay:    cfg.Notifier.AnalysisDelay,
		CancelOnRemove:   *cfg.Notifier.CancelOnRemove,
	})

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(monitor, inbox, logger), m, registry)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting vibetracker",
			"addr", cfg.HTTP.Addr,
			"feed_source", source.Name(),
			"influencers", influencers.Len(),
			"database", cfg.Database.Enabled(),
			"rabbitmq", cfg.RabbitMQ.Enabled(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("vibetracker stopped")
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/api/middleware"
	"github.com/feral-file/ff-acquirer/internal/api/server"
	"github.com/feral-file/ff-acquirer/internal/api/shared/executor"
	"github.com/feral-file/ff-acquirer/internal/config"
	"github.com/feral-file/ff-acquirer/internal/engine"
	"github.com/feral-file/ff-acquirer/internal/identity"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/messaging"
	"github.com/feral-file/ff-acquirer/internal/pattern"
	"github.com/feral-file/ff-acquirer/internal/platform"
	"github.com/feral-file/ff-acquirer/internal/providers/jetstream"
	"github.com/feral-file/ff-acquirer/internal/providers/platforms/opentable"
	"github.com/feral-file/ff-acquirer/internal/providers/platforms/resy"
	"github.com/feral-file/ff-acquirer/internal/providers/platforms/sevenrooms"
	"github.com/feral-file/ff-acquirer/internal/providers/platforms/tock"
	"github.com/feral-file/ff-acquirer/internal/providers/rabbitmq"
	"github.com/feral-file/ff-acquirer/internal/ratelimit"
	"github.com/feral-file/ff-acquirer/internal/store"
	"github.com/feral-file/ff-acquirer/internal/sweeper"
	"github.com/feral-file/ff-acquirer/internal/transfer"
	"github.com/feral-file/ff-acquirer/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "acquirer-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	logger.InfoCtx(ctx, "Starting Feral File Acquirer API")

	// Connect to database
	db, err := store.Open(cfg.Database.DSN(), cfg.Database.ReadDSN())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Bool("read_replica", cfg.Database.ReadHost != ""),
	)

	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	httpClient := adapter.NewHTTPClient(cfg.Platforms.HTTPTimeout)

	// Rate limiting proxy shared by every platform adapter
	redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	proxy, err := ratelimit.NewProxy(cfg.RateLimiter, redisClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
	}

	registry := buildRegistry(ctx, cfg.Platforms, httpClient, proxy, jsonAdapter)

	// Result event transport
	publisher, err := newPublisher(ctx, cfg, jsonAdapter, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create event publisher", zap.Error(err), zap.String("driver", cfg.Notifier.Driver))
	}

	pool := identity.NewPool(dataStore, clock, cfg.Identity.DefaultMonthlyLimit)
	learner := pattern.NewLearner(dataStore)
	transfers := transfer.NewService(dataStore)

	eng := engine.New(engine.NewConfig(cfg.Engine), registry, pool, learner, transfers, publisher, clock)

	// Drop watcher schedules bursts for watched reservations
	var watcher sweeper.Sweeper
	if cfg.Watcher.Enabled {
		watcher = sweeper.NewDropWatcher(sweeper.DropWatcherConfig{
			Interval:      cfg.Watcher.Interval,
			Lookahead:     cfg.Watcher.Lookahead,
			MinConfidence: cfg.Watcher.MinConfidence,
			BatchSize:     cfg.Watcher.BatchSize,
			Workers:       cfg.Watcher.Workers,
		}, dataStore, learner, eng, clock)

		go func() {
			if err := watcher.Start(ctx); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("sweeper", watcher.Name()))
			}
		}()
	} else {
		logger.WarnCtx(ctx, "Drop watcher disabled, watches will not be scheduled")
	}

	exec := executor.NewExecutor(eng, learner, transfers, pool, dataStore, clock)

	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		CORSOrigins:  cfg.Server.CORSOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}
	srv := server.New(serverConfig, exec, clock)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
	}
	cancel()

	// Shutdown context must not derive from the canceled ctx
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}
	if watcher != nil {
		if err := watcher.Stop(shutdownCtx); err != nil {
			logger.ErrorCtx(shutdownCtx, err, zap.String("sweeper", watcher.Name()))
		}
	}
	eng.Shutdown()
	publisher.Close()
	if err := proxy.Close(); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "rate_limiter"))
	}

	logger.Info("API server stopped")
}

// buildRegistry creates an adapter for every enabled platform
func buildRegistry(ctx context.Context, cfg config.PlatformsConfig, httpClient adapter.HTTPClient, proxy ratelimit.Proxy, jsonAdapter adapter.JSON) *platform.Registry {
	var adapters []platform.Adapter
	if cfg.Resy.Enabled {
		adapters = append(adapters, resy.NewClient(httpClient, proxy, cfg.Resy, jsonAdapter))
	}
	if cfg.OpenTable.Enabled {
		adapters = append(adapters, opentable.NewClient(httpClient, proxy, cfg.OpenTable, jsonAdapter))
	}
	if cfg.SevenRooms.Enabled {
		adapters = append(adapters, sevenrooms.NewClient(httpClient, proxy, cfg.SevenRooms, jsonAdapter))
	}
	if cfg.Tock.Enabled {
		adapters = append(adapters, tock.NewClient(httpClient, proxy, cfg.Tock, jsonAdapter))
	}

	if len(adapters) == 0 {
		logger.WarnCtx(ctx, "No platform adapters enabled, every acquisition will fail")
	}
	for _, a := range adapters {
		logger.InfoCtx(ctx, "Registered platform adapter", zap.String("platform", string(a.Platform())))
	}

	return platform.NewRegistry(adapters...)
}

// newPublisher selects the result event transport from the notifier driver
func newPublisher(ctx context.Context, cfg *config.APIConfig, jsonAdapter adapter.JSON, clock adapter.Clock) (messaging.Publisher, error) {
	switch cfg.Notifier.Driver {
	case "nats":
		return jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
	case "rabbitmq":
		return rabbitmq.NewPublisher(rabbitmq.Config{
			URL:            cfg.RabbitMQ.URL,
			Exchange:       cfg.RabbitMQ.Exchange,
			PublishTimeout: cfg.RabbitMQ.PublishTimeout,
		}, adapter.NewAMQPDialer(), jsonAdapter, clock)
	case "webhook":
		return webhook.NewPublisher(webhook.Config{
			URL:     cfg.Webhook.URL,
			Secret:  cfg.Webhook.Secret,
			Retries: cfg.Webhook.MaxRetries,
		}, adapter.NewHTTPClient(cfg.Webhook.Timeout), jsonAdapter, clock)
	case "none", "":
		logger.WarnCtx(ctx, "Notifier disabled, acquisition events will not be published")
		return messaging.NewNoopPublisher(), nil
	default:
		return nil, fmt.Errorf("unknown notifier driver: %s", cfg.Notifier.Driver)
	}
}

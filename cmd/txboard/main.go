package main

import (
	"context"
	"os"
	"time"

	"txboard/internal/amqp"
	"txboard/internal/cache"
	"txboard/internal/chart"
	"txboard/internal/cli"
	"txboard/internal/core"
	apphttp "txboard/internal/http"
	"txboard/internal/store"
)

// chartCacheBytes bounds the memory held by rendered chart images.
const chartCacheBytes = 32 << 20

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	res, err := cli.OpenBackend(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize dataset backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	logger.Info("Initialized dataset backend", "backend", cfg.DataBackend, "source", res.Source.Name())

	st := store.New()
	st.Subscribe(store.LogObserver(logger))

	var (
		notifier   *amqp.Notifier
		amqpClient *amqp.Client
	)
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			// Notifications are optional; the dashboard still serves.
			logger.Warn("AMQP unavailable, load events will not be published", "error", err)
		} else {
			notifier = amqp.NewNotifier(amqpClient, logger)
			st.Subscribe(notifier)
			logger.Info("Publishing load events", "exchange", cfg.AMQPExchange)
		}
	}

	aggCache := cache.NewLRUCache[core.Aggregate](cfg.CacheSize, cfg.CacheTTL)
	cacheManager := cache.NewManager(logger)
	cacheManager.Register(aggCache)
	cacheManager.StartCleanup(cfg.CacheTTL)

	chartCache, err := cache.NewBlobCache(chartCacheBytes, cfg.CacheTTL)
	if err != nil {
		logger.Error("Failed to create chart cache", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		Store:          st,
		Logger:         logger,
		Renderer:       chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight),
		AggregateCache: aggCache,
		ChartCache:     chartCache,
		RateLimitRPM:   cfg.RateLimitRPM,
		TrustedProxies: cfg.TrustedProxies,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// The single dataset load runs in the background; the page renders the
	// empty state until it completes.
	loadCtx, cancelLoad := cli.LoadContext(context.Background(), cfg.LoadTimeout)
	loaded := st.LoadAsync(loadCtx, res.Source)
	go func() {
		defer cancelLoad()
		if r := <-loaded; r.Err == nil {
			logger.Info("Dashboard ready", "transactions", r.Stats.Transactions)
		}
	}()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancelLoad()
		cacheManager.Stop()
		chartCache.Close()
		if notifier != nil {
			notifier.Wait()
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", "error", err)
			}
		}
		if err := res.Close(); err != nil {
			logger.Warn("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting txboard server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/leowmjw/go-temporal-chartview/pkg/hcl"
	"github.com/leowmjw/go-temporal-chartview/pkg/http"
	"github.com/leowmjw/go-temporal-chartview/pkg/metrics"
	"github.com/leowmjw/go-temporal-chartview/pkg/source"
	"github.com/leowmjw/go-temporal-chartview/pkg/temporal"
	"github.com/leowmjw/go-temporal-chartview/pkg/view"
)

// envOr returns the environment value for key, or fallback when unset
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	var (
		httpAddr     = flag.String("http-addr", envOr("CHARTVIEW_HTTP_ADDR", ":8080"), "HTTP server address")
		temporalAddr = flag.String("temporal-addr", envOr("CHARTVIEW_TEMPORAL_ADDR", ""), "Temporal server address; empty loads series in-process")
		namespace    = flag.String("namespace", envOr("CHARTVIEW_NAMESPACE", "default"), "Temporal namespace")
		taskQueue    = flag.String("task-queue", envOr("CHARTVIEW_TASK_QUEUE", temporal.DefaultTaskQueue), "Temporal task queue")
		redisAddr    = flag.String("redis-addr", envOr("CHARTVIEW_REDIS_ADDR", ""), "Redis address for the series cache; empty disables caching")
		configPath   = flag.String("config", envOr("CHARTVIEW_CONFIG", ""), "HCL widget file or directory of preset widgets")
		loadingDelay = flag.Duration("loading-delay", view.DefaultLoadingDelay, "Delay before an acquired series is shown")
		logLevel     = flag.String("log-level", envOr("CHARTVIEW_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	// Setup logger
	var logHandler slog.Handler
	switch *logLevel {
	case "debug":
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	case "warn":
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})
	case "error":
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	default:
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	logger.Info("Starting chart view service",
		"http_addr", *httpAddr,
		"temporal_addr", *temporalAddr,
		"namespace", *namespace,
		"task_queue", *taskQueue,
		"redis_addr", *redisAddr,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := metrics.NewRegistry()
	store := source.NewMemoryStore()

	var cache redis.Cmdable
	if *redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer rdb.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		cache = rdb
	}

	factory := source.NewFactory(logger, store, cache)

	var presets []view.Config
	if *configPath != "" {
		configs, err := hcl.LoadWidgets(*configPath)
		if err != nil {
			logger.Error("Failed to load widget presets", "path", *configPath, "error", err)
			os.Exit(1)
		}
		presets = configs
		logger.Info("Loaded widget presets", "count", len(presets))
	}

	var builder source.Builder = factory
	if *temporalAddr != "" {
		temporalClient, err := client.Dial(client.Options{
			HostPort:  *temporalAddr,
			Namespace: *namespace,
		})
		if err != nil {
			logger.Error("Failed to create Temporal client", "error", err)
			os.Exit(1)
		}
		defer temporalClient.Close()

		w := worker.New(temporalClient, *taskQueue, worker.Options{})
		temporal.Register(w, temporal.NewActivities(logger, factory))

		// Start worker in background
		go func() {
			logger.Info("Starting Temporal worker", "task_queue", *taskQueue)
			if err := w.Run(worker.InterruptCh()); err != nil {
				logger.Error("Temporal worker failed", "error", err)
				os.Exit(1)
			}
		}()

		builder = temporal.NewWorkflowBuilder(temporalClient, *taskQueue)
	}

	server := http.NewServer(logger, builder, *httpAddr, http.Options{
		Store:        store,
		Metrics:      registry,
		Presets:      presets,
		LoadingDelay: *loadingDelay,
	})

	// Start server in background
	go func() {
		if err := server.Start(ctx); err != nil {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info("Received shutdown signal, stopping services...")

	// Cancel context to stop HTTP server
	cancel()

	logger.Info("Chart view service stopped")
}

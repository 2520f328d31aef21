package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/23f3001208/iris-classifier/internal/application/classifier"
	"github.com/23f3001208/iris-classifier/internal/application/health"
	"github.com/23f3001208/iris-classifier/internal/config"
	"github.com/23f3001208/iris-classifier/pkg/adapters/events/memory"
	"github.com/23f3001208/iris-classifier/pkg/adapters/events/redis"
	"github.com/23f3001208/iris-classifier/pkg/adapters/logging"
	"github.com/23f3001208/iris-classifier/pkg/adapters/metrics/prometheus"
	"github.com/23f3001208/iris-classifier/pkg/adapters/model"
	"github.com/23f3001208/iris-classifier/pkg/adapters/tracing"
	"github.com/23f3001208/iris-classifier/pkg/api/grpc"
	"github.com/23f3001208/iris-classifier/pkg/api/http"
	"github.com/23f3001208/iris-classifier/pkg/api/websocket"
	"github.com/23f3001208/iris-classifier/pkg/ports"

	promclient "github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.New(&logging.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer func() { _ = logger.Sync() }()

	logger.Info("starting Iris classifier",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	ctx := context.Background()

	// Initialize tracing
	tracerProvider, err := tracing.NewProvider(ctx, &tracing.Config{
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		OTLPInsecure: cfg.Tracing.OTLPInsecure,
		ServiceName:  cfg.Tracing.ServiceName,
	})
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	metricsCollector := prometheus.NewCollector(promclient.DefaultRegisterer)

	// Initialize the prediction event bus
	var eventBus ports.EventBus
	var redisClient *goredis.Client

	switch cfg.Events.Backend {
	case "memory":
		eventBus = memory.NewInMemoryEventBus()
	case "redis":
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		// Test Redis connection
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		eventBus = redis.NewStreamsEventBus(redisClient, cfg.Events.StreamMaxLen, logger)
	}

	// Initialize application components
	state := health.NewState()

	service := classifier.NewService(&classifier.Config{
		Loader: func(ctx context.Context) (ports.Classifier, error) {
			return model.NewClassifier(&model.Config{
				Format:          cfg.Model.Format,
				Path:            cfg.Model.Path,
				ONNXLibraryPath: cfg.Model.ONNXLibraryPath,
				Logger:          logger,
			})
		},
		State:        state,
		Events:       eventBus,
		Metrics:      metricsCollector,
		Tracer:       tracerProvider.Tracer(classifier.TracerName),
		Logger:       logger,
		ModelPath:    cfg.Model.Path,
		StartupDelay: cfg.Model.StartupDelay,
	})

	// Load the model before accepting traffic. A failure leaves the service
	// running in a degraded state for the probes to report.
	_ = service.Startup(ctx)

	reporters := []ports.HealthReporter{metricsCollector}

	var grpcServer *grpc.Server
	if cfg.GRPCEnabled {
		grpcServer, err = grpc.NewServer(&grpc.Config{
			Port:   cfg.GRPCPort,
			Logger: logger,
		})
		if err != nil {
			logger.Fatal("failed to create gRPC server", zap.Error(err))
		}
		reporters = append(reporters, grpcServer)
	}

	monitor := health.NewMonitor(state, cfg.HealthReportInterval, logger, reporters...)
	monitor.Start()

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Port:           cfg.HTTPPort,
		Service:        service,
		State:          state,
		Logger:         logger,
		Metrics:        metricsCollector,
		TracerProvider: tracerProvider,
		ReadTimeout:    cfg.Timeouts.HTTPRead,
		WriteTimeout:   cfg.Timeouts.HTTPWrite,
	})

	// Add WebSocket handler to HTTP server
	if eventBus != nil {
		httpServer.SetupWebSocket(websocket.NewHandler(eventBus, logger))
	}

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Start(); err != nil {
				logger.Fatal("gRPC server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("Iris classifier started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Bool("grpc_enabled", cfg.GRPCEnabled),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.String("events_backend", cfg.Events.Backend),
		zap.Bool("ready", state.IsReady()))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if grpcServer != nil {
		if err := grpcServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", zap.Error(err))
		}
	}

	monitor.Stop()

	if err := service.Close(); err != nil {
		logger.Error("model close error", zap.Error(err))
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Error("event bus close error", zap.Error(err))
		}
	}

	// Flush batched spans
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error("tracer provider shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("Iris classifier shut down complete")
}

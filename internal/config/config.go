package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the Iris classifier service
type Config struct {
	// Server configuration
	HTTPPort    int  `env:"IRIS_HTTP_PORT" envDefault:"8000"`
	GRPCPort    int  `env:"IRIS_GRPC_PORT" envDefault:"9090"`
	GRPCEnabled bool `env:"IRIS_GRPC_ENABLED" envDefault:"true"`

	// Logging
	Log LogConfig

	// Model configuration
	Model ModelConfig

	// Prediction events
	Events EventsConfig

	// Redis configuration
	Redis RedisConfig

	// Tracing
	Tracing TracingConfig

	// Timeouts
	Timeouts TimeoutConfig

	HealthReportInterval time.Duration `env:"HEALTH_REPORT_INTERVAL" envDefault:"30s"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"3"`
}

// ModelConfig holds model artifact configuration
type ModelConfig struct {
	Path            string        `env:"MODEL_PATH" envDefault:"model.json"`
	Format          string        `env:"MODEL_FORMAT" envDefault:"tree"`
	StartupDelay    time.Duration `env:"MODEL_STARTUP_DELAY" envDefault:"0s"`
	ONNXLibraryPath string        `env:"ONNX_RUNTIME_LIB"`
}

// EventsConfig selects the prediction event bus
type EventsConfig struct {
	Backend      string `env:"EVENTS_BACKEND" envDefault:"memory"`
	StreamMaxLen int64  `env:"EVENTS_STREAM_MAX_LEN" envDefault:"10000"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Exporter     string `env:"OTEL_TRACES_EXPORTER" envDefault:"none"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTLPInsecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"iris-ml-service"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	HTTPRead  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWrite time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	Shutdown  time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from a .env file, if any, and environment variables
func Load() (*Config, error) {
	// A missing .env file is not an error
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server ports
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCEnabled && (c.GRPCPort < 1 || c.GRPCPort > 65535) {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}
	if c.GRPCEnabled && c.GRPCPort == c.HTTPPort {
		return fmt.Errorf("HTTP and gRPC ports must differ: %d", c.HTTPPort)
	}

	// Validate model config
	if c.Model.Path == "" {
		return fmt.Errorf("model path is required")
	}
	if c.Model.Format != "tree" && c.Model.Format != "onnx" {
		return fmt.Errorf("unsupported model format: %s (must be tree or onnx)", c.Model.Format)
	}
	if c.Model.StartupDelay < 0 {
		return fmt.Errorf("model startup delay must not be negative")
	}

	// Validate events config
	switch c.Events.Backend {
	case "memory", "none":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis events backend")
		}
	default:
		return fmt.Errorf("unsupported events backend: %s (must be memory, redis, or none)", c.Events.Backend)
	}

	// Validate tracing config
	switch c.Tracing.Exporter {
	case "none", "stdout":
	case "otlp":
		if c.Tracing.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("unsupported trace exporter: %s (must be none, stdout, or otlp)", c.Tracing.Exporter)
	}

	if c.HealthReportInterval <= 0 {
		return fmt.Errorf("health report interval must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Resolver      ResolverConfig      `yaml:"resolver"`
	Observability ObservabilityConfig `yaml:"observability"`
	Security      SecurityConfig      `yaml:"security"`
	RateLimit     RateLimitConfig     `yaml:"ratelimit"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// AuthConfig holds token verification and operator access configuration.
// AdminKeyHash is an Argon2id hash produced by the hashkey tool; the
// administrative surface stays disabled while it is empty.
type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	AdminKeyHash string `yaml:"admin_key_hash"`
}

// ResolverConfig bounds the retry behavior of tenant resolution
type ResolverConfig struct {
	RetryMaxAttempts     int           `yaml:"retry_max_attempts"`
	RetryInitialInterval time.Duration `yaml:"retry_initial_interval"`
	RetryMaxElapsed      time.Duration `yaml:"retry_max_elapsed"`
}

// ObservabilityConfig holds logging and tracing configuration
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	OTELEnabled    bool   `yaml:"otel_enabled"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
}

// SecurityConfig holds Argon2id parameters for operator key hashing
type SecurityConfig struct {
	Argon2Memory      uint32 `yaml:"argon2_memory"`
	Argon2Iterations  uint32 `yaml:"argon2_iterations"`
	Argon2Parallelism uint8  `yaml:"argon2_parallelism"`
	Argon2SaltLength  uint32 `yaml:"argon2_salt_length"`
	Argon2KeyLength   uint32 `yaml:"argon2_key_length"`
}

// RateLimitConfig holds rate limiting configuration. Backend selects the
// counter store: "memory" for single-instance deployments, "redis" to
// share windows across replicas.
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled"`
	Backend           string        `yaml:"backend"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	MaxRequests       int           `yaml:"max_requests"`
	Window            time.Duration `yaml:"window"`
	RedisAddr         string        `yaml:"redis_addr"`
	RedisPassword     string        `yaml:"redis_password"`
	RedisDB           int           `yaml:"redis_db"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "ledgergate",
			Database:        "ledgergate",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Resolver: ResolverConfig{
			RetryMaxAttempts:     3,
			RetryInitialInterval: 50 * time.Millisecond,
			RetryMaxElapsed:      2 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel:       "info",
			LogFormat:      "json",
			ServiceName:    "ledgergate",
			ServiceVersion: "0.1.0",
		},
		Security: SecurityConfig{
			Argon2Memory:      65536,
			Argon2Iterations:  3,
			Argon2Parallelism: 4,
			Argon2SaltLength:  16,
			Argon2KeyLength:   32,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			Backend:           "memory",
			RequestsPerSecond: 10,
			Burst:             20,
			MaxRequests:       100,
			Window:            10 * time.Second,
			RedisAddr:         "localhost:6379",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file
// named by LEDGERGATE_CONFIG, and environment variables, in that order.
// Environment variables always win.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("LEDGERGATE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = parseDuration("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = parseDuration("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = parseDuration("SERVER_IDLE_TIMEOUT", cfg.Server.IdleTimeout)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("DB_NAME", cfg.Database.Database)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.MaxOpenConns = parseInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = parseInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.ConnMaxLifetime = parseDuration("DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.AdminKeyHash = getEnv("ADMIN_KEY_HASH", cfg.Auth.AdminKeyHash)

	cfg.Resolver.RetryMaxAttempts = parseInt("RESOLVER_RETRY_MAX_ATTEMPTS", cfg.Resolver.RetryMaxAttempts)
	cfg.Resolver.RetryInitialInterval = parseDuration("RESOLVER_RETRY_INITIAL_INTERVAL", cfg.Resolver.RetryInitialInterval)
	cfg.Resolver.RetryMaxElapsed = parseDuration("RESOLVER_RETRY_MAX_ELAPSED", cfg.Resolver.RetryMaxElapsed)

	cfg.Observability.LogLevel = getEnv("LOG_LEVEL", cfg.Observability.LogLevel)
	cfg.Observability.LogFormat = getEnv("LOG_FORMAT", cfg.Observability.LogFormat)
	cfg.Observability.OTELEnabled = parseBool("OTEL_ENABLED", cfg.Observability.OTELEnabled)
	cfg.Observability.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.Observability.ServiceName)
	cfg.Observability.ServiceVersion = getEnv("OTEL_SERVICE_VERSION", cfg.Observability.ServiceVersion)

	cfg.Security.Argon2Memory = uint32(parseInt("ARGON2_MEMORY", int(cfg.Security.Argon2Memory)))
	cfg.Security.Argon2Iterations = uint32(parseInt("ARGON2_ITERATIONS", int(cfg.Security.Argon2Iterations)))
	cfg.Security.Argon2Parallelism = uint8(parseInt("ARGON2_PARALLELISM", int(cfg.Security.Argon2Parallelism)))
	cfg.Security.Argon2SaltLength = uint32(parseInt("ARGON2_SALT_LENGTH", int(cfg.Security.Argon2SaltLength)))
	cfg.Security.Argon2KeyLength = uint32(parseInt("ARGON2_KEY_LENGTH", int(cfg.Security.Argon2KeyLength)))

	cfg.RateLimit.Enabled = parseBool("RATELIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Backend = getEnv("RATELIMIT_BACKEND", cfg.RateLimit.Backend)
	cfg.RateLimit.RequestsPerSecond = float64(parseInt("RATELIMIT_RPS", int(cfg.RateLimit.RequestsPerSecond)))
	cfg.RateLimit.Burst = parseInt("RATELIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.MaxRequests = parseInt("RATELIMIT_MAX_REQUESTS", cfg.RateLimit.MaxRequests)
	cfg.RateLimit.Window = parseDuration("RATELIMIT_WINDOW", cfg.RateLimit.Window)
	cfg.RateLimit.RedisAddr = getEnv("RATELIMIT_REDIS_ADDR", cfg.RateLimit.RedisAddr)
	cfg.RateLimit.RedisPassword = getEnv("RATELIMIT_REDIS_PASSWORD", cfg.RateLimit.RedisPassword)
	cfg.RateLimit.RedisDB = parseInt("RATELIMIT_REDIS_DB", cfg.RateLimit.RedisDB)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("RATELIMIT_BACKEND must be memory or redis, got %q", c.RateLimit.Backend)
	}
	if c.RateLimit.Backend == "redis" && c.RateLimit.RedisAddr == "" {
		return fmt.Errorf("RATELIMIT_REDIS_ADDR is required for the redis backend")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func parseDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

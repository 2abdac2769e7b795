// Copyright 2026 The LedgerGate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ledgergate/ledgergate/internal/adminauth"
	"github.com/ledgergate/ledgergate/internal/audit"
	"github.com/ledgergate/ledgergate/internal/authz"
	"github.com/ledgergate/ledgergate/internal/config"
	"github.com/ledgergate/ledgergate/internal/observability/logger"
	"github.com/ledgergate/ledgergate/internal/observability/metrics"
	"github.com/ledgergate/ledgergate/internal/observability/tracing"
	"github.com/ledgergate/ledgergate/internal/records"
	"github.com/ledgergate/ledgergate/internal/scope"
	"github.com/ledgergate/ledgergate/internal/store/postgres"
	"github.com/ledgergate/ledgergate/internal/tenant"
	transportHTTP "github.com/ledgergate/ledgergate/internal/transport/http"
)

func main() {
	// Load .env if present; deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
		OTELEnabled: cfg.Observability.OTELEnabled,
	})
	slog.Info("starting ledgergate access gateway")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Initialize context
	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize meter
	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	}

	authzDecisions, err := meter.CreateCounter(
		"ledgergate_authz_decisions_total",
		"Authorization decisions by policy and outcome",
	)
	if err != nil {
		slog.Error("failed to create decision counter", logger.Error(err))
	}

	lookupRetries, err := meter.CreateCounter(
		"ledgergate_tenant_lookup_retries_total",
		"Tenant resolution attempts retried after transient storage failures",
	)
	if err != nil {
		slog.Error("failed to create retry counter", logger.Error(err))
	}

	// Initialize database
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	// Initialize repositories
	tenantRepo := postgres.NewTenantRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	transactionStore := postgres.NewTransactionStore(db)
	budgetStore := postgres.NewBudgetStore(db)

	// Initialize helpers
	auditLogger := audit.NewSlogLogger()
	keyHasher := adminauth.NewKeyHasher(
		cfg.Security.Argon2Memory,
		cfg.Security.Argon2Iterations,
		cfg.Security.Argon2Parallelism,
		cfg.Security.Argon2SaltLength,
		cfg.Security.Argon2KeyLength,
	)

	// Initialize services
	tenantService := tenant.NewService(tenantRepo, membershipRepo, auditLogger)
	recordsService := records.NewService(
		scope.NewGateway[*records.Transaction](transactionStore),
		scope.NewGateway[*records.Budget](budgetStore),
		scope.NewUnrestricted[*records.Transaction](transactionStore),
	)
	registry := authz.NewRegistry()

	// Rate limiter
	var limiter transportHTTP.Limiter
	if cfg.RateLimit.Enabled {
		switch cfg.RateLimit.Backend {
		case "redis":
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RateLimit.RedisAddr,
				Password: cfg.RateLimit.RedisPassword,
				DB:       cfg.RateLimit.RedisDB,
			})
			if err := rdb.Ping(ctx).Err(); err != nil {
				slog.Error("failed to connect to redis", logger.Error(err))
				os.Exit(1)
			}
			limiter = transportHTTP.NewRedisLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
			slog.Info("rate limiting via redis", logger.Component("ratelimit"))
		default:
			limiter = transportHTTP.NewMemoryLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		}
	}

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		tenantService,
		recordsService,
		registry,
		auditLogger,
		keyHasher,
		transportHTTP.AuthConfig{
			JWTSecret:    []byte(cfg.Auth.JWTSecret),
			AdminKeyHash: cfg.Auth.AdminKeyHash,
		},
		transportHTTP.RetryPolicy{
			MaxRetries:      uint64(cfg.Resolver.RetryMaxAttempts),
			InitialInterval: cfg.Resolver.RetryInitialInterval,
			MaxElapsed:      cfg.Resolver.RetryMaxElapsed,
		},
		authzDecisions,
		lookupRetries,
	)

	// Create router
	router := transportHTTP.NewRouter(handler, limiter)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}

func runMigrate(cfg *config.Config) error {
	ctx := context.Background()
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Applying initial schema...")
	if err := db.Migrate(ctx, postgres.InitialSchema); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}

// @title LedgerGate API
// @version 1.0.0
// @description Tenant-scoped access gateway for financial records
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"

	"github.com/ledgergate/ledgergate/internal/adminauth"
	"github.com/ledgergate/ledgergate/internal/audit"
	"github.com/ledgergate/ledgergate/internal/authz"
	"github.com/ledgergate/ledgergate/internal/observability/logger"
	"github.com/ledgergate/ledgergate/internal/records"
	"github.com/ledgergate/ledgergate/internal/scope"
	"github.com/ledgergate/ledgergate/internal/tenant"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	tenants        *tenant.Service
	records        *records.Service
	registry       *authz.Registry
	auditLogger    audit.Logger
	keyHasher      *adminauth.KeyHasher
	jwtSecret      []byte
	adminKeyHash   string
	retry          RetryPolicy
	authzDecisions metric.Int64Counter
	lookupRetries  metric.Int64Counter
}

// AuthConfig holds the credentials the transport verifies against.
type AuthConfig struct {
	JWTSecret    []byte
	AdminKeyHash string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	tenants *tenant.Service,
	recordsService *records.Service,
	registry *authz.Registry,
	auditLogger audit.Logger,
	keyHasher *adminauth.KeyHasher,
	authConfig AuthConfig,
	retry RetryPolicy,
	authzDecisions metric.Int64Counter,
	lookupRetries metric.Int64Counter,
) *Handler {
	return &Handler{
		tenants:        tenants,
		records:        recordsService,
		registry:       registry,
		auditLogger:    auditLogger,
		keyHasher:      keyHasher,
		jwtSecret:      authConfig.JWTSecret,
		adminKeyHash:   authConfig.AdminKeyHash,
		retry:          retry,
		authzDecisions: authzDecisions,
		lookupRetries:  lookupRetries,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, limiter Limiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if limiter != nil {
		r.Use(RateLimitMiddleware(limiter))
	}
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Authenticated, tenant-agnostic: the caller acts as themselves
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Post("/tenants", h.CreateTenant)
			r.Get("/me/tenants", h.ListMyTenants)

			// Tenant-scoped endpoints (FAIL-CLOSED). Every route below
			// passes {tenantID} through a role policy before its handler
			// runs; the handler then reads the resolved tenant from the
			// request context and nowhere else.
			r.Route("/tenant/{tenantID}", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(h.RequireTenantRole(authz.PolicyTenantViewer))

					r.Get("/", h.GetTenant)
					r.Get("/transactions", h.ListTransactions)
					r.Get("/transactions/{transactionID}", h.GetTransaction)
					r.Get("/budgets", h.ListBudgets)
					r.Get("/budgets/{budgetID}", h.GetBudget)

					// Leaving a tenant needs membership, not ownership.
					// Removing anyone else is enforced as Owner in the
					// service layer.
					r.Delete("/members/{userID}", h.RevokeMember)
				})

				r.Group(func(r chi.Router) {
					r.Use(h.RequireTenantRole(authz.PolicyTenantEditor))

					r.Post("/transactions", h.CreateTransaction)
					r.Put("/transactions/{transactionID}", h.UpdateTransaction)
					r.Delete("/transactions/{transactionID}", h.DeleteTransaction)
					r.Post("/budgets", h.CreateBudget)
					r.Put("/budgets/{budgetID}", h.UpdateBudget)
					r.Delete("/budgets/{budgetID}", h.DeleteBudget)
				})

				r.Group(func(r chi.Router) {
					r.Use(h.RequireTenantRole(authz.PolicyTenantOwner))

					r.Put("/", h.UpdateTenant)
					r.Delete("/", h.DeleteTenant)
					r.Get("/members", h.ListMembers)
					r.Post("/members", h.GrantMember)
				})
			})
		})

		// Platform surface: operator key, no tenant context. Reads cross
		// tenant boundaries through the unrestricted path and are audited
		// at the door.
		r.Route("/platform", func(r chi.Router) {
			r.Use(h.AdminAuthMiddleware)

			r.Get("/tenants", h.PlatformListTenants)
			r.Put("/tenants/{tenantID}/status", h.PlatformSetTenantStatus)
			r.Get("/transactions", h.PlatformListTransactions)
		})
	})

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "ledgergate",
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps domain errors to status codes. Anything
// unrecognized is a 500: infrastructure failures must surface as server
// errors, never dressed up as denials.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scope.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, tenant.ErrMembershipNotFound):
		respondError(w, http.StatusNotFound, "membership not found")
	case errors.Is(err, tenant.ErrTenantNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, tenant.ErrLastOwner):
		respondError(w, http.StatusConflict, "cannot remove the last owner")
	case errors.Is(err, tenant.ErrOwnerRequired):
		respondError(w, http.StatusForbidden, "requires Owner role")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			logger.Path(r.URL.Path),
			logger.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

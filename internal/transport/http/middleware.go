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

package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ledgergate/ledgergate/internal/audit"
	"github.com/ledgergate/ledgergate/internal/observability/logger"
)

// Tenant Context Principles:
// 1. Tenant identity comes from the URL path, never from headers
// 2. Access is expressed only via tenant_role claims in the token
// 3. A resolved tenant context is never carried across requests
//
// Anti-Patterns (FORBIDDEN):
// - X-Tenant-ID or similar headers naming the tenant
// - Magic tenant IDs (e.g., "default", "system", "platform")
// - Role checks against anything but the resolved claim set

// AccessClaims is the token payload LedgerGate consumes. TenantRoles holds
// the raw "tenant-id:RoleName" entries issued by the identity provider;
// they are parsed per request, never at authentication time.
type AccessClaims struct {
	TenantRoles []string `json:"tenant_role"`
	jwt.RegisteredClaims
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Log request start
			slog.InfoContext(r.Context(), "http_request_start",
				logger.RequestID(middleware.GetReqID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				slog.InfoContext(r.Context(), "http_request_end",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(r.RemoteAddr),
					logger.UserAgent(r.UserAgent()),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// AuthMiddleware validates the bearer token and adds the subject and raw
// tenant role claims to the request context. It authenticates only; every
// tenant-level decision happens later in RequireTenantRole.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		claims := &AccessClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return h.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if claims.Subject == "" {
			respondError(w, http.StatusUnauthorized, "token has no subject")
			return
		}

		// Security hardening: tenant identity comes from the URL path alone.
		// A tenant header on an authenticated request is a spoofing attempt.
		if r.Header.Get("X-Tenant-ID") != "" {
			slog.WarnContext(r.Context(), "tenant header spoofing attempt detected on authenticated route",
				logger.UserID(claims.Subject),
			)
			respondError(w, http.StatusBadRequest, "X-Tenant-ID header is not allowed; tenant is addressed via the URL path")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		ctx = context.WithValue(ctx, tenantRolesKey, claims.TenantRoles)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminAuthMiddleware gates the platform surface behind the operator key.
// The key is compared against an argon2id hash; no admin identity exists in
// any tenant, so nothing here touches tenant context.
func (h *Handler) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.adminKeyHash == "" {
			respondError(w, http.StatusForbidden, "administrative surface is disabled")
			return
		}

		key := r.Header.Get("X-Admin-Key")
		if key == "" {
			respondError(w, http.StatusUnauthorized, "admin key required")
			return
		}

		ok, err := h.keyHasher.Verify(key, h.adminKeyHash)
		if err != nil {
			slog.ErrorContext(r.Context(), "admin key hash is malformed", logger.Error(err))
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypeAdminAccess,
				ActorID:   "platform_admin",
				Resource:  r.URL.Path,
				Metadata:  map[string]any{"result": "denied"},
				IPAddress: getIPAddress(r),
				UserAgent: r.UserAgent(),
			})
			respondError(w, http.StatusUnauthorized, "invalid admin key")
			return
		}

		h.auditLogger.Log(r.Context(), audit.Event{
			Type:      audit.TypeAdminAccess,
			ActorID:   "platform_admin",
			Resource:  r.URL.Path,
			Metadata:  map[string]any{"result": "granted"},
			IPAddress: getIPAddress(r),
			UserAgent: r.UserAgent(),
		})

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from the Authorization header. Returns ""
// when the header is absent or not a Bearer scheme.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

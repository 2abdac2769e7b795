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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ledgergate/ledgergate/internal/audit"
	"github.com/ledgergate/ledgergate/internal/authz"
	"github.com/ledgergate/ledgergate/internal/observability/logger"
	"github.com/ledgergate/ledgergate/internal/tenant"
	"github.com/ledgergate/ledgergate/internal/tenantctx"
)

// noAccessBody is the one body every access-denied outcome on the tenant
// surface returns. A caller must not be able to tell "tenant does not
// exist" from "tenant exists and you are not in it" by diffing responses,
// so the bytes are fixed here rather than rebuilt per response.
const noAccessBody = `{"error":"access denied"}` + "\n"

// RetryPolicy bounds the tenant resolution retry loop. Only transient
// lookup failures are retried; a definitive "no such tenant" short-circuits.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxElapsed      time.Duration
}

// RequireTenantRole returns middleware enforcing the named policy on the
// {tenantID} route subtree. The policy name is resolved once at router
// construction; an unknown name is a wiring bug and panics there, not per
// request.
//
// Order of checks is fixed and security-relevant:
//  1. malformed tenant ID fails with 400 before any claim is read
//  2. the claim set is evaluated before the tenant is looked up, so a
//     caller with no claim for the tenant learns nothing about whether
//     it exists
//  3. only an allowed caller triggers resolution, and a missing or
//     inactive tenant still collapses into the same 403 body
func (h *Handler) RequireTenantRole(policyName string) func(http.Handler) http.Handler {
	pol := h.registry.MustLookup(policyName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "tenantID")
			parsed, err := uuid.Parse(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid tenant identifier")
				return
			}
			tenantID := parsed.String()

			userID := GetUserID(r.Context())
			result := authz.Evaluate(pol.Min, tenantID, GetTenantRoles(r.Context()))
			h.recordDecision(r, pol, result.Decision)

			switch result.Decision {
			case authz.DecisionNoAccess:
				h.denyAudit(r, tenantID, userID, pol, "no_access")
				respondNoAccess(w)
				return
			case authz.DecisionInsufficientRole:
				h.denyAudit(r, tenantID, userID, pol, "insufficient_role")
				respondError(w, http.StatusForbidden, fmt.Sprintf("requires %s role or higher", pol.Min))
				return
			}

			resolved, err := h.resolveTenant(r, tenantID)
			if err != nil {
				if errors.Is(err, tenant.ErrTenantNotFound) {
					h.denyAudit(r, tenantID, userID, pol, "unknown_tenant")
					respondNoAccess(w)
					return
				}
				slog.ErrorContext(r.Context(), "tenant resolution failed",
					logger.TenantID(tenantID),
					logger.Error(err),
				)
				respondError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if !resolved.Active {
				h.denyAudit(r, tenantID, userID, pol, "inactive_tenant")
				respondNoAccess(w)
				return
			}

			slog.DebugContext(r.Context(), "tenant access granted",
				logger.TenantID(tenantID),
				logger.UserID(userID),
				logger.Policy(pol.Name),
				logger.Role(result.Role.String()),
			)

			ctx := tenantctx.WithResolved(r.Context(), tenantctx.NewResolved(resolved.Key, result.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveTenant translates the external tenant ID into the stored tenant,
// retrying transient failures with exponential backoff. ErrTenantNotFound
// is permanent: retrying cannot make a tenant exist.
func (h *Handler) resolveTenant(r *http.Request, tenantID string) (*tenant.Tenant, error) {
	var resolved *tenant.Tenant

	op := func() error {
		t, err := h.tenants.GetTenant(r.Context(), tenantID)
		if err != nil {
			if errors.Is(err, tenant.ErrTenantNotFound) {
				return backoff.Permanent(err)
			}
			return err
		}
		resolved = t
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = h.retry.InitialInterval
	bo.MaxElapsedTime = h.retry.MaxElapsed

	notify := func(_ error, _ time.Duration) {
		if h.lookupRetries == nil {
			return
		}
		h.lookupRetries.Add(r.Context(), 1)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(bo, h.retry.MaxRetries), r.Context()), notify)
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (h *Handler) denyAudit(r *http.Request, tenantID, userID string, pol authz.Policy, reason string) {
	slog.WarnContext(r.Context(), "tenant access denied",
		logger.TenantID(tenantID),
		logger.UserID(userID),
		logger.Policy(pol.Name),
		logger.Decision(reason),
	)
	h.auditLogger.Log(r.Context(), audit.Event{
		Type:     audit.TypeAccessDenied,
		TenantID: tenantID,
		ActorID:  userID,
		Resource: r.URL.Path,
		Metadata: map[string]any{
			"policy": pol.Name,
			"reason": reason,
		},
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
	})
}

func (h *Handler) recordDecision(r *http.Request, pol authz.Policy, d authz.Decision) {
	if h.authzDecisions == nil {
		return
	}
	h.authzDecisions.Add(r.Context(), 1, metric.WithAttributes(
		attribute.String("policy", pol.Name),
		attribute.String("decision", d.String()),
	))
}

// canonicalTenantID returns the canonical form of the {tenantID} path
// parameter. RequireTenantRole has already rejected malformed values, so
// the empty fallback is unreachable on gated routes.
func canonicalTenantID(r *http.Request) string {
	parsed, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		return ""
	}
	return parsed.String()
}

func respondNoAccess(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = io.WriteString(w, noAccessBody)
}

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
	"encoding/json"
	"net/http"

	"github.com/ledgergate/ledgergate/internal/tenantctx"
)

// CreateTenantRequest represents tenant creation data
type CreateTenantRequest struct {
	Name        string `json:"name" binding:"required" example:"Acme Corp"`
	Description string `json:"description" example:"Shared books for Acme"`
}

// CreateTenant handles tenant creation. The caller becomes the tenant's
// first Owner in the same transaction that creates it; a tenant without
// an owner must never exist, even briefly.
// @Summary Create Tenant
// @Description Create a new tenant owned by the caller
// @Tags Tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTenantRequest true "Tenant Data"
// @Success 201 {object} tenant.Tenant
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /tenants [post]
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	t, err := h.tenants.CreateTenant(r.Context(), req.Name, req.Description, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

// GetTenant returns the resolved tenant's profile
// @Summary Get Tenant
// @Description Get the tenant the request was resolved against
// @Tags Tenant
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} tenant.Tenant
// @Failure 403 {object} map[string]string
// @Router /tenant/{tenantID} [get]
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantctx.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	t, err := h.tenants.GetTenantByKey(r.Context(), tc.TenantKey())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// UpdateTenantRequest represents tenant profile data
type UpdateTenantRequest struct {
	Name        string `json:"name" binding:"required" example:"Acme Corp"`
	Description string `json:"description" example:"Shared books for Acme"`
}

// UpdateTenant replaces the tenant profile
// @Summary Update Tenant
// @Description Replace the tenant's name and description
// @Tags Tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param request body UpdateTenantRequest true "Tenant Data"
// @Success 200 {object} tenant.Tenant
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /tenant/{tenantID} [put]
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	var req UpdateTenantRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	tc, ok := tenantctx.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// The policy gate only admits active tenants, so active stays true
	// here. Suspension is a platform operation, not self-service.
	t, err := h.tenants.UpdateTenant(r.Context(), tc.TenantKey(), req.Name, req.Description, true, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// DeleteTenant removes the tenant and everything in it
// @Summary Delete Tenant
// @Description Delete the tenant, its memberships and its records
// @Tags Tenant
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /tenant/{tenantID} [delete]
func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantctx.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.tenants.DeleteTenant(r.Context(), tc.TenantKey(), GetUserID(r.Context())); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListMyTenants lists the tenants the caller belongs to
// @Summary List My Tenants
// @Description List every tenant the caller has a role in
// @Tags Tenant
// @Produce json
// @Security BearerAuth
// @Success 200 {array} tenant.UserTenant
// @Failure 500 {object} map[string]string
// @Router /me/tenants [get]
func (h *Handler) ListMyTenants(w http.ResponseWriter, r *http.Request) {
	memberships, err := h.tenants.ListUserTenants(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, memberships)
}

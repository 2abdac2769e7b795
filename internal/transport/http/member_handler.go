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

	"github.com/go-chi/chi/v5"

	"github.com/ledgergate/ledgergate/internal/authz"
	"github.com/ledgergate/ledgergate/internal/tenantctx"
)

// GrantMemberRequest represents role assignment data
type GrantMemberRequest struct {
	UserID string `json:"user_id" binding:"required" example:"usr_2f9c"`
	Role   string `json:"role" binding:"required" example:"Editor"`
}

// GrantMember assigns a role to a user, replacing any existing one
// @Summary Grant Role
// @Description Grant a tenant role to a user; re-granting replaces the role
// @Tags Member
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param request body GrantMemberRequest true "Grant Data"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tenant/{tenantID}/members [post]
func (h *Handler) GrantMember(w http.ResponseWriter, r *http.Request) {
	var req GrantMemberRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	role, err := authz.ParseRole(req.Role)
	if err != nil {
		respondError(w, http.StatusBadRequest, "role must be one of Viewer, Editor, Owner")
		return
	}

	tc, ok := tenantctx.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	err = h.tenants.GrantRole(r.Context(), tc.TenantKey(), canonicalTenantID(r), req.UserID, role, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"user_id": req.UserID,
		"role":    role.String(),
		"status":  "granted",
	})
}

// RevokeMember removes a user's membership
// @Summary Revoke Membership
// @Description Remove a user from the tenant; members may remove themselves
// @Tags Member
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param userID path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tenant/{tenantID}/members/{userID} [delete]
func (h *Handler) RevokeMember(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	tc, ok := tenantctx.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	err := h.tenants.RevokeRole(r.Context(), tc.TenantKey(), canonicalTenantID(r), userID, GetUserID(r.Context()), tc.Role())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// ListMembers lists the tenant's memberships
// @Summary List Members
// @Description List every user and role in the tenant
// @Tags Member
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} tenant.Membership
// @Failure 403 {object} map[string]string
// @Router /tenant/{tenantID}/members [get]
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantctx.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	members, err := h.tenants.ListMembers(r.Context(), tc.TenantKey())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, members)
}

package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Platform handlers serve the operator surface. They run behind
// AdminAuthMiddleware, carry no tenant context, and are the only routes
// allowed to read across tenant boundaries.

// PlatformListTenants lists all tenants
// @Summary List All Tenants
// @Description List every tenant on the platform (operator only)
// @Tags Platform
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} tenant.Tenant
// @Failure 401 {object} map[string]string
// @Router /platform/tenants [get]
func (h *Handler) PlatformListTenants(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	tenants, err := h.tenants.ListTenants(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tenants)
}

// PlatformListTransactions lists transactions across all tenants
// @Summary List All Transactions
// @Description List transactions across every tenant (operator only)
// @Tags Platform
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} records.Transaction
// @Failure 401 {object} map[string]string
// @Router /platform/transactions [get]
func (h *Handler) PlatformListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	txs, err := h.records.ListAllTransactions(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, txs)
}

// TenantStatusRequest represents a suspension change
type TenantStatusRequest struct {
	Active bool `json:"active" example:"false"`
}

// PlatformSetTenantStatus suspends or reinstates a tenant
// @Summary Set Tenant Status
// @Description Suspend or reinstate a tenant; suspended tenants deny all member access
// @Tags Platform
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param request body TenantStatusRequest true "Status Data"
// @Success 200 {object} tenant.Tenant
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /platform/tenants/{tenantID}/status [put]
func (h *Handler) PlatformSetTenantStatus(w http.ResponseWriter, r *http.Request) {
	parsed, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tenant identifier")
		return
	}

	var req TenantStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.tenants.GetTenant(r.Context(), parsed.String())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	updated, err := h.tenants.UpdateTenant(r.Context(), t.Key, t.Name, t.Description, req.Active, "platform_admin")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// parsePagination reads limit and offset query parameters, clamped to
// sane bounds.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}

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
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgergate/ledgergate/internal/records"
)

// The record handlers never read a tenant identifier. The gateway under
// records.Service takes the tenant from the request context placed there
// by RequireTenantRole; a handler cannot aim a query at another tenant
// even by bug.

// TransactionRequest represents transaction data
type TransactionRequest struct {
	AmountMinor int64     `json:"amount_minor" binding:"required" example:"-4250"`
	Currency    string    `json:"currency" binding:"required" example:"EUR"`
	Memo        string    `json:"memo" example:"office chairs"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ListTransactions lists the tenant's transactions
// @Summary List Transactions
// @Description List the tenant's transactions, newest first
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} records.Transaction
// @Failure 403 {object} map[string]string
// @Router /tenant/{tenantID}/transactions [get]
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.records.ListTransactions(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, txs)
}

// GetTransaction returns one transaction
// @Summary Get Transaction
// @Description Get one of the tenant's transactions
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} records.Transaction
// @Failure 404 {object} map[string]string
// @Router /tenant/{tenantID}/transactions/{transactionID} [get]
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.records.GetTransaction(r.Context(), chi.URLParam(r, "transactionID"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tx)
}

// CreateTransaction records a new transaction
// @Summary Create Transaction
// @Description Record a transaction in the tenant's ledger
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param request body TransactionRequest true "Transaction Data"
// @Success 201 {object} records.Transaction
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /tenant/{tenantID}/transactions [post]
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Currency == "" {
		respondError(w, http.StatusBadRequest, "currency is required")
		return
	}
	if req.AmountMinor == 0 {
		respondError(w, http.StatusBadRequest, "amount_minor must be non-zero")
		return
	}

	tx, err := h.records.CreateTransaction(r.Context(), &records.Transaction{
		Amount:     req.AmountMinor,
		Currency:   req.Currency,
		Memo:       req.Memo,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, tx)
}

// UpdateTransaction rewrites a transaction
// @Summary Update Transaction
// @Description Replace one of the tenant's transactions
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param transactionID path string true "Transaction ID"
// @Param request body TransactionRequest true "Transaction Data"
// @Success 200 {object} records.Transaction
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tenant/{tenantID}/transactions/{transactionID} [put]
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Currency == "" {
		respondError(w, http.StatusBadRequest, "currency is required")
		return
	}
	if req.AmountMinor == 0 {
		respondError(w, http.StatusBadRequest, "amount_minor must be non-zero")
		return
	}

	tx, err := h.records.UpdateTransaction(r.Context(), &records.Transaction{
		ID:         chi.URLParam(r, "transactionID"),
		Amount:     req.AmountMinor,
		Currency:   req.Currency,
		Memo:       req.Memo,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tx)
}

// DeleteTransaction removes a transaction
// @Summary Delete Transaction
// @Description Delete one of the tenant's transactions
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tenant/{tenantID}/transactions/{transactionID} [delete]
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeleteTransaction(r.Context(), chi.URLParam(r, "transactionID")); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// BudgetRequest represents budget data
type BudgetRequest struct {
	Category   string `json:"category" binding:"required" example:"travel"`
	LimitMinor int64  `json:"limit_minor" binding:"required" example:"250000"`
	Period     string `json:"period" binding:"required" example:"monthly"`
}

// ListBudgets lists the tenant's budgets
// @Summary List Budgets
// @Description List the tenant's budgets by category
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} records.Budget
// @Failure 403 {object} map[string]string
// @Router /tenant/{tenantID}/budgets [get]
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.records.ListBudgets(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, budgets)
}

// GetBudget returns one budget
// @Summary Get Budget
// @Description Get one of the tenant's budgets
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param budgetID path string true "Budget ID"
// @Success 200 {object} records.Budget
// @Failure 404 {object} map[string]string
// @Router /tenant/{tenantID}/budgets/{budgetID} [get]
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := h.records.GetBudget(r.Context(), chi.URLParam(r, "budgetID"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, b)
}

// CreateBudget creates a budget
// @Summary Create Budget
// @Description Create a category budget in the tenant
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param request body BudgetRequest true "Budget Data"
// @Success 201 {object} records.Budget
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /tenant/{tenantID}/budgets [post]
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBudgetRequest(w, r)
	if !ok {
		return
	}

	b, err := h.records.CreateBudget(r.Context(), &records.Budget{
		Category:   req.Category,
		LimitMinor: req.LimitMinor,
		Period:     req.Period,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, b)
}

// UpdateBudget rewrites a budget
// @Summary Update Budget
// @Description Replace one of the tenant's budgets
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param budgetID path string true "Budget ID"
// @Param request body BudgetRequest true "Budget Data"
// @Success 200 {object} records.Budget
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tenant/{tenantID}/budgets/{budgetID} [put]
func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBudgetRequest(w, r)
	if !ok {
		return
	}

	b, err := h.records.UpdateBudget(r.Context(), &records.Budget{
		ID:         chi.URLParam(r, "budgetID"),
		Category:   req.Category,
		LimitMinor: req.LimitMinor,
		Period:     req.Period,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, b)
}

// DeleteBudget removes a budget
// @Summary Delete Budget
// @Description Delete one of the tenant's budgets
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param tenantID path string true "Tenant ID"
// @Param budgetID path string true "Budget ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tenant/{tenantID}/budgets/{budgetID} [delete]
func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeleteBudget(r.Context(), chi.URLParam(r, "budgetID")); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// decodeBudgetRequest decodes and validates the shared budget payload.
// On failure it has already written the 400 response.
func decodeBudgetRequest(w http.ResponseWriter, r *http.Request) (BudgetRequest, bool) {
	var req BudgetRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.Category == "" {
		respondError(w, http.StatusBadRequest, "category is required")
		return req, false
	}
	if req.LimitMinor <= 0 {
		respondError(w, http.StatusBadRequest, "limit_minor must be positive")
		return req, false
	}
	if !records.ValidPeriod(req.Period) {
		respondError(w, http.StatusBadRequest, "period must be one of monthly, quarterly, yearly")
		return req, false
	}

	return req, true
}

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

package records

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgergate/ledgergate/internal/id"
	"github.com/ledgergate/ledgergate/internal/scope"
)

// Service provides ledger record logic over tenant-scoped gateways.
// The tenant key never appears in its signatures; it travels in the
// request context and is applied by the gateways.
type Service struct {
	transactions *scope.Gateway[*Transaction]
	budgets      *scope.Gateway[*Budget]
	allTx        *scope.Unrestricted[*Transaction]
}

// NewService creates a new records service.
func NewService(
	transactions *scope.Gateway[*Transaction],
	budgets *scope.Gateway[*Budget],
	allTx *scope.Unrestricted[*Transaction],
) *Service {
	return &Service{
		transactions: transactions,
		budgets:      budgets,
		allTx:        allTx,
	}
}

// ListTransactions returns the resolved tenant's transactions.
func (s *Service) ListTransactions(ctx context.Context) ([]*Transaction, error) {
	return s.transactions.List(ctx)
}

// GetTransaction returns one transaction of the resolved tenant.
func (s *Service) GetTransaction(ctx context.Context, txID string) (*Transaction, error) {
	return s.transactions.Get(ctx, txID)
}

// CreateTransaction validates and stores a new transaction in the
// resolved tenant. The ID is assigned here; a caller-supplied ID is
// discarded.
func (s *Service) CreateTransaction(ctx context.Context, tx *Transaction) (*Transaction, error) {
	if tx.Currency == "" {
		return nil, fmt.Errorf("transaction currency is required")
	}
	if tx.Amount == 0 {
		return nil, fmt.Errorf("transaction amount must be non-zero")
	}

	now := time.Now()
	tx.ID = id.NewUUIDv7()
	if tx.OccurredAt.IsZero() {
		tx.OccurredAt = now
	}
	tx.CreatedAt = now
	tx.UpdatedAt = now

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

// UpdateTransaction rewrites an existing transaction of the resolved
// tenant.
func (s *Service) UpdateTransaction(ctx context.Context, tx *Transaction) (*Transaction, error) {
	if tx.ID == "" {
		return nil, fmt.Errorf("transaction id is required")
	}
	if tx.Currency == "" {
		return nil, fmt.Errorf("transaction currency is required")
	}
	if tx.Amount == 0 {
		return nil, fmt.Errorf("transaction amount must be non-zero")
	}

	existing, err := s.transactions.Get(ctx, tx.ID)
	if err != nil {
		return nil, err
	}

	tx.CreatedAt = existing.CreatedAt
	if tx.OccurredAt.IsZero() {
		tx.OccurredAt = existing.OccurredAt
	}
	tx.UpdatedAt = time.Now()

	if err := s.transactions.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return tx, nil
}

// DeleteTransaction removes one transaction of the resolved tenant.
func (s *Service) DeleteTransaction(ctx context.Context, txID string) error {
	return s.transactions.Delete(ctx, txID)
}

// ListBudgets returns the resolved tenant's budgets.
func (s *Service) ListBudgets(ctx context.Context) ([]*Budget, error) {
	return s.budgets.List(ctx)
}

// GetBudget returns one budget of the resolved tenant.
func (s *Service) GetBudget(ctx context.Context, budgetID string) (*Budget, error) {
	return s.budgets.Get(ctx, budgetID)
}

// CreateBudget validates and stores a new budget in the resolved
// tenant.
func (s *Service) CreateBudget(ctx context.Context, b *Budget) (*Budget, error) {
	if b.Category == "" {
		return nil, fmt.Errorf("budget category is required")
	}
	if b.LimitMinor <= 0 {
		return nil, fmt.Errorf("budget limit must be positive")
	}
	if !ValidPeriod(b.Period) {
		return nil, fmt.Errorf("budget period must be one of monthly, quarterly, yearly")
	}

	now := time.Now()
	b.ID = id.NewUUIDv7()
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := s.budgets.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	return b, nil
}

// UpdateBudget rewrites an existing budget of the resolved tenant.
func (s *Service) UpdateBudget(ctx context.Context, b *Budget) (*Budget, error) {
	if b.ID == "" {
		return nil, fmt.Errorf("budget id is required")
	}
	if b.Category == "" {
		return nil, fmt.Errorf("budget category is required")
	}
	if b.LimitMinor <= 0 {
		return nil, fmt.Errorf("budget limit must be positive")
	}
	if !ValidPeriod(b.Period) {
		return nil, fmt.Errorf("budget period must be one of monthly, quarterly, yearly")
	}

	existing, err := s.budgets.Get(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now()

	if err := s.budgets.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return b, nil
}

// DeleteBudget removes one budget of the resolved tenant.
func (s *Service) DeleteBudget(ctx context.Context, budgetID string) error {
	return s.budgets.Delete(ctx, budgetID)
}

// ListAllTransactions reads transactions across every tenant. Reserved
// for the administrative surface; tenant-facing routes never reach it.
func (s *Service) ListAllTransactions(ctx context.Context, limit, offset int) ([]*Transaction, error) {
	return s.allTx.ListAll(ctx, limit, offset)
}

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

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ledgergate/ledgergate/internal/records"
	"github.com/ledgergate/ledgergate/internal/scope"
)

// TransactionStore persists ledger transactions. Every scoped query
// names the tenant key in its WHERE clause; rows of other tenants are
// unreachable from the scoped methods.
type TransactionStore struct {
	db *DB
}

var (
	_ scope.Backend[*records.Transaction]          = (*TransactionStore)(nil)
	_ scope.UnboundedBackend[*records.Transaction] = (*TransactionStore)(nil)
)

// NewTransactionStore creates a new transaction store
func NewTransactionStore(db *DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// List returns one tenant's transactions, newest first
func (s *TransactionStore) List(ctx context.Context, tenantKey string) ([]*records.Transaction, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT id, tenant_key, amount_minor, currency, memo, occurred_at, created_at, updated_at
		FROM transactions
		WHERE tenant_key = $1
		ORDER BY occurred_at DESC
	`, tenantKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Get returns one transaction of the tenant
func (s *TransactionStore) Get(ctx context.Context, tenantKey, id string) (*records.Transaction, error) {
	var t records.Transaction
	err := s.db.pool.QueryRow(ctx, `
		SELECT id, tenant_key, amount_minor, currency, memo, occurred_at, created_at, updated_at
		FROM transactions
		WHERE tenant_key = $1 AND id = $2
	`, tenantKey, id).Scan(&t.ID, &t.Tenant, &t.Amount, &t.Currency, &t.Memo, &t.OccurredAt, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, scope.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &t, nil
}

// Create inserts a transaction already bound to its tenant
func (s *TransactionStore) Create(ctx context.Context, t *records.Transaction) error {
	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO transactions (id, tenant_key, amount_minor, currency, memo, occurred_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, t.ID, t.Tenant, t.Amount, t.Currency, t.Memo, t.OccurredAt, t.CreatedAt, t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// Update rewrites a transaction inside its tenant
func (s *TransactionStore) Update(ctx context.Context, t *records.Transaction) error {
	result, err := s.db.pool.Exec(ctx, `
		UPDATE transactions
		SET amount_minor = $3, currency = $4, memo = $5, occurred_at = $6, updated_at = $7
		WHERE tenant_key = $1 AND id = $2
	`, t.Tenant, t.ID, t.Amount, t.Currency, t.Memo, t.OccurredAt, t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return scope.ErrNotFound
	}

	return nil
}

// Delete removes one transaction of the tenant
func (s *TransactionStore) Delete(ctx context.Context, tenantKey, id string) error {
	result, err := s.db.pool.Exec(ctx, `
		DELETE FROM transactions WHERE tenant_key = $1 AND id = $2
	`, tenantKey, id)

	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return scope.ErrNotFound
	}

	return nil
}

// ListAll returns transactions across every tenant, newest first.
// Reachable only through the unrestricted accessor.
func (s *TransactionStore) ListAll(ctx context.Context, limit, offset int) ([]*records.Transaction, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT id, tenant_key, amount_minor, currency, memo, occurred_at, created_at, updated_at
		FROM transactions
		ORDER BY occurred_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list all transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetAny returns one transaction by ID regardless of tenant
func (s *TransactionStore) GetAny(ctx context.Context, id string) (*records.Transaction, error) {
	var t records.Transaction
	err := s.db.pool.QueryRow(ctx, `
		SELECT id, tenant_key, amount_minor, currency, memo, occurred_at, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Tenant, &t.Amount, &t.Currency, &t.Memo, &t.OccurredAt, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, scope.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &t, nil
}

func scanTransactions(rows pgx.Rows) ([]*records.Transaction, error) {
	var out []*records.Transaction
	for rows.Next() {
		var t records.Transaction
		if err := rows.Scan(&t.ID, &t.Tenant, &t.Amount, &t.Currency, &t.Memo, &t.OccurredAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, &t)
	}
	return out, nil
}

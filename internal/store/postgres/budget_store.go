package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ledgergate/ledgergate/internal/records"
	"github.com/ledgergate/ledgergate/internal/scope"
)

// BudgetStore persists budgets with the same tenant scoping rules as
// TransactionStore.
type BudgetStore struct {
	db *DB
}

var _ scope.Backend[*records.Budget] = (*BudgetStore)(nil)

// NewBudgetStore creates a new budget store
func NewBudgetStore(db *DB) *BudgetStore {
	return &BudgetStore{db: db}
}

// List returns one tenant's budgets
func (s *BudgetStore) List(ctx context.Context, tenantKey string) ([]*records.Budget, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT id, tenant_key, category, limit_minor, period, created_at, updated_at
		FROM budgets
		WHERE tenant_key = $1
		ORDER BY category ASC
	`, tenantKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var out []*records.Budget
	for rows.Next() {
		var b records.Budget
		if err := rows.Scan(&b.ID, &b.Tenant, &b.Category, &b.LimitMinor, &b.Period, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		out = append(out, &b)
	}

	return out, nil
}

// Get returns one budget of the tenant
func (s *BudgetStore) Get(ctx context.Context, tenantKey, id string) (*records.Budget, error) {
	var b records.Budget
	err := s.db.pool.QueryRow(ctx, `
		SELECT id, tenant_key, category, limit_minor, period, created_at, updated_at
		FROM budgets
		WHERE tenant_key = $1 AND id = $2
	`, tenantKey, id).Scan(&b.ID, &b.Tenant, &b.Category, &b.LimitMinor, &b.Period, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, scope.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return &b, nil
}

// Create inserts a budget already bound to its tenant
func (s *BudgetStore) Create(ctx context.Context, b *records.Budget) error {
	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO budgets (id, tenant_key, category, limit_minor, period, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, b.ID, b.Tenant, b.Category, b.LimitMinor, b.Period, b.CreatedAt, b.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}

	return nil
}

// Update rewrites a budget inside its tenant
func (s *BudgetStore) Update(ctx context.Context, b *records.Budget) error {
	result, err := s.db.pool.Exec(ctx, `
		UPDATE budgets
		SET category = $3, limit_minor = $4, period = $5, updated_at = $6
		WHERE tenant_key = $1 AND id = $2
	`, b.Tenant, b.ID, b.Category, b.LimitMinor, b.Period, b.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}

	if result.RowsAffected() == 0 {
		return scope.ErrNotFound
	}

	return nil
}

// Delete removes one budget of the tenant
func (s *BudgetStore) Delete(ctx context.Context, tenantKey, id string) error {
	result, err := s.db.pool.Exec(ctx, `
		DELETE FROM budgets WHERE tenant_key = $1 AND id = $2
	`, tenantKey, id)

	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	if result.RowsAffected() == 0 {
		return scope.ErrNotFound
	}

	return nil
}

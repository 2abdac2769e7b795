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

	"github.com/ledgergate/ledgergate/internal/authz"
	"github.com/ledgergate/ledgergate/internal/tenant"
)

// MembershipRepository implements tenant.MembershipRepository.
//
// Role mutations run in a transaction that first locks the tenant row.
// Concurrent grants and revokes for one tenant therefore serialize, and
// the owner counts read inside the transaction cannot go stale before
// commit.
type MembershipRepository struct {
	db *DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// lockTenant serializes role mutations for one tenant by locking its row.
func lockTenant(ctx context.Context, tx pgx.Tx, tenantKey string) error {
	var key string
	err := tx.QueryRow(ctx, `
		SELECT key FROM tenants WHERE key = $1 FOR UPDATE
	`, tenantKey).Scan(&key)
	if err != nil {
		if err == pgx.ErrNoRows {
			return tenant.ErrTenantNotFound
		}
		return fmt.Errorf("failed to lock tenant: %w", err)
	}
	return nil
}

// otherOwners counts owners of the tenant excluding userID.
func otherOwners(ctx context.Context, tx pgx.Tx, tenantKey, userID string) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM memberships
		WHERE tenant_key = $1 AND role = $2 AND user_id <> $3
	`, tenantKey, authz.RoleOwner.String(), userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count owners: %w", err)
	}
	return n, nil
}

// Upsert inserts the membership or replaces the existing role for the
// (user, tenant) pair. Demoting the tenant's only owner fails with
// tenant.ErrLastOwner.
func (r *MembershipRepository) Upsert(ctx context.Context, m *tenant.Membership) error {
	tx, err := r.db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockTenant(ctx, tx, m.TenantKey); err != nil {
		return err
	}

	var currentRole string
	err = tx.QueryRow(ctx, `
		SELECT role FROM memberships WHERE tenant_key = $1 AND user_id = $2
	`, m.TenantKey, m.UserID).Scan(&currentRole)
	if err != nil && err != pgx.ErrNoRows {
		return fmt.Errorf("failed to read membership: %w", err)
	}

	// Replacing an owner's role with a lesser one needs another owner.
	if err == nil && currentRole == authz.RoleOwner.String() && m.Role != authz.RoleOwner {
		n, err := otherOwners(ctx, tx, m.TenantKey, m.UserID)
		if err != nil {
			return err
		}
		if n == 0 {
			return tenant.ErrLastOwner
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO memberships (user_id, tenant_key, role, granted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, tenant_key)
		DO UPDATE SET role = EXCLUDED.role, granted_by = EXCLUDED.granted_by, updated_at = EXCLUDED.updated_at
	`, m.UserID, m.TenantKey, m.Role.String(), m.GrantedBy, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit membership upsert: %w", err)
	}

	return nil
}

// Get retrieves one membership
func (r *MembershipRepository) Get(ctx context.Context, tenantKey, userID string) (*tenant.Membership, error) {
	var m tenant.Membership
	var role string
	err := r.db.pool.QueryRow(ctx, `
		SELECT user_id, tenant_key, role, granted_by, created_at, updated_at
		FROM memberships
		WHERE tenant_key = $1 AND user_id = $2
	`, tenantKey, userID).Scan(&m.UserID, &m.TenantKey, &role, &m.GrantedBy, &m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, tenant.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	m.Role, err = authz.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored role %q: %w", role, err)
	}

	return &m, nil
}

// Delete removes the membership. Removing the tenant's only owner fails
// with tenant.ErrLastOwner.
func (r *MembershipRepository) Delete(ctx context.Context, tenantKey, userID string) error {
	tx, err := r.db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockTenant(ctx, tx, tenantKey); err != nil {
		if err == tenant.ErrTenantNotFound {
			return tenant.ErrMembershipNotFound
		}
		return err
	}

	var role string
	err = tx.QueryRow(ctx, `
		SELECT role FROM memberships WHERE tenant_key = $1 AND user_id = $2
	`, tenantKey, userID).Scan(&role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return tenant.ErrMembershipNotFound
		}
		return fmt.Errorf("failed to read membership: %w", err)
	}

	if role == authz.RoleOwner.String() {
		n, err := otherOwners(ctx, tx, tenantKey, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			return tenant.ErrLastOwner
		}
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM memberships WHERE tenant_key = $1 AND user_id = $2
	`, tenantKey, userID)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit membership delete: %w", err)
	}

	return nil
}

// ListByTenant retrieves all memberships of a tenant
func (r *MembershipRepository) ListByTenant(ctx context.Context, tenantKey string) ([]*tenant.Membership, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT user_id, tenant_key, role, granted_by, created_at, updated_at
		FROM memberships
		WHERE tenant_key = $1
		ORDER BY created_at ASC
	`, tenantKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var members []*tenant.Membership
	for rows.Next() {
		var m tenant.Membership
		var role string
		if err := rows.Scan(&m.UserID, &m.TenantKey, &role, &m.GrantedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		m.Role, err = authz.ParseRole(role)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored role %q: %w", role, err)
		}
		members = append(members, &m)
	}

	return members, nil
}

// ListByUser retrieves the user's memberships across all tenants, joined
// with the tenant profile fields a caller may see. Only external
// identifiers leave this query.
func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]*tenant.UserTenant, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT t.external_id, t.name, m.role, t.active
		FROM memberships m
		JOIN tenants t ON t.key = m.tenant_key
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user tenants: %w", err)
	}
	defer rows.Close()

	var out []*tenant.UserTenant
	for rows.Next() {
		var ut tenant.UserTenant
		var role string
		if err := rows.Scan(&ut.TenantID, &ut.TenantName, &role, &ut.Active); err != nil {
			return nil, fmt.Errorf("failed to scan user tenant: %w", err)
		}
		ut.Role, err = authz.ParseRole(role)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored role %q: %w", role, err)
		}
		out = append(out, &ut)
	}

	return out, nil
}

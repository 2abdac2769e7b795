package tenant

import (
	"context"
	"errors"
)

var (
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrLastOwner          = errors.New("tenant must retain at least one owner")
)

// Repository defines the interface for tenant storage. Lookups by key use
// the internal surrogate key; GetByID resolves the external identifier.
type Repository interface {
	// Create persists the tenant and an Owner membership for creatorID in
	// one transaction; a tenant never exists without an owner.
	Create(ctx context.Context, t *Tenant, creatorID string) error
	GetByID(ctx context.Context, externalID string) (*Tenant, error)
	GetByKey(ctx context.Context, key string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, limit, offset int) ([]*Tenant, error)
}

// MembershipRepository defines the interface for membership storage.
// Role-mutating operations serialize on the tenant row and re-check the
// owner invariant inside their transaction.
type MembershipRepository interface {
	// Upsert inserts the membership or, when the (user, tenant) pair
	// already exists, replaces its role. Returns ErrLastOwner when the
	// change would demote the tenant's only owner.
	Upsert(ctx context.Context, m *Membership) error
	Get(ctx context.Context, tenantKey, userID string) (*Membership, error)
	// Delete removes the membership. Returns ErrLastOwner when the target
	// is the tenant's only owner.
	Delete(ctx context.Context, tenantKey, userID string) error
	ListByTenant(ctx context.Context, tenantKey string) ([]*Membership, error)
	ListByUser(ctx context.Context, userID string) ([]*UserTenant, error)
}

package tenant

import (
	"time"

	"github.com/ledgergate/ledgergate/internal/authz"
)

// Tenant is an isolated customer workspace. Key is the internal surrogate
// key used for storage joins and never serialized to callers; ID is the
// opaque external identifier that appears in URLs and claims.
type Tenant struct {
	Key         string    `json:"-"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Membership assigns exactly one role to a user within a tenant. The
// (UserID, TenantKey) pair is unique; granting again replaces the role.
type Membership struct {
	UserID    string     `json:"user_id"`
	TenantKey string     `json:"-"`
	Role      authz.Role `json:"role"`
	GrantedBy string     `json:"granted_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UserTenant is one row of a user's own cross-tenant membership listing,
// joined with the tenant profile fields a caller may see.
type UserTenant struct {
	TenantID   string     `json:"tenant_id"`
	TenantName string     `json:"tenant_name"`
	Role       authz.Role `json:"role"`
	Active     bool       `json:"active"`
}

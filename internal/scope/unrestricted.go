package scope

import "context"

// Unrestricted reads records across all tenants. Construction is the
// authorization decision: only platform-operator code paths may build
// one, and it must never be reachable from tenant-facing handlers.
type Unrestricted[R Record] struct {
	backend UnboundedBackend[R]
}

// NewUnrestricted creates a cross-tenant accessor over backend.
func NewUnrestricted[R Record](backend UnboundedBackend[R]) *Unrestricted[R] {
	return &Unrestricted[R]{backend: backend}
}

// ListAll returns records across every tenant, newest first.
func (u *Unrestricted[R]) ListAll(ctx context.Context, limit, offset int) ([]R, error) {
	return u.backend.ListAll(ctx, limit, offset)
}

// GetAny returns one record by ID regardless of owning tenant.
func (u *Unrestricted[R]) GetAny(ctx context.Context, id string) (R, error) {
	return u.backend.GetAny(ctx, id)
}

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

package scope

import (
	"context"

	"github.com/ledgergate/ledgergate/internal/tenantctx"
)

// Gateway wraps a Backend and derives the tenant key exclusively from
// the request context. Callers never name a tenant; a request that
// reaches a Gateway without a resolved tenant fails with ErrNoTenant.
type Gateway[R Record] struct {
	backend Backend[R]
}

// NewGateway creates a tenant-scoped gateway over backend.
func NewGateway[R Record](backend Backend[R]) *Gateway[R] {
	return &Gateway[R]{backend: backend}
}

// List returns the records of the tenant resolved for the request.
func (g *Gateway[R]) List(ctx context.Context) ([]R, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return nil, ErrNoTenant
	}
	return g.backend.List(ctx, tc.TenantKey())
}

// Get returns one record of the resolved tenant by ID. Records owned
// by other tenants are indistinguishable from absent ones.
func (g *Gateway[R]) Get(ctx context.Context, id string) (R, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		var zero R
		return zero, ErrNoTenant
	}
	return g.backend.Get(ctx, tc.TenantKey(), id)
}

// Create binds rec to the resolved tenant and stores it. A record
// already bound to a different tenant is rejected with
// ErrTenantMismatch before any storage call.
func (g *Gateway[R]) Create(ctx context.Context, rec R) error {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return ErrNoTenant
	}
	if key := rec.TenantKey(); key != "" && key != tc.TenantKey() {
		return ErrTenantMismatch
	}
	rec.BindTenant(tc.TenantKey())
	return g.backend.Create(ctx, rec)
}

// Update rewrites a record of the resolved tenant, with the same
// binding rules as Create.
func (g *Gateway[R]) Update(ctx context.Context, rec R) error {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return ErrNoTenant
	}
	if key := rec.TenantKey(); key != "" && key != tc.TenantKey() {
		return ErrTenantMismatch
	}
	rec.BindTenant(tc.TenantKey())
	return g.backend.Update(ctx, rec)
}

// Delete removes one record of the resolved tenant by ID.
func (g *Gateway[R]) Delete(ctx context.Context, id string) error {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return ErrNoTenant
	}
	return g.backend.Delete(ctx, tc.TenantKey(), id)
}

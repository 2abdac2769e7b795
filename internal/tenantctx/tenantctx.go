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

// Package tenantctx carries the resolved tenant context of a request: the
// tenant's internal storage key and the caller's granted role, fixed at
// authorization time. It is published once per request, after the policy
// decision, and is read-only from then on; downstream code can consume it
// but never rebuild or widen it.
package tenantctx

import (
	"context"

	"github.com/ledgergate/ledgergate/internal/authz"
)

type contextKey struct{}

// Resolved is the request-scoped tenant context. Both fields are fixed at
// construction; there are no setters.
type Resolved struct {
	tenantKey string
	role      authz.Role
}

// NewResolved builds a resolved context from the storage key of the tenant
// and the role the caller was granted there.
func NewResolved(tenantKey string, role authz.Role) Resolved {
	return Resolved{tenantKey: tenantKey, role: role}
}

// TenantKey returns the tenant's internal storage key. It never leaves the
// process in a response body.
func (r Resolved) TenantKey() string { return r.tenantKey }

// Role returns the role the caller holds in the resolved tenant.
func (r Resolved) Role() authz.Role { return r.role }

// WithResolved returns a context carrying the resolved tenant context.
// Called exactly once per request by the authorization middleware.
func WithResolved(ctx context.Context, r Resolved) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// FromContext extracts the resolved tenant context. The second return is
// false outside an authorized tenant-scoped request; callers must treat
// that as a hard stop, not a default.
func FromContext(ctx context.Context) (Resolved, bool) {
	r, ok := ctx.Value(contextKey{}).(Resolved)
	return r, ok
}

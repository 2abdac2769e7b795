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

// Package scope confines persistence to the tenant resolved for the
// current request. Data access for tenant-owned types goes through a
// Gateway, which reads the tenant key from the request context and
// never accepts one from the caller. Cross-tenant access exists only
// behind the explicitly constructed Unrestricted accessor.
package scope

import (
	"context"
	"errors"
)

var (
	// ErrNoTenant is returned when a scoped operation runs on a context
	// that carries no resolved tenant.
	ErrNoTenant = errors.New("no tenant resolved in request context")

	// ErrTenantMismatch is returned when a record is already bound to a
	// tenant other than the one resolved for the request.
	ErrTenantMismatch = errors.New("record tenant does not match request tenant")

	// ErrNotFound is returned when a record does not exist within the
	// requested tenant.
	ErrNotFound = errors.New("record not found")
)

// Record is implemented by persistent types that belong to exactly one
// tenant. Only types carrying this capability can pass through a
// Gateway; membership in a tenant is enforced at compile time rather
// than by runtime inspection.
type Record interface {
	// TenantKey reports the tenant the record is bound to, or "" when
	// the record has not been bound yet.
	TenantKey() string

	// BindTenant binds the record to a tenant before storage.
	BindTenant(key string)
}

// Backend performs tenant-scoped persistence for a record type. Every
// operation receives the tenant key explicitly, and implementations
// must constrain all reads and writes to that tenant.
type Backend[R Record] interface {
	List(ctx context.Context, tenantKey string) ([]R, error)
	Get(ctx context.Context, tenantKey, id string) (R, error)
	Create(ctx context.Context, rec R) error
	Update(ctx context.Context, rec R) error
	Delete(ctx context.Context, tenantKey, id string) error
}

// UnboundedBackend exposes cross-tenant reads for a record type. It is
// a separate interface so scoped call sites cannot reach it by
// accident.
type UnboundedBackend[R Record] interface {
	ListAll(ctx context.Context, limit, offset int) ([]R, error)
	GetAny(ctx context.Context, id string) (R, error)
}

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

package tenant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ledgergate/ledgergate/internal/audit"
	"github.com/ledgergate/ledgergate/internal/authz"
	"github.com/ledgergate/ledgergate/internal/id"
)

// ErrOwnerRequired is returned when a membership operation needs the Owner
// role and the acting caller holds less.
var ErrOwnerRequired = errors.New("operation requires the Owner role")

// Service provides tenant and membership lifecycle logic. Route policies
// gate who may call which operation; the service enforces the invariants
// that survive any caller: one role per member, at least one owner, and
// self-revocation as the only non-owner revoke.
type Service struct {
	repo        Repository
	members     MembershipRepository
	auditLogger audit.Logger
}

// NewService creates a new tenant service
func NewService(repo Repository, members MembershipRepository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		members:     members,
		auditLogger: auditLogger,
	}
}

// CreateTenant creates a tenant and grants its creator the Owner role in
// the same storage transaction. The returned tenant carries a fresh
// external identifier; the internal key stays inside the service.
func (s *Service) CreateTenant(ctx context.Context, name, description, creatorID string) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}
	if creatorID == "" {
		return nil, fmt.Errorf("creator id is required")
	}

	now := time.Now()
	t := &Tenant{
		Key:         id.NewUUIDv7(),
		ID:          id.NewExternalID(),
		Name:        name,
		Description: description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, t, creatorID); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantCreated,
		TenantID: t.ID,
		ActorID:  creatorID,
		Resource: "tenant",
		Metadata: map[string]any{"name": t.Name},
	})

	return t, nil
}

// GetTenant retrieves a tenant by its external identifier.
func (s *Service) GetTenant(ctx context.Context, externalID string) (*Tenant, error) {
	return s.repo.GetByID(ctx, externalID)
}

// GetTenantByKey retrieves a tenant by its internal key.
func (s *Service) GetTenantByKey(ctx context.Context, key string) (*Tenant, error) {
	return s.repo.GetByKey(ctx, key)
}

// UpdateTenant replaces the tenant profile. Gated to Owners at the route
// layer.
func (s *Service) UpdateTenant(ctx context.Context, key, name, description string, active bool, actorID string) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}

	t, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	t.Name = name
	t.Description = description
	t.Active = active
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantUpdated,
		TenantID: t.ID,
		ActorID:  actorID,
		Resource: "tenant",
		Metadata: map[string]any{"name": t.Name, "active": t.Active},
	})

	return t, nil
}

// DeleteTenant removes the tenant. Memberships and tenant-scoped records
// go with it via the schema's cascade rules.
func (s *Service) DeleteTenant(ctx context.Context, key, actorID string) error {
	t, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantDeleted,
		TenantID: t.ID,
		ActorID:  actorID,
		Resource: "tenant",
	})

	return nil
}

// GrantRole assigns role to userID in the tenant, replacing any existing
// role for that user. Demoting the tenant's only owner fails with
// ErrLastOwner. tenantID is the external identifier, carried only into the
// audit trail.
func (s *Service) GrantRole(ctx context.Context, tenantKey, tenantID, userID string, role authz.Role, grantedBy string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if !role.Valid() {
		return fmt.Errorf("invalid role")
	}

	now := time.Now()
	m := &Membership{
		UserID:    userID,
		TenantKey: tenantKey,
		Role:      role,
		GrantedBy: grantedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.members.Upsert(ctx, m); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleGranted,
		TenantID: tenantID,
		ActorID:  grantedBy,
		Resource: role.String(),
		Metadata: map[string]any{"user_id": userID},
	})

	return nil
}

// RevokeRole removes userID's membership. Owners may revoke anyone;
// everyone else may only revoke themselves (leave the tenant). Removing
// the only owner fails with ErrLastOwner in either case.
func (s *Service) RevokeRole(ctx context.Context, tenantKey, tenantID, userID, actorID string, actorRole authz.Role) error {
	if userID != actorID && !actorRole.Meets(authz.RoleOwner) {
		return ErrOwnerRequired
	}

	if err := s.members.Delete(ctx, tenantKey, userID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleRevoked,
		TenantID: tenantID,
		ActorID:  actorID,
		Resource: "membership",
		Metadata: map[string]any{"user_id": userID},
	})

	return nil
}

// ListMembers lists all memberships of the tenant.
func (s *Service) ListMembers(ctx context.Context, tenantKey string) ([]*Membership, error) {
	return s.members.ListByTenant(ctx, tenantKey)
}

// ListUserTenants lists the caller's own memberships across all tenants.
// This read deliberately spans tenants; it is authorized by authentication
// alone and exposes only external identifiers.
func (s *Service) ListUserTenants(ctx context.Context, userID string) ([]*UserTenant, error) {
	return s.members.ListByUser(ctx, userID)
}

// ListTenants lists tenants platform-wide with pagination. Reserved for
// the administrative surface.
func (s *Service) ListTenants(ctx context.Context, limit, offset int) ([]*Tenant, error) {
	return s.repo.List(ctx, limit, offset)
}

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

package authz_test

import (
	"testing"

	"github.com/ledgergate/ledgergate/internal/authz"
)

const (
	tenantAlpha = "11111111-1111-4111-8111-111111111111"
	tenantBeta  = "22222222-2222-4222-8222-222222222222"
)

// TestPurpose: Validates the three-way evaluation outcome across membership, level, and absence scenarios.
// Scope: Unit Test
// Security: Central allow/deny gate for every tenant-scoped route
// Expected: Exact or higher role allows; lower role is insufficient; no claim, wrong tenant, or malformed claim is no access.
// Test Case ID: EVAL-01
func TestEvaluate_Decisions(t *testing.T) {
	tests := []struct {
		name   string
		min    authz.Role
		claims []string
		want   authz.Decision
	}{
		{
			name:   "exact role allows",
			min:    authz.RoleEditor,
			claims: []string{tenantAlpha + ":Editor"},
			want:   authz.DecisionAllow,
		},
		{
			name:   "higher role allows",
			min:    authz.RoleViewer,
			claims: []string{tenantAlpha + ":Owner"},
			want:   authz.DecisionAllow,
		},
		{
			name:   "lower role is insufficient",
			min:    authz.RoleEditor,
			claims: []string{tenantAlpha + ":Viewer"},
			want:   authz.DecisionInsufficientRole,
		},
		{
			name:   "owner requirement not met by editor",
			min:    authz.RoleOwner,
			claims: []string{tenantAlpha + ":Editor"},
			want:   authz.DecisionInsufficientRole,
		},
		{
			name:   "empty bundle is no access",
			min:    authz.RoleViewer,
			claims: nil,
			want:   authz.DecisionNoAccess,
		},
		{
			name:   "claim for another tenant is no access",
			min:    authz.RoleViewer,
			claims: []string{tenantBeta + ":Owner"},
			want:   authz.DecisionNoAccess,
		},
		{
			name:   "malformed claim for target tenant is no access",
			min:    authz.RoleViewer,
			claims: []string{tenantAlpha + ":SuperUser"},
			want:   authz.DecisionNoAccess,
		},
		{
			name:   "malformed entry does not poison a later valid one",
			min:    authz.RoleViewer,
			claims: []string{"garbage", tenantAlpha + ":Viewer"},
			want:   authz.DecisionAllow,
		},
		{
			name:   "other tenants around the match are ignored",
			min:    authz.RoleEditor,
			claims: []string{tenantBeta + ":Viewer", tenantAlpha + ":Owner"},
			want:   authz.DecisionAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := authz.Evaluate(tt.min, tenantAlpha, tt.claims)
			if res.Decision != tt.want {
				t.Errorf("Evaluate() decision = %v, want %v", res.Decision, tt.want)
			}
		})
	}
}

// TestPurpose: Validates that an allowed evaluation reports the granted role for downstream resolution, and denials report none.
// Scope: Unit Test
// Security: The resolved context must carry the true granted level, not the requested minimum
// Expected: Allow carries the claim's role; other decisions carry the zero role.
// Test Case ID: EVAL-02
func TestEvaluate_ReportsGrantedRole(t *testing.T) {
	res := authz.Evaluate(authz.RoleViewer, tenantAlpha, []string{tenantAlpha + ":Owner"})
	if res.Decision != authz.DecisionAllow {
		t.Fatalf("expected allow, got %v", res.Decision)
	}
	if res.Role != authz.RoleOwner {
		t.Errorf("expected granted role Owner, got %v", res.Role)
	}

	denied := authz.Evaluate(authz.RoleOwner, tenantAlpha, []string{tenantAlpha + ":Viewer"})
	if denied.Role != 0 {
		t.Errorf("denied result must not carry a role, got %v", denied.Role)
	}
}

// TestPurpose: Validates that cross-tenant claims can never authorize access to a different tenant.
// Scope: Unit Test
// Security: Multi-tenancy isolation (prevents lateral movement)
// Expected: An Owner of tenant beta evaluates to no access against tenant alpha.
// Test Case ID: EVAL-03
func TestEvaluate_CrossTenantDenied(t *testing.T) {
	res := authz.Evaluate(authz.RoleViewer, tenantAlpha, []string{tenantBeta + ":Owner"})
	if res.Decision != authz.DecisionNoAccess {
		t.Errorf("owner of another tenant must evaluate to no access, got %v", res.Decision)
	}
}

func TestRegistry_Policies(t *testing.T) {
	reg := authz.NewRegistry()

	tests := []struct {
		name string
		min  authz.Role
	}{
		{authz.PolicyTenantViewer, authz.RoleViewer},
		{authz.PolicyTenantEditor, authz.RoleEditor},
		{authz.PolicyTenantOwner, authz.RoleOwner},
	}

	for _, tt := range tests {
		p, ok := reg.Lookup(tt.name)
		if !ok {
			t.Fatalf("policy %q not registered", tt.name)
		}
		if p.Min != tt.min {
			t.Errorf("policy %q min = %v, want %v", tt.name, p.Min, tt.min)
		}
	}

	if _, ok := reg.Lookup("TenantRole_Admin"); ok {
		t.Error("unknown policy name must not resolve")
	}
}

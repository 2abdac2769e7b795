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

package authz

import "fmt"

// Policy names, one per role level. Routes reference policies by these
// opaque keys; the minimum role behind a name is the registry's concern.
const (
	PolicyTenantViewer = "TenantRole_Viewer"
	PolicyTenantEditor = "TenantRole_Editor"
	PolicyTenantOwner  = "TenantRole_Owner"
)

// Policy binds a route-facing name to the minimum role it demands.
type Policy struct {
	Name string
	Min  Role
}

// Registry holds the named policies. It is populated once at startup and
// read-only afterwards.
type Registry struct {
	policies map[string]Policy
}

// NewRegistry returns a registry with the three tenant role policies
// registered.
func NewRegistry() *Registry {
	r := &Registry{policies: make(map[string]Policy)}
	for _, p := range []Policy{
		{Name: PolicyTenantViewer, Min: RoleViewer},
		{Name: PolicyTenantEditor, Min: RoleEditor},
		{Name: PolicyTenantOwner, Min: RoleOwner},
	} {
		r.policies[p.Name] = p
	}
	return r
}

// Lookup returns the policy registered under name.
func (r *Registry) Lookup(name string) (Policy, bool) {
	p, ok := r.policies[name]
	return p, ok
}

// MustLookup is Lookup for wiring code where an unknown name is a
// programming error.
func (r *Registry) MustLookup(name string) Policy {
	p, ok := r.policies[name]
	if !ok {
		panic(fmt.Sprintf("authz: unknown policy %q", name))
	}
	return p
}

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

// Decision is the outcome of evaluating a caller's claims against a policy.
type Decision uint8

const (
	// DecisionNoAccess means the caller holds no usable membership for the
	// tenant: no claim names it, or the claim that does is malformed. From
	// the caller's perspective this is indistinguishable from the tenant
	// not existing.
	DecisionNoAccess Decision = iota

	// DecisionInsufficientRole means the caller is a member of the tenant
	// but below the required level.
	DecisionInsufficientRole

	// DecisionAllow means the caller's membership meets the requirement.
	DecisionAllow
)

// String returns a stable label for logs and metrics.
func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionInsufficientRole:
		return "insufficient_role"
	default:
		return "no_access"
	}
}

// Result carries the decision and, on DecisionAllow, the role the caller
// holds in the target tenant. Role is zero for every other decision.
type Result struct {
	Decision Decision
	Role     Role
}

// Evaluate decides whether a claim bundle satisfies the minimum role for a
// tenant. It is pure: no storage, no side effects, nothing but the inputs.
//
// tenantID must already be in canonical UUID form; claims is the raw
// bundle as presented by the caller. The first claim naming the tenant
// wins — bundles are built with at most one entry per tenant, and a
// duplicate would have to disagree with itself to matter.
func Evaluate(min Role, tenantID string, claims []string) Result {
	for _, raw := range claims {
		c, err := ParseTenantClaim(raw)
		if err != nil {
			// Unparseable entries grant nothing. We cannot even tell which
			// tenant a garbled claim was for, so it cannot soften the
			// outcome for this one.
			continue
		}
		if c.TenantID != tenantID {
			continue
		}
		if !c.Role.Meets(min) {
			return Result{Decision: DecisionInsufficientRole}
		}
		return Result{Decision: DecisionAllow, Role: c.Role}
	}
	return Result{Decision: DecisionNoAccess}
}

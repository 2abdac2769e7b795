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

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ClaimName is the token claim carrying tenant membership entries.
// Its value is an array of strings, each in TenantClaim wire format,
// at most one per tenant.
const ClaimName = "tenant_role"

// ErrMalformedClaim is returned for membership claim strings that do not
// parse. A malformed claim is never repaired or defaulted; it simply
// grants nothing.
var ErrMalformedClaim = errors.New("malformed tenant role claim")

// TenantClaim is one parsed membership entry: the caller holds Role in the
// tenant identified by TenantID (the tenant's external identifier, in
// canonical UUID form).
type TenantClaim struct {
	TenantID string
	Role     Role
}

// String encodes the claim in wire format: "<tenant-identifier>:<RoleName>".
func (c TenantClaim) String() string {
	return c.TenantID + ":" + c.Role.String()
}

// ParseTenantClaim decodes a single wire-format membership claim. The
// tenant identifier must be a valid UUID and the role name an exact,
// case-sensitive match. The identifier is canonicalized so later
// comparisons are textual.
func ParseTenantClaim(s string) (TenantClaim, error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return TenantClaim{}, fmt.Errorf("%w: missing separator", ErrMalformedClaim)
	}
	rawID, rawRole := s[:idx], s[idx+1:]

	tid, err := uuid.Parse(rawID)
	if err != nil {
		return TenantClaim{}, fmt.Errorf("%w: bad tenant identifier: %v", ErrMalformedClaim, err)
	}

	role, err := ParseRole(rawRole)
	if err != nil {
		return TenantClaim{}, fmt.Errorf("%w: %v", ErrMalformedClaim, err)
	}

	return TenantClaim{TenantID: tid.String(), Role: role}, nil
}

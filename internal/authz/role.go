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
)

// Role is a tenant membership level. The three levels form a strict total
// order: Viewer < Editor < Owner. Every access decision in the service
// reduces to Meets; nothing else may compare roles.
//
// The zero value is not a valid role. A user without a membership has no
// role at all, which is weaker than Viewer.
type Role uint8

const (
	// RoleViewer grants read-only access to tenant data.
	RoleViewer Role = iota + 1

	// RoleEditor grants everything Viewer grants, plus creating and
	// modifying records within the tenant.
	RoleEditor

	// RoleOwner grants everything Editor grants, plus managing the tenant
	// itself and the roles of its members.
	RoleOwner
)

// ErrUnknownRole is returned when a role name does not match any defined
// role exactly. Matching is case-sensitive; "viewer" is not a role.
var ErrUnknownRole = errors.New("unknown role")

var roleNames = map[Role]string{
	RoleViewer: "Viewer",
	RoleEditor: "Editor",
	RoleOwner:  "Owner",
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Meets reports whether r satisfies a required minimum level. An invalid
// role on either side never meets anything.
func (r Role) Meets(min Role) bool {
	if !r.Valid() || !min.Valid() {
		return false
	}
	return r >= min
}

// String returns the canonical role name, or "invalid" for the zero value
// and any other undefined level.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "invalid"
}

// ParseRole maps a canonical role name to its Role. There is no default:
// anything but an exact match fails with ErrUnknownRole.
func ParseRole(name string) (Role, error) {
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

// MarshalText encodes the role as its canonical name.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a canonical role name.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

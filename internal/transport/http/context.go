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

package http

import "context"

// contextKey is a private type for request context keys to avoid collisions
// with other packages.
type contextKey string

const (
	userIDKey      contextKey = "user_id"
	tenantRolesKey contextKey = "tenant_roles"
)

// GetUserID retrieves the authenticated subject from the request context.
// Returns "" when the request did not pass AuthMiddleware.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// GetTenantRoles retrieves the raw tenant role claims carried by the
// caller's token. Returns nil when the request did not pass AuthMiddleware.
func GetTenantRoles(ctx context.Context) []string {
	if v, ok := ctx.Value(tenantRolesKey).([]string); ok {
		return v
	}
	return nil
}

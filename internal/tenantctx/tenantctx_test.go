package tenantctx_test

import (
	"context"
	"testing"

	"github.com/ledgergate/ledgergate/internal/authz"
	"github.com/ledgergate/ledgergate/internal/tenantctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_RoundTrip(t *testing.T) {
	resolved := tenantctx.NewResolved("0192b5e1-7a44-7bbf-9c10-5a1f2e3d4c5b", authz.RoleEditor)

	ctx := tenantctx.WithResolved(context.Background(), resolved)

	got, ok := tenantctx.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "0192b5e1-7a44-7bbf-9c10-5a1f2e3d4c5b", got.TenantKey())
	assert.Equal(t, authz.RoleEditor, got.Role())
}

// TestPurpose: Validates that code outside an authorized request cannot observe any tenant context.
// Scope: Unit Test
// Security: A defaulted or leftover tenant context would bypass the policy gate
// Expected: FromContext reports absence on a bare context.
// Test Case ID: CTX-01
func TestFromContext_AbsentByDefault(t *testing.T) {
	_, ok := tenantctx.FromContext(context.Background())
	assert.False(t, ok)
}

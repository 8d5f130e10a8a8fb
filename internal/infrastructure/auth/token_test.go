package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Secret:         "test-secret-please-rotate",
		Issuer:         "supplyguard",
		AccessTokenTTL: time.Hour,
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	token, err := svc.Issue("analyst@corp", 7, []string{string(RoleAnalyst)}, 0)
	require.NoError(t, err)

	p, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "analyst@corp", p.Subject)
	assert.Equal(t, int64(7), p.TenantID)
	assert.True(t, p.HasRole(RoleAnalyst))
	assert.False(t, p.HasRole(RoleAdmin))
}

func TestTokenService_RejectsTamperedToken(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	other, err := NewTokenService(config.AuthConfig{
		Secret: "different-secret", Issuer: "supplyguard", AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	token, err := other.Issue("attacker", 1, []string{string(RoleAdmin)}, time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.GetCode(err))
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	token, err := svc.Issue("viewer@corp", 1, []string{string(RoleViewer)}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token)
	require.Error(t, err)
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(config.AuthConfig{})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestNewVerifier_Disabled(t *testing.T) {
	t.Parallel()

	v, err := NewVerifier(config.AuthConfig{Disabled: true})
	require.NoError(t, err)

	p, err := v.Verify(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, p.HasRole(RoleAdmin))
}

func TestRolePermissions(t *testing.T) {
	t.Parallel()

	admin := &Principal{Roles: []string{string(RoleAdmin)}}
	analyst := &Principal{Roles: []string{string(RoleAnalyst)}}
	viewer := &Principal{Roles: []string{string(RoleViewer)}}
	nobody := &Principal{}

	assert.True(t, CanAdminister(admin))
	assert.True(t, CanAssess(admin))
	assert.False(t, CanAdminister(analyst))
	assert.True(t, CanAssess(analyst))
	assert.True(t, CanRead(viewer))
	assert.False(t, CanAssess(viewer))
	assert.False(t, CanRead(nobody))
}

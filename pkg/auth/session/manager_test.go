package session

import (
	"context"
	"testing"
	"time"

	"github.com/mtsdigital/storefront/pkg/config"
	"github.com/mtsdigital/storefront/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret: "0123456789abcdef0123456789abcdef",
		TTL:    7 * 24 * time.Hour,
		Issuer: "mts-storefront",
	}
}

func TestManagerStartResolveRevoke(t *testing.T) {
	store := NewMemoryStore()
	mgr, err := NewManager(store, testConfig())
	require.NoError(t, err)
	ctx := context.Background()

	token, s, err := mgr.Start(ctx, "admin-1", enums.AdminRoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), s.ExpiresAt, time.Minute)

	resolved, err := mgr.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, resolved.ID)

	require.NoError(t, mgr.Revoke(ctx, token))
	_, err = mgr.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound, "revoked session must not resolve even with a valid token")
}

func TestManagerResolveRejectsGarbage(t *testing.T) {
	mgr, err := NewManager(NewMemoryStore(), testConfig())
	require.NoError(t, err)

	_, err = mgr.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NoError(t, mgr.Revoke(context.Background(), "not-a-token"))
}

func TestManagerResolveRejectsAdminMismatch(t *testing.T) {
	store := NewMemoryStore()
	mgr, err := NewManager(store, testConfig())
	require.NoError(t, err)
	ctx := context.Background()

	token, s, err := mgr.Start(ctx, "admin-1", enums.AdminRoleAdmin)
	require.NoError(t, err)

	swapped := *s
	swapped.AdminID = "admin-2"
	require.NoError(t, store.Create(ctx, swapped))

	_, err = mgr.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManagerRefresh(t *testing.T) {
	store := NewMemoryStore()
	mgr, err := NewManager(store, testConfig())
	require.NoError(t, err)
	ctx := context.Background()

	start := time.Now()
	mgr.now = func() time.Time { return start }
	_, s, err := mgr.Start(ctx, "admin-1", enums.AdminRoleSuperAdmin)
	require.NoError(t, err)
	assert.False(t, mgr.NeedsRefresh(s))

	later := start.Add(5 * 24 * time.Hour)
	mgr.now = func() time.Time { return later }
	store.now = func() time.Time { return later }
	assert.True(t, mgr.NeedsRefresh(s))

	token, err := mgr.Refresh(ctx, s)
	require.NoError(t, err)
	assert.WithinDuration(t, later.Add(7*24*time.Hour), s.ExpiresAt, time.Second)

	resolved, err := mgr.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, resolved.ID)
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(nil, testConfig())
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Secret = ""
	_, err = NewManager(NewMemoryStore(), cfg)
	assert.Error(t, err)
}

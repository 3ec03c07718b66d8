package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/services"
	"storefront/internal/store"
)

func seededAuth(t *testing.T) (*services.AuthService, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	_, err := store.Seed(context.Background(), st, store.Admin{Email: "admin@storefront.test", Password: "Passw0rd!"})
	require.NoError(t, err)
	return services.NewAuthService(st), st
}

func TestAuthService_LoginAndCurrentUser(t *testing.T) {
	ctx := context.Background()
	auth, _ := seededAuth(t)

	u, sid, err := auth.Login(ctx, "", "ADMIN@storefront.test", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	require.NotEmpty(t, sid)

	cur, err := auth.CurrentUser(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID)

	_, err = auth.CurrentUser(ctx, "other")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAuthService_LoginIssuesFreshSession(t *testing.T) {
	ctx := context.Background()
	auth, st := seededAuth(t)

	_, first, err := auth.Login(ctx, "", "admin@storefront.test", "Passw0rd!")
	require.NoError(t, err)
	_, second, err := auth.Login(ctx, "planted", "admin@storefront.test", "Passw0rd!")
	require.NoError(t, err)
	assert.NotEqual(t, "planted", second)
	assert.NotEqual(t, first, second)

	_, err = auth.CurrentUser(ctx, "planted")
	assert.ErrorIs(t, err, services.ErrNotFound)

	// logging in from an authenticated session replaces it
	_, third, err := auth.Login(ctx, second, "admin@storefront.test", "Passw0rd!")
	require.NoError(t, err)
	_, err = auth.CurrentUser(ctx, second)
	assert.ErrorIs(t, err, services.ErrNotFound)

	sessions, err := store.ReadCollection[domain.Session](ctx, st, domain.SessionsKey)
	require.NoError(t, err)
	ids := make([]string, 0, len(sessions))
	for _, x := range sessions {
		ids = append(ids, x.ID)
	}
	assert.ElementsMatch(t, []string{first, third}, ids)
}

func TestAuthService_BadCredentials(t *testing.T) {
	ctx := context.Background()
	auth, st := seededAuth(t)

	_, _, err := auth.Login(ctx, "sid", "admin@storefront.test", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, _, err = auth.Login(ctx, "sid", "nobody@storefront.test", "Passw0rd!")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	_, ok, err := st.Get(ctx, domain.SessionsKey)
	require.NoError(t, err)
	assert.False(t, ok, "failed logins write no session")
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	auth, _ := seededAuth(t)
	_, sid, err := auth.Login(ctx, "", "admin@storefront.test", "Passw0rd!")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, sid))
	_, err = auth.CurrentUser(ctx, sid)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAuthService_SessionsExpire(t *testing.T) {
	ctx := context.Background()
	auth, st := seededAuth(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	auth.SetClock(func() time.Time { return now })

	_, old, err := auth.Login(ctx, "", "admin@storefront.test", "Passw0rd!")
	require.NoError(t, err)

	now = now.Add(25 * time.Hour)
	_, err = auth.CurrentUser(ctx, old)
	assert.ErrorIs(t, err, services.ErrNotFound)

	// the next write prunes the stale row
	_, fresh, err := auth.Login(ctx, "", "admin@storefront.test", "Passw0rd!")
	require.NoError(t, err)
	sessions, err := store.ReadCollection[domain.Session](ctx, st, domain.SessionsKey)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, fresh, sessions[0].ID)
}

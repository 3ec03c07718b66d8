package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/http/handlers"
	"storefront/internal/store"
)

// seeded passwords are hashed, never plaintext
func TestPasswordsSeededAreHashed(t *testing.T) {
	a := newTestApp(t)
	users, err := store.ReadCollection[domain.User](context.Background(), a.Store, domain.UsersKey)
	require.NoError(t, err)
	require.NotEmpty(t, users, "no users seeded")

	raw, _, _ := a.Store.Get(context.Background(), domain.UsersKey)
	assert.NotContains(t, raw, adminPassword)
	for _, u := range users {
		assert.True(t, strings.HasPrefix(u.Hash, "$2"), "unexpected hash format: %s", u.Hash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(adminPassword)))
	}
}

// login throttling plus success and fail paths
func TestLoginSuccessFailAndThrottle(t *testing.T) {
	a := newTestApp(t)
	app := fiber.New()
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), a.Deps.AuthHandler.Login)
	b := &testApp{App: app, Store: a.Store, Deps: a.Deps}

	bad := b.do(t, "POST", "/login", map[string]string{"email": adminEmail, "password": "Wrongpass1!"})
	assert.Equal(t, http.StatusUnauthorized, bad.StatusCode)

	good := b.do(t, "POST", "/login", map[string]string{"email": adminEmail, "password": adminPassword})
	assert.Equal(t, http.StatusOK, good.StatusCode)
	assert.NotEmpty(t, cookie(good, "sid"))

	third := b.do(t, "POST", "/login", map[string]string{"email": adminEmail, "password": "Wrongpass1!"})
	assert.Equal(t, http.StatusTooManyRequests, third.StatusCode)
}

func TestLoginRejectsMalformedInput(t *testing.T) {
	a := newTestApp(t)
	for _, body := range []map[string]string{
		{"email": "not-an-email", "password": adminPassword},
		{"email": adminEmail, "password": "short"},
	} {
		resp := a.do(t, "POST", "/api/login", body)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, body)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	a := newTestApp(t)
	sid := a.loginAdmin(t)

	resp := a.do(t, "GET", "/api/admin/products/export.xlsx", nil, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.do(t, "POST", "/api/logout", nil, sid)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(t, "GET", "/api/admin/products/export.xlsx", nil, sid)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoginLimitConfig(t *testing.T) {
	assert.Equal(t, 5, handlers.LoginLimit.Max)
}

// a session id the client chose before login is never authenticated
func TestLoginRotatesSessionID(t *testing.T) {
	a := newTestApp(t)
	planted := &http.Cookie{Name: "sid", Value: "attacker-chosen"}

	resp := a.do(t, "POST", "/api/login", map[string]string{"email": adminEmail, "password": adminPassword}, planted)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fresh := cookie(resp, "sid")
	require.NotEmpty(t, fresh)
	assert.NotEqual(t, planted.Value, fresh)

	resp = a.do(t, "GET", "/api/admin/products/export.xlsx", nil, planted)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = a.do(t, "GET", "/api/admin/products/export.xlsx", nil, &http.Cookie{Name: "sid", Value: fresh})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFailedLoginSetsNoSession(t *testing.T) {
	a := newTestApp(t)
	resp := a.do(t, "POST", "/api/login", map[string]string{"email": adminEmail, "password": "Wrongpass1!"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, cookie(resp, "sid"))
}

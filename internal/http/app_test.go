package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/store"
)

const (
	adminEmail    = "admin@storefront.test"
	adminPassword = "Passw0rd!"
)

type testApp struct {
	*fiber.App
	Store *store.Memory
	Deps  *handlers.Deps
}

// newTestApp wires the real routes over a seeded in-memory store with no
// simulated latency.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()
	_, err := store.Seed(ctx, st, store.Admin{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)

	cfg := config.Config{SimulateLatency: false, SiteURL: "https://shop.example", BodyLimit: 1 << 20}
	deps, err := handlers.NewDeps(ctx, st, cfg)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		Views:        handlers.Views(),
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Use(handlers.AttachUser(deps.Auth))
	handlers.Mount(app, deps)
	return &testApp{App: app, Store: st, Deps: deps}
}

// observeLogs routes applog output to an in-memory core for the rest of the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(prev) })
	return logs
}

func (a *testApp) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// loginAdmin logs the seeded admin in and returns the session cookie.
func (a *testApp) loginAdmin(t *testing.T) *http.Cookie {
	t.Helper()
	resp := a.do(t, "POST", "/api/login", map[string]string{"email": adminEmail, "password": adminPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sid := cookie(resp, "sid")
	require.NotEmpty(t, sid)
	return &http.Cookie{Name: "sid", Value: sid}
}

// addUser stores a non-admin user bound to sid.
func (a *testApp) addUser(t *testing.T, sid string) {
	t.Helper()
	ctx := context.Background()
	users, err := store.ReadCollection[domain.User](ctx, a.Store, domain.UsersKey)
	require.NoError(t, err)
	users = append(users, domain.User{ID: "u-alice", Email: "alice@storefront.test", Name: "Alice", Role: domain.RoleUser})
	require.NoError(t, store.WriteCollection(ctx, a.Store, domain.UsersKey, users))

	sessions, err := store.ReadCollection[domain.Session](ctx, a.Store, domain.SessionsKey)
	require.NoError(t, err)
	sessions = append(sessions, domain.Session{ID: sid, UserID: "u-alice", LastSeen: time.Now().UTC()})
	require.NoError(t, store.WriteCollection(ctx, a.Store, domain.SessionsKey, sessions))
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/repository"
)

func testConfig() *lib.Config {
	return &lib.Config{
		Environment:    "test",
		CORSOrigins:    "*",
		RequestTimeout: 5 * time.Second,
		Auth: lib.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			CookieName: "token",
			BcryptCost: 4,
		},
	}
}

func newTestApp(t *testing.T, ping func(context.Context) error) *fiber.App {
	t.Helper()

	db, err := lib.ConnectSQLite(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return New(Deps{
		Config: testConfig(),
		Store:  repository.NewSQLiteStore(db),
		Logger: zap.NewNop(),
		Ping:   ping,
	})
}

type response struct {
	Status  int
	Body    map[string]any
	Cookies []*http.Cookie
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{Status: resp.StatusCode, Cookies: resp.Cookies()}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out.Body))
	}
	return out
}

// signup registers a user and returns its session token and id
func signup(t *testing.T, app *fiber.App, first string) (string, string) {
	t.Helper()

	resp := call(t, app, fiber.MethodPost, "/signup", "", map[string]string{
		"firstName": first,
		"lastName":  "Tester",
		"emailId":   strings.ToLower(first) + "@example.com",
		"password":  "Passw0rd!",
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Body)

	var token string
	for _, c := range resp.Cookies {
		if c.Name == "token" {
			token = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	require.NotEmpty(t, token)

	return token, data(t, resp)["_id"].(string)
}

func data(t *testing.T, resp response) map[string]any {
	t.Helper()

	d, ok := resp.Body["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp.Body)
	return d
}

func TestHealthz(t *testing.T) {
	resp := call(t, newTestApp(t, nil), fiber.MethodGet, "/healthz", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "ok", resp.Body["message"])

	down := newTestApp(t, func(context.Context) error { return errors.New("unreachable") })
	resp = call(t, down, fiber.MethodGet, "/healthz", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.Status)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	app := newTestApp(t, nil)

	resp := call(t, app, fiber.MethodGet, "/connection/friends", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
	assert.Equal(t, "Unauthorized - No Token Provided", resp.Body["message"])

	resp = call(t, app, fiber.MethodGet, "/feed", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
	assert.Equal(t, "Unauthorized - Invalid Token", resp.Body["message"])
}

func TestBearerTokenIsAccepted(t *testing.T) {
	app := newTestApp(t, nil)
	token, _ := signup(t, app, "Ana")

	req := httptest.NewRequest(fiber.MethodGet, "/profile", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLoginAndLogout(t *testing.T) {
	app := newTestApp(t, nil)
	signup(t, app, "Ana")

	resp := call(t, app, fiber.MethodPost, "/login", "", map[string]string{"emailId": "ana@example.com", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)

	resp = call(t, app, fiber.MethodPost, "/login", "", map[string]string{"emailId": "ana@example.com", "password": "Passw0rd!"})
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.NotContains(t, data(t, resp), "password")

	resp = call(t, app, fiber.MethodPost, "/logout", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	require.NotEmpty(t, resp.Cookies)
	assert.Empty(t, resp.Cookies[0].Value)
}

func TestConnectionLifecycle(t *testing.T) {
	app := newTestApp(t, nil)
	anaToken, anaID := signup(t, app, "Ana")
	bobToken, bobID := signup(t, app, "Bob")

	resp := call(t, app, fiber.MethodPost, "/connection/request/"+anaID, anaToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "You can't send a connection request to yourself", resp.Body["message"])

	resp = call(t, app, fiber.MethodPost, "/connection/request/not-an-id", anaToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "userId", resp.Body["field"])

	resp = call(t, app, fiber.MethodPost, "/connection/request/"+bobID, anaToken, nil)
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Body)
	assert.Equal(t, "pending", data(t, resp)["status"])

	resp = call(t, app, fiber.MethodPost, "/connection/request/"+anaID, bobToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "already received", resp.Body["reason"])

	resp = call(t, app, fiber.MethodGet, "/connection/requests/received", bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Len(t, resp.Body["data"], 1)

	resp = call(t, app, fiber.MethodPatch, "/connection/accept/"+bobID, anaToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)

	resp = call(t, app, fiber.MethodPatch, "/connection/accept/"+anaID, bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Body)
	assert.Equal(t, "accepted", data(t, resp)["status"])

	resp = call(t, app, fiber.MethodGet, "/connection/status/"+bobID, anaToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "friends", data(t, resp)["status"])

	resp = call(t, app, fiber.MethodGet, "/connection/friends", bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Len(t, resp.Body["data"], 1)
	assert.EqualValues(t, 1, resp.Body["pagination"].(map[string]any)["total"])

	resp = call(t, app, fiber.MethodGet, "/connection/stats", anaToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.EqualValues(t, 1, data(t, resp)["totalFriends"])

	resp = call(t, app, fiber.MethodDelete, "/connection/remove/"+anaID, bobToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)

	resp = call(t, app, fiber.MethodGet, "/connection/status/"+anaID, bobToken, nil)
	assert.Equal(t, "none", data(t, resp)["status"])
}

func TestPostsAndMessagesBetweenFriends(t *testing.T) {
	app := newTestApp(t, nil)
	anaToken, anaID := signup(t, app, "Ana")
	bobToken, bobID := signup(t, app, "Bob")
	eveToken, _ := signup(t, app, "Eve")

	require.Equal(t, fiber.StatusCreated, call(t, app, fiber.MethodPost, "/connection/request/"+bobID, anaToken, nil).Status)
	require.Equal(t, fiber.StatusOK, call(t, app, fiber.MethodPatch, "/connection/accept/"+anaID, bobToken, nil).Status)

	resp := call(t, app, fiber.MethodPost, "/post/create", anaToken, map[string]any{"content": "hello friends"})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Body)
	postID := data(t, resp)["_id"].(string)

	resp = call(t, app, fiber.MethodGet, "/feed", bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Len(t, resp.Body["data"], 1)

	resp = call(t, app, fiber.MethodGet, "/post/"+postID, eveToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	resp = call(t, app, fiber.MethodPost, "/post/like/"+postID, bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, true, data(t, resp)["liked"])

	resp = call(t, app, fiber.MethodPost, "/message/send/"+anaID, bobToken, map[string]string{"message": "nice post"})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Body)

	resp = call(t, app, fiber.MethodPost, "/message/send/"+anaID, eveToken, map[string]string{"message": "hi"})
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	resp = call(t, app, fiber.MethodGet, "/message/unread/count", anaToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.EqualValues(t, 1, data(t, resp)["unreadCount"])

	resp = call(t, app, fiber.MethodGet, "/notifications", anaToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Len(t, resp.Body["data"], 2, "accepted request and like")

	resp = call(t, app, fiber.MethodGet, "/feed/users/search?search=eve", anaToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Body)
	assert.Len(t, resp.Body["data"], 1)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, nil)
	call(t, app, fiber.MethodGet, "/healthz", "", nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "vibora_http_requests_total")
}

package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"authdesk/internal/api"
	"authdesk/internal/cache"
	"authdesk/internal/config"
	"authdesk/internal/database"
	"authdesk/internal/events"
	"authdesk/internal/logger"
	"authdesk/internal/metrics"
	"authdesk/internal/model"
	"authdesk/internal/service"
	"authdesk/internal/testutil"
)

type app struct {
	e      *echo.Echo
	users  *testutil.MemoryUserStore
	hasher *service.PasswordHasher
	tokens *service.TokenService
	pub    *testutil.RecordingPublisher
}

func newApp(t *testing.T) *app {
	t.Helper()
	a := &app{
		e:      echo.New(),
		users:  testutil.NewMemoryUserStore(),
		hasher: service.NewPasswordHasher(bcrypt.MinCost),
		tokens: service.NewTokenService(config.JWT{Secret: "router-secret", TTL: time.Hour}),
		pub:    &testutil.RecordingPublisher{},
	}
	a.e.Validator = api.NewValidator()
	Setup(a.e, Deps{
		DB: &database.FakeDB{PingFn: func(context.Context) error { return nil }},
		Cache: &cache.FakeCache{SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("OK", nil)
		}},
		Users:       a.users,
		Hasher:      a.hasher,
		Tokens:      a.tokens,
		Events:      a.pub,
		Metrics:     metrics.New(prometheus.NewRegistry()),
		Log:         logger.Nop(),
		CORSOrigins: []string{"*"},
	})
	return a
}

func (a *app) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rdr *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = strings.NewReader(string(b))
	} else {
		rdr = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func (a *app) signup(t *testing.T, name, email, password string) string {
	t.Helper()
	rec, out := a.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"fullName": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return out["token"].(string)
}

// admin 只能由資料層建立
func (a *app) admin(t *testing.T) string {
	t.Helper()
	hash, err := a.hasher.Hash("admin-pass")
	require.NoError(t, err)
	u := model.NewUser("Root Admin", "root@example.com", hash)
	u.Role = model.RoleAdmin
	a.users.Put(*u)
	tok, err := a.tokens.Issue(u.ID)
	require.NoError(t, err)
	return tok
}

func TestSetupRoutes(t *testing.T) {
	a := newApp(t)

	got := map[string]struct{}{}
	for _, r := range a.e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /ping",
		http.MethodGet + " /metrics",
		http.MethodGet + " /swagger/*",
		http.MethodPost + " /auth/signup",
		http.MethodPost + " /auth/signin",
		http.MethodPost + " /auth/logout",
		http.MethodGet + " /user",
		http.MethodPut + " /user",
		http.MethodPut + " /user/password",
		http.MethodGet + " /admin",
		http.MethodPut + " /admin/:userId/toggle",
	}
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}

func TestSignupSigninProfileFlow(t *testing.T) {
	a := newApp(t)
	token := a.signup(t, "Alice Liddell", "alice@example.com", "secret1")

	rec, out := a.do(t, http.MethodGet, "/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice@example.com", out["email"])
	require.Equal(t, "user", out["role"])
	require.Equal(t, true, out["isActive"])
	require.NotContains(t, rec.Body.String(), "password")

	rec, out = a.do(t, http.MethodPost, "/auth/signin", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Login successful", out["message"])

	rec, _ = a.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"fullName": "Alice Again", "email": "alice@example.com", "password": "secret2"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec, out = a.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"fullName": "Bob Builder", "email": "bob@example.com", "password": strings.Repeat("密", 30)})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, map[string]any{"password": []any{"Password must be at most 72 bytes"}}, out["errors"])

	rec, out = a.do(t, http.MethodPut, "/user", token, map[string]string{"fullName": "Alice L."})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Profile updated successfully", out["message"])
	_, out = a.do(t, http.MethodGet, "/user", token, nil)
	require.Equal(t, "Alice L.", out["fullName"])

	rec, out = a.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Logout successful", out["message"])

	require.Equal(t, []string{events.TypeUserCreated}, a.pub.Types())
}

func TestSigninSymmetry(t *testing.T) {
	a := newApp(t)
	a.signup(t, "Alice Liddell", "alice@example.com", "secret1")

	rec1, _ := a.do(t, http.MethodPost, "/auth/signin", "", map[string]string{"email": "ghost@example.com", "password": "secret1"})
	rec2, _ := a.do(t, http.MethodPost, "/auth/signin", "", map[string]string{"email": "alice@example.com", "password": "wrong-pass"})
	require.Equal(t, http.StatusUnauthorized, rec1.Code)
	require.Equal(t, rec1.Code, rec2.Code)
	require.Equal(t, rec1.Body.String(), rec2.Body.String())
}

func TestAuthGate(t *testing.T) {
	a := newApp(t)
	token := a.signup(t, "Alice Liddell", "alice@example.com", "secret1")

	cases := map[string]string{
		"missing":  "",
		"garbage":  "not-a-jwt",
		"tampered": token[:len(token)-2] + "xx",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			rec, _ := a.do(t, http.MethodGet, "/user", tok, nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user", nil)
		req.Header.Set(echo.HeaderAuthorization, "Basic "+token)
		rec := httptest.NewRecorder()
		a.e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("other secret", func(t *testing.T) {
		other := service.NewTokenService(config.JWT{Secret: "someone-else", TTL: time.Hour})
		id, err := a.tokens.Verify(token)
		require.NoError(t, err)
		forged, err := other.Issue(id)
		require.NoError(t, err)
		rec, out := a.do(t, http.MethodGet, "/user", forged, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid token", out["message"])
	})
}

func TestRoleGate(t *testing.T) {
	a := newApp(t)
	userToken := a.signup(t, "Alice Liddell", "alice@example.com", "secret1")

	rec, out := a.do(t, http.MethodGet, "/admin", userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Admin access required", out["message"])

	rec, _ = a.do(t, http.MethodGet, "/admin", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = a.do(t, http.MethodGet, "/admin", a.admin(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeactivationBlocksAccess(t *testing.T) {
	a := newApp(t)
	adminToken := a.admin(t)
	userToken := a.signup(t, "Alice Liddell", "alice@example.com", "secret1")
	id, err := a.tokens.Verify(userToken)
	require.NoError(t, err)

	rec, out := a.do(t, http.MethodPut, "/admin/"+id.String()+"/toggle", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User deactivated", out["message"])

	rec, out = a.do(t, http.MethodGet, "/user", userToken, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Account inactive", out["message"])

	// 停用帳號仍可登入，但拿到的 token 無法通過驗證
	rec, out = a.do(t, http.MethodPost, "/auth/signin", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = a.do(t, http.MethodGet, "/user", out["token"].(string), nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, out = a.do(t, http.MethodPut, "/admin/"+id.String()+"/toggle", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User activated", out["message"])

	rec, _ = a.do(t, http.MethodGet, "/user", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out = a.do(t, http.MethodPut, "/admin/not-a-uuid/toggle", adminToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "User not found", out["message"])

	require.Equal(t, []string{
		events.TypeUserCreated,
		events.TypeUserStatusChanged,
		events.TypeUserStatusChanged,
	}, a.pub.Types())
}

func TestChangePassword(t *testing.T) {
	a := newApp(t)
	token := a.signup(t, "Alice Liddell", "alice@example.com", "secret1")

	rec, out := a.do(t, http.MethodPut, "/user/password", token, map[string]string{"oldPassword": "nope-nope", "newPassword": "secret2"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Incorrect old password", out["message"])

	rec, _ = a.do(t, http.MethodPut, "/user/password", token, map[string]string{"newPassword": "secret2"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = a.do(t, http.MethodPut, "/user/password", token, map[string]string{"oldPassword": "secret1", "newPassword": strings.Repeat("密", 30)})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, out["errors"], "newPassword")

	rec, _ = a.do(t, http.MethodPut, "/user/password", token, map[string]string{"oldPassword": "secret1", "newPassword": "secret2"})
	require.Equal(t, http.StatusOK, rec.Code)

	signin := func(pw string) int {
		rec, _ := a.do(t, http.MethodPost, "/auth/signin", "", map[string]string{"email": "alice@example.com", "password": pw})
		return rec.Code
	}
	require.Equal(t, http.StatusUnauthorized, signin("secret1"))
	require.Equal(t, http.StatusOK, signin("secret2"))
}

func TestAdminPagination(t *testing.T) {
	a := newApp(t)
	adminToken := a.admin(t)
	for i := 0; i < 24; i++ {
		a.signup(t, fmt.Sprintf("User %02d", i), fmt.Sprintf("user%02d@example.com", i), "secret1")
	}

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		rec, out := a.do(t, http.MethodGet, fmt.Sprintf("/admin?page=%d&limit=10", page), adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.EqualValues(t, page, out["page"])
		require.EqualValues(t, 3, out["totalPages"])
		for _, u := range out["users"].([]any) {
			m := u.(map[string]any)
			seen[m["_id"].(string)] = true
			require.NotContains(t, m, "passwordHash")
		}
	}
	require.Len(t, seen, 25)

	_, out := a.do(t, http.MethodGet, "/admin?page=3&limit=10", adminToken, nil)
	require.Len(t, out["users"], 5)
	_, out = a.do(t, http.MethodGet, "/admin?page=4&limit=10", adminToken, nil)
	require.Empty(t, out["users"])
	_, out = a.do(t, http.MethodGet, "/admin?page=x&limit=y", adminToken, nil)
	require.EqualValues(t, 1, out["page"])
	require.Len(t, out["users"], 10)
}

func TestPingAndMetrics(t *testing.T) {
	a := newApp(t)
	rec, out := a.do(t, http.MethodGet, "/ping", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "pong", out["message"])

	a.do(t, http.MethodGet, "/user", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	a.e.ServeHTTP(mrec, req)
	require.Equal(t, http.StatusOK, mrec.Code)
	body := mrec.Body.String()
	require.Contains(t, body, `authdesk_http_requests_total{method="GET",path="/ping",status="200"} 1`)
	require.Contains(t, body, `authdesk_auth_failures_total{reason="missing_token"} 1`)
}

func TestCORS(t *testing.T) {
	a := newApp(t)
	req := httptest.NewRequest(http.MethodOptions, "/auth/signin", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chativo/backend/internal/domain"
	"github.com/chativo/backend/internal/utils"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters-long"

func TestCommands_Table(t *testing.T) {
	commands := Commands()

	byName := map[string]Command{}
	for _, cmd := range commands {
		byName[cmd.Name] = cmd
	}
	require.Len(t, byName, 12, "operation names must be unique")

	open := []string{"register", "login", "login-federated", "verify-email", "forgot-password", "verify-forgot-password", "reset-password"}
	for _, name := range open {
		cmd, ok := byName[name]
		require.True(t, ok, "missing command %s", name)
		assert.False(t, cmd.RequiresAuth, "%s must not require auth", name)
	}

	protected := []string{"change-password", "get-users", "get-user", "update-profile", "delete-user"}
	for _, name := range protected {
		cmd, ok := byName[name]
		require.True(t, ok, "missing command %s", name)
		assert.True(t, cmd.RequiresAuth, "%s must require auth", name)
	}

	for _, cmd := range commands {
		assert.NotEmpty(t, cmd.Method, "%s method", cmd.Name)
		assert.True(t, strings.HasPrefix(cmd.Route, "/"), "%s route", cmd.Name)
		assert.True(t, strings.HasPrefix(cmd.Path, "/api/v1/"), "%s downstream path", cmd.Name)
	}
}

// newTestApp wires a gateway against a fake downstream without telemetry.
func newTestApp(t *testing.T, downstreamURL string) (*App, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a := &App{
		logger:   zap.NewNop(),
		client:   NewClient(downstreamURL, time.Second),
		tokens:   utils.NewTokenService(testSecret, time.Hour),
		validate: validator.New(),
	}

	router := gin.New()
	for _, cmd := range Commands() {
		handlers := make([]gin.HandlerFunc, 0, 2)
		if cmd.RequiresAuth {
			handlers = append(handlers, a.requireAuth())
		}
		handlers = append(handlers, a.dispatch(cmd))
		router.Handle(cmd.Method, cmd.Route, handlers...)
	}
	return a, router
}

func TestDispatch_ForwardsToDownstream(t *testing.T) {
	var got struct {
		method string
		path   string
		query  string
		body   map[string]any
	}

	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &got.body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"Login successful"}`))
	}))
	defer downstream.Close()

	_, router := newTestApp(t, downstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@x.com","password":"password1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Login successful"}`, w.Body.String())
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/v1/auth/login", got.path)
	assert.Equal(t, "a@x.com", got.body["email"])
}

func TestDispatch_SubstitutesRouteParams(t *testing.T) {
	var gotPath string
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer downstream.Close()

	a, router := newTestApp(t, downstream.URL)
	token := signTestToken(t, a)

	req := httptest.NewRequest(http.MethodGet, "/users/u-42", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/users/u-42", gotPath)
}

func TestDispatch_PropagatesTokenAndQuery(t *testing.T) {
	var gotAuth, gotQuery string
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer downstream.Close()

	a, router := newTestApp(t, downstream.URL)
	token := signTestToken(t, a)

	req := httptest.NewRequest(http.MethodGet, "/users?page=2&limit=5", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "Bearer "+token, gotAuth)
	assert.Equal(t, "page=2&limit=5", gotQuery)
}

func TestDispatch_DownstreamStatusPassesThrough(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Conflict","message":"user with this email already exists"}`))
	}))
	defer downstream.Close()

	_, router := newTestApp(t, downstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"name":"A","email":"a@x.com","password":"password1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDispatch_ValidationRejectsBeforeForwarding(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("downstream must not be reached on invalid payload")
	}))
	defer downstream.Close()

	_, router := newTestApp(t, downstream.URL)

	// Password below the minimum length.
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"name":"A","email":"a@x.com","password":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatch_DownstreamUnavailable(t *testing.T) {
	_, router := newTestApp(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@x.com","password":"password1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRequireAuth_RejectsBadTokens(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("downstream must not be reached without a valid token")
	}))
	defer downstream.Close()

	_, router := newTestApp(t, downstream.URL)

	for _, header := range []string{"", "Bearer garbage", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func signTestToken(t *testing.T, a *App) string {
	t.Helper()
	token, err := a.tokens.Sign(domain.UserView{ID: "u-42", Email: "a@x.com", IsActive: true})
	require.NoError(t, err)
	return token
}

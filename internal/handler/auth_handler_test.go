package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chativo/backend/internal/apperr"
	"github.com/chativo/backend/internal/domain"
	"github.com/chativo/backend/internal/dto"
	"github.com/chativo/backend/internal/service"
)

// stubAuthService returns canned results per method.
type stubAuthService struct {
	registerResult *service.AuthResult
	registerErr    error
	loginResult    *service.AuthResult
	loginErr       error
	verifyErr      error
	verifyClaims   *domain.TokenClaims
	verifyTokenErr error
	forgotErr      error
	user           domain.UserView
	userErr        error
	users          []domain.UserView
	total          int
	deleteErr      error
}

func (s *stubAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*service.AuthResult, error) {
	return s.registerResult, s.registerErr
}

func (s *stubAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*service.AuthResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) LoginFederated(ctx context.Context, identity *dto.FederatedIdentity) (*service.AuthResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) VerifyEmail(ctx context.Context, token string) error {
	return s.verifyErr
}

func (s *stubAuthService) VerifyToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	return s.verifyClaims, s.verifyTokenErr
}

func (s *stubAuthService) DecodeToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	return s.verifyClaims, s.verifyTokenErr
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return s.verifyErr
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotErr
}

func (s *stubAuthService) VerifyForgotPassword(ctx context.Context, code int, userID string) error {
	return s.forgotErr
}

func (s *stubAuthService) ResetPassword(ctx context.Context, newPassword, userID string) error {
	return s.forgotErr
}

func (s *stubAuthService) GetUser(ctx context.Context, id string) (domain.UserView, error) {
	return s.user, s.userErr
}

func (s *stubAuthService) GetUsers(ctx context.Context, page, limit int) ([]domain.UserView, int, error) {
	return s.users, s.total, s.userErr
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (domain.UserView, error) {
	return s.user, s.userErr
}

func (s *stubAuthService) DeleteUser(ctx context.Context, id string) error {
	return s.deleteErr
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newAuthRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(svc)

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/login-google", h.LoginFederated)
		auth.POST("/verify-email", h.VerifyEmail)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/verify-forgot-password", h.VerifyForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
		auth.POST("/change-password", AuthMiddleware(svc), h.ChangePassword)
	}
	return router
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Envelope {
	t.Helper()
	var env dto.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegisterEndpoint_Created(t *testing.T) {
	svc := &stubAuthService{
		registerResult: &service.AuthResult{
			Token: "jwt-token",
			User:  domain.UserView{ID: "u1", Name: "A", Email: "a@x.com"},
		},
	}
	router := newAuthRouter(svc)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "A",
		"email":    "a@x.com",
		"password": "password1",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "User created", env.Message)
	assert.NotNil(t, env.Result)
}

func TestRegisterEndpoint_Conflict(t *testing.T) {
	svc := &stubAuthService{registerErr: apperr.Conflict("user with this email already exists")}
	router := newAuthRouter(svc)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "A",
		"email":    "a@x.com",
		"password": "password1",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeErrorResponse(t, w)
	assert.Equal(t, "Conflict", resp.Error)
	assert.Equal(t, "user with this email already exists", resp.Message)
}

func TestRegisterEndpoint_BindingFailure(t *testing.T) {
	router := newAuthRouter(&stubAuthService{})

	// Missing required fields.
	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{"name": "A"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint_Unauthorized(t *testing.T) {
	svc := &stubAuthService{loginErr: apperr.Unauthorized("invalid email or password")}
	router := newAuthRouter(svc)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeErrorResponse(t, w)
	assert.Equal(t, "invalid email or password", resp.Message)
}

func TestLoginEndpoint_Success(t *testing.T) {
	svc := &stubAuthService{
		loginResult: &service.AuthResult{Token: "jwt-token", User: domain.UserView{ID: "u1"}},
	}
	router := newAuthRouter(svc)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "password1",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful", decodeEnvelope(t, w).Message)
}

func TestVerifyEmailEndpoint(t *testing.T) {
	router := newAuthRouter(&stubAuthService{})

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/verify-email?token=abc", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Email verified.", decodeEnvelope(t, w).Message)
}

func TestVerifyEmailEndpoint_BadToken(t *testing.T) {
	svc := &stubAuthService{verifyErr: apperr.Unauthorized("invalid or expired token")}
	router := newAuthRouter(svc)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/verify-email?token=abc", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePasswordEndpoint_RequiresAuth(t *testing.T) {
	svc := &stubAuthService{verifyTokenErr: apperr.Unauthorized("invalid or expired token")}
	router := newAuthRouter(svc)

	// No Authorization header at all.
	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/change-password", gin.H{
		"oldPassword": "old-pass1",
		"newPassword": "new-pass1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authorization header is required", decodeErrorResponse(t, w).Message)
}

func TestChangePasswordEndpoint_Authenticated(t *testing.T) {
	svc := &stubAuthService{
		verifyClaims: &domain.TokenClaims{User: domain.UserView{ID: "u1"}},
	}
	router := newAuthRouter(svc)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(gin.H{
		"oldPassword": "old-pass1",
		"newPassword": "new-pass1",
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/change-password", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password changed", decodeEnvelope(t, w).Message)
}

func TestForgotPasswordEndpoint_UnknownEmail(t *testing.T) {
	svc := &stubAuthService{forgotErr: apperr.Unauthorized("no account with that email")}
	router := newAuthRouter(svc)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/forgot-password", gin.H{
		"email": "nobody@x.com",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyForgotPasswordEndpoint(t *testing.T) {
	router := newAuthRouter(&stubAuthService{})

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/verify-forgot-password", gin.H{
		"code":   4321,
		"userId": "u1",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Code verified", decodeEnvelope(t, w).Message)
}

func TestResetPasswordEndpoint(t *testing.T) {
	router := newAuthRouter(&stubAuthService{})

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/reset-password", gin.H{
		"newPassword": "new-pass1",
		"userId":      "u1",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password reset", decodeEnvelope(t, w).Message)
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"", ""},
		{"abc", ""},
		{"Basic abc", ""},
		{"Bearer", ""},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			c.Request.Header.Set("Authorization", tc.header)
		}
		assert.Equal(t, tc.want, BearerToken(c), "header %q", tc.header)
	}
}

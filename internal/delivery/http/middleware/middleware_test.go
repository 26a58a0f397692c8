package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillijob-backend/internal/delivery/http/middleware"
	"skillijob-backend/internal/delivery/http/response"
	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		c.Error(apperror.BadRequest("Champ invalide").WithDetails([]string{"email"}))
	})
	r.GET("/raw", func(c *gin.Context) {
		c.Error(errors.New("pq: connection refused"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Champ invalide", body.Message)
	assert.Equal(t, []any{"email"}, body.Error)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/raw", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, response.RequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		id := rec.Header().Get(middleware.RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("incoming uuid is kept", func(t *testing.T) {
		incoming := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, incoming)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, incoming, rec.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("garbage is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "<script>")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.NotEqual(t, "<script>", rec.Header().Get(middleware.RequestIDHeader))
	})
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		origin     string
		allowed    bool
	}{
		{"production site", true, "https://www.skillijob.fr", true},
		{"apex domain", true, "https://skillijob.fr", true},
		{"frontend url", true, "https://app.example.fr", true},
		{"vite in production", true, "http://localhost:5173", false},
		{"vite in development", false, "http://localhost:5173", true},
		{"netlify preview", false, "https://64f1a2--skillijob.netlify.app", true},
		{"other netlify site", false, "https://evil.netlify.app", false},
		{"unknown", false, "https://evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
				Production:  tt.production,
				FrontendURL: "https://app.example.fr/",
			}))
			r.GET("/", ok)

			req := httptest.NewRequest(http.MethodOptions, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if tt.allowed {
				assert.Equal(t, http.StatusNoContent, rec.Code)
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Equal(t, http.StatusForbidden, rec.Code)
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCSRFMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CSRFMiddleware(false))
	r.GET("/v1/candidates", ok)
	r.POST("/v1/checkout", ok)
	r.POST("/v1/contact", ok)

	t.Run("safe method issues a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/candidates", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), middleware.CSRFTokenCookieName+"=")
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", nil)
		req.AddCookie(&http.Cookie{Name: middleware.CSRFTokenCookieName, Value: "abc"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("mismatch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", nil)
		req.AddCookie(&http.Cookie{Name: middleware.CSRFTokenCookieName, Value: "abc"})
		req.Header.Set(middleware.CSRFTokenHeaderName, "abd")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("matching token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", nil)
		req.AddCookie(&http.Cookie{Name: middleware.CSRFTokenCookieName, Value: "abc"})
		req.Header.Set(middleware.CSRFTokenHeaderName, "abc")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bearer clients skip the check", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("public form is exempt", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/contact", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(middleware.SecurityHeadersMiddleware())
	r.GET("/v1/auth/me", ok)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
}

func TestRateLimitMiddleware_MemoryFallback(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Limit:     2,
		Window:    time.Minute,
		KeyPrefix: "rl:test:",
	}))
	r.GET("/", ok)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	second := send("10.0.0.1")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	blocked := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}

type stubAuth struct {
	domain.AuthUsecase
	user *domain.User
	err  error
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*domain.User, *domain.Session, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.user, &domain.Session{UserID: s.user.ID, Token: "opaque-" + token}, nil
}

func TestAuthMiddleware(t *testing.T) {
	company := &domain.User{ID: "u1", Email: "rh@acme.fr", UserType: domain.UserTypeCompany}
	candidate := &domain.User{ID: "u2", Email: "jean@exemple.fr", UserType: domain.UserTypeCandidate}

	newRouter := func(auth domain.AuthUsecase) *gin.Engine {
		r := gin.New()
		r.GET("/export", middleware.AuthMiddleware(auth), middleware.RequireUserType(domain.UserTypeCompany), func(c *gin.Context) {
			c.String(http.StatusOK, middleware.CurrentUser(c).ID+" "+c.GetString(string(domain.KeySessionID)))
		})
		return r
	}

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newRouter(stubAuth{user: company}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export", nil)
		req.Header.Set("Authorization", "Bearer jwt")
		rec := httptest.NewRecorder()
		newRouter(stubAuth{user: company}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1 opaque-jwt", rec.Body.String())
	})

	t.Run("session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "cookie-jwt"})
		rec := httptest.NewRecorder()
		newRouter(stubAuth{user: company}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1 opaque-cookie-jwt", rec.Body.String())
	})

	t.Run("invalid session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export", nil)
		req.Header.Set("Authorization", "Bearer jwt")
		rec := httptest.NewRecorder()
		newRouter(stubAuth{err: apperror.Unauthorized("Session expirée")}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Session expirée", decode(t, rec).Message)
	})

	t.Run("wrong account type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export", nil)
		req.Header.Set("Authorization", "Bearer jwt")
		rec := httptest.NewRecorder()
		newRouter(stubAuth{user: candidate}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"skillijob-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

const (
	CSRFTokenCookieName = "csrf_token"
	CSRFTokenHeaderName = "X-CSRF-Token"
	// 32 bytes = 64 hex chars
	CSRFTokenLength = 32
	CSRFTokenExpiry = 24 * time.Hour
)

// Public forms that are posted before the visitor has any session. They are
// protected by rate limiting instead.
var csrfExemptPaths = map[string]bool{
	"/v1/auth/login":           true,
	"/v1/auth/register":        true,
	"/v1/auth/forgot-password": true,
	"/v1/auth/reset-password":  true,
	"/v1/contact":              true,
	"/v1/newsletter":           true,
	"/v1/cv":                   true,
	"/v1/health":               true,
}

func generateCSRFToken() (string, error) {
	b := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CSRFMiddleware implements the double-submit cookie pattern: every response
// carries a readable csrf_token cookie, and state-changing requests that rely
// on the session cookie must echo it in X-CSRF-Token.
//
// Requests authenticated with an Authorization header are not exposed to CSRF
// and skip the check.
func CSRFMiddleware(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		csrfCookie, err := c.Cookie(CSRFTokenCookieName)
		if err != nil || csrfCookie == "" {
			newToken, err := generateCSRFToken()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "Impossible de générer le jeton de sécurité", nil)
				c.Abort()
				return
			}
			// SameSite=Lax: sent on top-level navigations only. HttpOnly is off
			// so the frontend can read it.
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFTokenCookieName, newToken, int(CSRFTokenExpiry.Seconds()), "/", "", secureCookie, false)
			csrfCookie = newToken
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if csrfExemptPaths[c.Request.URL.Path] || c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}

		headerToken := c.GetHeader(CSRFTokenHeaderName)
		if headerToken == "" {
			response.Error(c, http.StatusForbidden, "Jeton CSRF manquant", nil)
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(headerToken), []byte(csrfCookie)) != 1 {
			response.Error(c, http.StatusForbidden, "Jeton CSRF invalide", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig lists the origins allowed to call the API with credentials.
type CORSConfig struct {
	Production  bool
	FrontendURL string
}

var productionOrigins = map[string]bool{
	"https://www.skillijob.fr": true,
	"https://skillijob.fr":     true,
}

// Local Vite and CRA dev servers, never allowed in production.
var devOrigins = map[string]bool{
	"http://localhost:5173": true,
	"http://127.0.0.1:5173": true,
	"http://localhost:3000": true,
}

// allowedOrigin applies the whitelist. An empty origin is a same-origin
// request.
func (cfg CORSConfig) allowedOrigin(origin string) bool {
	if origin == "" || productionOrigins[origin] {
		return true
	}
	if cfg.FrontendURL != "" && origin == strings.TrimSuffix(cfg.FrontendURL, "/") {
		return true
	}
	if cfg.Production {
		return false
	}
	if devOrigins[origin] {
		return true
	}
	// Netlify deploy previews: https://<hash>--skillijob.netlify.app
	if rest, ok := strings.CutPrefix(origin, "https://"); ok {
		if site, ok := strings.CutSuffix(rest, ".netlify.app"); ok {
			return site == "skillijob" || strings.HasSuffix(site, "--skillijob")
		}
	}
	return false
}

// CORSMiddleware adds CORS headers for allowed origins and answers preflight
// requests. Disallowed origins get no CORS headers and the browser blocks
// the call.
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		isAllowed := cfg.allowedOrigin(origin)

		if isAllowed && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Request-ID, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID, Retry-After")
			c.Header("Access-Control-Max-Age", "86400")
		}
		c.Header("Vary", "Origin")

		if c.Request.Method == "OPTIONS" {
			if isAllowed {
				c.AbortWithStatus(204)
			} else {
				c.AbortWithStatus(403)
			}
			return
		}

		c.Next()
	}
}

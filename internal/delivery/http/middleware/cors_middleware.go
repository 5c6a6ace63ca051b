package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware adds CORS headers for the portal frontend.
//
// SECURITY: strict about allowed origins:
// - The configured frontend origin is always allowed
// - Development: localhost origins (disabled in release mode)
func CORSMiddleware(frontendURL string) gin.HandlerFunc {
	isProduction := os.Getenv("GIN_MODE") == "release"

	devOrigins := map[string]bool{
		"http://localhost:3000": true,
		"http://127.0.0.1:3000": true,
		"http://localhost:3001": true,
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		var isAllowed bool
		if origin == frontendURL {
			isAllowed = true
		}
		if !isProduction && devOrigins[origin] {
			isAllowed = true
		}
		// Empty origin (same-origin requests) - allow
		if origin == "" {
			isAllowed = true
		}
		// Vercel preview deployments of the portal frontend
		if !isAllowed && strings.HasSuffix(origin, ".vercel.app") {
			subdomain := strings.TrimPrefix(origin, "https://")
			subdomain = strings.TrimSuffix(subdomain, ".vercel.app")
			if strings.HasPrefix(subdomain, "workspace-portal") {
				isAllowed = true
			}
		}

		// Only set headers if origin is allowed; otherwise the browser
		// blocks the request.
		if isAllowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Idempotency-Key, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			c.Header("Access-Control-Max-Age", "86400")
		}

		// Vary header so caches differentiate by Origin
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

package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified caller identity extracted from a session token.
type Identity struct {
	ID    string
	Email string
}

// Resolver verifies session tokens issued by the identity provider.
// A single synchronous verification per request; no caching beyond the
// JWKS key set, no retries. Any failure reads as "not logged in".
type Resolver struct {
	jwks       *Provider
	jwtSecret  string
	cookieName string
}

func NewResolver(jwks *Provider, jwtSecret, projectRef string) *Resolver {
	return &Resolver{
		jwks:       jwks,
		jwtSecret:  jwtSecret,
		cookieName: CookieName(projectRef),
	}
}

// CookieName derives the session cookie name from the Supabase project ref.
func CookieName(projectRef string) string {
	return "sb-" + projectRef + "-auth-token"
}

// TokenFromRequest extracts the session token from the Authorization header,
// falling back to the project auth cookie. Empty string when absent.
func (s *Resolver) TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	// The cookie value is opaque to us beyond extraction
	return strings.Trim(cookie.Value, `"`)
}

// Resolve verifies the request's session token and returns the caller
// identity. Missing token, transport failure, or provider-reported
// invalidity all yield (nil, false): indistinguishable from "not logged in".
func (s *Resolver) Resolve(r *http.Request) (*Identity, bool) {
	tokenString := s.TokenFromRequest(r)
	if tokenString == "" {
		return nil, false
	}
	identity, err := s.Verify(tokenString)
	if err != nil {
		return nil, false
	}
	return identity, true
}

// Verify parses and validates a raw token string.
func (s *Resolver) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
			// HS256 - Use Secret
			if s.jwtSecret == "" {
				return nil, fmt.Errorf("HS256 token received but SUPABASE_JWT_SECRET is not configured")
			}
			return []byte(s.jwtSecret), nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			// RS256 - Use JWKS
			return s.jwks.KeyFunc(token)
		}
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = fmt.Errorf("invalid token")
		}
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	// Supabase standard claims
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &Identity{ID: sub, Email: email}, nil
}

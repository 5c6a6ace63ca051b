package middleware

import (
	"context"
	"errors"
	"go-workspace-portal/internal/delivery/http/response"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/pkg/auth"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAuth protects the JSON API. It resolves the session, loads the
// caller's profile through the two-tier loader, and stashes identity and
// role in the gin context. API callers get 401/403 JSON, never redirects.
func RequireAuth(resolver *auth.Resolver, loader domain.ProfileLoader, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := resolver.Resolve(c.Request)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth cookie required", nil)
			c.Abort()
			return
		}

		token := resolver.TokenFromRequest(c.Request)
		profile, err := loader.Load(c.Request.Context(), identity.ID, token)
		if err != nil {
			if errors.Is(err, domain.ErrProfileNotFound) {
				// Valid session but no application row yet: propagation
				// lag between identity-provider signup and our users
				// table. Create the row now instead of locking them out.
				user := &domain.User{ID: identity.ID, Email: identity.Email}
				if syncErr := authUC.EnsureUserExists(c.Request.Context(), user); syncErr != nil {
					response.Error(c, http.StatusUnauthorized, "User not found", nil)
					c.Abort()
					return
				}
				profile = &domain.Profile{Role: user.Role}
			} else {
				// Both reads failed; an authorization decision that
				// cannot be made safely defaults to the restrictive one.
				response.Error(c, http.StatusUnauthorized, "Unable to verify user", nil)
				c.Abort()
				return
			}
		}

		role := profile.Role
		if role == "" {
			role = domain.RoleClient // Fallback
		}

		c.Set(string(domain.KeyUserID), identity.ID)
		c.Set(string(domain.KeyUserEmail), identity.Email)
		c.Set(string(domain.KeyUserRole), role)
		c.Set(string(domain.KeyAccessToken), token)

		// Usecases read identity from the request context, not gin's
		ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, identity.ID)
		ctx = context.WithValue(ctx, domain.KeyUserEmail, identity.Email)
		ctx = context.WithValue(ctx, domain.KeyUserRole, role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

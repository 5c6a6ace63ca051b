package middleware

import (
	"errors"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/internal/routing"
	"go-workspace-portal/pkg/auth"
	"go-workspace-portal/pkg/logger"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// Gate enforces the routing policy on portal page navigation. Per request:
// resolve session -> load profile -> ask the policy engine -> pass through
// or redirect. Each request is independent; no state is kept between them.
//
// The gate's outermost boundary never lets an internal error reach the
// client: when a decision cannot be made safely on a non-public route, the
// caller is sent to login.
func Gate(resolver *auth.Resolver, loader domain.ProfileLoader, engine *routing.Engine, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if engine.Bypassed(path) {
			c.Next()
			return
		}

		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("gate panic", "path", path, "panic", r)
				failClosed(c, engine, path, loginPath)
			}
		}()

		in := routing.Input{}
		identity, ok := resolver.Resolve(c.Request)
		if ok {
			in.Authenticated = true

			token := resolver.TokenFromRequest(c.Request)
			profile, err := loader.Load(c.Request.Context(), identity.ID, token)
			switch {
			case err == nil:
				in.Role = profile.Role
				in.HasWorkspace = profile.HasWorkspace()
			case errors.Is(err, domain.ErrProfileNotFound):
				// New user without a profile row: authenticated, no
				// role, no workspace. The policy routes them to
				// workspace creation.
			default:
				// ErrProfileUnavailable: an unknown role must not reach
				// the admin area. Fail closed toward login.
				failClosed(c, engine, path, loginPath)
				return
			}
		}

		execute(c, engine.Decide(path, in), path)
	}
}

// failClosed redirects to login unless the route is public anyway.
func failClosed(c *gin.Context, engine *routing.Engine, path, loginPath string) {
	if engine.IsPublic(path) {
		c.Next()
		return
	}
	execute(c, routing.RedirectToLogin(loginPath), path)
}

// execute turns a policy decision into a response.
func execute(c *gin.Context, decision routing.Decision, originalPath string) {
	switch decision.Action {
	case routing.ActionRedirect:
		target := decision.Target
		if decision.PreserveOriginal {
			target += "?redirectTo=" + url.QueryEscape(originalPath)
		}
		c.Redirect(http.StatusFound, target)
		c.Abort()
	default:
		c.Next()
	}
}

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-workspace-portal/internal/delivery/http/middleware"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/internal/routing"
	"go-workspace-portal/pkg/auth"
	"go-workspace-portal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init()
}

// stubLoader returns a fixed profile or error for every user.
type stubLoader struct {
	profile *domain.Profile
	err     error
}

func (s *stubLoader) Load(ctx context.Context, userID, accessToken string) (*domain.Profile, error) {
	return s.profile, s.err
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": sub + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	assert.NoError(t, err)
	return signed
}

func gateRouter(loader domain.ProfileLoader) *gin.Engine {
	resolver := auth.NewResolver(nil, testJWTSecret, "testref")
	engine := routing.NewEngine(routing.Config{
		PublicRoutes:   []string{"/login", "/signup"},
		BypassPrefixes: []string{"/v1/", "/static/"},
		AdminPrefix:    "/admin",
		LoginPath:      "/login",
		WorkspacePath:  "/workspace",
		DashboardPath:  "/dashboard",
		AdminPath:      "/admin",
	})

	r := gin.New()
	r.Use(middleware.Gate(resolver, loader, engine, "/login"))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/login", ok)
	r.GET("/dashboard", ok)
	r.GET("/workspace", ok)
	r.GET("/admin", ok)
	r.GET("/v1/health", ok)
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGateAnonymous(t *testing.T) {
	router := gateRouter(&stubLoader{err: domain.ErrProfileNotFound})

	t.Run("Gated page redirects to login with return path", func(t *testing.T) {
		w := get(router, "/dashboard", "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?redirectTo=%2Fdashboard", w.Header().Get("Location"))
	})

	t.Run("Public page passes through", func(t *testing.T) {
		w := get(router, "/login", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Bypass prefix is never gated", func(t *testing.T) {
		w := get(router, "/v1/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Garbage token reads as not logged in", func(t *testing.T) {
		w := get(router, "/dashboard", "not-a-jwt")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?redirectTo=%2Fdashboard", w.Header().Get("Location"))
	})
}

func TestGateAuthenticated(t *testing.T) {
	wsID := int64(1)
	token := signToken(t, "user-1")

	t.Run("Client with workspace reaches dashboard", func(t *testing.T) {
		router := gateRouter(&stubLoader{profile: &domain.Profile{Role: "client", WorkspaceID: &wsID}})
		w := get(router, "/dashboard", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Client without workspace is sent to workspace creation", func(t *testing.T) {
		router := gateRouter(&stubLoader{profile: &domain.Profile{Role: "client"}})
		w := get(router, "/dashboard", token)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/workspace", w.Header().Get("Location"))
	})

	t.Run("Client cannot enter admin area", func(t *testing.T) {
		router := gateRouter(&stubLoader{profile: &domain.Profile{Role: "client", WorkspaceID: &wsID}})
		w := get(router, "/admin", token)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("Admin is moved off the client dashboard", func(t *testing.T) {
		router := gateRouter(&stubLoader{profile: &domain.Profile{Role: "admin"}})
		w := get(router, "/dashboard", token)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/admin", w.Header().Get("Location"))
	})

	t.Run("Logged-in caller bounces off the login page", func(t *testing.T) {
		router := gateRouter(&stubLoader{profile: &domain.Profile{Role: "client", WorkspaceID: &wsID}})
		w := get(router, "/login", token)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("New user without profile is routed to workspace creation", func(t *testing.T) {
		router := gateRouter(&stubLoader{err: domain.ErrProfileNotFound})
		w := get(router, "/dashboard", token)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/workspace", w.Header().Get("Location"))
	})
}

func TestGateFailsClosed(t *testing.T) {
	token := signToken(t, "user-1")

	t.Run("Profile outage sends gated traffic to login", func(t *testing.T) {
		router := gateRouter(&stubLoader{err: domain.ErrProfileUnavailable})
		w := get(router, "/admin", token)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?redirectTo=%2Fadmin", w.Header().Get("Location"))
	})

	t.Run("Profile outage leaves public routes reachable", func(t *testing.T) {
		router := gateRouter(&stubLoader{err: domain.ErrProfileUnavailable})
		w := get(router, "/login", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGateCookieSession(t *testing.T) {
	wsID := int64(4)
	router := gateRouter(&stubLoader{profile: &domain.Profile{Role: "client", WorkspaceID: &wsID}})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName("testref"), Value: signToken(t, "user-2")})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

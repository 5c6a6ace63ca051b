package routing_test

import (
	"testing"

	"go-workspace-portal/internal/routing"

	"github.com/stretchr/testify/assert"
)

func testEngine() *routing.Engine {
	return routing.NewEngine(routing.Config{
		PublicRoutes:   []string{"/login", "/signup", "/verify", "/forgot-password", "/reset-password"},
		BypassPrefixes: []string{"/api/", "/static/"},
		AdminPrefix:    "/admin",
		LoginPath:      "/login",
		WorkspacePath:  "/workspace",
		DashboardPath:  "/dashboard",
		AdminPath:      "/admin",
	})
}

func TestDecide(t *testing.T) {
	engine := testEngine()

	authed := func(role string, hasWorkspace bool) routing.Input {
		return routing.Input{Authenticated: true, Role: role, HasWorkspace: hasWorkspace}
	}
	anon := routing.Input{}

	tests := []struct {
		name string
		path string
		in   routing.Input
		want routing.Decision
	}{
		{"anonymous on login page", "/login", anon, routing.Allow()},
		{"anonymous on signup page", "/signup", anon, routing.Allow()},
		{"anonymous on gated page", "/dashboard", anon, routing.RedirectToLogin("/login")},
		{"anonymous on deep gated page", "/settings/billing", anon, routing.RedirectToLogin("/login")},

		{"client with workspace on login page", "/login", authed("client", true), routing.RedirectTo("/dashboard")},
		{"client without workspace on login page", "/login", authed("client", false), routing.RedirectTo("/workspace")},
		{"admin with workspace on public page", "/verify", authed("admin", true), routing.RedirectTo("/dashboard")},

		{"client on dashboard", "/dashboard", authed("client", true), routing.Allow()},
		{"client on admin area", "/admin", authed("client", true), routing.RedirectTo("/dashboard")},
		{"client on nested admin page", "/admin/users", authed("client", true), routing.RedirectTo("/dashboard")},
		{"role outside the enum is not admin", "/admin", authed("superuser", true), routing.RedirectTo("/dashboard")},

		{"admin on dashboard", "/dashboard", authed("admin", true), routing.RedirectTo("/admin")},
		{"admin on admin area", "/admin", authed("admin", true), routing.Allow()},
		{"admin on nested admin page", "/admin/workspaces", authed("admin", true), routing.Allow()},
		{"administrator-lookalike path is not admin area", "/administrator", authed("client", true), routing.Allow()},

		{"client without workspace on settings", "/settings", authed("client", false), routing.RedirectTo("/workspace")},
		{"client without workspace on workspace page", "/workspace", authed("client", false), routing.Allow()},
		{"client with workspace on workspace page", "/workspace", authed("client", true), routing.RedirectTo("/dashboard")},
		{"admin with workspace on workspace page", "/workspace", authed("admin", true), routing.RedirectTo("/dashboard")},

		{"api prefix bypassed", "/api/v1/health", anon, routing.Allow()},
		{"static prefix bypassed", "/static/app.css", anon, routing.Allow()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Decide(tt.path, tt.in))
		})
	}
}

func TestDecideIsPure(t *testing.T) {
	engine := testEngine()
	in := routing.Input{Authenticated: true, Role: "client", HasWorkspace: false}

	first := engine.Decide("/settings", in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, engine.Decide("/settings", in))
	}
}

func TestLoginRedirectPreservesOriginalPath(t *testing.T) {
	engine := testEngine()

	d := engine.Decide("/settings/billing", routing.Input{})
	assert.Equal(t, routing.ActionRedirect, d.Action)
	assert.Equal(t, "/login", d.Target)
	assert.True(t, d.PreserveOriginal)

	// Only login redirects carry the original path
	d = engine.Decide("/admin", routing.Input{Authenticated: true, Role: "client", HasWorkspace: true})
	assert.False(t, d.PreserveOriginal)
}

func TestConfigIsInjected(t *testing.T) {
	engine := routing.NewEngine(routing.Config{
		PublicRoutes:  []string{"/anmelden"},
		AdminPrefix:   "/verwaltung",
		LoginPath:     "/anmelden",
		WorkspacePath: "/arbeitsbereich",
		DashboardPath: "/uebersicht",
		AdminPath:     "/verwaltung",
	})

	assert.Equal(t, routing.Allow(), engine.Decide("/anmelden", routing.Input{}))
	assert.Equal(t, routing.RedirectToLogin("/anmelden"), engine.Decide("/uebersicht", routing.Input{}))
	assert.Equal(t,
		routing.RedirectTo("/uebersicht"),
		engine.Decide("/verwaltung/users", routing.Input{Authenticated: true, Role: "client", HasWorkspace: true}))
}

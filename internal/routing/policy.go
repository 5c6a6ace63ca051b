// Package routing holds the pure routing policy: given what we know about
// the caller and the requested path, decide whether to let the request
// through or where to send it instead. No I/O happens here; the gate
// middleware owns enforcement.
package routing

import "strings"

// Action is the kind of decision the engine produces.
type Action int

const (
	ActionAllow Action = iota
	ActionRedirect
)

// Decision is the engine's verdict for one request.
type Decision struct {
	Action Action
	// Target is the redirect destination path; empty for Allow.
	Target string
	// PreserveOriginal asks the gate to carry the originally requested
	// path as a redirectTo query parameter (login redirects only).
	PreserveOriginal bool
}

func Allow() Decision {
	return Decision{Action: ActionAllow}
}

func RedirectTo(target string) Decision {
	return Decision{Action: ActionRedirect, Target: target}
}

func RedirectToLogin(target string) Decision {
	return Decision{Action: ActionRedirect, Target: target, PreserveOriginal: true}
}

// Input is what the gate learned about the caller before deciding.
type Input struct {
	Authenticated bool
	Role          string
	HasWorkspace  bool
}

// Config is the immutable route table the engine decides against. It is
// injected at construction time so tests can vary it.
type Config struct {
	// PublicRoutes are exact-match paths reachable without a session.
	PublicRoutes []string
	// BypassPrefixes are path prefixes the gate skips entirely (API,
	// static assets).
	BypassPrefixes []string
	// AdminPrefix guards the admin area; role=admin required underneath.
	AdminPrefix string

	LoginPath     string
	WorkspacePath string
	DashboardPath string
	AdminPath     string
}

// Engine evaluates the routing policy. Pure and stateless: identical
// inputs always produce identical decisions.
type Engine struct {
	cfg    Config
	public map[string]struct{}
}

func NewEngine(cfg Config) *Engine {
	public := make(map[string]struct{}, len(cfg.PublicRoutes))
	for _, p := range cfg.PublicRoutes {
		public[p] = struct{}{}
	}
	return &Engine{cfg: cfg, public: public}
}

// Bypassed reports whether the path is outside the gate's jurisdiction.
func (e *Engine) Bypassed(path string) bool {
	for _, prefix := range e.cfg.BypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IsPublic reports whether the path is on the public-route allowlist.
func (e *Engine) IsPublic(path string) bool {
	_, ok := e.public[path]
	return ok
}

func (e *Engine) isAdminPath(path string) bool {
	return path == e.cfg.AdminPrefix || strings.HasPrefix(path, e.cfg.AdminPrefix+"/")
}

// Decide applies the policy rules in priority order.
func (e *Engine) Decide(path string, in Input) Decision {
	if e.Bypassed(path) {
		return Allow()
	}

	// Rule 1: public routes. A logged-in caller has no business on the
	// login/signup pages; send them where they belong.
	if e.IsPublic(path) {
		if in.Authenticated {
			if in.HasWorkspace {
				return RedirectTo(e.cfg.DashboardPath)
			}
			return RedirectTo(e.cfg.WorkspacePath)
		}
		return Allow()
	}

	// Rule 2: everything else needs a session.
	if !in.Authenticated {
		return RedirectToLogin(e.cfg.LoginPath)
	}

	// Rule 3: admin area is admin-only.
	if e.isAdminPath(path) && in.Role != "admin" {
		return RedirectTo(e.cfg.DashboardPath)
	}

	// Rule 4: admins land on the admin console, not the client dashboard.
	if in.Role == "admin" && path == e.cfg.DashboardPath {
		return RedirectTo(e.cfg.AdminPath)
	}

	// Rule 5: a client without a workspace must create one first.
	if in.Role != "admin" && !in.HasWorkspace && path != e.cfg.WorkspacePath {
		return RedirectTo(e.cfg.WorkspacePath)
	}

	// Rule 6: the creation page is pointless once a workspace exists.
	// Applies regardless of role.
	if in.HasWorkspace && path == e.cfg.WorkspacePath {
		return RedirectTo(e.cfg.DashboardPath)
	}

	return Allow()
}

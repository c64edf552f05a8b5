// Package guard decides whether a route may be rendered for the current
// session.
package guard

import (
	"banking-dashboard/internal/domain"
)

const (
	RouteRoot           = "/"
	RouteLogin          = "/login"
	RouteSignup         = "/signup"
	RouteDashboard      = "/dashboard"
	RouteAdminDashboard = "/admin-dashboard"
)

type Outcome int

const (
	Render Outcome = iota
	RedirectLogin
	RedirectDashboard
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect-login"
	case RedirectDashboard:
		return "redirect-dashboard"
	default:
		return "unknown"
	}
}

// Target is the route an outcome sends the user to; empty for Render.
func (o Outcome) Target() string {
	switch o {
	case RedirectLogin:
		return RouteLogin
	case RedirectDashboard:
		return RouteDashboard
	default:
		return ""
	}
}

// Evaluate is the full guard decision table.
func Evaluate(authenticated, adminRoute, isAdmin bool) Outcome {
	switch {
	case !authenticated:
		return RedirectLogin
	case adminRoute && !isAdmin:
		return RedirectDashboard
	default:
		return Render
	}
}

// Route describes one entry of the route table.
type Route struct {
	Path      string
	Protected bool
	AdminOnly bool
}

// Routes is the application route table. "/" and unknown paths resolve to
// the login route.
var Routes = map[string]Route{
	RouteLogin:          {Path: RouteLogin},
	RouteSignup:         {Path: RouteSignup},
	RouteDashboard:      {Path: RouteDashboard, Protected: true},
	RouteAdminDashboard: {Path: RouteAdminDashboard, Protected: true, AdminOnly: true},
}

// Resolve maps a requested path onto a known route.
func Resolve(path string) Route {
	if r, ok := Routes[path]; ok {
		return r
	}
	return Routes[RouteLogin]
}

// Session is what the guard reads on every check.
type Session interface {
	IsAuthenticated() bool
	HasRole(role domain.Role) bool
}

type Guard struct {
	session Session
}

func New(session Session) *Guard {
	return &Guard{session: session}
}

// Check resolves path and evaluates it against the session as it is right
// now. Nothing is cached between calls.
func (g *Guard) Check(path string) (Route, Outcome) {
	route := Resolve(path)
	if !route.Protected {
		return route, Render
	}
	return route, Evaluate(g.session.IsAuthenticated(), route.AdminOnly, g.session.HasRole(domain.RoleAdmin))
}

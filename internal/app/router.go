// Package app drives navigation between the dashboard views.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"banking-dashboard/internal/guard"
	"banking-dashboard/internal/views"

	"github.com/charmbracelet/log"
)

// maxHops bounds guard redirect chains.
const maxHops = 4

// Router runs one view at a time. It is the gateway's Navigator: a redirect
// issued while a view is running replaces whatever route the view returns.
type Router struct {
	guard *guard.Guard
	views map[string]views.View
	log   *log.Logger

	mu      sync.Mutex
	pending string
	current string
}

func NewRouter(g *guard.Guard, routes map[string]views.View, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.Default()
	}
	return &Router{
		guard: g,
		views: routes,
		log:   logger.WithPrefix("router"),
	}
}

// Redirect records a forced navigation. It is safe to call from any
// goroutine.
func (r *Router) Redirect(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Debug("redirect requested", "to", route, "from", r.current)
	r.pending = route
}

func (r *Router) takePending() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pending
	r.pending = ""
	return p
}

// Current is the route of the view that is running.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Resolve applies the guard to path until it settles on a route that may
// be rendered.
func (r *Router) Resolve(path string) string {
	for i := 0; i < maxHops; i++ {
		route, outcome := r.guard.Check(path)
		if outcome == guard.Render {
			return route.Path
		}
		r.log.Debug("guard redirect", "path", path, "outcome", outcome, "to", outcome.Target())
		path = outcome.Target()
	}
	return guard.RouteLogin
}

// Run shows views starting at path until one returns views.ErrQuit or a
// hard error. A view returning an empty route is shown again.
func (r *Router) Run(ctx context.Context, path string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		route := r.Resolve(path)
		view, ok := r.views[route]
		if !ok {
			return fmt.Errorf("no view registered for %s", route)
		}

		r.mu.Lock()
		r.current = route
		r.mu.Unlock()
		r.log.Debug("showing view", "route", route)

		next, err := view.Run(ctx)
		if errors.Is(err, views.ErrQuit) {
			return nil
		}
		if forced := r.takePending(); forced != "" {
			if err != nil {
				r.log.Warn("view failed during forced redirect", "route", route, "err", err)
			}
			path = forced
			continue
		}
		if err != nil {
			return fmt.Errorf("view %s: %w", route, err)
		}
		if next == "" {
			next = route
		}
		path = next
	}
}

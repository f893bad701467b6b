// Package navigation tracks which surface the client is showing and reacts
// to session events by moving between surfaces.
package navigation

import (
	"strings"

	"github.com/rs/zerolog"

	"marketplace/client/internal/reactive"
)

const (
	RouteHome     = "/"
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteProducts = "/products"
)

// LogoutNotifier is implemented by the session store.
type LogoutNotifier interface {
	OnLoggedOut(fn func()) func()
}

type Router struct {
	current *reactive.Signal[string]
	history *reactive.Signal[[]string]
	log     zerolog.Logger
}

func NewRouter(log zerolog.Logger) *Router {
	return &Router{
		current: reactive.NewSignal(RouteHome),
		history: reactive.NewSignal([]string{}),
		log:     log,
	}
}

func (r *Router) Current() reactive.Readable[string] { return r.current.ReadOnly() }

// History lists every route navigated to, oldest first.
func (r *Router) History() []string {
	return append([]string(nil), r.history.Get()...)
}

func (r *Router) Navigate(route string) {
	route = normalize(route)
	r.history.Update(func(cur []string) []string {
		next := make([]string, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, route)
	})
	r.current.Set(route)
	r.log.Debug().Str("route", route).Msg("navigate")
}

// Bind sends the router to the login surface on every logout.
func (r *Router) Bind(n LogoutNotifier) func() {
	return n.OnLoggedOut(func() { r.Navigate(RouteLogin) })
}

func normalize(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return RouteHome
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/logger"
)

// Mount adds one group of endpoints to the gate router.
type Mount func(r chi.Router, d deps.Deps)

type group struct {
	name  string
	mount Mount
	guard func(d deps.Deps) func(http.Handler) http.Handler
}

var groups []group

// register is called from init() by each group file. guard, when set, wraps
// every endpoint of the group.
func register(name string, mount Mount, guard func(d deps.Deps) func(http.Handler) http.Handler) {
	groups = append(groups, group{name: name, mount: mount, guard: guard})
}

// RegisterAll mounts every group, in registration order.
func RegisterAll(r chi.Router, d deps.Deps) {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		sub := r
		if g.guard != nil {
			sub = r.With(g.guard(d))
		}
		g.mount(sub, d)
		names = append(names, g.name)
	}
	if d.Logger != nil {
		d.Logger.Debug("routes mounted", logger.Strings("groups", names))
	}
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/nexus/internal/httpserver/mw"
	"github.com/MrSnakeDoc/nexus/internal/metrics"
)

func init() { register("admin", mountAdmin, adminOnly) }

// adminOnly is a no-op when NEXUS_GATE_ADMIN_CIDRS is empty.
func adminOnly(d deps.Deps) func(http.Handler) http.Handler {
	return mw.AllowOnlyCIDRS(d.AdminCIDRS, d.TrustProxy, d.Logger)
}

func mountAdmin(r chi.Router, d deps.Deps) {
	r.Get("/readyz", handlers.Readyz(d))
	r.Get("/infra", handlers.Infra(d))
	r.Post("/reload", handlers.Reload(d))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
}

package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
)

// Readyz is ready once an access rules document is loaded.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		ready := d.Rules.Loaded()
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, struct {
			Ready bool `json:"ready"`
		}{ready})
	}
}

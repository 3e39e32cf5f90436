package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/logger"
)

type reloadResponse struct {
	Status string `json:"status"`
	File   string `json:"file"`
}

// Reload queues a re-read of the rules file. Only one request can be
// pending; the reloader drains it.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("rules reload requested",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, reloadResponse{Status: "queued", File: d.RulesFile})
		default:
			d.Logger.Warn("rules reload already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, reloadResponse{Status: "pending", File: d.RulesFile})
		}
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	RulesLoaded *int   `json:"rules_loaded,omitempty"`
	LastReload  string `json:"last_reload,omitempty"`
	File        string `json:"file,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	GateMode   string                     `json:"gate_mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rulesCount := d.Rules.Count()
		lastReload := d.Rules.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.UTC().Format(time.RFC3339)
		}

		components := map[string]componentStatus{
			"rules": {
				OK:          d.Rules.Loaded(),
				RulesLoaded: &rulesCount,
				LastReload:  lastReloadStr,
				File:        d.RulesFile,
			},
			"redis": checkRedis(r.Context(), d),
			"identity": {
				OK:   true,
				Mode: d.IdentityMode,
			},
		}

		response := infraResponse{
			GateMode:   determineGateMode(components),
			Components: components,
		}

		writeJSON(w, http.StatusOK, response)
	}
}

func determineGateMode(components map[string]componentStatus) string {
	// No rules = every request denied
	if rules, exists := components["rules"]; exists && !rules.OK {
		return "critical"
	}

	// Redis is optional; an enabled but unreachable cache only costs latency
	if redis, exists := components["redis"]; exists && !redis.OK && redis.Mode != "disabled" {
		return "degraded"
	}

	return "enforcing"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "whois-uncached",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "whois-uncached",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "whois-cached",
	}
}

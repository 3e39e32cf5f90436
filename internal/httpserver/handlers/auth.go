package handlers

import (
	"context"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nexus/internal/index"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/metrics"
	"github.com/MrSnakeDoc/nexus/internal/utils"
)

// Identity given to callers on trusted networks.
const (
	LocalAdminUser   = "local-admin@localhost"
	LocalAdminGroups = "admins"
	LocalAdminName   = "Local Admin"
)

var forbiddenPage = template.Must(template.New("403").Funcs(template.FuncMap{
	"join": func(s []string) string { return strings.Join(s, ", ") },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Access denied</title></head>
<body>
<h1>403 - Access denied</h1>
<p>{{.Reason}}</p>
<ul>
<li>Service: {{.Service}}</li>
{{- if .IP}}<li>IP: {{.IP}}</li>{{end}}
{{- if .Email}}<li>User: {{.Email}}</li>
<li>Groups: {{if .Groups}}{{join .Groups}}{{else}}none{{end}}</li>{{end}}
{{- if .Required}}<li>Required groups: {{join .Required}}</li>{{end}}
</ul>
</body>
</html>
`))

type forbiddenData struct {
	Reason   string
	Service  string
	IP       string
	Email    string
	Groups   []string
	Required []string
}

// Auth answers traefik ForwardAuth requests. The target service is the first
// label of X-Forwarded-Host and the caller is the first X-Forwarded-For entry.
func Auth(d deps.Deps) http.HandlerFunc {
	trusted := utils.NewIPMatcher(d.TrustedCIDRS)
	prefix := d.HeaderPrefix
	if prefix == "" {
		prefix = "Remote-"
	}
	timeout := d.WhoisTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		host := r.Header.Get("X-Forwarded-Host")
		service := index.ServiceFromHost(host)
		ip := utils.ParseHostNoPort(utils.FirstForwardedFor(r.Header.Get("X-Forwarded-For")))

		log := d.Logger.With(
			logger.String("service", service),
			logger.String("host", host),
			logger.String("client_ip", ip))

		if ip == "" {
			metrics.ObserveDecision(metrics.ResultNoIP, service)
			forbidden(w, log, forbiddenData{Reason: "No Client IP", Service: service})
			return
		}

		if trusted.Allow(ip) {
			log.Debug("trusted network, granting local admin")
			metrics.ObserveDecision(metrics.ResultTrusted, service)
			allow(w, prefix, LocalAdminUser, LocalAdminGroups, LocalAdminName)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		profile, err := d.Identity.WhoIs(ctx, ip)
		if err != nil {
			log.Debug("whois failed", logger.Error(err))
			metrics.ObserveDecision(metrics.ResultUnknown, service)
			forbidden(w, log, forbiddenData{Reason: "Not a Tailscale connection", Service: service, IP: ip})
			return
		}

		decision := d.Rules.Decide(host, profile.LoginName)
		if !decision.Allowed {
			metrics.ObserveDecision(metrics.ResultDenied, service)
			forbidden(w, log, forbiddenData{
				Reason:   decision.Reason,
				Service:  service,
				Email:    profile.LoginName,
				Groups:   decision.Groups,
				Required: decision.Required,
			})
			return
		}

		log.Debug("access granted",
			logger.String("user", profile.LoginName),
			logger.Strings("groups", decision.Groups))
		metrics.ObserveDecision(metrics.ResultAllowed, service)
		allow(w, prefix, profile.LoginName, strings.Join(decision.Groups, ","), profile.DisplayName)
	}
}

func allow(w http.ResponseWriter, prefix, user, groups, name string) {
	w.Header().Set(prefix+"User", user)
	w.Header().Set(prefix+"Groups", groups)
	w.Header().Set(prefix+"Name", name)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func forbidden(w http.ResponseWriter, log logger.Logger, data forbiddenData) {
	log.Info("access denied",
		logger.String("reason", data.Reason),
		logger.String("user", data.Email))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusForbidden)
	if err := forbiddenPage.Execute(w, data); err != nil {
		log.Debug("failed to render 403 page", logger.Error(err))
	}
}

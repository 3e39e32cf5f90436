package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Decision results recorded by ObserveDecision.
const (
	ResultTrusted = "trusted"
	ResultAllowed = "allowed"
	ResultDenied  = "denied"
	ResultNoIP    = "no_ip"
	ResultUnknown = "unknown_identity"
)

var (
	// decisionsTotal counts ForwardAuth decisions by result and service
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_gate_decisions_total",
		Help: "Total access decisions by result and service",
	}, []string{"result", "service"})

	// whoisDuration tracks tailscale whois latency, cache hits included
	whoisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nexus_gate_whois_duration_seconds",
		Help:    "Whois lookup duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	}, []string{"source"})

	// rulesReloads counts access rules reloads by status
	rulesReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_gate_rules_reloads_total",
		Help: "Total access rules reloads by status",
	}, []string{"status"})

	rulesServices = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nexus_gate_rules_services",
		Help: "Number of service rules currently enforced",
	})
)

func ObserveDecision(result, service string) {
	decisionsTotal.WithLabelValues(result, service).Inc()
}

// ObserveWhois records a lookup answered by source ("cache" or "tailscale").
func ObserveWhois(source string, elapsed time.Duration) {
	whoisDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveReload records a reload attempt and, on success, the rule count.
func ObserveReload(err error, services int) {
	if err != nil {
		rulesReloads.WithLabelValues("error").Inc()
		return
	}
	rulesReloads.WithLabelValues("ok").Inc()
	rulesServices.Set(float64(services))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

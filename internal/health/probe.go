package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/nexus/internal/homepage"
	"github.com/MrSnakeDoc/nexus/internal/logger"
)

// Critical services are probed by --critical-only runs.
var CriticalServices = []string{"traefik", "auth"}

// DefaultServices is probed when no generated dashboard is available.
var DefaultServices = []string{"traefik", "auth", "dashboard", "plex", "jellyfin", "sure", "foundryvtt"}

// Target is one URL to probe.
type Target struct {
	Name string
	URL  string
}

// Result is the outcome of one probe.
type Result struct {
	Name         string
	URL          string
	Healthy      bool
	StatusCode   int
	ResponseTime time.Duration
	Error        string
}

// Targets builds probe targets for well-known service names. The dashboard
// lives on the hub subdomain. Without a domain every target is localhost.
func Targets(names []string, domain string) []Target {
	out := make([]Target, 0, len(names))
	for _, name := range names {
		url := "http://localhost"
		if domain != "" {
			sub := name
			if name == "dashboard" {
				sub = "hub"
			}
			url = "https://" + sub + "." + domain
		}
		out = append(out, Target{Name: name, URL: url})
	}
	return out
}

// TargetsFromLinks probes every entry of a generated dashboard.
func TargetsFromLinks(links []homepage.Link) []Target {
	out := make([]Target, 0, len(links))
	for _, l := range links {
		out = append(out, Target{Name: l.Name, URL: l.Href})
	}
	return out
}

// Prober runs HTTP probes with a fixed fan-out. Probes are never retried.
type Prober struct {
	client      *http.Client
	timeout     time.Duration
	concurrency int
	logger      logger.Logger
}

func NewProber(timeout time.Duration, concurrency int, log logger.Logger) *Prober {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Prober{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout:     timeout,
		concurrency: concurrency,
		logger:      log,
	}
}

// Probe issues one GET. Anything below 500 counts as healthy; 4xx responses
// still carry an "HTTP <code>" note.
func (p *Prober) Probe(ctx context.Context, t Target) Result {
	res := Result{Name: t.Name, URL: t.URL}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, http.NoBody)
	if err != nil {
		res.Error = fmt.Sprintf("failed to create request: %v", err)
		return res
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			res.Error = "Timeout"
		} else {
			res.Error = err.Error()
		}
		return res
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	res.ResponseTime = time.Since(start)
	res.StatusCode = resp.StatusCode
	res.Healthy = resp.StatusCode < http.StatusInternalServerError
	if resp.StatusCode >= http.StatusBadRequest {
		res.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return res
}

// ProbeAll probes every target and returns results in target order.
func (p *Prober) ProbeAll(ctx context.Context, targets []Target) []Result {
	results := make([]Result, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, t := range targets {
		g.Go(func() error {
			results[i] = p.Probe(ctx, t)
			p.logger.Debug("probe finished",
				logger.String("service", t.Name),
				logger.String("url", t.URL),
				logger.Bool("healthy", results[i].Healthy),
				logger.Duration("elapsed", results[i].ResponseTime))
			return nil
		})
	}
	_ = g.Wait()
	return results
}

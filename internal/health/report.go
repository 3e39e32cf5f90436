package health

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/nexus/internal/logger"
)

// Report gathers every check of one health run.
type Report struct {
	Containers   map[string]bool
	Services     []Result
	Certificates []CertResult
	Disk         *DiskUsage
}

// Healthy reports whether every probed service is healthy. Containers and
// certificates are informational.
func (r *Report) Healthy() bool {
	for _, s := range r.Services {
		if !s.Healthy {
			return false
		}
	}
	return true
}

// Options select what a run checks.
type Options struct {
	Targets  []Target
	Domain   string // empty skips certificate checks
	DiskPath string // empty skips the disk check
}

// Checker runs every check of a health report.
type Checker struct {
	prober     *Prober
	containers ContainerLister
}

func NewChecker(prober *Prober, containers ContainerLister) *Checker {
	return &Checker{prober: prober, containers: containers}
}

// Run executes all checks. Individual failures end up in the report; Run
// itself does not fail.
func (c *Checker) Run(ctx context.Context, opts Options) *Report {
	r := &Report{Containers: map[string]bool{}}

	if c.containers != nil {
		status, err := c.containers.Containers(ctx)
		if err != nil {
			c.prober.logger.Warn("cannot list containers", logger.Error(err))
		} else {
			r.Containers = status
		}
	}

	if opts.DiskPath != "" {
		if d, err := StatDisk(opts.DiskPath); err != nil {
			c.prober.logger.Warn("cannot read disk usage", logger.Error(err))
		} else {
			r.Disk = &d
		}
	}

	if opts.Domain != "" {
		r.Certificates = c.prober.CheckCertificates(ctx, opts.Domain)
	}

	r.Services = c.prober.ProbeAll(ctx, opts.Targets)
	return r
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

// WriteTo prints the report in the console layout.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "\n%s\n  Nexus Health Check Report\n%s\n\n", rule, rule)

	b.WriteString("Docker Containers:\n")
	names := make([]string, 0, len(r.Containers))
	for name := range r.Containers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s %s\n", mark(r.Containers[name]), name)
	}

	b.WriteString("\nService Health:\n")
	for _, s := range r.Services {
		fmt.Fprintf(&b, "  %s %s\n", mark(s.Healthy), s.Name)
		if s.Error != "" {
			fmt.Fprintf(&b, "      Error: %s\n", s.Error)
		}
	}

	if len(r.Certificates) > 0 {
		b.WriteString("\nSSL Certificates:\n")
		for _, c := range r.Certificates {
			fmt.Fprintf(&b, "  %s %s\n", mark(c.Valid), c.Name)
		}
	}

	if r.Disk != nil {
		b.WriteString("\nDisk Space:\n")
		fmt.Fprintf(&b, "  Total: %s\n", FormatSize(r.Disk.Total))
		fmt.Fprintf(&b, "  Used: %s\n", FormatSize(r.Disk.Used))
		fmt.Fprintf(&b, "  Available: %s\n", FormatSize(r.Disk.Available))
		fmt.Fprintf(&b, "  Usage: %.0f%%\n", r.Disk.Percent())
	}

	fmt.Fprintf(&b, "\n%s\n", rule)

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

package app

import (
	"context"
	"path/filepath"

	"github.com/MrSnakeDoc/nexus/internal/config"
	"github.com/MrSnakeDoc/nexus/internal/generate"
	"github.com/MrSnakeDoc/nexus/internal/health"
	"github.com/MrSnakeDoc/nexus/internal/homepage"
	"github.com/MrSnakeDoc/nexus/internal/logger"
)

// HealthOptions drive `health`.
type HealthOptions struct {
	Domain       string
	DataDir      string
	CriticalOnly bool
	DiskPath     string
	Containers   health.ContainerLister // nil => docker CLI
}

// Health probes the homelab. Without --critical-only the entries of the
// generated dashboard are probed when it exists, the default list otherwise.
func (a *App) Health(ctx context.Context, opts HealthOptions) *health.Report {
	domain, err := a.Domain(ctx, opts.Domain)
	if err != nil {
		a.logger.Warn("no domain, probing localhost and skipping certificate checks")
		domain = ""
	}

	targets := a.healthTargets(ctx, opts, domain)
	containers := opts.Containers
	if containers == nil {
		containers = health.DockerCLI{}
	}
	disk := opts.DiskPath
	if disk == "" {
		disk = "/"
	}

	prober := health.NewProber(a.cfg.HealthTimeout, a.cfg.HealthConcurrency, a.logger)
	a.logger.Info("running health checks", logger.Int("targets", len(targets)))

	report := health.NewChecker(prober, containers).Run(ctx, health.Options{
		Targets:  targets,
		Domain:   domain,
		DiskPath: disk,
	})
	if report.Disk != nil {
		a.logger.Debug("disk usage",
			logger.String("path", disk),
			logger.Float64("used_percent", report.Disk.Percent()))
	}
	return report
}

func (a *App) healthTargets(ctx context.Context, opts HealthOptions, domain string) []health.Target {
	if opts.CriticalOnly {
		return health.Targets(health.CriticalServices, domain)
	}

	path := filepath.Join(config.HomepageDir(a.DataDirectory(ctx, opts.DataDir)), generate.ServicesFile)
	cfg, err := homepage.NewLoader(path).Load()
	if err == nil {
		links, mapErr := homepage.NewMapper().MapLinks(cfg)
		if mapErr == nil {
			return health.TargetsFromLinks(links)
		}
		err = mapErr
	}
	a.logger.Debug("generated dashboard unavailable, using default targets",
		logger.String("path", path),
		logger.Error(err))
	return health.Targets(health.DefaultServices, domain)
}

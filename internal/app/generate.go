package app

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/compose"
	"github.com/MrSnakeDoc/nexus/internal/config"
	"github.com/MrSnakeDoc/nexus/internal/generate"
	"github.com/MrSnakeDoc/nexus/internal/homepage"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/secrets"
)

// DashboardOptions drive `generate dashboard`.
type DashboardOptions struct {
	Selection Selection
	Domain    string // overrides configuration
	DataDir   string // overrides configuration
	DryRun    bool
}

// GenerateDashboard writes the Homepage configuration bundle.
func (a *App) GenerateDashboard(ctx context.Context, opts DashboardOptions) (homepage.ServicesConfig, error) {
	services, err := a.Resolve(opts.Selection)
	if err != nil {
		return nil, err
	}
	domain, err := a.Domain(ctx, opts.Domain)
	if err != nil {
		return nil, err
	}
	dir := config.HomepageDir(a.DataDirectory(ctx, opts.DataDir))

	a.logger.Info("generating dashboard",
		logger.Int("services", len(services)),
		logger.String("domain", domain),
		logger.String("dir", dir),
		logger.Bool("dry_run", opts.DryRun))

	g := generate.NewGenerator(a.catalog, compose.NewExtractor(a.cfg.ServicesDir, a.catalog, a.logger), a.logger)
	return g.Homepage(generate.NewWriter(opts.DryRun, a.logger), generate.HomepageRequest{
		Dir:      dir,
		Services: services,
		Domain:   domain,
		Secrets:  a.Secrets(ctx),
		Weather: generate.WeatherOptions{
			Latitude:  a.cfg.Latitude,
			Longitude: a.cfg.Longitude,
			Timezone:  a.cfg.Timezone,
			Units:     a.cfg.Units,
		},
	})
}

// AccessRulesOptions drive `generate access-rules`.
type AccessRulesOptions struct {
	Selection Selection
	Output    string // overrides NEXUS_ACCESS_RULES_FILE
	DryRun    bool
	Now       func() time.Time
}

// GenerateAccessRules writes the access gate rules file.
func (a *App) GenerateAccessRules(ctx context.Context, opts AccessRulesOptions) (*generate.AccessRules, error) {
	var services []string
	if opts.Selection.Preset != "" || len(opts.Selection.Names) > 0 {
		var err error
		if services, err = a.Resolve(opts.Selection); err != nil {
			return nil, err
		}
	}

	out := opts.Output
	if out == "" {
		out = a.cfg.AccessRulesFile
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	groups := a.Secrets(ctx).Groups(secrets.KeyTailscaleUsers)
	if len(groups) == 0 {
		a.logger.Warn("no tailscale_users in vault, rules will reference unknown groups")
	}

	rules := generate.BuildAccessRules(a.manifests, services, groups)
	a.logger.Info("generating access rules",
		logger.Int("rules", len(rules.Services)),
		logger.Int("groups", len(rules.Groups)),
		logger.String("output", out),
		logger.Bool("dry_run", opts.DryRun))

	w := generate.NewWriter(opts.DryRun, a.logger)
	if err := w.WriteYAMLWithHeader(out, generate.AccessRulesHeader(now()), rules); err != nil {
		return nil, err
	}
	return rules, nil
}

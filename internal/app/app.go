package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/MrSnakeDoc/nexus/internal/config"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/manifest"
	"github.com/MrSnakeDoc/nexus/internal/resolver"
	"github.com/MrSnakeDoc/nexus/internal/secrets"
)

// DefaultDataDirectory is used when neither a flag, the environment nor the
// vault name one.
const DefaultDataDirectory = "~/nexus-data"

// ErrNoDomain is returned when no base domain could be resolved.
var ErrNoDomain = errors.New("no domain configured: pass --domain, set NEXUS_DOMAIN or nexus_domain in the vault")

// App is the context of one CLI invocation. Manifests and the catalog are
// read once, when the App is built, and never refreshed.
type App struct {
	cfg       *config.Config
	logger    logger.Logger
	manifests map[string]*manifest.ServiceManifest
	catalog   *manifest.Catalog
	vault     *secrets.Reader

	presets resolver.Presets
	secrets secrets.Secrets
}

// New discovers every manifest under cfg.ServicesDir. An unreadable
// services directory is fatal; broken manifests are skipped with a warning.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	manifests, err := manifest.Discover(cfg.ServicesDir, log)
	if err != nil {
		return nil, err
	}
	catalog := manifest.NewCatalog(manifests)
	log.Debug("manifests discovered",
		logger.String("dir", cfg.ServicesDir),
		logger.Int("count", len(manifests)),
		logger.Int("catalog_entries", catalog.Len()))

	return &App{
		cfg:       cfg,
		logger:    log,
		manifests: manifests,
		catalog:   catalog,
		vault:     secrets.NewReader(nil),
	}, nil
}

func (a *App) Config() *config.Config { return a.cfg }

func (a *App) Manifests() map[string]*manifest.ServiceManifest { return a.manifests }

func (a *App) Catalog() *manifest.Catalog { return a.catalog }

// Presets loads the preset table on first use. A missing presets file is an
// empty table.
func (a *App) Presets() (resolver.Presets, error) {
	if a.presets != nil {
		return a.presets, nil
	}
	p, err := resolver.LoadPresets(a.cfg.PresetsFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		a.logger.Warn("no presets file, every preset is unknown",
			logger.String("path", a.cfg.PresetsFile))
		p = resolver.Presets{}
	case err != nil:
		return nil, err
	}
	a.presets = p
	return p, nil
}

// Secrets reads the vault on first use. A missing or unreadable vault is
// logged and yields no secrets: widgets needing credentials are omitted and
// access rules get no groups.
func (a *App) Secrets(ctx context.Context) secrets.Secrets {
	if a.secrets != nil {
		return a.secrets
	}
	s, err := a.vault.Read(ctx, a.cfg.VaultFile)
	if err != nil {
		a.logger.Warn("vault unavailable, continuing without secrets",
			logger.String("path", a.cfg.VaultFile),
			logger.Error(err))
		s = secrets.Secrets{}
	}
	a.secrets = s
	return s
}

// Selection picks the services a command works on.
type Selection struct {
	All      bool
	Preset   string
	Names    []string
	WithDeps bool
}

// Resolve turns a selection into service names. Nothing selected means
// every discovered service.
func (a *App) Resolve(sel Selection) ([]string, error) {
	var names []string
	switch {
	case sel.Preset != "":
		presets, err := a.Presets()
		if err != nil {
			return nil, fmt.Errorf("failed to load presets: %w", err)
		}
		names, err = presets.Resolve(sel.Preset)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			a.logger.Warn("preset is unknown or empty", logger.String("preset", sel.Preset))
		}
	case sel.All || len(sel.Names) == 0:
		names = manifest.Names(a.manifests)
	default:
		names = sel.Names
	}

	for _, n := range names {
		if _, ok := a.manifests[n]; !ok {
			a.logger.Warn("no manifest for service", logger.String("service", n))
		}
	}

	if sel.WithDeps {
		names = resolver.ResolveDependencies(names, a.manifests)
	}
	return names, nil
}

// Domain resolves the base domain: flag, then NEXUS_DOMAIN, then the vault.
func (a *App) Domain(ctx context.Context, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if a.cfg.Domain != "" {
		return a.cfg.Domain, nil
	}
	if d, ok := a.Secrets(ctx).String(secrets.KeyDomain); ok {
		return d, nil
	}
	return "", ErrNoDomain
}

// DataDirectory resolves the data root: flag, NEXUS_DATA_DIRECTORY, the
// vault, then DefaultDataDirectory.
func (a *App) DataDirectory(ctx context.Context, flag string) string {
	switch {
	case flag != "":
		return config.ExpandHome(flag)
	case a.cfg.DataDirectory != "":
		return config.ExpandHome(a.cfg.DataDirectory)
	}
	if d, ok := a.Secrets(ctx).String(secrets.KeyDataDirectory); ok {
		return config.ExpandHome(d)
	}
	return config.ExpandHome(DefaultDataDirectory)
}

package compose

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/manifest"
)

// routerRuleKey matches "<prefix>.http.routers.<router>.rule".
var routerRuleKey = regexp.MustCompile(`^[^.]+\.http\.routers\.([^.]+)\.rule$`)

// RouteFact is one routable container found in a compose file.
type RouteFact struct {
	Name        string
	Container   string
	Router      string
	Rule        string
	Description string
	Icon        string
}

// ExtractRoutes returns one RouteFact per routable container, ordered by
// container name. When a container declares several routers the
// lexicographically first router label is used.
func ExtractRoutes(f *File) []RouteFact {
	if f == nil {
		return nil
	}

	containers := make([]string, 0, len(f.Services))
	for name := range f.Services {
		containers = append(containers, name)
	}
	sort.Strings(containers)

	var facts []RouteFact
	for _, name := range containers {
		key, router, ok := firstRouterRule(f.Services[name].Labels)
		if !ok {
			continue
		}
		facts = append(facts, RouteFact{
			Name:      name,
			Container: name,
			Router:    router,
			Rule:      f.Services[name].Labels[key],
		})
	}
	return facts
}

func firstRouterRule(labels Labels) (key, router string, ok bool) {
	for k := range labels {
		m := routerRuleKey.FindStringSubmatch(k)
		if m == nil {
			continue
		}
		if !ok || k < key {
			key, router, ok = k, m[1], true
		}
	}
	return key, router, ok
}

// Extractor reads compose files from the services tree and decorates the
// facts with catalog metadata.
type Extractor struct {
	servicesDir string
	catalog     *manifest.Catalog
	logger      logger.Logger
}

func NewExtractor(servicesDir string, catalog *manifest.Catalog, log logger.Logger) *Extractor {
	return &Extractor{
		servicesDir: servicesDir,
		catalog:     catalog,
		logger:      log,
	}
}

// Routes returns the route facts of one service directory. A missing or
// unreadable compose file is logged and yields no routes.
func (e *Extractor) Routes(service string) []RouteFact {
	path := filepath.Join(e.servicesDir, service, FileName)

	f, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn("no compose file found",
				logger.String("service", service),
				logger.String("path", path))
		} else {
			e.logger.Warn("failed to read compose file",
				logger.String("service", service),
				logger.Error(err))
		}
		return nil
	}

	facts := ExtractRoutes(f)
	if len(facts) == 0 {
		e.logger.Debug("no routable containers",
			logger.String("service", service))
	}
	for i := range facts {
		facts[i].Description = e.catalog.Description(facts[i].Container)
		facts[i].Icon = e.catalog.Icon(facts[i].Container)
	}
	return facts
}

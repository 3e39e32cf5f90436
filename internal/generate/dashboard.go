package generate

import (
	"sort"
	"strings"

	"github.com/MrSnakeDoc/nexus/internal/compose"
	"github.com/MrSnakeDoc/nexus/internal/homepage"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/manifest"
	"github.com/MrSnakeDoc/nexus/internal/secrets"
	"github.com/MrSnakeDoc/nexus/internal/widget"
)

// DashboardService is the service hosting the dashboard itself. It is never
// listed on its own page.
const DashboardService = "dashboard"

// RouteSource yields the route facts of one service directory.
type RouteSource interface {
	Routes(service string) []compose.RouteFact
}

// Generator builds the derived artifacts for one invocation.
type Generator struct {
	catalog *manifest.Catalog
	routes  RouteSource
	logger  logger.Logger
}

func NewGenerator(catalog *manifest.Catalog, routes RouteSource, log logger.Logger) *Generator {
	return &Generator{
		catalog: catalog,
		routes:  routes,
		logger:  log,
	}
}

type dashboardEntry struct {
	name  string
	props homepage.ServiceProps
}

// Dashboard builds the Homepage services list for the given services.
//
// The output depends only on the set of names, not their order: names are
// deduplicated and sorted first, entries are sorted case-insensitively
// inside each category and categories are sorted.
func (g *Generator) Dashboard(services []string, domain string, s secrets.Secrets) homepage.ServicesConfig {
	byCategory := make(map[string][]dashboardEntry)
	placed := make(map[string]struct{})

	for _, service := range uniqueSorted(services) {
		if service == DashboardService {
			continue
		}

		for _, fact := range g.routes.Routes(service) {
			md, known := g.catalog.Lookup(fact.Container)
			if !known {
				g.logger.Debug("container has no manifest metadata, using defaults",
					logger.String("service", service),
					logger.String("container", fact.Container))
			}
			if md.Exclude {
				g.logger.Debug("container excluded from dashboard",
					logger.String("service", service),
					logger.String("container", fact.Container))
				continue
			}
			if _, dup := placed[fact.Container]; dup {
				g.logger.Warn("container already listed by another service, skipping",
					logger.String("service", service),
					logger.String("container", fact.Container))
				continue
			}
			placed[fact.Container] = struct{}{}

			props := homepage.ServiceProps{
				Href:        g.href(fact, domain),
				Description: fact.Description,
				Icon:        fact.Icon,
			}
			if w, ok := widget.InjectSecrets(g.catalog.Widget(fact.Container), s); ok {
				props.Widget = w
			} else if base := g.catalog.Widget(fact.Container); base != nil && widget.RequiresSecret(widget.Type(base)) {
				g.logger.Debug("widget omitted, credential missing",
					logger.String("container", fact.Container),
					logger.String("type", widget.Type(base)))
			}

			category := g.catalog.Category(fact.Container)
			byCategory[category] = append(byCategory[category], dashboardEntry{name: fact.Container, props: props})
		}
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	out := make(homepage.ServicesConfig, 0, len(categories))
	for _, c := range categories {
		entries := byCategory[c]
		sort.Slice(entries, func(i, j int) bool {
			li, lj := strings.ToLower(entries[i].name), strings.ToLower(entries[j].name)
			if li != lj {
				return li < lj
			}
			return entries[i].name < entries[j].name
		})

		list := make([]map[string]homepage.ServiceProps, 0, len(entries))
		for _, e := range entries {
			list = append(list, map[string]homepage.ServiceProps{e.name: e.props})
		}
		out = append(out, map[string][]map[string]homepage.ServiceProps{c: list})
	}
	return out
}

// href derives the public URL of a routed container. Rules without a Host
// matcher, and malformed ones, fall back to https://<container>.<domain>.
func (g *Generator) href(fact compose.RouteFact, domain string) string {
	host, found, err := compose.ParseHostRule(fact.Rule)
	if err != nil {
		g.logger.Warn("cannot read router rule, using default hostname",
			logger.String("container", fact.Container),
			logger.String("rule", fact.Rule),
			logger.Error(err))
	}
	if !found {
		return "https://" + fact.Container + "." + domain
	}
	return "https://" + compose.SubstituteDomain(host, domain)
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

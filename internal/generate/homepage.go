package generate

import (
	"path/filepath"

	"github.com/MrSnakeDoc/nexus/internal/homepage"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/secrets"
)

// Homepage configuration file names.
const (
	ServicesFile  = "services.yaml"
	SettingsFile  = "settings.yaml"
	BookmarksFile = "bookmarks.yaml"
	WidgetsFile   = "widgets.yaml"
)

// HomepageRequest gathers the inputs of a full dashboard generation.
type HomepageRequest struct {
	Dir      string // homepage config directory
	Services []string
	Domain   string
	Secrets  secrets.Secrets
	Weather  WeatherOptions
}

// Homepage writes the four Homepage files and returns the services list.
// The first failed write stops the run.
func (g *Generator) Homepage(w *Writer, req HomepageRequest) (homepage.ServicesConfig, error) {
	services := g.Dashboard(req.Services, req.Domain, req.Secrets)

	files := []struct {
		name string
		doc  any
	}{
		{ServicesFile, services},
		{SettingsFile, Settings()},
		{BookmarksFile, Bookmarks()},
		{WidgetsFile, Widgets(req.Weather)},
	}
	for _, f := range files {
		if err := w.WriteYAML(filepath.Join(req.Dir, f.name), f.doc); err != nil {
			return nil, err
		}
	}
	g.logger.Info("homepage configuration generated",
		logger.String("dir", req.Dir),
		logger.Int("categories", len(services)),
		logger.Bool("dry_run", w.DryRun()))
	return services, nil
}

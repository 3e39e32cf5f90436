package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/MrSnakeDoc/nexus/internal/logger"
)

// Discover loads every manifest found one level below root.
//
// Directories without a service.yml are not services and are skipped
// silently. Invalid manifests are logged and skipped. Directories are
// visited in lexical order, so when two manifests declare the same name the
// one in the lexicographically first directory is kept.
//
// Only a failure to read root itself is returned as an error.
func Discover(root string, log logger.Logger) (map[string]*ServiceManifest, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read services directory: %w", err)
	}

	manifests := make(map[string]*ServiceManifest, len(entries))
	for _, entry := range entries {
		dir := filepath.Join(root, entry.Name())
		if !isDir(dir) {
			continue
		}

		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn("cannot stat manifest, skipping",
					logger.String("path", path),
					logger.Error(err))
			}
			continue
		}

		m, err := Load(path)
		if err != nil {
			log.Warn("skipping invalid manifest",
				logger.String("path", path),
				logger.Error(err))
			continue
		}

		if existing, dup := manifests[m.Name]; dup {
			log.Warn("duplicate service name, keeping first directory",
				logger.String("service", m.Name),
				logger.String("kept", existing.Dir),
				logger.String("ignored", m.Dir))
			continue
		}
		manifests[m.Name] = m
	}

	log.Debug("discovered service manifests",
		logger.String("root", root),
		logger.Int("count", len(manifests)))

	return manifests, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Names returns the manifest names sorted lexicographically.
func Names(manifests map[string]*ServiceManifest) []string {
	names := make([]string, 0, len(manifests))
	for name := range manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByCategory groups manifests by raw category, each group sorted by name.
func ByCategory(manifests map[string]*ServiceManifest) map[string][]*ServiceManifest {
	out := make(map[string][]*ServiceManifest)
	for _, name := range Names(manifests) {
		m := manifests[name]
		out[m.Category] = append(out[m.Category], m)
	}
	return out
}

// Public returns the sorted names of services flagged public.
func Public(manifests map[string]*ServiceManifest) []string {
	var names []string
	for _, name := range Names(manifests) {
		if manifests[name].IsPublic {
			names = append(names, name)
		}
	}
	return names
}

package resolver

import (
	"sort"

	"github.com/MrSnakeDoc/nexus/internal/manifest"
)

// ResolveDependencies closes requested over manifest dependencies, breadth
// first. Names without a manifest are kept but not expanded. The result is
// sorted and deduplicated, so resolving it again returns the same list.
func ResolveDependencies(requested []string, all map[string]*manifest.ServiceManifest) []string {
	seen := make(map[string]struct{}, len(requested))
	queue := append([]string(nil), requested...)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		if _, done := seen[name]; done {
			continue
		}
		seen[name] = struct{}{}

		if m, ok := all[name]; ok {
			queue = append(queue, m.Dependencies...)
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

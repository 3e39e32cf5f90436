package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/nexus/internal/manifest"
)

func testManifests() map[string]*manifest.ServiceManifest {
	return map[string]*manifest.ServiceManifest{
		"traefik":     {Name: "traefik"},
		"authelia":    {Name: "authelia", Dependencies: []string{"traefik", "redis"}},
		"immich":      {Name: "immich", Dependencies: []string{"authelia", "postgres"}},
		"postgres":    {Name: "postgres"},
		"vaultwarden": {Name: "vaultwarden", Dependencies: []string{"traefik"}},
		// a <-> b dependency loops must not hang the walk
		"a": {Name: "a", Dependencies: []string{"b"}},
		"b": {Name: "b", Dependencies: []string{"a"}},
	}
}

func TestResolveDependencies(t *testing.T) {
	all := testManifests()

	tests := []struct {
		name      string
		requested []string
		expected  []string
	}{
		{
			name:      "transitive closure sorted",
			requested: []string{"immich"},
			expected:  []string{"authelia", "immich", "postgres", "redis", "traefik"},
		},
		{
			name:      "unknown names pass through",
			requested: []string{"ghost", "vaultwarden"},
			expected:  []string{"ghost", "traefik", "vaultwarden"},
		},
		{
			name:      "duplicates collapse",
			requested: []string{"traefik", "traefik", "vaultwarden"},
			expected:  []string{"traefik", "vaultwarden"},
		},
		{
			name:      "dependency loop terminates",
			requested: []string{"a"},
			expected:  []string{"a", "b"},
		},
		{
			name:      "empty input",
			requested: nil,
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDependencies(tt.requested, all))
		})
	}
}

func TestResolveDependenciesFixpoint(t *testing.T) {
	all := testManifests()

	inputs := [][]string{
		{"immich"},
		{"vaultwarden", "ghost"},
		{"a", "postgres"},
	}
	for _, in := range inputs {
		once := ResolveDependencies(in, all)
		twice := ResolveDependencies(once, all)
		assert.Equal(t, once, twice)
	}
}

func TestResolveDependenciesOrderInsensitive(t *testing.T) {
	all := testManifests()

	assert.Equal(t,
		ResolveDependencies([]string{"immich", "vaultwarden"}, all),
		ResolveDependencies([]string{"vaultwarden", "immich"}, all),
	)
}

package generate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/manifest"
)

func accessManifests() map[string]*manifest.ServiceManifest {
	return map[string]*manifest.ServiceManifest{
		"jellyfin": {
			Name:         "jellyfin",
			Description:  "Media server",
			Subdomains:   []string{"watch", "jellyfin"},
			AccessGroups: []string{"family", "admins"},
		},
		"vaultwarden": {
			Name:         "vaultwarden",
			Description:  "Passwords",
			IsPublic:     true,
			AccessGroups: []string{"admins"},
		},
		"postgres": {
			Name:         "postgres",
			AccessGroups: []string{"admins"},
		},
		"homepage": {
			Name:       "homepage",
			Subdomains: []string{"nexus"},
		},
	}
}

func TestBuildAccessRules(t *testing.T) {
	groups := map[string][]string{"admins": {"me@example.com"}}

	tests := []struct {
		name     string
		services []string
		want     map[string]AccessRule
	}{
		{
			name: "all services",
			want: map[string]AccessRule{
				"watch":       {Groups: []string{"family", "admins"}, Description: "Media server"},
				"jellyfin":    {Groups: []string{"family", "admins"}, Description: "Media server"},
				"vaultwarden": {Groups: []string{"admins"}, Description: "Passwords"},
			},
		},
		{
			name:     "selection",
			services: []string{"vaultwarden", "ghost"},
			want: map[string]AccessRule{
				"vaultwarden": {Groups: []string{"admins"}, Description: "Passwords"},
			},
		},
		{
			name:     "service without access groups",
			services: []string{"homepage"},
			want:     map[string]AccessRule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildAccessRules(accessManifests(), tt.services, groups)
			assert.Equal(t, PolicyDeny, got.Default)
			assert.Equal(t, groups, got.Groups)
			assert.Equal(t, tt.want, got.Services)
		})
	}
}

func TestBuildAccessRulesSharedSubdomain(t *testing.T) {
	all := map[string]*manifest.ServiceManifest{
		"a": {Name: "a", Subdomains: []string{"shared"}, AccessGroups: []string{"one"}},
		"b": {Name: "b", Subdomains: []string{"shared"}, AccessGroups: []string{"two"}},
	}

	for range 5 {
		got := BuildAccessRules(all, []string{"b", "a"}, nil)
		assert.Equal(t, []string{"two"}, got.Services["shared"].Groups)
		assert.NotNil(t, got.Groups)
	}
}

func TestAccessRulesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access-rules.yml")
	rules := BuildAccessRules(accessManifests(), nil, map[string][]string{"admins": {"me@example.com"}})

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w := NewWriter(false, logger.NewNop())
	require.NoError(t, w.WriteYAMLWithHeader(path, AccessRulesHeader(now), rules))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Tailscale Access Rules"))
	assert.Contains(t, string(data), "# Generated: 2026-03-01T12:00:00Z")

	loaded, err := LoadAccessRules(path)
	require.NoError(t, err)
	assert.Equal(t, rules, loaded)
}

func TestLoadAccessRules(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantDefault string
		wantErr     bool
	}{
		{name: "missing default is deny", content: "services: {}\n", wantDefault: PolicyDeny},
		{name: "explicit allow", content: "default: allow\n", wantDefault: PolicyAllow},
		{name: "invalid policy", content: "default: maybe\n", wantErr: true},
		{name: "invalid yaml", content: "default: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := LoadAccessRules(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDefault, got.Default)
			assert.NotNil(t, got.Services)
			assert.NotNil(t, got.Groups)
		})
	}

	_, err := LoadAccessRules(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

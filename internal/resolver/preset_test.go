package resolver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetsYAML = `
core: [traefik, tailscale-access, dashboard]
media:
  extends: core
  services: [jellyfin, sonarr]
home:
  extends: core
  services: [c]
full: [media, home, vaultwarden]
empty:
`

func mustParse(t *testing.T, data string) Presets {
	t.Helper()
	p, err := ParsePresets([]byte(data))
	require.NoError(t, err)
	return p
}

func TestParsePresetsBothEncodings(t *testing.T) {
	p := mustParse(t, presetsYAML)

	assert.Equal(t, Preset{Services: []string{"traefik", "tailscale-access", "dashboard"}}, p["core"])
	assert.Equal(t, Preset{Extends: "core", Services: []string{"jellyfin", "sonarr"}}, p["media"])
	assert.Equal(t, Preset{}, p["empty"])
	assert.Equal(t, []string{"core", "empty", "full", "home", "media"}, p.Names())
}

func TestParsePresetsRejectsScalar(t *testing.T) {
	_, err := ParsePresets([]byte("core: traefik\n"))
	require.Error(t, err)
}

func TestResolveExtends(t *testing.T) {
	p := mustParse(t, `
core: [a, b]
home:
  extends: core
  services: [c]
`)

	got, err := p.Resolve("home")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestResolveContainsParent(t *testing.T) {
	p := mustParse(t, presetsYAML)

	core, err := p.Resolve("core")
	require.NoError(t, err)
	media, err := p.Resolve("media")
	require.NoError(t, err)

	assert.Subset(t, media, core)
}

func TestResolveNestedPresetMembers(t *testing.T) {
	p := mustParse(t, presetsYAML)

	got, err := p.Resolve("full")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "dashboard", "jellyfin", "sonarr", "tailscale-access", "traefik", "vaultwarden"}, got)
}

func TestResolveUnknownPresetIsEmpty(t *testing.T) {
	p := mustParse(t, presetsYAML)

	got, err := p.Resolve("missing")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestResolveUnknownParentContributesNothing(t *testing.T) {
	p := mustParse(t, "x:\n  extends: ghost\n  services: [a]\n")

	got, err := p.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}

func TestResolveDiamondIsNotACycle(t *testing.T) {
	p := mustParse(t, `
base: [a]
left: [base, l]
right: [base, r]
top: [left, right]
`)

	got, err := p.Resolve("top")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "l", "r"}, got)
}

func TestResolveCycles(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		preset   string
		wantPath []string
	}{
		{
			name:     "self extends",
			yaml:     "loop:\n  extends: loop\n  services: [a]\n",
			preset:   "loop",
			wantPath: []string{"loop", "loop"},
		},
		{
			name:     "two presets extending each other",
			yaml:     "a:\n  extends: b\n  services: [x]\nb:\n  extends: a\n  services: [y]\n",
			preset:   "a",
			wantPath: []string{"a", "b", "a"},
		},
		{
			name:     "cycle through list members",
			yaml:     "a: [b]\nb: [c]\nc: [a, z]\n",
			preset:   "a",
			wantPath: []string{"a", "b", "c", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParse(t, tt.yaml)

			_, err := p.Resolve(tt.preset)

			var cerr *PresetCycleError
			require.True(t, errors.As(err, &cerr), "want *PresetCycleError, got %v", err)
			assert.Equal(t, tt.wantPath, cerr.Path)
		})
	}
}

func TestLoadPresetsMissingFile(t *testing.T) {
	_, err := LoadPresets(filepath.Join(t.TempDir(), "presets.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadPresetsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yml")
	require.NoError(t, os.WriteFile(path, []byte(presetsYAML), 0o644))

	p, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Len(t, p, 5)
}

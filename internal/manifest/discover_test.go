package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/nexus/internal/logger"
)

func TestDiscoverSkipsMissingAndInvalid(t *testing.T) {
	root := t.TempDir()

	writeManifest(t, filepath.Join(root, "traefik"), "name: traefik\ncategory: core\n")
	writeManifest(t, filepath.Join(root, "jellyfin"), "name: jellyfin\ncategory: media\n")
	writeManifest(t, filepath.Join(root, "broken"), "name: [oops\n")
	writeManifest(t, filepath.Join(root, "nameless"), "category: media\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "scratch"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# services"), 0o644))

	got, err := Discover(root, logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"jellyfin", "traefik"}, Names(got))
}

func TestDiscoverDuplicateNamesKeepFirstDirectory(t *testing.T) {
	root := t.TempDir()

	writeManifest(t, filepath.Join(root, "b-copy"), "name: vault\ndescription: second\n")
	writeManifest(t, filepath.Join(root, "a-orig"), "name: vault\ndescription: first\n")

	for i := 0; i < 3; i++ {
		got, err := Discover(root, logger.NewNop())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "first", got["vault"].Description)
		assert.Equal(t, filepath.Join(root, "a-orig"), got["vault"].Dir)
	}
}

func TestDiscoverUnreadableRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), logger.NewNop())
	require.Error(t, err)
}

func TestByCategoryAndPublic(t *testing.T) {
	manifests := map[string]*ServiceManifest{
		"sonarr":   {Name: "sonarr", Category: "media"},
		"jellyfin": {Name: "jellyfin", Category: "media", IsPublic: true},
		"traefik":  {Name: "traefik", Category: "core"},
	}

	grouped := ByCategory(manifests)
	require.Len(t, grouped["media"], 2)
	assert.Equal(t, "jellyfin", grouped["media"][0].Name)
	assert.Equal(t, "sonarr", grouped["media"][1].Name)
	assert.Len(t, grouped["core"], 1)

	assert.Equal(t, []string{"jellyfin"}, Public(manifests))
}

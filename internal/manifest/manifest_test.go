package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullManifest(t *testing.T) {
	path := writeManifest(t, filepath.Join(t.TempDir(), "grafana"), `
name: grafana
description: Metrics dashboards
category: core
subdomains: [grafana, metrics]
access:
  groups: [admins]
  public: false
dependencies: [prometheus]
icon: si-grafana
display_name: Grafana
dashboard:
  exclude: false
  widget:
    type: grafana
    url: http://grafana:3000
`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "grafana", m.Name)
	assert.Equal(t, "Metrics dashboards", m.Description)
	assert.Equal(t, "core", m.Category)
	assert.Equal(t, []string{"grafana", "metrics"}, m.Subdomains)
	assert.Equal(t, []string{"admins"}, m.AccessGroups)
	assert.False(t, m.IsPublic)
	assert.Equal(t, []string{"prometheus"}, m.Dependencies)
	assert.Equal(t, "si-grafana", m.Icon)
	assert.Equal(t, "Grafana", m.DisplayName)
	assert.Equal(t, "grafana", m.Widget["type"])
	assert.Equal(t, filepath.Dir(path), m.Dir)
	assert.True(t, m.HasWebAccess())
}

func TestParseDefaults(t *testing.T) {
	m, err := Parse([]byte("name: backup\n"))
	require.NoError(t, err)

	assert.Equal(t, "", m.Description)
	assert.Equal(t, DefaultCategory, m.Category)
	assert.Equal(t, DefaultIcon, m.Icon)
	assert.Equal(t, "backup", m.DisplayName)
	assert.Empty(t, m.Subdomains)
	assert.Empty(t, m.AccessGroups)
	assert.False(t, m.IsPublic)
	assert.False(t, m.DashboardExclude)
	assert.False(t, m.HasWebAccess())
}

func TestParseSubdomainForms(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected []string
	}{
		{
			name:     "singular normalizes to one element",
			yaml:     "name: a\nsubdomain: app\n",
			expected: []string{"app"},
		},
		{
			name:     "plural list",
			yaml:     "name: a\nsubdomains: [x, y]\n",
			expected: []string{"x", "y"},
		},
		{
			name:     "plural wins over singular",
			yaml:     "name: a\nsubdomain: app\nsubdomains: [x]\n",
			expected: []string{"x"},
		},
		{
			name:     "null singular yields none",
			yaml:     "name: a\nsubdomain: null\n",
			expected: nil,
		},
		{
			name:     "empty plural wins over singular",
			yaml:     "name: a\nsubdomain: app\nsubdomains: []\n",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m.Subdomains)
		})
	}
}

func TestParsePublicWithoutSubdomainsHasWebAccess(t *testing.T) {
	m, err := Parse([]byte("name: blog\naccess:\n  public: true\n"))
	require.NoError(t, err)
	assert.True(t, m.IsPublic)
	assert.True(t, m.HasWebAccess())
}

func TestParseSubServices(t *testing.T) {
	m, err := Parse([]byte(`
name: monitoring
sub_services:
  grafana:
    icon: si-grafana
    widget:
      type: grafana
  prometheus:
    description: Metrics database
    exclude: true
`))
	require.NoError(t, err)
	require.Len(t, m.SubServices, 2)

	g := m.SubServices["grafana"]
	require.NotNil(t, g.Icon)
	assert.Equal(t, "si-grafana", *g.Icon)
	assert.Nil(t, g.Description)
	assert.Equal(t, "grafana", g.Widget["type"])

	p := m.SubServices["prometheus"]
	assert.True(t, p.Exclude)
	require.NotNil(t, p.Description)
	assert.Equal(t, "Metrics database", *p.Description)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		content     string
		missingName bool
	}{
		{name: "missing name", content: "description: nameless\n", missingName: true},
		{name: "empty file", content: "", missingName: true},
		{name: "unparseable yaml", content: "name: [unterminated\n"},
		{name: "not a mapping", content: "- a\n- b\n"},
		{name: "empty dependency entry", content: "name: a\ndependencies: [\"\"]\n"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, filepath.Join(dir, string(rune('a'+i))), tt.content)

			_, err := Load(path)
			require.Error(t, err)

			var merr *ManifestError
			require.True(t, errors.As(err, &merr), "want *ManifestError, got %T", err)
			assert.Equal(t, path, merr.Path)
			assert.Equal(t, tt.missingName, errors.Is(err, ErrMissingName))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope", FileName))

	var merr *ManifestError
	require.ErrorAs(t, err, &merr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePreviewValues_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	err := SavePreviewValues(configPath, map[string]string{"first_name": "Ada", "company": "Engines"})
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "preview:")
	assert.Contains(t, content, "first_name: Ada")
	// Keys are written sorted.
	assert.Less(t, strings.Index(content, "company"), strings.Index(content, "first_name"))
}

func TestSavePreviewValues_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# my settings
editor:
  width: 60 # narrow terminal
preview:
  values:
    old: value
ui:
  markdown_style: light
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o644))

	require.NoError(t, SavePreviewValues(configPath, map[string]string{"first_name": "Grace"}))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# my settings")
	assert.Contains(t, content, "# narrow terminal")
	assert.Contains(t, content, "markdown_style: light")
	assert.Contains(t, content, "first_name: Grace")
	assert.NotContains(t, content, "old: value")
}

func TestSavePreviewValues_Roundtrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SavePreviewValues(configPath, map[string]string{"first_name": "Ada"}))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	cfg := loadConfigFromYAML(t, string(data))
	require.Equal(t, map[string]string{"first_name": "Ada"}, cfg.Preview.Values)
}

func TestSaveThemePreset(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	initial := "theme:\n  colors:\n    chip.bg: \"#000000\"\n"
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o644))

	require.NoError(t, SaveThemePreset(configPath, "high-contrast"))
	require.NoError(t, SaveThemePreset(configPath, "catppuccin-mocha"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	cfg := loadConfigFromYAML(t, string(data))
	require.Equal(t, "catppuccin-mocha", cfg.Theme.Preset)
	require.Equal(t, "#000000", cfg.Theme.FlattenedColors()["chip.bg"])
	require.Equal(t, 1, strings.Count(string(data), "preset:"))
}

func TestSaveCatalogPath_ReplacesScalarSection(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	// A scalar where a mapping belongs is replaced rather than rejected.
	require.NoError(t, os.WriteFile(configPath, []byte("catalog: builtin\n"), 0o644))

	require.NoError(t, SaveCatalogPath(configPath, "/tmp/placeholders.yaml"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "path: /tmp/placeholders.yaml")
	assert.NotContains(t, string(data), "builtin")
}

func TestSave_RejectsNonMappingDocument(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("- a\n- b\n"), 0o644))

	err := SaveThemePreset(configPath, "default")
	require.ErrorContains(t, err, "not a mapping")
}

func TestSave_AtomicWrite(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	require.NoError(t, SaveThemePreset(configPath, "default"))
	require.NoError(t, SaveThemePreset(configPath, "high-contrast"))

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file left behind")
	require.Equal(t, "config.yaml", entries[0].Name())
}

func TestSave_CreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "subdir", "nested", "config.yaml")
	require.NoError(t, SaveThemePreset(configPath, "default"))

	_, err := os.Stat(configPath)
	require.NoError(t, err)
}

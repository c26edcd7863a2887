// Package config provides configuration types, defaults, and persistence for mergefield.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/zjrosen/mergefield/internal/log"
	"github.com/zjrosen/mergefield/internal/tracing"
	"github.com/zjrosen/mergefield/internal/ui/styles"
)

// Config holds all mergefield configuration.
type Config struct {
	Catalog CatalogConfig  `mapstructure:"catalog"`
	Editor  EditorConfig   `mapstructure:"editor"`
	Drafts  DraftsConfig   `mapstructure:"drafts"`
	UI      UIConfig       `mapstructure:"ui"`
	Theme   ThemeConfig    `mapstructure:"theme"`
	Tracing tracing.Config `mapstructure:"tracing"`
	Preview PreviewConfig  `mapstructure:"preview"`
}

// CatalogConfig selects the placeholder catalog.
type CatalogConfig struct {
	// Path is a YAML catalog file. Empty uses the built-in catalog.
	Path string `mapstructure:"path"`

	// Mode filters the catalog, e.g. "subject".
	Mode string `mapstructure:"mode"`

	// Watch reloads the catalog when the file changes.
	Watch bool `mapstructure:"watch"`
}

// EditorConfig holds editor behavior settings.
type EditorConfig struct {
	Width        int  `mapstructure:"width"`
	Height       int  `mapstructure:"height"`
	MaxItems     int  `mapstructure:"max_items"`     // popup rows
	HistoryLimit int  `mapstructure:"history_limit"` // undo entries
	SingleLine   bool `mapstructure:"single_line"`
}

// DraftsConfig locates the draft store.
type DraftsConfig struct {
	// Path is the sqlite database file.
	// Default: ~/.config/mergefield/drafts.db
	Path string `mapstructure:"path"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // auto, dark, light or notty
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
}

// PreviewConfig holds sample values used when previewing a template.
type PreviewConfig struct {
	Values map[string]string `mapstructure:"values"`
}

// ThemeConfig holds theme customization.
type ThemeConfig struct {
	// Preset is a built-in theme name.
	Preset string `mapstructure:"preset"`

	// Colors overrides individual color tokens. Values may be nested maps
	// when the YAML was read with the default key delimiter.
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns Colors with nested maps joined into dotted tokens,
// so both `text.primary: "#fff"` and `text: {primary: "#fff"}` work.
func (t ThemeConfig) FlattenedColors() map[string]string {
	if len(t.Colors) == 0 {
		return nil
	}
	out := make(map[string]string)
	flattenColors("", t.Colors, out)
	return out
}

func flattenColors(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flattenColors(key, val, out)
		case map[any]any:
			nested := make(map[string]any, len(val))
			for nk, nv := range val {
				nested[fmt.Sprint(nk)] = nv
			}
			flattenColors(key, nested, out)
		}
	}
}

// StylesConfig converts the theme section for styles.ApplyTheme.
func (t ThemeConfig) StylesConfig() styles.ThemeConfig {
	return styles.ThemeConfig{
		Preset: t.Preset,
		Colors: t.FlattenedColors(),
	}
}

// DefaultConfigDir returns ~/.config/mergefield or empty if the home
// directory is unavailable.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mergefield")
}

// DefaultDraftsPath returns the default draft database path.
func DefaultDraftsPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "drafts.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		Editor: EditorConfig{
			Width:        80,
			Height:       10,
			MaxItems:     6,
			HistoryLimit: 500,
		},
		Drafts: DraftsConfig{
			Path: DefaultDraftsPath(),
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
			ShowStatusBar: true,
		},
		Tracing: tr,
	}
}

// SetDefaults registers Defaults on v so unset keys fall back to them.
// v must use the "::" key delimiter so dotted color tokens stay flat.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("editor::width", d.Editor.Width)
	v.SetDefault("editor::height", d.Editor.Height)
	v.SetDefault("editor::max_items", d.Editor.MaxItems)
	v.SetDefault("editor::history_limit", d.Editor.HistoryLimit)
	v.SetDefault("drafts::path", d.Drafts.Path)
	v.SetDefault("ui::markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui::show_status_bar", d.UI.ShowStatusBar)
	v.SetDefault("tracing::enabled", d.Tracing.Enabled)
	v.SetDefault("tracing::exporter", d.Tracing.Exporter)
	v.SetDefault("tracing::file_path", d.Tracing.FilePath)
	v.SetDefault("tracing::otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing::sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing::service_name", d.Tracing.ServiceName)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := ValidateCatalog(c.Catalog); err != nil {
		return err
	}
	if err := ValidateEditor(c.Editor); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateCatalog checks that a configured catalog file exists.
func ValidateCatalog(cat CatalogConfig) error {
	if cat.Path == "" {
		if cat.Watch {
			return fmt.Errorf("catalog.watch requires catalog.path")
		}
		return nil
	}
	info, err := os.Stat(cat.Path)
	if err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("catalog.path %q is a directory", cat.Path)
	}
	return nil
}

// ValidateEditor checks editor dimensions and limits.
func ValidateEditor(ed EditorConfig) error {
	if ed.Width < 0 {
		return fmt.Errorf("editor.width must not be negative, got %d", ed.Width)
	}
	if ed.Height < 0 {
		return fmt.Errorf("editor.height must not be negative, got %d", ed.Height)
	}
	if ed.MaxItems < 0 {
		return fmt.Errorf("editor.max_items must not be negative, got %d", ed.MaxItems)
	}
	if ed.HistoryLimit < 0 {
		return fmt.Errorf("editor.history_limit must not be negative, got %d", ed.HistoryLimit)
	}
	return nil
}

// ValidateUI checks UI settings.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "auto", "dark", "light", "notty":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"auto\", \"dark\", \"light\", or \"notty\", got %q", ui.MarkdownStyle)
	}
}

// ValidateTheme checks the preset name and color overrides without applying them.
func ValidateTheme(theme ThemeConfig) error {
	if theme.Preset != "" {
		if _, ok := styles.Presets[theme.Preset]; !ok {
			return fmt.Errorf("theme.preset: unknown preset %q", theme.Preset)
		}
	}
	known := make(map[string]bool)
	for _, tok := range styles.AllTokens() {
		known[string(tok)] = true
	}
	for token, color := range theme.FlattenedColors() {
		if !known[token] {
			return fmt.Errorf("theme.colors: unknown color token %q", token)
		}
		if !styles.IsValidHexColor(color) {
			return fmt.Errorf("theme.colors.%s: invalid hex color %q", token, color)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate < 0.0 || tr.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tr.SampleRate)
	}

	if tr.Exporter != "" {
		switch tr.Exporter {
		case tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tr.Exporter)
		}
	}

	if tr.Enabled {
		if tr.Exporter == tracing.ExporterFile && tr.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tr.Exporter == tracing.ExporterOTLP && tr.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Mergefield Configuration

# Placeholder catalog
catalog:
  # path: ./placeholders.yaml   # YAML catalog (default: built-in catalog)
  # mode: subject               # Filter placeholders for a field mode
  # watch: true                 # Reload the catalog when the file changes
  #
  # Catalog file format:
  #   placeholders:
  #     - name: first_name
  #       description: Recipient first name
  #   modes:
  #     subject:
  #       exclude: [unsubscribe_link]

# Editor settings
editor:
  width: 80            # Wrap width in cells
  height: 10           # Visible rows
  max_items: 6         # Rows shown in the placeholder popup
  history_limit: 500   # Undo entries kept per session
  single_line: false   # Ignore line breaks (subject lines)

# Draft storage
# drafts:
#   path: ~/.config/mergefield/drafts.db

# UI settings
ui:
  markdown_style: dark   # Preview style: auto, dark, light or notty
  show_status_bar: true

# Theme configuration
theme:
  # Use a preset (run 'mergefield themes' to see available presets):
  # preset: catppuccin-mocha
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   chip.bg: "#3B4261"
  #   popup.selected.bg: "#7D56F4"

# Sample values for 'mergefield preview'
# preview:
#   values:
#     first_name: Ada
#     company: Analytical Engines

# Distributed tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # none, file, stdout or otlp (default: file)
#   file_path: ~/.config/mergefield/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

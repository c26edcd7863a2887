package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/mergefield/internal/catalog"
	"github.com/zjrosen/mergefield/internal/config"
	"github.com/zjrosen/mergefield/internal/drafts"
	"github.com/zjrosen/mergefield/internal/infrastructure/sqlite"
	"github.com/zjrosen/mergefield/internal/log"
	"github.com/zjrosen/mergefield/internal/tracing"
	"github.com/zjrosen/mergefield/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config directory.
const localConfigPath = ".mergefield/config.yaml"

var version = "dev"

// env is the state shared by every command: flags, loaded config and the
// resources opened for the current run.
type env struct {
	cfgFile string
	debug   bool

	cfg     config.Config
	cfgPath string // file the config was read from, or where it would be written
	tracer  *tracing.Provider

	cleanups []func()
}

func newRootCmd() (*cobra.Command, *env) {
	e := &env{}
	root := &cobra.Command{
		Use:   "mergefield",
		Short: "Edit text with {{placeholder}} merge fields",
		Long: `mergefield edits templated strings where {{name}} placeholders behave as
atomic chips. Type @ in the editor to insert a placeholder from the catalog.

The same engine backs non-interactive commands to parse, lint, preview and
diff templates, and a sqlite store of draft revisions.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return e.setup() },
	}

	root.PersistentFlags().StringVarP(&e.cfgFile, "config", "c", "",
		"config file (default: ~/.config/mergefield/config.yaml)")
	root.PersistentFlags().BoolVarP(&e.debug, "debug", "d", false,
		"write debug logs (also MERGEFIELD_DEBUG=1)")

	root.AddCommand(
		newEditCmd(e),
		newParseCmd(e),
		newLintCmd(e),
		newPreviewCmd(e),
		newDiffCmd(e),
		newDraftsCmd(e),
		newCatalogCmd(e),
		newThemesCmd(e),
		newInitCmd(e),
	)
	return root, e
}

func (e *env) setup() error {
	if e.debug || os.Getenv("MERGEFIELD_DEBUG") != "" {
		logPath := os.Getenv("MERGEFIELD_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		e.cleanups = append(e.cleanups, cleanup)
		if name := os.Getenv("MERGEFIELD_LOG_LEVEL"); name != "" {
			level, err := log.ParseLevel(name)
			if err != nil {
				return err
			}
			log.SetMinLevel(level)
		}
	}

	if err := e.loadConfig(); err != nil {
		return err
	}
	if err := styles.ApplyTheme(e.cfg.Theme.StylesConfig()); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}

	provider, err := tracing.NewProvider(e.cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	e.tracer = provider
	e.cleanups = append(e.cleanups, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "tracing shutdown failed", err)
		}
	})
	return nil
}

// teardown runs cleanups in reverse order.
func (e *env) teardown() {
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		e.cleanups[i]()
	}
	e.cleanups = nil
}

// loadConfig reads the config file in lookup order:
//  1. --config
//  2. .mergefield/config.yaml (current directory)
//  3. ~/.config/mergefield/config.yaml (written with defaults on first run)
func (e *env) loadConfig() error {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	config.SetDefaults(v)

	userPath := ""
	if dir := config.DefaultConfigDir(); dir != "" {
		userPath = filepath.Join(dir, "config.yaml")
	}

	switch {
	case e.cfgFile != "":
		v.SetConfigFile(e.cfgFile)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	case userPath != "":
		v.SetConfigFile(userPath)
		if !fileExists(userPath) {
			if err := config.WriteDefaultConfig(userPath); err != nil {
				// Continue with defaults.
				log.Warn(log.CatConfig, "could not write default config", "path", userPath, "error", err)
			}
		}
	}

	if v.ConfigFileUsed() != "" && (e.cfgFile != "" || fileExists(v.ConfigFileUsed())) {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", v.ConfigFileUsed(), err)
		}
		log.Debug(log.CatConfig, "config loaded", "path", v.ConfigFileUsed())
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.cfgPath = v.ConfigFileUsed()
	if e.cfgPath == "" {
		e.cfgPath = localConfigPath
	}
	return nil
}

// catalog loads the configured catalog file or the built-in one.
func (e *env) catalog() (*catalog.Catalog, error) {
	if e.cfg.Catalog.Path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(e.cfg.Catalog.Path)
}

// mode returns flag when set, else the configured mode.
func (e *env) mode(flag string) string {
	if flag != "" {
		return flag
	}
	return e.cfg.Catalog.Mode
}

// drafts opens the draft store. The caller closes the service.
func (e *env) drafts() (*drafts.Service, error) {
	if e.cfg.Drafts.Path == "" {
		return nil, errors.New("drafts.path is not configured")
	}
	db, err := sqlite.NewDB(e.cfg.Drafts.Path)
	if err != nil {
		return nil, fmt.Errorf("opening drafts: %w", err)
	}
	var opts []drafts.Option
	if e.tracer != nil {
		opts = append(opts, drafts.WithTracer(e.tracer.Tracer()))
	}
	return drafts.NewService(db.DraftRepository(), opts...), nil
}

// readSource returns the template text from args[0], or stdin when it is
// missing or "-". One trailing newline is dropped from stdin.
func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	text := string(data)
	if strings.HasSuffix(text, "\r\n") {
		return strings.TrimSuffix(text, "\r\n"), nil
	}
	return strings.TrimSuffix(text, "\n"), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Execute runs the root command
func Execute() error {
	root, e := newRootCmd()
	defer e.teardown()
	return root.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}

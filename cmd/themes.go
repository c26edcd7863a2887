package cmd

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/mergefield/internal/config"
	"github.com/zjrosen/mergefield/internal/ui/styles"
)

func newThemesCmd(e *env) *cobra.Command {
	var use string
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List theme presets",
		Long: `List the built-in theme presets. The active preset is marked with *.

Examples:
  mergefield themes
  mergefield themes --use catppuccin-mocha`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if use != "" {
				if _, ok := styles.Presets[use]; !ok {
					return fmt.Errorf("unknown preset %q", use)
				}
				if err := config.SaveThemePreset(e.cfgPath, use); err != nil {
					return fmt.Errorf("saving theme: %w", err)
				}
				_, err := fmt.Fprintf(out, "Theme set to %s in %s\n", use, e.cfgPath)
				return err
			}

			active := e.cfg.Theme.Preset
			if active == "" {
				active = styles.DefaultPreset.Name
			}
			names := make([]string, 0, len(styles.Presets))
			for name := range styles.Presets {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				p := styles.Presets[name]
				marker := " "
				if name == active {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out, "%s %-18s %s %s\n", marker, name, swatch(p), p.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&use, "use", "", "set theme.preset in the config file")
	return cmd
}

// swatch renders a preset's chip colors as a sample chip.
func swatch(p styles.Preset) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Colors[styles.TokenChipFg])).
		Background(lipgloss.Color(p.Colors[styles.TokenChipBg])).
		Render(" name ")
}

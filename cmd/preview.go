package cmd

import (
	"fmt"
	"maps"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/mergefield/internal/config"
	"github.com/zjrosen/mergefield/internal/segment"
	"github.com/zjrosen/mergefield/internal/ui/markdown"
)

func newPreviewCmd(e *env) *cobra.Command {
	var (
		sets  []string
		save  bool
		raw   bool
		style string
		width int
	)
	cmd := &cobra.Command{
		Use:   "preview [TEXT|-]",
		Short: "Render a template with sample values",
		Long: `Substitute sample values for placeholders and render the result as markdown.
Values come from preview.values in the config, overridden by --set. A
placeholder without a value is shown as <description>.

Examples:
  mergefield preview 'Hi **{{first_name}}**' --set first_name=Ada
  mergefield preview --set company=Acme --save < body.md
  mergefield preview --raw 'Hi {{first_name}}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			cat, err := e.catalog()
			if err != nil {
				return err
			}

			values := maps.Clone(e.cfg.Preview.Values)
			if values == nil {
				values = make(map[string]string)
			}
			overrides, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			maps.Copy(values, overrides)

			out := cmd.OutOrStdout()
			if raw {
				_, err = fmt.Fprintln(out, segment.Substitute(segment.Parse(text), values, cat.Fallback))
				return err
			}

			if style == "" {
				style = e.cfg.UI.MarkdownStyle
			}
			if width <= 0 {
				width = e.cfg.Editor.Width
			}
			renderer, err := markdown.New(width, style)
			if err != nil {
				return err
			}
			rendered, err := renderer.Preview(text, values, cat.Fallback)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprint(out, rendered); err != nil {
				return err
			}

			if save && len(overrides) > 0 {
				if err := config.SavePreviewValues(e.cfgPath, values); err != nil {
					return fmt.Errorf("saving preview values: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d preview value(s) to %s\n", len(values), e.cfgPath)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "sample value as name=value (repeatable)")
	cmd.Flags().BoolVar(&save, "save", false, "store --set values in the config file")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the substituted text without markdown rendering")
	cmd.Flags().StringVar(&style, "style", "", "markdown style: auto, dark, light or notty")
	cmd.Flags().IntVar(&width, "width", 0, "wrap width (default: editor.width)")
	return cmd
}

// parseAssignments parses name=value pairs. Names must be placeholder
// identifiers.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", pair)
		}
		name = strings.TrimSpace(name)
		if !segment.IsIdentifier(name) {
			return nil, fmt.Errorf("invalid --set %q: %q is not a placeholder name", pair, name)
		}
		out[name] = value
	}
	return out, nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/mergefield/internal/presentation"
	"github.com/zjrosen/mergefield/internal/segment"
)

func newParseCmd(e *env) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "parse [TEXT|-]",
		Short: "Print the segments of a template",
		Long: `Parse a template into literal and placeholder segments. Malformed markers
such as {{first name}} stay literal text. Reads stdin when TEXT is "-" or
missing.

Examples:
  mergefield parse 'Hi {{first_name}},'
  echo 'Hi {{first_name}}' | mergefield parse -o json | jq '.placeholders'`,
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
			formatter, err := presentation.NewFormatter(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			return formatter.FormatParse(presentation.FromSegments(text, segment.Parse(text), cat))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")
	return cmd
}

func newLintCmd(e *env) *cobra.Command {
	var (
		mode   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "lint [TEXT|-]",
		Short: "Report placeholders missing from the catalog",
		Long: `Check every {{name}} in a template against the catalog. Names the catalog
does not define, and names the selected mode excludes, are reported and the
command exits with status 1.

Examples:
  mergefield lint 'Hi {{frist_name}}'
  mergefield lint --mode subject < subject.txt`,
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
			result := presentation.Lint(text, segment.Parse(text), cat, e.mode(mode))

			out := cmd.OutOrStdout()
			if output != "" {
				formatter, err := presentation.NewFormatter(out, output)
				if err != nil {
					return err
				}
				if err := formatter.FormatLint([]presentation.LintDTO{result}); err != nil {
					return err
				}
			} else {
				for _, name := range result.Unknown {
					_, _ = fmt.Fprintf(out, "unknown placeholder: %s\n", name)
				}
				for _, name := range result.Excluded {
					_, _ = fmt.Fprintf(out, "not available in mode %s: %s\n", e.mode(mode), name)
				}
			}

			if !result.OK {
				return fmt.Errorf("%d placeholder problem(s) found", len(result.Unknown)+len(result.Excluded))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "catalog mode, e.g. subject")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: yaml or json (default: text)")
	return cmd
}

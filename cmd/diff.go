package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/mergefield/internal/presentation"
	"github.com/zjrosen/mergefield/internal/revdiff"
)

func newDiffCmd(_ *env) *cobra.Command {
	var (
		output string
		color  bool
	)
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two templates word by word",
		Long: `Diff two templates. Placeholders are compared as whole units, so changing
{{first_name}} to {{last_name}} is one removal and one insertion.

Plain output marks removals as [-text-] and insertions as {+text+}.

Examples:
  mergefield diff 'Hi {{first_name}}' 'Hello {{full_name}}'
  mergefield diff --color "$(cat old.txt)" "$(cat new.txt)"
  mergefield diff -o json 'a' 'b' | jq '.added'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, after := args[0], args[1]
			changes := revdiff.Diff(before, after)
			return writeDiff(cmd, before, after, changes, output, color)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: yaml or json (default: text)")
	cmd.Flags().BoolVar(&color, "color", false, "style changes with theme colors instead of markers")
	return cmd
}

func writeDiff(cmd *cobra.Command, before, after string, changes []revdiff.Change, output string, color bool) error {
	out := cmd.OutOrStdout()
	if output != "" {
		formatter, err := presentation.NewFormatter(out, output)
		if err != nil {
			return err
		}
		return formatter.FormatDiff(presentation.FromDiff(before, after, changes))
	}
	text := revdiff.Unified(changes)
	if color {
		text = revdiff.Render(changes)
	}
	_, err := fmt.Fprintln(out, text)
	return err
}

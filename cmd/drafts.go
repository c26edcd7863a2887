package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/mergefield/internal/drafts"
	"github.com/zjrosen/mergefield/internal/presentation"
)

func newDraftsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect saved drafts and their revisions",
		Long: `Drafts are named templates saved from the editor with ctrl+s. Every save
with a changed value adds a revision.

Revision numbers start at 1. In --rev, --from and --to, 0 means the newest
revision and negative numbers count back from it.`,
	}
	cmd.AddCommand(
		newDraftsListCmd(e),
		newDraftsShowCmd(e),
		newDraftsDiffCmd(e),
		newDraftsDeleteCmd(e),
	)
	return cmd
}

// withDrafts opens the store for the duration of fn.
func withDrafts(e *env, fn func(svc *drafts.Service) error) error {
	svc, err := e.drafts()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()
	return fn(svc)
}

func newDraftsListCmd(e *env) *cobra.Command {
	var (
		mode   string
		limit  int
		output string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts, most recently updated first",
		Long: `List drafts as JSON.

Examples:
  mergefield drafts list
  mergefield drafts list --mode subject --limit 5
  mergefield drafts list | jq '.[].name'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDrafts(e, func(svc *drafts.Service) error {
				list, err := svc.List(cmd.Context(), drafts.ListFilter{Mode: mode, Limit: limit})
				if err != nil {
					return err
				}
				formatter, err := presentation.NewFormatter(cmd.OutOrStdout(), output)
				if err != nil {
					return err
				}
				return formatter.FormatDrafts(presentation.FromDrafts(list))
			})
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "only drafts saved in this mode")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of drafts (0 for all)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func newDraftsShowCmd(e *env) *cobra.Command {
	var (
		rev     int
		history bool
		output  string
	)
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print a draft revision",
		Long: `Print the canonical value of a draft revision, or its whole history.

Examples:
  mergefield drafts show welcome
  mergefield drafts show welcome --rev -1 | mergefield preview
  mergefield drafts show welcome --history -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return withDrafts(e, func(svc *drafts.Service) error {
				out := cmd.OutOrStdout()
				if history {
					revs, err := svc.History(cmd.Context(), name)
					if err != nil {
						return err
					}
					formatter, err := presentation.NewFormatter(out, output)
					if err != nil {
						return err
					}
					return formatter.FormatRevisions(presentation.FromRevisions(revs))
				}

				r, err := svc.Revision(cmd.Context(), name, rev)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, r.Value)
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&rev, "rev", "r", 0, "revision number (0 = newest, -1 = previous)")
	cmd.Flags().BoolVar(&history, "history", false, "list every revision")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "history output format: json or yaml")
	return cmd
}

func newDraftsDiffCmd(e *env) *cobra.Command {
	var (
		from   int
		to     int
		output string
		color  bool
	)
	cmd := &cobra.Command{
		Use:   "diff NAME",
		Short: "Compare two revisions of a draft",
		Long: `Diff two revisions of a draft. By default the previous revision is compared
with the newest.

Examples:
  mergefield drafts diff welcome
  mergefield drafts diff welcome --from 1 --to 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return withDrafts(e, func(svc *drafts.Service) error {
				a, err := svc.Revision(cmd.Context(), name, from)
				if err != nil {
					return err
				}
				b, err := svc.Revision(cmd.Context(), name, to)
				if err != nil {
					return err
				}
				changes, err := svc.Diff(cmd.Context(), name, from, to)
				if err != nil {
					return err
				}
				return writeDiff(cmd, a.Value, b.Value, changes, output, color)
			})
		},
	}
	cmd.Flags().IntVar(&from, "from", -1, "older revision")
	cmd.Flags().IntVar(&to, "to", 0, "newer revision")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: yaml or json (default: text)")
	cmd.Flags().BoolVar(&color, "color", false, "style changes with theme colors instead of markers")
	return cmd
}

func newDraftsDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a draft and all its revisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDrafts(e, func(svc *drafts.Service) error {
				if err := svc.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted draft %s\n", args[0])
				return err
			})
		},
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/zjrosen/mergefield/internal/app"
	"github.com/zjrosen/mergefield/internal/drafts"
	"github.com/zjrosen/mergefield/internal/log"
)

func newEditCmd(e *env) *cobra.Command {
	var (
		draft      string
		value      string
		mode       string
		singleLine bool
		noSave     bool
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a template in the full-screen editor",
		Long: `Open the full-screen editor. Type @ to open the placeholder menu, enter or
tab to insert the selected placeholder, ctrl+s to save a draft revision and
ctrl+o to toggle the preview pane. Without --draft, ctrl+s asks for a draft
name. With --debug, f2 shows the log. The final value is printed on exit.

Examples:
  # Start from an empty template
  mergefield edit

  # Continue the newest revision of a draft
  mergefield edit --draft welcome

  # Edit a subject line
  mergefield edit --draft welcome-subject --mode subject --single-line`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := e.catalog()
			if err != nil {
				return err
			}
			mode = e.mode(mode)

			var svc *drafts.Service
			if !noSave && e.cfg.Drafts.Path != "" {
				svc, err = e.drafts()
				if err != nil {
					return err
				}
				defer func() { _ = svc.Close() }()
			}

			revision := 0
			if svc != nil && draft != "" && !cmd.Flags().Changed("value") {
				d, err := svc.Get(cmd.Context(), draft)
				var notFound *drafts.NotFoundError
				switch {
				case err == nil:
					value = d.Value
					revision = d.Head
					if !cmd.Flags().Changed("mode") && d.Mode != "" {
						mode = d.Mode
					}
				case errors.As(err, &notFound):
					// First save creates it.
				default:
					return err
				}
			}

			editor := e.cfg.Editor
			if singleLine {
				editor.SingleLine = true
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			zone.NewGlobal()
			model := app.New(app.Options{
				Draft:       draft,
				Mode:        mode,
				Value:       value,
				Revision:    revision,
				Catalog:     cat,
				CatalogPath: e.cfg.Catalog.Path,
				Watch:       e.cfg.Catalog.Watch,
				Editor:      editor,
				UI:          e.cfg.UI,
				Preview:     e.cfg.Preview.Values,
				Drafts:      svc,
				Logs:        log.NewListener(ctx),
			})
			p := tea.NewProgram(
				model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
			)

			final, err := p.Run()

			// Clean up watcher resources
			if closeErr := model.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
			if err != nil {
				return fmt.Errorf("running editor: %w", err)
			}
			if m, ok := final.(app.Model); ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), m.Value())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&draft, "draft", "", "draft name to load and save to")
	cmd.Flags().StringVar(&value, "value", "", "initial text (overrides the draft's saved value)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "catalog mode, e.g. subject")
	cmd.Flags().BoolVar(&singleLine, "single-line", false, "ignore line breaks")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not open the draft store")
	return cmd
}

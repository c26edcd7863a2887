package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/mergefield/internal/catalog"
	"github.com/zjrosen/mergefield/internal/config"
	"github.com/zjrosen/mergefield/internal/presentation"
)

func newCatalogCmd(e *env) *cobra.Command {
	var (
		mode   string
		output string
		use    string
		export bool
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the placeholders offered by the catalog",
		Long: `List the placeholders the editor offers after @, filtered by mode.

Without catalog.path in the config the built-in catalog is used. --export
prints the active catalog in its file format, a starting point for a custom
catalog. --use validates a catalog file and stores its path in the config.

Examples:
  mergefield catalog
  mergefield catalog --mode subject -o json | jq '.[].name'
  mergefield catalog --export > placeholders.yaml
  mergefield catalog --use ./placeholders.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if use != "" {
				if _, err := catalog.Load(use); err != nil {
					return err
				}
				abs, err := filepath.Abs(use)
				if err != nil {
					return fmt.Errorf("resolving catalog path: %w", err)
				}
				if err := config.SaveCatalogPath(e.cfgPath, abs); err != nil {
					return fmt.Errorf("saving catalog path: %w", err)
				}
				_, err = fmt.Fprintf(out, "Catalog set to %s in %s\n", abs, e.cfgPath)
				return err
			}

			cat, err := e.catalog()
			if err != nil {
				return err
			}
			if export {
				data, err := cat.Marshal()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			formatter, err := presentation.NewFormatter(out, output)
			if err != nil {
				return err
			}
			return formatter.FormatCatalog(presentation.FromDescriptors(cat.ForMode(e.mode(mode))))
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "catalog mode, e.g. subject")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")
	cmd.Flags().StringVar(&use, "use", "", "set catalog.path in the config file")
	cmd.Flags().BoolVar(&export, "export", false, "print the catalog in its file format")
	cmd.MarkFlagsMutuallyExclusive("use", "export")
	return cmd
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/mergefield/internal/config"
)

func newInitCmd(e *env) *cobra.Command {
	var (
		local bool
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		Long: `Write the default config file with every section documented.

The file goes to --config when given, .mergefield/config.yaml with --local,
and ~/.config/mergefield/config.yaml otherwise. An existing file is kept
unless --force is set.`,
		Args: cobra.NoArgs,
		// Skips config loading so a broken config can be replaced.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := e.cfgFile
			switch {
			case path != "":
			case local:
				path = localConfigPath
			default:
				dir := config.DefaultConfigDir()
				if dir == "" {
					return fmt.Errorf("no home directory; use --config or --local")
				}
				path = filepath.Join(dir, "config.yaml")
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "write .mergefield/config.yaml in the current directory")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

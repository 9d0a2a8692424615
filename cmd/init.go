package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/minnowsh/minnow/core/config"
)

// initCmd writes a starter configuration into the config directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if err := config.Write(afero.NewOsFs(), cfgPath, config.Default()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", filepath.Join(cfgPath, config.ConfigurationName))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

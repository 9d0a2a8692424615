package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minnowsh/minnow/core/interp"
	"github.com/minnowsh/minnow/core/syntax"
)

var commandText string

// runCmd evaluates commands non-interactively and exits with the status of
// the last one.
var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Evaluate commands non-interactively.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var lines []string
		switch {
		case commandText != "":
			lines = strings.Split(commandText, "\n")
		case len(args) == 1:
			contents, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			lines = strings.Split(string(contents), "\n")
		default:
			return errors.New("provide -c or a script file")
		}

		runner := interp.NewOSRunner()
		runner.Log = newLogger(cfg)
		for k, v := range cfg.Env {
			runner.Env.Setenv(k, v)
		}

		status := interp.StatusSuccess
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			tree, err := syntax.Parse(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "minnow: %v\n", err)
				status = interp.StatusFailure
				continue
			}
			if tree == nil {
				continue
			}

			status = runner.Run(tree)
			if interp.Exited(status) {
				status = interp.StatusSuccess
				break
			}
		}

		os.Exit(status)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&commandText, "command", "c", "", "commands to evaluate instead of a script file")
	rootCmd.AddCommand(runCmd)
}

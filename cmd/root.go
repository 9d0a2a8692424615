package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/minnowsh/minnow/core"
	"github.com/minnowsh/minnow/core/config"
	"github.com/minnowsh/minnow/core/interp"
)

var cfgPath string

// loadConfig reads the configuration directory, falling back to defaults
// when no file exists so the shell starts without any setup.
func loadConfig() (*config.Configuration, error) {
	cfg, err := config.Load(afero.NewOsFs(), cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func newLogger(cfg *config.Configuration) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// rootCmd starts an interactive shell when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "minnow",
	Short: "A small command shell",
	Long:  `minnow is a small command shell built around a tree-walking execution engine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		runner := interp.NewOSRunner()
		runner.Log = newLogger(cfg)

		isTerminal := term.IsTerminal(int(os.Stdin.Fd()))
		shell, err := core.NewShell(runner, cfg, os.Stdin, os.Stdout, os.Stderr, isTerminal)
		if err != nil {
			return err
		}

		username := os.Getenv("USER")
		if username == "" {
			username = "minnow"
		}
		hostname, _ := os.Hostname()
		shell.Init(username, hostname)

		status := shell.Run()
		shell.Close()
		os.Exit(status)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}

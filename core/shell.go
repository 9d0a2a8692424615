// Package core wires the execution engine into an interactive shell: a
// readline REPL driving the interpreter, and an SSH server exposing that
// REPL to remote sessions.
package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/pborman/getopt/v2"

	"github.com/minnowsh/minnow/core/config"
	"github.com/minnowsh/minnow/core/interp"
	"github.com/minnowsh/minnow/core/syntax"
)

const (
	EnvHome     = "HOME"
	EnvPWD      = "PWD"
	EnvPath     = "PATH"
	EnvPrompt   = "PS1"
	EnvHostname = "HOSTNAME"
	EnvUser     = "USER"

	defaultPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"
)

// Shell is one interactive session: a line editor feeding parsed command
// trees to a runner until the runner reports the exit sentinel or input
// closes.
type Shell struct {
	Runner   *interp.Runner
	Readline *readline.Instance

	config  *config.Configuration
	colored bool
	history []string
}

// NewShell builds a session on the given streams. isTerminal controls line
// editing and colored diagnostics.
func NewShell(runner *interp.Runner, cfg *config.Configuration, stdin io.ReadCloser, stdout, stderr io.Writer, isTerminal bool) (*Shell, error) {
	rlCfg := &readline.Config{
		Stdin:          readline.NewCancelableStdin(stdin),
		Stdout:         stdout,
		Stderr:         stderr,
		HistoryFile:    cfg.HistoryFile,
		FuncIsTerminal: func() bool { return isTerminal },
	}
	if err := rlCfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}

	return &Shell{
		Runner:   runner,
		Readline: rl,
		config:   cfg,
		colored:  isTerminal,
	}, nil
}

// Init seeds the session environment, similar to login + sourcing an rc
// file. Variables already present are left alone so a local shell inherits
// its parent environment.
func (s *Shell) Init(username, hostname string) {
	env := s.Runner.Env
	for k, v := range s.config.Env {
		env.Setenv(k, v)
	}

	setDefault := func(key, value string) {
		if _, ok := env.LookupEnv(key); !ok {
			env.Setenv(key, value)
		}
	}

	setDefault(EnvUser, username)
	setDefault(EnvHostname, hostname)
	if username == "root" {
		setDefault(EnvHome, "/root")
	} else {
		setDefault(EnvHome, "/home/"+username)
	}
	setDefault(EnvPath, defaultPath)
	setDefault(EnvPrompt, s.config.Prompt)

	if wd, err := s.Runner.Cwd.Getwd(); err == nil {
		env.Setenv(EnvPWD, wd)
	}
}

// Prompt renders the PS1-style template with \u, \h, \w and \$ expanded.
func (s *Shell) Prompt() string {
	prompt := s.Runner.Env.Getenv(EnvPrompt)
	if prompt == "" {
		prompt = config.DefaultPrompt
	}

	user := s.Runner.Env.Getenv(EnvUser)
	prompt = strings.ReplaceAll(prompt, `\u`, user)
	prompt = strings.ReplaceAll(prompt, `\h`, s.Runner.Env.Getenv(EnvHostname))

	pwd, _ := s.Runner.Cwd.Getwd()
	if home := s.Runner.Env.Getenv(EnvHome); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if user == "root" {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run drives the REPL until input closes or the engine reports the exit
// sentinel. It returns the status of the last evaluated command; the exit
// and quit builtins report success.
func (s *Shell) Run() int {
	last := interp.StatusSuccess
	for {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return last

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			s.Runner.Log.Error().Err(err).Msg("readline")
			return last
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.history = append(s.history, line)

		// history is a convenience of the line editor, not of the engine.
		if fields := strings.Fields(line); fields[0] == "history" {
			s.runHistory(fields)
			continue
		}

		tree, err := syntax.Parse(line)
		if err != nil {
			s.reportf("minnow: %v\n", err)
			last = interp.StatusFailure
			continue
		}
		if tree == nil {
			continue
		}

		last = s.Runner.Run(tree)
		if interp.Exited(last) {
			return interp.StatusSuccess
		}
	}
}

func (s *Shell) reportf(format string, args ...interface{}) {
	if s.colored {
		color.New(color.FgRed).Fprintf(s.Runner.Stdio.Err, format, args...)
		return
	}
	fmt.Fprintf(s.Runner.Stdio.Err, format, args...)
}

func (s *Shell) runHistory(args []string) {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.Runner.Stdio.Err
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "Display or manipulate the history list.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return
	}

	if *clear {
		s.Readline.Operation.ResetHistory()
		s.history = nil
		return
	}

	for i, line := range s.history {
		fmt.Fprintf(s.Runner.Stdio.Out, "% 5d  %s\n", i, line)
	}
}

// Close releases the line editor.
func (s *Shell) Close() error {
	return s.Readline.Close()
}

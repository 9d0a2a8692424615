package vos

import (
	"errors"
	"fmt"
	"os/exec"
)

// Spawn describes one external program invocation.
type Spawn struct {
	// Path is the program to run, as resolved by the caller.
	Path string
	// Args holds the argument list including the program name as Args[0].
	Args []string
	// Dir is the working directory for the program.
	Dir string
	// Env is the program's environment as "key=value" strings.
	Env []string
	// Stdio carries the program's standard streams, redirections already
	// applied.
	Stdio Stdio
}

// Launcher starts external programs and collects their exit statuses. The
// interpreter and its tests depend on this interface rather than on real
// process creation.
type Launcher interface {
	// Run starts the program and blocks until it terminates. It returns the
	// program's exit status on a normal exit. A non-nil error means the
	// program could not be started or ended abnormally; the status is then
	// meaningless.
	Run(spawn Spawn) (int, error)
}

// ExecLauncher runs programs as real operating-system processes.
type ExecLauncher struct{}

var _ Launcher = (*ExecLauncher)(nil)

func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{}
}

// Run implements Launcher.Run on top of os/exec.
func (*ExecLauncher) Run(spawn Spawn) (int, error) {
	cmd := exec.Command(spawn.Path)
	cmd.Args = spawn.Args
	cmd.Dir = spawn.Dir
	cmd.Env = spawn.Env
	cmd.Stdin = spawn.Stdio.In
	cmd.Stdout = spawn.Stdio.Out
	cmd.Stderr = spawn.Stdio.Err

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// Signaled or stopped, no exit code to surface.
		return 0, fmt.Errorf("%s: %w", spawn.Path, err)
	}
	if err != nil {
		return 0, err
	}
	return 0, nil
}

// ProcessFunc is a program implemented in Go, run in place of a real
// executable by tests and embedders.
type ProcessFunc func(p *Proc) int

// Proc is the view of the world a ProcessFunc gets.
type Proc struct {
	Args  []string
	Dir   string
	Env   *MapEnv
	Stdio Stdio
}

// FuncLauncher resolves program paths to ProcessFuncs instead of spawning
// operating-system processes.
type FuncLauncher struct {
	Programs map[string]ProcessFunc
}

var _ Launcher = (*FuncLauncher)(nil)

func NewFuncLauncher() *FuncLauncher {
	return &FuncLauncher{Programs: make(map[string]ProcessFunc)}
}

// Register installs a program under the given path.
func (l *FuncLauncher) Register(path string, fn ProcessFunc) {
	l.Programs[path] = fn
}

// Run implements Launcher.Run.
func (l *FuncLauncher) Run(spawn Spawn) (int, error) {
	fn, ok := l.Programs[spawn.Path]
	if !ok {
		return 0, fmt.Errorf("%s: %w", spawn.Path, ErrNotFound)
	}
	return fn(&Proc{
		Args:  spawn.Args,
		Dir:   spawn.Dir,
		Env:   NewMapEnvFromList(spawn.Env),
		Stdio: spawn.Stdio,
	}), nil
}

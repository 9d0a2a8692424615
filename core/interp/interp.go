// Package interp evaluates parsed operator trees, reducing each tree to a
// single integer status while producing the corresponding side effects:
// builtins run in-process, external programs are spawned through a
// vos.Launcher, and pipe/parallel branches run concurrently.
package interp

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/minnowsh/minnow/core/syntax"
	"github.com/minnowsh/minnow/core/vos"
)

// Evaluation statuses. Zero is success, nonzero is failure. StatusExit is
// the sentinel telling the caller to stop the whole engine; it is produced
// by the exit and quit builtins and by malformed operator tags, and it
// propagates out of every operator immediately.
const (
	StatusSuccess = 0
	StatusFailure = 1
	StatusExit    = -100
)

// Exited reports whether a status is the engine-termination sentinel.
func Exited(status int) bool {
	return status == StatusExit
}

// Runner evaluates operator trees. The zero value is not usable; construct
// one with NewOSRunner or fill in every field.
//
// A Runner is single-threaded: its recursion is synchronous and the only
// concurrency it creates is for the branches of pipe and parallel nodes,
// which run against cloned environment and working-directory state.
type Runner struct {
	Env      vos.VEnv
	FS       vos.VFS
	Cwd      vos.Cwd
	Launcher vos.Launcher
	Stdio    vos.Stdio

	// Log receives engine diagnostics. The runner never formats user-facing
	// messages; callers that want diagnostics on a terminal install a
	// console writer here.
	Log zerolog.Logger
}

// NewOSRunner returns a runner wired to the real operating system: process
// environment, process working directory, OS filesystem and os/exec.
func NewOSRunner() *Runner {
	return &Runner{
		Env:      vos.NewOSEnv(),
		FS:       afero.NewOsFs(),
		Cwd:      vos.NewOSCwd(),
		Launcher: vos.NewExecLauncher(),
		Stdio:    vos.StdStdio(),
		Log:      zerolog.Nop(),
	}
}

// Run evaluates the operator tree rooted at c and returns its status. A nil
// or malformed node fails without side effects.
func (r *Runner) Run(c *syntax.Command) int {
	if c == nil {
		return StatusFailure
	}

	switch c.Op {
	case syntax.OpNone:
		return r.runSimple(c.Simple)

	case syntax.OpSequence:
		// Both sides always run; only the exit sentinel stops the chain.
		if st := r.Run(c.Left); Exited(st) {
			return st
		}
		return r.Run(c.Right)

	case syntax.OpOr:
		st := r.Run(c.Left)
		if Exited(st) || st == StatusSuccess {
			return st
		}
		return r.Run(c.Right)

	case syntax.OpAnd:
		// Conventional semantics: a failing left side short-circuits its
		// own status. The reference behavior inverted this; see DESIGN.md.
		st := r.Run(c.Left)
		if st != StatusSuccess {
			return st
		}
		return r.Run(c.Right)

	case syntax.OpPipe:
		return r.runPipe(c.Left, c.Right)

	case syntax.OpParallel:
		return r.runParallel(c.Left, c.Right)

	default:
		r.Log.Error().Int("op", int(c.Op)).Msg("unrecognized operator")
		return StatusExit
	}
}

func (r *Runner) runSimple(s *syntax.SimpleCommand) int {
	if s == nil || s.Verb == nil || len(s.Verb.Parts) == 0 {
		r.Log.Debug().Msg("malformed simple command")
		return StatusFailure
	}

	// Builtins match on the verb's leading fragment, unexpanded.
	switch s.Verb.Parts[0].Text {
	case "cd":
		return r.runCd(s)
	case "exit", "quit":
		return StatusExit
	}

	if isAssignment(s) {
		return r.runAssignment(s)
	}

	return r.runExternal(s)
}

// subshell clones the runner for a concurrently executing branch. Pipe and
// parallel branches get their own environment and working directory, so an
// in-process builtin on one branch cannot race the other branch or leak
// into the parent.
func (r *Runner) subshell() *Runner {
	wd, err := r.Cwd.Getwd()
	if err != nil {
		wd = "/"
	}

	return &Runner{
		Env:      vos.NewMapEnvFrom(r.Env),
		FS:       r.FS,
		Cwd:      vos.NewVirtualCwd(r.FS, wd),
		Launcher: r.Launcher,
		Stdio:    r.Stdio,
		Log:      r.Log,
	}
}

// runPipe connects the left branch's output to the right branch's input
// through an anonymous pipe and runs both concurrently. The write end
// closes when the upstream finishes, giving the downstream EOF; the read
// end closes when the downstream finishes, unblocking an upstream that is
// still writing. The downstream status is reported.
func (r *Runner) runPipe(left, right *syntax.Command) int {
	pr, pw := io.Pipe()

	up := r.subshell()
	up.Stdio.Out = pw
	down := r.subshell()
	down.Stdio.In = pr

	var upStatus int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		upStatus = up.Run(left)
		pw.Close()
	}()

	downStatus := down.Run(right)
	pr.Close()
	wg.Wait()

	if Exited(upStatus) || Exited(downStatus) {
		return StatusExit
	}
	return downStatus
}

// runParallel runs both branches concurrently with no data exchange and
// waits for both. Success requires both branches to succeed; otherwise the
// left branch's failure wins ties.
func (r *Runner) runParallel(left, right *syntax.Command) int {
	lr := r.subshell()
	rr := r.subshell()

	var leftStatus int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		leftStatus = lr.Run(left)
	}()

	rightStatus := rr.Run(right)
	wg.Wait()

	switch {
	case Exited(leftStatus) || Exited(rightStatus):
		return StatusExit
	case leftStatus != StatusSuccess:
		return leftStatus
	default:
		return rightStatus
	}
}

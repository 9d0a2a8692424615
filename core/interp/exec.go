package interp

import (
	"github.com/minnowsh/minnow/core/syntax"
	"github.com/minnowsh/minnow/core/vos"
)

// runExternal resolves the verb and argument chains once, applies the
// command's redirections, and hands the invocation to the launcher. When a
// redirection fails the program is never run. Redirections are applied
// before the verb is resolved against the PATH, so their side effects
// (creating or truncating targets) happen even when the program turns out
// not to exist, matching what a forked child observes. A normal exit
// surfaces the program's exact code; abnormal termination collapses to the
// fixed failure status.
func (r *Runner) runExternal(s *syntax.SimpleCommand) int {
	verb, ok := ResolveChain(r.Env, s.Verb)
	if !ok {
		return StatusFailure
	}

	stdio, closer, ok := r.applyRedirections(s, r.Stdio)
	defer closer.Close()
	if !ok {
		return StatusFailure
	}

	path, err := vos.LookPath(r.FS, r.Env, verb)
	if err != nil {
		r.Log.Debug().Err(err).Str("verb", verb).Msg("command not found")
		return StatusFailure
	}

	argv := make([]string, 0, len(s.Args)+1)
	argv = append(argv, verb)
	for _, a := range s.Args {
		if v, ok := ResolveChain(r.Env, a); ok {
			argv = append(argv, v)
		}
	}

	wd, err := r.Cwd.Getwd()
	if err != nil {
		r.Log.Error().Err(err).Msg("cannot determine working directory")
		return StatusFailure
	}

	status, err := r.Launcher.Run(vos.Spawn{
		Path:  path,
		Args:  argv,
		Dir:   wd,
		Env:   r.Env.Environ(),
		Stdio: stdio,
	})
	if err != nil {
		r.Log.Debug().Err(err).Str("path", path).Msg("external command failed")
		return StatusFailure
	}
	return status
}

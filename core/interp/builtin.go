package interp

import (
	"path"

	"github.com/spf13/afero"

	"github.com/minnowsh/minnow/core/syntax"
)

const (
	envHome   = "HOME"
	envOldPwd = "OLDPWD"
)

// runCd executes the change-directory builtin. It runs in-process: a
// child's directory change would be invisible to the shell. Its
// redirections are still honored: the builtin body runs against a runner
// copy with the derived stdio, so anything it writes lands in the
// redirection targets while the caller's streams stay untouched.
func (r *Runner) runCd(s *syntax.SimpleCommand) int {
	stdio, closer, ok := r.applyRedirections(s, r.Stdio)
	defer closer.Close()
	if !ok {
		return StatusFailure
	}

	var target *syntax.Word
	if len(s.Args) > 0 {
		target = s.Args[0]
	}

	redirected := *r
	redirected.Stdio = stdio
	return redirected.chdir(target)
}

// chdir applies the cd target resolution rules. OLDPWD is recorded before
// anything else, unconditionally, even when the change afterwards fails or
// is a no-op.
func (r *Runner) chdir(target *syntax.Word) int {
	wd, err := r.Cwd.Getwd()
	if err != nil {
		r.Log.Error().Err(err).Msg("cd: cannot determine current directory")
		return StatusFailure
	}

	// Capture the previous OLDPWD before overwriting it, so "cd -" swaps
	// with the directory before the one we are about to record.
	prev, prevSet := r.Env.LookupEnv(envOldPwd)

	if err := r.Env.Setenv(envOldPwd, wd); err != nil {
		r.Log.Error().Err(err).Msg("cd: cannot set OLDPWD")
		return StatusFailure
	}

	dir, _ := ResolveChain(r.Env, target)
	switch {
	case dir == "" || dir == "~":
		home, ok := r.Env.LookupEnv(envHome)
		if !ok {
			r.Log.Debug().Msg("cd: HOME not set")
			return StatusFailure
		}
		return r.chdirTo(home)

	case dir == "..":
		return r.chdirTo("..")

	case dir == ".":
		return StatusSuccess

	case dir == "-":
		if !prevSet {
			r.Log.Debug().Msg("cd: OLDPWD not set")
			return StatusFailure
		}
		return r.chdirTo(prev)

	default:
		abs := dir
		if !path.IsAbs(abs) {
			abs = path.Join(wd, abs)
		}
		if exists, _ := afero.Exists(r.FS, abs); !exists {
			// Historical quirk kept for compatibility: a missing target is
			// silently ignored and reported as success.
			return StatusSuccess
		}
		return r.chdirTo(dir)
	}
}

func (r *Runner) chdirTo(dir string) int {
	if err := r.Cwd.Chdir(dir); err != nil {
		r.Log.Debug().Err(err).Str("dir", dir).Msg("cd failed")
		return StatusFailure
	}
	return StatusSuccess
}

// isAssignment reports whether the verb chain has the NAME, "=", VALUE...
// shape of an environment assignment.
func isAssignment(s *syntax.SimpleCommand) bool {
	return len(s.Verb.Parts) >= 3 &&
		!s.Verb.Parts[1].Expand &&
		s.Verb.Parts[1].Text == "="
}

// runAssignment sets the named variable to the resolved value fragments,
// overwriting any prior value.
func (r *Runner) runAssignment(s *syntax.SimpleCommand) int {
	name := s.Verb.Parts[0].Text
	value, _ := ResolveChain(r.Env, &syntax.Word{Parts: s.Verb.Parts[2:]})

	if err := r.Env.Setenv(name, value); err != nil {
		r.Log.Error().Err(err).Str("name", name).Msg("assignment failed")
		return StatusFailure
	}
	return StatusSuccess
}

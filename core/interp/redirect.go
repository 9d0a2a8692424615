package interp

import (
	"io"
	"os"

	"github.com/minnowsh/minnow/core/syntax"
	"github.com/minnowsh/minnow/core/vos"
)

// closerList closes a group of files, keeping the last error.
type closerList []io.Closer

func (cl closerList) Close() error {
	var lastErr error
	for _, c := range cl {
		if err := c.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// applyRedirections resolves the command's redirection chains and returns a
// copy of base with the affected streams rebound to the opened files.
//
// Failures do not abort the remaining redirections: every file that can be
// opened is opened, so the returned closer always covers everything, and ok
// aggregates the overall outcome. When output and error name the same path
// the file is opened exactly once and bound to both streams, so the two
// redirections cannot race on truncation.
//
// The caller must Close the returned closer on every path.
func (r *Runner) applyRedirections(s *syntax.SimpleCommand, base vos.Stdio) (stdio vos.Stdio, closer io.Closer, ok bool) {
	stdio = base
	ok = true
	var files closerList

	if inPath, has := ResolveChain(r.Env, s.In); has {
		f, err := r.FS.Open(inPath)
		if err != nil {
			r.Log.Debug().Err(err).Str("path", inPath).Msg("input redirection failed")
			ok = false
		} else {
			files = append(files, f)
			stdio.In = f
		}
	}

	outPath, hasOut := ResolveChain(r.Env, s.Out)
	errPath, hasErr := ResolveChain(r.Env, s.Err)

	if hasOut && hasErr && outPath == errPath {
		f, err := r.openTarget(outPath, s.Append)
		if err != nil {
			r.Log.Debug().Err(err).Str("path", outPath).Msg("combined redirection failed")
			ok = false
		} else {
			files = append(files, f)
			stdio.Out = f
			stdio.Err = f
		}
		return stdio, files, ok
	}

	if hasOut {
		f, err := r.openTarget(outPath, s.Append)
		if err != nil {
			r.Log.Debug().Err(err).Str("path", outPath).Msg("output redirection failed")
			ok = false
		} else {
			files = append(files, f)
			stdio.Out = f
		}
	}

	if hasErr {
		f, err := r.openTarget(errPath, s.Append)
		if err != nil {
			r.Log.Debug().Err(err).Str("path", errPath).Msg("error redirection failed")
			ok = false
		} else {
			files = append(files, f)
			stdio.Err = f
		}
	}

	return stdio, files, ok
}

// openTarget opens an output or error redirection target, creating it if
// absent with mode 0644 and truncating unless append is set.
func (r *Runner) openTarget(path string, appendMode bool) (io.WriteCloser, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return r.FS.OpenFile(path, flags, 0644)
}

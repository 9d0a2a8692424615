package interp

import (
	"strings"

	"github.com/minnowsh/minnow/core/syntax"
	"github.com/minnowsh/minnow/core/vos"
)

// ResolveFragment returns the concrete text of one fragment. Expandable
// fragments resolve through the environment; an unset variable resolves to
// the empty string, never an error.
func ResolveFragment(env vos.VEnv, f syntax.Fragment) string {
	if f.Expand {
		return env.Getenv(f.Text)
	}
	return f.Text
}

// ResolveChain concatenates the resolved fragments of w in chain order. The
// boolean is false when w is nil or empty.
func ResolveChain(env vos.VEnv, w *syntax.Word) (string, bool) {
	if w == nil || len(w.Parts) == 0 {
		return "", false
	}

	var sb strings.Builder
	for _, p := range w.Parts {
		sb.WriteString(ResolveFragment(env, p))
	}
	return sb.String(), true
}

// Package syntax holds the representation the parser hands to the
// interpreter: word chains built from fragments, simple commands, and the
// binary operator tree combining them. The interpreter treats all of these
// as read-only.
package syntax

import (
	"fmt"
	"strings"
)

// Fragment is one piece of a word. When Expand is set, Text names an
// environment variable whose value replaces the fragment during resolution.
type Fragment struct {
	Text   string
	Expand bool
}

// Word is an ordered chain of fragments that concatenate into one string,
// e.g. prefix$VAR/suffix.
type Word struct {
	Parts []Fragment
}

// Lit builds a word holding a single literal fragment.
func Lit(text string) *Word {
	return &Word{Parts: []Fragment{{Text: text}}}
}

// Var builds a word holding a single expandable fragment.
func Var(name string) *Word {
	return &Word{Parts: []Fragment{{Text: name, Expand: true}}}
}

// SimpleCommand is the leaf unit of execution: a verb, its arguments, and
// optional redirections. A nil or empty Verb marks the command malformed.
type SimpleCommand struct {
	Verb *Word
	Args []*Word

	// In, Out and Err are the redirection targets for the standard streams,
	// nil when the stream is not redirected.
	In  *Word
	Out *Word
	Err *Word

	// Append makes output and error redirections append instead of
	// truncating.
	Append bool
}

// Op tags an operator tree node.
type Op int

const (
	// OpNone marks a leaf wrapping exactly one simple command.
	OpNone Op = iota
	// OpSequence runs both sides unconditionally, keeping the right status.
	OpSequence
	// OpAnd runs the right side only when the left succeeded.
	OpAnd
	// OpOr runs the right side only when the left failed.
	OpOr
	// OpPipe connects the left side's output to the right side's input.
	OpPipe
	// OpParallel runs both sides concurrently with no data exchange.
	OpParallel
)

func (o Op) String() string {
	switch o {
	case OpNone:
		return "simple"
	case OpSequence:
		return "seq"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpPipe:
		return "pipe"
	case OpParallel:
		return "par"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Command is one node of the operator tree. Leaves (OpNone) carry a simple
// command and no children; interior nodes carry an operator and exactly two
// children. The tree is immutable during evaluation.
type Command struct {
	Op     Op
	Simple *SimpleCommand
	Left   *Command
	Right  *Command
}

// Leaf wraps a simple command in a tree node.
func Leaf(s *SimpleCommand) *Command {
	return &Command{Op: OpNone, Simple: s}
}

// Dump renders the tree in an indented one-node-per-line form. It exists
// for debugging and golden tests, not for display to users.
func (c *Command) Dump() string {
	var sb strings.Builder
	dumpCommand(&sb, c, 0)
	return sb.String()
}

func dumpCommand(sb *strings.Builder, c *Command, depth int) {
	indent := strings.Repeat("  ", depth)
	if c == nil {
		fmt.Fprintf(sb, "%snil\n", indent)
		return
	}

	if c.Op == OpNone {
		fmt.Fprintf(sb, "%s%s\n", indent, dumpSimple(c.Simple))
		return
	}

	fmt.Fprintf(sb, "%s%s\n", indent, c.Op)
	dumpCommand(sb, c.Left, depth+1)
	dumpCommand(sb, c.Right, depth+1)
}

func dumpSimple(s *SimpleCommand) string {
	if s == nil {
		return "simple <nil>"
	}

	var sb strings.Builder
	sb.WriteString("simple verb=")
	sb.WriteString(dumpWord(s.Verb))
	if len(s.Args) > 0 {
		var args []string
		for _, a := range s.Args {
			args = append(args, dumpWord(a))
		}
		fmt.Fprintf(&sb, " args=[%s]", strings.Join(args, " "))
	}
	if s.In != nil {
		fmt.Fprintf(&sb, " in=%s", dumpWord(s.In))
	}
	if s.Out != nil {
		fmt.Fprintf(&sb, " out=%s", dumpWord(s.Out))
	}
	if s.Err != nil {
		fmt.Fprintf(&sb, " err=%s", dumpWord(s.Err))
	}
	if s.Append {
		sb.WriteString(" append")
	}
	return sb.String()
}

func dumpWord(w *Word) string {
	if w == nil {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteByte('{')
	for _, p := range w.Parts {
		if p.Expand {
			sb.WriteByte('$')
		}
		sb.WriteString(p.Text)
	}
	sb.WriteByte('}')
	return sb.String()
}

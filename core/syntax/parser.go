package syntax

import (
	"errors"
	"fmt"
	"regexp"

	shlex "github.com/anmitsu/go-shlex"
)

// The front-end is intentionally small: words are split with shlex so
// quoting behaves the way users expect, and control operators are
// recognized as standalone tokens, so they must be separated from words by
// whitespace ("a | b", not "a|b"). Loops, functions and globbing are out of
// scope.

var envRef = regexp.MustCompile(`\$\w+`)

var precedence = []map[string]Op{
	{";": OpSequence, "&": OpParallel},
	{"&&": OpAnd, "||": OpOr},
	{"|": OpPipe},
}

// Parse turns one line of input into an operator tree. It returns (nil,
// nil) for blank input.
func Parse(line string) (*Command, error) {
	tokens, err := shlex.Split(line, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return parseLevel(tokens, 0)
}

// parseLevel splits tokens on the rightmost operator of the given
// precedence level, yielding a left-associative tree.
func parseLevel(tokens []string, level int) (*Command, error) {
	if level >= len(precedence) {
		return parseSimple(tokens)
	}

	for i := len(tokens) - 1; i >= 0; i-- {
		op, ok := precedence[level][tokens[i]]
		if !ok {
			continue
		}
		if i == 0 || i == len(tokens)-1 {
			return nil, fmt.Errorf("syntax error near %q", tokens[i])
		}

		left, err := parseLevel(tokens[:i], level)
		if err != nil {
			return nil, err
		}
		right, err := parseLevel(tokens[i+1:], level+1)
		if err != nil {
			return nil, err
		}
		return &Command{Op: op, Left: left, Right: right}, nil
	}

	return parseLevel(tokens, level+1)
}

func isRedirToken(tok string) bool {
	switch tok {
	case "<", ">", ">>", "2>", "2>>", "&>":
		return true
	}
	return false
}

func parseSimple(tokens []string) (*Command, error) {
	// NAME = VALUE... assignments keep the whole chain in the verb; the
	// interpreter recognizes the shape by its second fragment. An
	// assignment produces no output, so a redirection on one is rejected
	// rather than swallowed into the value.
	if len(tokens) >= 3 && tokens[1] == "=" {
		verb := splitWord(tokens[0])
		verb.Parts = append(verb.Parts, Fragment{Text: "="})
		for _, tok := range tokens[2:] {
			if isRedirToken(tok) {
				return nil, fmt.Errorf("syntax error: cannot redirect an assignment with %q", tok)
			}
			verb.Parts = append(verb.Parts, splitWord(tok).Parts...)
		}
		return Leaf(&SimpleCommand{Verb: verb}), nil
	}

	s := &SimpleCommand{}
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if !isRedirToken(tok) {
			w := splitWord(tok)
			if s.Verb == nil {
				s.Verb = w
			} else {
				s.Args = append(s.Args, w)
			}
			i++
			continue
		}

		if i+1 >= len(tokens) {
			return nil, fmt.Errorf("syntax error: %s requires a file", tok)
		}
		target := splitWord(tokens[i+1])
		switch tok {
		case "<":
			s.In = target
		case ">":
			s.Out = target
		case ">>":
			s.Out = target
			s.Append = true
		case "2>":
			s.Err = target
		case "2>>":
			s.Err = target
			s.Append = true
		case "&>":
			s.Out = target
			s.Err = target
		}
		i += 2
	}

	if s.Verb == nil {
		return nil, errors.New("syntax error: missing command")
	}
	return Leaf(s), nil
}

// splitWord breaks a token into literal and $NAME fragments.
func splitWord(text string) *Word {
	w := &Word{}
	rest := text
	for {
		loc := envRef.FindStringIndex(rest)
		if loc == nil {
			break
		}
		if loc[0] > 0 {
			w.Parts = append(w.Parts, Fragment{Text: rest[:loc[0]]})
		}
		w.Parts = append(w.Parts, Fragment{Text: rest[loc[0]+1 : loc[1]], Expand: true})
		rest = rest[loc[1]:]
	}
	if rest != "" || len(w.Parts) == 0 {
		w.Parts = append(w.Parts, Fragment{Text: rest})
	}
	return w
}

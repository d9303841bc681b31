// Package parser turns a raw command line into a bounded argv plus
// redirection descriptors. Processing order is contractual: comment
// stripping, then variable expansion, then tokenizing with quote handling,
// then redirection extraction, with every buffer bound enforced as a
// distinct error rather than silent truncation.
package parser

// Env is the variable lookup capability the expander needs. The store in
// package env satisfies it.
type Env interface {
	Get(name string) (string, bool)
}

// RedirMode says how a redirection target is opened.
type RedirMode int

const (
	RedirNone RedirMode = iota
	RedirTruncate
	RedirAppend
	RedirRead
)

// Redirect is one resolved redirection descriptor.
type Redirect struct {
	Mode RedirMode
	Path string
}

// Present reports whether the descriptor names a target.
func (r Redirect) Present() bool {
	return r.Mode != RedirNone
}

// Result is a successfully parsed command line. It is immutable once
// returned; the dispatcher reads it but never mutates it.
type Result struct {
	Argv   []string
	Stdout Redirect
	Stdin  Redirect
}

// Limits bounds one parse. A zero MaxArg means no per-token cap.
type Limits struct {
	MaxLine int // input line length, bytes
	MaxArgs int // argv entries
	MaxArg  int // single token length after expansion, bytes
}

// Parser parses lines against a variable store under fixed limits. Parsing
// is pure: identical input plus identical store contents always produces an
// identical Result.
type Parser struct {
	env    Env
	limits Limits
}

// New creates a parser bound to a variable store.
func New(env Env, limits Limits) *Parser {
	return &Parser{env: env, limits: limits}
}

// Parse processes one line. ErrEmpty means the line held no tokens and the
// caller should simply re-prompt.
func (p *Parser) Parse(line string) (*Result, error) {
	if p.limits.MaxLine > 0 && len(line) > p.limits.MaxLine {
		return nil, ErrLineTooLong
	}

	line = stripComment(line)

	// Expansion may legitimately grow the line; cap it at twice the input
	// bound so a pathological substitution still fails fast.
	expandMax := 0
	if p.limits.MaxLine > 0 {
		expandMax = p.limits.MaxLine * 2
	}
	expanded, err := expand(line, p.env, expandMax)
	if err != nil {
		return nil, err
	}

	return p.tokenize(expanded)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// tokenize splits the expanded line into argv, pulling redirection
// operators and their filenames out of the token stream as it goes.
func (p *Parser) tokenize(s string) (*Result, error) {
	res := &Result{}
	i := 0

	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}

		switch {
		case s[i] == '>' && i+1 < len(s) && s[i+1] == '>':
			path, next, err := p.filename(s, i+2)
			if err != nil {
				return nil, err
			}
			res.Stdout = Redirect{Mode: RedirAppend, Path: path}
			i = next

		case s[i] == '>':
			path, next, err := p.filename(s, i+1)
			if err != nil {
				return nil, err
			}
			res.Stdout = Redirect{Mode: RedirTruncate, Path: path}
			i = next

		case s[i] == '<':
			path, next, err := p.filename(s, i+1)
			if err != nil {
				return nil, err
			}
			res.Stdin = Redirect{Mode: RedirRead, Path: path}
			i = next

		default:
			tok, next, err := p.token(s, i)
			if err != nil {
				return nil, err
			}
			if p.limits.MaxArgs > 0 && len(res.Argv) >= p.limits.MaxArgs {
				return nil, ErrTooManyArgs
			}
			res.Argv = append(res.Argv, tok)
			i = next
		}
	}

	if len(res.Argv) == 0 {
		return nil, ErrEmpty
	}
	return res, nil
}

// token reads one word starting at i: a quoted span with the quotes
// removed, or a bare run ending at whitespace or a redirection operator.
func (p *Parser) token(s string, i int) (string, int, error) {
	var tok string
	if s[i] == '"' || s[i] == '\'' {
		quote := s[i]
		i++
		start := i
		for i < len(s) && s[i] != quote {
			i++
		}
		if i >= len(s) {
			return "", 0, ErrUnclosedQuote
		}
		tok = s[start:i]
		i++ // closing quote
	} else {
		start := i
		for i < len(s) && !isSpace(s[i]) && s[i] != '>' && s[i] != '<' {
			i++
		}
		tok = s[start:i]
	}

	if p.limits.MaxArg > 0 && len(tok) > p.limits.MaxArg {
		return "", 0, ErrArgTooLong
	}
	return tok, i, nil
}

// filename reads the target of a redirection operator, which may be glued
// to the operator or separated by whitespace, bare or quoted.
func (p *Parser) filename(s string, i int) (string, int, error) {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	if i >= len(s) {
		return "", 0, ErrRedirectMissingFile
	}
	tok, next, err := p.token(s, i)
	if err != nil {
		return "", 0, err
	}
	if tok == "" {
		return "", 0, ErrRedirectMissingFile
	}
	return tok, next, nil
}

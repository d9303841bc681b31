package parser

import "errors"

// Parse outcomes. ErrEmpty is not a failure: it means the line reduced to
// zero tokens (blank or comment-only) and the caller has nothing to do.
var (
	ErrEmpty               = errors.New("empty command")
	ErrLineTooLong         = errors.New("command line too long")
	ErrTooManyArgs         = errors.New("too many arguments")
	ErrArgTooLong          = errors.New("argument too long after expansion")
	ErrUnclosedQuote       = errors.New("unclosed quote")
	ErrSyntax              = errors.New("syntax error")
	ErrRedirectMissingFile = errors.New("missing filename after redirection")
)

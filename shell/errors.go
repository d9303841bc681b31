package shell

import (
	"errors"
	"fmt"
)

// Dispatch failures. Handler exit codes are values, not errors; these cover
// everything that stops a command before its handler runs.
var (
	ErrNotFound        = errors.New("command not found")
	ErrRedirectionOpen = errors.New("cannot open redirection target")
)

// Grammar features the execution model recognizes but cannot support.
const (
	FeaturePipeline   = "pipeline"
	FeatureBackground = "background"
	FeatureStdinRedir = "stdin-redirection"
)

// UnsupportedError reports a recognized but unsupported grammar construct.
// It is always recoverable; the session reports it and re-prompts.
type UnsupportedError struct {
	Feature string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported: %s", e.Feature)
}

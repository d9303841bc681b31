package shell

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/drake/ushell/env"
	"github.com/drake/ushell/parser"
	"github.com/drake/ushell/terminal"
	"github.com/drake/ushell/vfs"
)

// Executor resolves parsed lines against the command table and runs the
// handler with its redirection established. It owns no terminal state, so
// tests can drive it directly against a scripted output writer.
type Executor struct {
	parser  *parser.Parser
	cmds    *Registry
	envs    *env.Store
	history *terminal.History
	fs      vfs.FS
	host    Host
	out     io.Writer // default command output (the terminal)
	term    io.Writer // always the terminal, even under redirection
	log     *slog.Logger
}

// NewExecutor wires the dispatcher. out receives command output when no
// redirection is active; term is the never-redirected stream for prompts.
func NewExecutor(p *parser.Parser, cmds *Registry, envs *env.Store,
	history *terminal.History, fs vfs.FS, host Host, out, term io.Writer,
	log *slog.Logger) *Executor {
	return &Executor{
		parser:  p,
		cmds:    cmds,
		envs:    envs,
		history: history,
		fs:      fs,
		host:    host,
		out:     out,
		term:    term,
		log:     log,
	}
}

// Execute parses and runs one line. The int is the command's exit status;
// the error covers everything that stopped the command before (or instead
// of) its handler. An empty line succeeds with no action.
func (e *Executor) Execute(line string) (int, error) {
	res, err := e.parser.Parse(line)
	if err != nil {
		if err == parser.ErrEmpty {
			return 0, nil
		}
		return 1, err
	}

	// Pipelines and background execution are recognized up front so they
	// report as unsupported features, never as unknown commands.
	if hasPipeline(res.Argv) {
		return 1, &UnsupportedError{Feature: FeaturePipeline}
	}
	if hasBackground(res.Argv) {
		return 1, &UnsupportedError{Feature: FeatureBackground}
	}

	cmd, ok := e.cmds.Lookup(res.Argv[0])
	if !ok {
		return 127, fmt.Errorf("%s: %w", res.Argv[0], ErrNotFound)
	}

	// Input redirection parses but cannot execute.
	if res.Stdin.Present() {
		return 1, &UnsupportedError{Feature: FeatureStdinRedir}
	}

	out := e.out
	var redir vfs.File
	if res.Stdout.Present() {
		mode := vfs.Trunc
		if res.Stdout.Mode == parser.RedirAppend {
			mode = vfs.Append
		}
		f, err := e.fs.Open(e.host.Resolve(res.Stdout.Path), mode)
		if err != nil {
			return 1, fmt.Errorf("%w %q: %v", ErrRedirectionOpen, res.Stdout.Path, err)
		}
		redir = f
		out = f
	}
	// The handle never outlives the command, whatever the handler does.
	if redir != nil {
		defer redir.Close()
	}

	ctx := &Context{
		Args:    res.Argv,
		Out:     out,
		Term:    e.term,
		Stdout:  res.Stdout,
		Stdin:   res.Stdin,
		Env:     e.envs,
		History: e.history,
		FS:      e.fs,
		Cmds:    e.cmds,
		Host:    e.host,
	}

	status := cmd.Run(ctx)
	e.log.Debug("command finished", "cmd", res.Argv[0], "status", status)
	return status, nil
}

// hasPipeline reports a standalone | token anywhere in argv.
func hasPipeline(argv []string) bool {
	for _, a := range argv {
		if a == "|" {
			return true
		}
	}
	return false
}

// hasBackground reports a trailing & token, standalone or glued to the
// last argument.
func hasBackground(argv []string) bool {
	if len(argv) == 0 {
		return false
	}
	last := argv[len(argv)-1]
	return last == "&" || strings.HasSuffix(last, "&")
}

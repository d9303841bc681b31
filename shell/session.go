// Package shell ties the terminal, parser, and command table into an
// interactive session: a read-parse-dispatch loop over a platform byte
// stream, with bounded history and environment state scoped to the session.
package shell

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/drake/ushell/config"
	"github.com/drake/ushell/env"
	"github.com/drake/ushell/parser"
	"github.com/drake/ushell/platform"
	"github.com/drake/ushell/terminal"
	"github.com/drake/ushell/vfs"
)

// DefaultPrompt is used when the options don't override it.
const DefaultPrompt = "ushell$ "

// Options configures a session.
type Options struct {
	Prompt string
	Limits config.Limits // zero value selects the desktop profile
	NoEdit bool          // raw line reader instead of the full editor
	Cwd    string        // initial working directory, "/" by default
	Logger *slog.Logger
}

// Session is one interactive shell: a single logical thread of control
// driving editor, parser, and dispatcher. Sessions share nothing, so
// multiple sessions over different platforms can coexist.
type Session struct {
	id      string
	io      platform.IO
	term    *terminal.Terminal
	editor  *terminal.Editor
	cmds    *Registry
	envs    *env.Store
	history *terminal.History
	fs      vfs.FS
	exec    *Executor
	log     *slog.Logger

	limits  config.Limits
	prompt  string
	cwd     string
	noEdit  bool
	exiting bool
}

// New builds a session over the given platform and filesystem with the
// builtin command set registered.
func New(pio platform.IO, fs vfs.FS, opts Options) (*Session, error) {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.Limits == (config.Limits{}) {
		opts.Limits = config.Desktop()
	}
	if opts.Cwd == "" {
		opts.Cwd = "/"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Session{
		id:      uuid.NewString(),
		io:      pio,
		term:    terminal.New(pio),
		cmds:    NewRegistry(),
		history: terminal.NewHistory(opts.Limits.HistorySize),
		fs:      fs,
		limits:  opts.Limits,
		prompt:  opts.Prompt,
		cwd:     opts.Cwd,
		noEdit:  opts.NoEdit,
	}
	s.log = opts.Logger.With("session", s.id)
	s.envs = env.NewStore(opts.Limits.MaxVars, opts.Limits.MaxVarName, opts.Limits.MaxVarValue)
	s.editor = terminal.NewEditor(s.term, s.history, s.prompt, opts.Limits.MaxLine)

	p := parser.New(s.envs, parser.Limits{
		MaxLine: opts.Limits.MaxLine,
		MaxArgs: opts.Limits.MaxArgs,
		MaxArg:  opts.Limits.MaxArg,
	})
	out := s.term.Writer()
	s.exec = NewExecutor(p, s.cmds, s.envs, s.history, fs, s, out, out, s.log)

	if err := RegisterBuiltins(s.cmds); err != nil {
		return nil, err
	}
	return s, nil
}

// Commands returns the session's command table for host extensions.
func (s *Session) Commands() *Registry {
	return s.cmds
}

// Env returns the session's variable store.
func (s *Session) Env() *env.Store {
	return s.envs
}

// Output returns the terminal-bound writer (LF expanded to CRLF) for host
// messages that should render like command output.
func (s *Session) Output() io.Writer {
	return s.term.Writer()
}

// Execute runs one line as if it had been typed, without touching history.
func (s *Session) Execute(line string) (int, error) {
	return s.exec.Execute(line)
}

// Run drives the read-execute loop until EOF or the exit builtin. Parse
// and dispatch errors are reported to the terminal and never end the
// session.
func (s *Session) Run() error {
	s.log.Info("session started", "prompt", s.prompt, "noEdit", s.noEdit)

	for !s.exiting {
		s.term.WriteString(s.prompt)
		s.term.Flush()

		var line string
		var err error
		if s.noEdit {
			line, err = s.term.ReadLineSimple(s.limits.MaxLine)
		} else {
			line, err = s.editor.ReadLine()
		}
		if err != nil {
			if errors.Is(err, terminal.ErrCancelled) {
				continue
			}
			if errors.Is(err, terminal.ErrEOF) {
				break
			}
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		s.history.Add(line)

		status, err := s.exec.Execute(line)
		if err != nil {
			s.report(err)
			s.log.Debug("line failed", "error", err)
			continue
		}
		if status != 0 {
			s.log.Debug("nonzero exit", "status", status)
		}
	}

	s.term.Flush()
	s.log.Info("session ended")
	return nil
}

// report prints one line-level failure to the terminal.
func (s *Session) report(err error) {
	w := s.term.Writer()

	var unsup *UnsupportedError
	switch {
	case errors.As(err, &unsup):
		switch unsup.Feature {
		case FeaturePipeline:
			fmt.Fprintf(w, "error: pipelines not supported\n")
		case FeatureBackground:
			fmt.Fprintf(w, "error: background processes (&) not supported\n")
		case FeatureStdinRedir:
			fmt.Fprintf(w, "error: input redirection not supported\n")
		default:
			fmt.Fprintf(w, "error: %v\n", err)
		}
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRedirectionOpen):
		fmt.Fprintf(w, "%v\n", err)
	default:
		fmt.Fprintf(w, "parse error: %v\n", err)
	}
	s.term.Flush()
}

// Host interface: commands reach back into the session through these.

// Cwd returns the working directory.
func (s *Session) Cwd() string {
	return s.cwd
}

// Chdir switches the working directory after verifying the target exists
// and is a directory. The root always exists.
func (s *Session) Chdir(dir string) error {
	p := s.Resolve(dir)
	if p != "/" {
		info, err := s.fs.Stat(p)
		if err != nil {
			return err
		}
		if !info.IsDir {
			return fmt.Errorf("%s: not a directory", dir)
		}
	}
	s.cwd = p
	return nil
}

// Resolve makes a path absolute against the working directory.
func (s *Session) Resolve(p string) string {
	if p == "" || p == "." {
		return s.cwd
	}
	if strings.HasPrefix(p, "/") {
		return path.Clean(p)
	}
	return path.Join(s.cwd, p)
}

// ReadLine reads one raw line for interactive sub-modes.
func (s *Session) ReadLine() (string, error) {
	return s.term.ReadLineSimple(s.limits.MaxLine)
}

// Uptime reports time since the platform started.
func (s *Session) Uptime() time.Duration {
	return s.io.Now()
}

// Exit makes the run loop stop after the current command.
func (s *Session) Exit() {
	s.exiting = true
}

var _ Host = (*Session)(nil)

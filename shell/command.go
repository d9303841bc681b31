package shell

import (
	"fmt"
	"io"
	"time"

	"github.com/drake/ushell/env"
	"github.com/drake/ushell/parser"
	"github.com/drake/ushell/terminal"
	"github.com/drake/ushell/vfs"
)

// Host is what a running command may ask of its session beyond plain
// output: path resolution against the working directory, a raw line reader
// for interactive sub-modes, and session control.
type Host interface {
	// Cwd returns the current working directory.
	Cwd() string
	// Chdir changes the working directory.
	Chdir(path string) error
	// Resolve makes path absolute against the working directory.
	Resolve(path string) string
	// ReadLine reads one raw line without editing support.
	ReadLine() (string, error)
	// Uptime returns time since the session's platform started.
	Uptime() time.Duration
	// Exit asks the session loop to end after this command.
	Exit()
}

// Context is the capability set a handler runs with. Out goes through the
// command's redirection when one is active; Term always reaches the
// terminal, for prompts that must not land in a redirected file.
type Context struct {
	Args    []string
	Out     io.Writer
	Term    io.Writer
	Stdout  parser.Redirect
	Stdin   parser.Redirect
	Env     *env.Store
	History *terminal.History
	FS      vfs.FS
	Cmds    *Registry
	Host    Host
}

// Command is one dispatchable entry in the command table.
type Command interface {
	Name() string
	Help() string
	Run(ctx *Context) int
}

// Func adapts a plain function into a Command.
type Func struct {
	name string
	help string
	fn   func(ctx *Context) int
}

// NewFunc wraps fn as a registrable command.
func NewFunc(name, help string, fn func(ctx *Context) int) *Func {
	return &Func{name: name, help: help, fn: fn}
}

func (f *Func) Name() string         { return f.name }
func (f *Func) Help() string         { return f.help }
func (f *Func) Run(ctx *Context) int { return f.fn(ctx) }

// Registry is the command table: registration order is preserved and
// lookup is exact and case sensitive.
type Registry struct {
	cmds []Command
}

// NewRegistry creates an empty command table.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a command; duplicate names are rejected.
func (r *Registry) Register(cmd Command) error {
	if _, ok := r.Lookup(cmd.Name()); ok {
		return fmt.Errorf("command %q already registered", cmd.Name())
	}
	r.cmds = append(r.cmds, cmd)
	return nil
}

// Lookup finds a command by exact name.
func (r *Registry) Lookup(name string) (Command, bool) {
	for _, c := range r.cmds {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// All returns the commands in registration order.
func (r *Registry) All() []Command {
	out := make([]Command, len(r.cmds))
	copy(out, r.cmds)
	return out
}

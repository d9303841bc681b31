// Package script embeds a Lua interpreter so hosts can extend the command
// table at startup. Scripted commands dispatch exactly like builtins: same
// argv, same redirected writer, same exit status convention.
package script

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/drake/ushell/env"
	"github.com/drake/ushell/shell"
)

// Engine owns one Lua VM bound to a session's command table and variable
// store. It is not safe for concurrent use; like the session itself it
// belongs to a single logical thread.
type Engine struct {
	state *lua.LState
	cmds  *shell.Registry
	envs  *env.Store
	log   *slog.Logger

	// ctx is the context of the scripted command currently executing;
	// nil outside command dispatch (during script load, for example).
	ctx *shell.Context
	out io.Writer // fallback output while no command is running
}

// New creates an engine and installs the ushell Lua namespace. out receives
// script output produced outside command dispatch.
func New(cmds *shell.Registry, envs *env.Store, out io.Writer, log *slog.Logger) *Engine {
	e := &Engine{
		state: lua.NewState(),
		cmds:  cmds,
		envs:  envs,
		out:   out,
		log:   log,
	}
	e.registerHostFuncs()
	return e
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.state.Close()
}

// LoadFile runs a script file. Script failures are reported to the caller,
// never fatal to the session.
func (e *Engine) LoadFile(path string) error {
	if err := e.state.DoFile(path); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	e.log.Debug("script loaded", "path", path)
	return nil
}

// LoadString runs Lua source directly; tests and hosts with embedded
// scripts use this.
func (e *Engine) LoadString(src string) error {
	if err := e.state.DoString(src); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// writer returns where script output currently belongs.
func (e *Engine) writer() io.Writer {
	if e.ctx != nil {
		return e.ctx.Out
	}
	return e.out
}

// registerHostFuncs binds the Go side of the ushell namespace.
func (e *Engine) registerHostFuncs() {
	mod := e.state.NewTable()
	e.state.SetGlobal("ushell", mod)

	// ushell.register(name, help, fn): add a command to the table. fn
	// receives the argv as a table and returns the exit status.
	e.state.SetField(mod, "register", e.state.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		help := L.CheckString(2)
		fn := L.CheckFunction(3)

		cmd := &luaCommand{name: name, help: help, fn: fn, eng: e}
		if err := e.cmds.Register(cmd); err != nil {
			L.RaiseError("register: %v", err)
		}
		return 0
	}))

	// ushell.write(text): write to the command's output stream, which
	// follows redirection like any builtin's output.
	e.state.SetField(mod, "write", e.state.NewFunction(func(L *lua.LState) int {
		fmt.Fprint(e.writer(), L.CheckString(1))
		return 0
	}))

	// ushell.getenv(name): variable value, or nil when unset.
	e.state.SetField(mod, "getenv", e.state.NewFunction(func(L *lua.LState) int {
		if v, ok := e.envs.Get(L.CheckString(1)); ok {
			L.Push(lua.LString(v))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))

	// ushell.setenv(name, value): returns true, or false and a message
	// when a store bound rejects it.
	e.state.SetField(mod, "setenv", e.state.NewFunction(func(L *lua.LState) int {
		if err := e.envs.Set(L.CheckString(1), L.CheckString(2)); err != nil {
			L.Push(lua.LFalse)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LTrue)
		return 1
	}))

	// print mirrors ushell.write with the usual tab/newline framing.
	e.state.SetGlobal("print", e.state.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.Get(i).String())
		}
		fmt.Fprintf(e.writer(), "%s\n", strings.Join(parts, "\t"))
		return 0
	}))
}

// luaCommand adapts a registered Lua function to the command interface.
type luaCommand struct {
	name string
	help string
	fn   *lua.LFunction
	eng  *Engine
}

func (c *luaCommand) Name() string { return c.name }
func (c *luaCommand) Help() string { return c.help }

func (c *luaCommand) Run(ctx *shell.Context) int {
	e := c.eng
	e.ctx = ctx
	defer func() { e.ctx = nil }()

	args := e.state.NewTable()
	for _, a := range ctx.Args {
		args.Append(lua.LString(a))
	}

	if err := e.state.CallByParam(lua.P{
		Fn:      c.fn,
		NRet:    1,
		Protect: true,
	}, args); err != nil {
		fmt.Fprintf(ctx.Term, "%s: lua error: %v\n", c.name, err)
		e.log.Warn("scripted command failed", "cmd", c.name, "error", err)
		return 1
	}

	ret := e.state.Get(-1)
	e.state.Pop(1)
	if n, ok := ret.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

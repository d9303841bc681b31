package shell

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/drake/ushell/env"
	"github.com/drake/ushell/parser"
	"github.com/drake/ushell/terminal"
	"github.com/drake/ushell/vfs"
)

// RegisterBuiltins installs the standard command set into r.
func RegisterBuiltins(r *Registry) error {
	cmds := []Command{
		// Shell control
		NewFunc("help", "Show available commands", cmdHelp),
		NewFunc("exit", "Exit the shell", cmdExit),
		NewFunc("clear", "Clear the screen", cmdClear),

		// System information
		NewFunc("info", "Show system information", cmdInfo),
		NewFunc("free", "Show memory usage", cmdFree),
		NewFunc("uptime", "Show session uptime", cmdUptime),

		// Directories
		NewFunc("pwd", "Print working directory", cmdPwd),
		NewFunc("cd", "Change directory", cmdCd),
		NewFunc("ls", "List directory contents", cmdLs),

		// Files
		NewFunc("cat", "Display file contents", cmdCat),
		NewFunc("echo", "Print text", cmdEcho),
		NewFunc("touch", "Create empty file", cmdTouch),
		NewFunc("rm", "Remove file", cmdRm),
		NewFunc("mkdir", "Create directory", cmdMkdir),

		// Filesystem management
		NewFunc("fsinfo", "Show filesystem info", cmdFsinfo),
		NewFunc("format", "Format the filesystem", cmdFormat),

		// History and variables
		NewFunc("history", "Show command history", cmdHistory),
		NewFunc("set", "Set environment variable", cmdSet),
		NewFunc("unset", "Remove environment variable", cmdUnset),
		NewFunc("env", "List environment variables", cmdEnv),

		// Unavailable features (helpful error instead of "not found")
		NewFunc("jobs", "List background jobs (N/A)", cmdJobs),
		NewFunc("fg", "Foreground job (N/A)", cmdFg),
		NewFunc("bg", "Background job (N/A)", cmdBg),
	}

	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func cmdHelp(ctx *Context) int {
	fmt.Fprintf(ctx.Out, "ushell - Available commands:\n")
	fmt.Fprintf(ctx.Out, "----------------------------\n")
	for _, c := range ctx.Cmds.All() {
		fmt.Fprintf(ctx.Out, "  %-10s - %s\n", c.Name(), c.Help())
	}
	fmt.Fprintf(ctx.Out, "\nFeatures not available:\n")
	fmt.Fprintf(ctx.Out, "  - Pipelines (cmd1 | cmd2)\n")
	fmt.Fprintf(ctx.Out, "  - Background processes (cmd &)\n")
	fmt.Fprintf(ctx.Out, "  - External commands\n\n")
	return 0
}

func cmdExit(ctx *Context) int {
	fmt.Fprintf(ctx.Term, "Exiting shell...\n")
	ctx.Host.Exit()
	return 0
}

func cmdClear(ctx *Context) int {
	fmt.Fprintf(ctx.Term, "\x1b[2J\x1b[H")
	return 0
}

func cmdInfo(ctx *Context) int {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	fmt.Fprintf(ctx.Out, "System Information\n")
	fmt.Fprintf(ctx.Out, "------------------\n")
	fmt.Fprintf(ctx.Out, "OS:           %s\n", runtime.GOOS)
	fmt.Fprintf(ctx.Out, "Architecture: %s\n", runtime.GOARCH)
	fmt.Fprintf(ctx.Out, "CPU cores:    %d\n", runtime.NumCPU())
	fmt.Fprintf(ctx.Out, "Runtime:      %s\n", runtime.Version())
	fmt.Fprintf(ctx.Out, "Heap in use:  %d bytes\n", m.HeapAlloc)
	return 0
}

func cmdFree(ctx *Context) int {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	fmt.Fprintf(ctx.Out, "Heap in use:      %d bytes\n", m.HeapAlloc)
	fmt.Fprintf(ctx.Out, "Heap reserved:    %d bytes\n", m.HeapSys)
	fmt.Fprintf(ctx.Out, "GC cycles:        %d\n", m.NumGC)
	return 0
}

func cmdUptime(ctx *Context) int {
	ms := ctx.Host.Uptime().Milliseconds()
	secs := ms / 1000
	mins := secs / 60
	hours := mins / 60

	fmt.Fprintf(ctx.Out, "Uptime: %d:%02d:%02d (%d ms)\n",
		hours, mins%60, secs%60, ms)
	return 0
}

func cmdPwd(ctx *Context) int {
	fmt.Fprintf(ctx.Out, "%s\n", ctx.Host.Cwd())
	return 0
}

func cmdCd(ctx *Context) int {
	target := "/"
	if len(ctx.Args) > 1 {
		target = ctx.Args[1]
	}
	if err := ctx.Host.Chdir(target); err != nil {
		fmt.Fprintf(ctx.Out, "cd: %s: No such directory\n", target)
		return 1
	}
	return 0
}

func cmdLs(ctx *Context) int {
	dir := "."
	if len(ctx.Args) > 1 {
		dir = ctx.Args[1]
	}

	entries, err := ctx.FS.ReadDir(ctx.Host.Resolve(dir))
	if err != nil {
		fmt.Fprintf(ctx.Out, "ls: cannot access '%s': No such file or directory\n", dir)
		return 1
	}

	for _, e := range entries {
		if e.IsDir {
			fmt.Fprintf(ctx.Out, "%s/\n", e.Name)
		} else {
			fmt.Fprintf(ctx.Out, "%-20s %6d bytes\n", e.Name, e.Size)
		}
	}
	return 0
}

// cmdCat displays a file, or, when called with no operand while stdout is
// redirected, enters a write sub-mode that copies typed lines into the
// redirection target until an empty line or EOF.
func cmdCat(ctx *Context) int {
	if len(ctx.Args) < 2 {
		if ctx.Stdout.Present() {
			return catWrite(ctx)
		}
		fmt.Fprintf(ctx.Out, "Usage: cat <file> or cat > <file>\n")
		return 1
	}

	f, err := ctx.FS.Open(ctx.Host.Resolve(ctx.Args[1]), vfs.Read)
	if err != nil {
		fmt.Fprintf(ctx.Out, "cat: %s: No such file or directory\n", ctx.Args[1])
		return 1
	}
	defer f.Close()

	if _, err := io.Copy(ctx.Out, f); err != nil {
		fmt.Fprintf(ctx.Out, "cat: %s: read error\n", ctx.Args[1])
		return 1
	}
	return 0
}

func catWrite(ctx *Context) int {
	fmt.Fprintf(ctx.Term, "Enter text (empty line or Ctrl+D to finish):\n")

	for {
		line, err := ctx.Host.ReadLine()
		if err != nil {
			// An immediate EOF on an empty line means the user is done
			// writing, not that anything failed.
			if errors.Is(err, terminal.ErrEOF) {
				break
			}
			return 1
		}
		if line == "" {
			break
		}
		fmt.Fprintf(ctx.Out, "%s\n", line)
	}

	fmt.Fprintf(ctx.Term, "File saved.\n")
	return 0
}

func cmdEcho(ctx *Context) int {
	for i, arg := range ctx.Args[1:] {
		if i > 0 {
			fmt.Fprint(ctx.Out, " ")
		}
		fmt.Fprint(ctx.Out, arg)
	}
	fmt.Fprint(ctx.Out, "\n")
	return 0
}

func cmdTouch(ctx *Context) int {
	if len(ctx.Args) < 2 {
		fmt.Fprintf(ctx.Out, "Usage: touch <file>\n")
		return 1
	}

	f, err := ctx.FS.Open(ctx.Host.Resolve(ctx.Args[1]), vfs.Append)
	if err != nil {
		fmt.Fprintf(ctx.Out, "touch: cannot create '%s'\n", ctx.Args[1])
		return 1
	}
	f.Close()
	fmt.Fprintf(ctx.Out, "Created: %s\n", ctx.Args[1])
	return 0
}

func cmdRm(ctx *Context) int {
	if len(ctx.Args) < 2 {
		fmt.Fprintf(ctx.Out, "Usage: rm <file>\n")
		return 1
	}

	if err := ctx.FS.Remove(ctx.Host.Resolve(ctx.Args[1])); err != nil {
		fmt.Fprintf(ctx.Out, "rm: cannot remove '%s'\n", ctx.Args[1])
		return 1
	}
	fmt.Fprintf(ctx.Out, "Removed: %s\n", ctx.Args[1])
	return 0
}

func cmdMkdir(ctx *Context) int {
	if len(ctx.Args) < 2 {
		fmt.Fprintf(ctx.Out, "Usage: mkdir <directory>\n")
		return 1
	}

	if err := ctx.FS.Mkdir(ctx.Host.Resolve(ctx.Args[1])); err != nil {
		fmt.Fprintf(ctx.Out, "mkdir: cannot create '%s'\n", ctx.Args[1])
		if errors.Is(err, vfs.ErrUnsupported) {
			fmt.Fprintf(ctx.Out, "Note: this filesystem does not support directories.\n")
		}
		return 1
	}
	fmt.Fprintf(ctx.Out, "Created directory: %s\n", ctx.Args[1])
	return 0
}

func cmdFsinfo(ctx *Context) int {
	st := ctx.FS.Stats()

	fmt.Fprintf(ctx.Out, "Filesystem Info\n")
	fmt.Fprintf(ctx.Out, "---------------\n")
	fmt.Fprintf(ctx.Out, "Backend:      %s\n", st.Backend)
	if st.Backend == "os" {
		fmt.Fprintf(ctx.Out, "Capacity:     host filesystem\n")
		return 0
	}
	fmt.Fprintf(ctx.Out, "Files:        %d\n", st.Files)
	fmt.Fprintf(ctx.Out, "Used:         %d bytes\n", st.UsedBytes)
	if st.TotalBytes > 0 {
		free := st.TotalBytes - st.UsedBytes
		fmt.Fprintf(ctx.Out, "Total size:   %d bytes\n", st.TotalBytes)
		fmt.Fprintf(ctx.Out, "Free:         %d bytes\n", free)
		fmt.Fprintf(ctx.Out, "Usage:        %d%%\n", st.UsedBytes*100/st.TotalBytes)
	}
	return 0
}

// formatter is implemented by backends that can be wiped in place.
type formatter interface {
	Format()
}

func cmdFormat(ctx *Context) int {
	confirmed := false
	for _, a := range ctx.Args[1:] {
		if a == "--yes" || a == "-y" {
			confirmed = true
			break
		}
	}
	if !confirmed {
		fmt.Fprintf(ctx.Out, "WARNING: This will erase all files!\n")
		fmt.Fprintf(ctx.Out, "To confirm, run: format --yes\n")
		return 1
	}

	fs, ok := ctx.FS.(formatter)
	if !ok {
		fmt.Fprintf(ctx.Out, "format: not supported on this filesystem\n")
		return 1
	}

	fmt.Fprintf(ctx.Out, "Formatting filesystem...\n")
	fs.Format()
	fmt.Fprintf(ctx.Out, "Format complete. Filesystem is empty.\n")
	return 0
}

func cmdHistory(ctx *Context) int {
	all := ctx.History.All()
	if len(all) == 0 {
		fmt.Fprintf(ctx.Out, "No commands in history.\n")
		return 0
	}

	// The ring is most-recent-first; display oldest first like a log.
	for i := len(all) - 1; i >= 0; i-- {
		fmt.Fprintf(ctx.Out, "%4d  %s\n", len(all)-i, all[i])
	}
	return 0
}

func cmdSet(ctx *Context) int {
	if len(ctx.Args) < 2 {
		return cmdEnv(ctx)
	}

	if name, value, ok := parser.Assignment(ctx.Args[1]); ok {
		return reportSetError(ctx, ctx.Env.Set(name, value))
	}

	if len(ctx.Args) >= 3 {
		return reportSetError(ctx, ctx.Env.Set(ctx.Args[1], ctx.Args[2]))
	}

	fmt.Fprintf(ctx.Out, "Usage: set NAME=value\n")
	fmt.Fprintf(ctx.Out, "   or: set NAME value\n")
	return 1
}

func reportSetError(ctx *Context, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, env.ErrStoreFull):
		fmt.Fprintf(ctx.Out, "set: too many variables\n")
	case errors.Is(err, env.ErrNameTooLong):
		fmt.Fprintf(ctx.Out, "set: variable name too long\n")
	case errors.Is(err, env.ErrValueTooLong):
		fmt.Fprintf(ctx.Out, "set: value too long\n")
	default:
		fmt.Fprintf(ctx.Out, "set: %v\n", err)
	}
	return 1
}

func cmdUnset(ctx *Context) int {
	if len(ctx.Args) < 2 {
		fmt.Fprintf(ctx.Out, "Usage: unset NAME\n")
		return 1
	}

	if err := ctx.Env.Unset(ctx.Args[1]); err != nil {
		fmt.Fprintf(ctx.Out, "unset: variable '%s' not found\n", ctx.Args[1])
		return 1
	}
	return 0
}

func cmdEnv(ctx *Context) int {
	vars := ctx.Env.List()
	if len(vars) == 0 {
		fmt.Fprintf(ctx.Out, "No environment variables defined.\n")
		return 0
	}
	for _, v := range vars {
		fmt.Fprintf(ctx.Out, "%s=%s\n", v.Name, v.Value)
	}
	return 0
}

func cmdJobs(ctx *Context) int {
	fmt.Fprintf(ctx.Out, "jobs: not available\n")
	fmt.Fprintf(ctx.Out, "  This shell does not support background processes.\n")
	fmt.Fprintf(ctx.Out, "  All commands run in the foreground.\n")
	return 1
}

func cmdFg(ctx *Context) int {
	fmt.Fprintf(ctx.Out, "fg: not available\n")
	fmt.Fprintf(ctx.Out, "  No background jobs to bring to foreground.\n")
	return 1
}

func cmdBg(ctx *Context) int {
	fmt.Fprintf(ctx.Out, "bg: not available\n")
	fmt.Fprintf(ctx.Out, "  This shell does not support background processes.\n")
	return 1
}

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/drake/ushell/config"
	"github.com/drake/ushell/internal/logging"
	"github.com/drake/ushell/platform"
	"github.com/drake/ushell/script"
	"github.com/drake/ushell/shell"
	"github.com/drake/ushell/vfs"
)

// Default caps for the --memfs backend, sized like a small flash partition.
const (
	memMaxFiles     = 64
	memMaxFileBytes = 64 * 1024
	memMaxTotal     = 512 * 1024
)

type rootOptions struct {
	configPath string
	prompt     string
	memfs      bool
	noEdit     bool
	embedded   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ushell [script.lua ...]",
		Short: "A line-oriented command interpreter with bounded buffers",
		Long: `ushell is an interactive command interpreter built around statically
bounded buffers: a raw-byte line editor with history, a tokenizing parser
with variable expansion and redirection, and a fixed command table.

Positional arguments are Lua scripts that may register extra commands
before the session starts.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	cmd.Flags().StringVarP(&opts.prompt, "prompt", "p", "", "prompt string")
	cmd.Flags().BoolVar(&opts.memfs, "memfs", false, "use the bounded in-memory filesystem")
	cmd.Flags().BoolVar(&opts.noEdit, "no-edit", false, "plain line input without editing or history")
	cmd.Flags().BoolVar(&opts.embedded, "embedded", false, "use the embedded-profile buffer limits")

	return cmd
}

func run(opts *rootOptions, scripts []string) error {
	log := logging.New()

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	limits := config.Desktop()
	if opts.embedded {
		limits = config.Embedded()
	}
	if cfg.HistorySize > 0 {
		limits.HistorySize = cfg.HistorySize
	}

	prompt := shell.DefaultPrompt
	if cfg.Prompt != "" {
		prompt = cfg.Prompt
	}
	if opts.prompt != "" {
		prompt = opts.prompt
	}

	var fs vfs.FS
	cwd := "/"
	if opts.memfs {
		fs = vfs.NewMem(memMaxFiles, memMaxFileBytes, memMaxTotal)
	} else {
		fs = vfs.NewOS()
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		}
	}

	console, err := platform.NewConsole()
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	defer console.Close()

	sess, err := shell.New(console, fs, shell.Options{
		Prompt: prompt,
		Limits: limits,
		NoEdit: opts.noEdit,
		Cwd:    cwd,
		Logger: log,
	})
	if err != nil {
		return err
	}

	// Preset variables from the config file, in a stable order so store
	// exhaustion is deterministic.
	names := make([]string, 0, len(cfg.Env))
	for name := range cfg.Env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := sess.Env().Set(name, cfg.Env[name]); err != nil {
			fmt.Fprintf(sess.Output(), "config: %s: %v\n", name, err)
		}
	}

	// Lua extensions: init.lua, then config-listed scripts, then CLI args.
	eng := script.New(sess.Commands(), sess.Env(), sess.Output(), log)
	defer eng.Close()

	if _, err := os.Stat(config.InitFile()); err == nil {
		if err := eng.LoadFile(config.InitFile()); err != nil {
			fmt.Fprintf(sess.Output(), "%v\n", err)
		}
	}
	for _, path := range append(append([]string{}, cfg.Scripts...), scripts...) {
		if err := eng.LoadFile(path); err != nil {
			fmt.Fprintf(sess.Output(), "%v\n", err)
		}
	}

	return sess.Run()
}

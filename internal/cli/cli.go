// Package cli is the eventist command line: it resolves configuration from
// file, environment and flags, then runs a chat session or reports on one.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"eventist/internal/chat"
	"eventist/internal/config"
)

// Options holds what the persistent and per-command flags resolved to.
type Options struct {
	ConfigPath string
	Flags      config.Config
}

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Session runner, replaceable in tests.
var fnRunSession = func(ctx context.Context, s *chat.Session, in io.Reader) error {
	return s.Run(ctx, in)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: eventist [--config file] [--log-level info] <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  chat [--admin-addr :8080] [--cors-origins a,b] [--prompt OHAI] [--no-filter] [--verbose]")
	fmt.Fprintln(w, "  info [--format json|text]")
	fmt.Fprintln(w, "  completion bash|zsh|fish|powershell")
}

// resolveConfig layers defaults, the config file, EVENTIST_* variables and
// flags, later sources winning.
func resolveConfig(o *Options) (config.Config, error) {
	var cfg config.Config
	if o.ConfigPath != "" {
		fc, err := config.Load(o.ConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", o.ConfigPath, err)
		}
		cfg = cfg.Merge(fc)
	}
	cfg = cfg.Merge(config.FromEnv()).Merge(o.Flags)
	return cfg.WithDefaults(), nil
}

// MainWithArgs runs the command line and returns the process exit code:
// 0 on success, 1 on error, 2 when no command was given.
func MainWithArgs(args []string) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	root := buildRootCmd(&Options{})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// Main runs the command line with os.Args.
func Main() int { return MainWithArgs(os.Args[1:]) }

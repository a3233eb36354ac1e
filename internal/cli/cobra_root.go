package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"eventist/internal/chat"
	"eventist/internal/httpapi"
	"eventist/pkg/types"
)

// buildRootCmd constructs the command tree; flag values land in o.
func buildRootCmd(o *Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "eventist",
		Short:         "Module chat bot running on an in-process event bus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.ConfigPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	root.PersistentFlags().StringVar(&o.Flags.LogLevel, "log-level", "", "Log level: debug|info|warn|error (defaults EVENTIST_LOG_LEVEL or info)")

	var corsOrigins string
	chatCmd := &cobra.Command{
		Use:     "chat",
		Short:   "Start an interactive chat session on stdin/stdout",
		Example: "  eventist chat\n  eventist chat --no-filter --verbose\n  eventist chat --admin-addr :8080",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Flags.CORSOrigins = splitCSV(corsOrigins)
			cfg, err := resolveConfig(o)
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			httpapi.SetLogger(log)
			httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins, nil, nil)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			s := chat.NewSession(cfg, cmd.OutOrStdout(), log)
			log.Info().Str("session", s.ID).Bool("filter", !cfg.NoFilter).Msg("chat started")
			return fnRunSession(ctx, s, cmd.InOrStdin())
		},
	}
	chatCmd.Flags().StringVar(&o.Flags.AdminAddr, "admin-addr", "", "Serve the admin API on this address (defaults EVENTIST_ADMIN_ADDR, off when empty)")
	chatCmd.Flags().StringVar(&o.Flags.Prompt, "prompt", "", "Prompt shown when the filter is off")
	chatCmd.Flags().BoolVar(&o.Flags.NoFilter, "no-filter", false, "Start without the input filter")
	chatCmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma separated origins allowed to call the admin API (CORS off when empty)")
	chatCmd.Flags().BoolVar(&o.Flags.Verbose, "verbose", false, "Mirror every bus event to the screen")
	root.AddCommand(chatCmd)

	var format string
	infoCmd := &cobra.Command{
		Use:     "info",
		Short:   "Print the handler table of a freshly assembled session",
		Example: "  eventist info\n  eventist info --format text --no-filter",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(o)
			if err != nil {
				return err
			}
			s := chat.NewSession(cfg, io.Discard, zerolog.Nop())
			defer s.Close()
			s.Loop.RunPending()
			return writeInfo(cmd.OutOrStdout(), format, types.InfoResponse{
				Events:  s.Info(),
				Depth:   s.Depth(),
				Modules: s.Modules(),
			})
		},
	}
	infoCmd.Flags().StringVar(&format, "format", "json", "Output format: json|text")
	infoCmd.Flags().BoolVar(&o.Flags.NoFilter, "no-filter", false, "Assemble the session without the input filter")
	root.AddCommand(infoCmd)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout()) }})
	root.AddCommand(completionCmd)

	return root
}

func writeInfo(w io.Writer, format string, info types.InfoResponse) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "text":
		fmt.Fprintf(w, "modules: %v\n", info.Modules)
		fmt.Fprintf(w, "depth: %d\n", info.Depth)
		for _, ev := range httpapi.EventNames(info.Events) {
			fmt.Fprintf(w, "%-18s %d\n", ev, info.Events[ev])
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or text)", format)
	}
}

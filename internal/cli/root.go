// Package cli wires the assistant's commands: an interactive console chat,
// the network server, and a one-shot intent resolver for debugging.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "jarvis",
		Short:         "Jarvis - voice and text command assistant",
		Long:          "Jarvis resolves natural-language commands into actions: time, weather, Wikipedia lookups, app launching, alarms, reminders, and more.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(NewChatCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))

	return cmd
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

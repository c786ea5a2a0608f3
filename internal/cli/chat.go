package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jarvis/internal/config"
	"jarvis/internal/dialogue"
	"jarvis/internal/domain"
	"jarvis/internal/session"
	"jarvis/internal/speech"
)

func NewChatCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant in the terminal",
		Long: `Start an interactive session on stdin/stdout. Commands are typed, replies
are printed, and alarms or reminders fire into the same console.

Example:
  jarvis chat
  JARVIS_WEATHER_API_KEY=... jarvis chat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(rootOpts)
		},
	}
}

func runChat(opts *RootOptions) error {
	logger := newLogger(opts.Verbose)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resolver, err := buildResolver(cfg)
	if err != nil {
		return err
	}

	cmdLog, _, closeLog, err := buildCommandLog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLog()

	engine := speech.NewEngine(os.Stdin, os.Stdout, cfg.VoiceStyle)
	sess := session.New(session.DefaultMemorySize)
	defer sess.CancelAllTimers()

	controller := dialogue.New(
		dialogue.Config{Mode: domain.ModeManual},
		resolver,
		sess,
		dialogue.Deps{
			Speaker: engine,
			Reader:  engine,
			Voice:   engine,
			Log:     cmdLog,
			Collab:  buildCollaborators(cfg, logger),
		},
		logger,
	)
	return controller.Run(ctx)
}

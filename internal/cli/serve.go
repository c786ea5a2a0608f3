package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jarvis/internal/api"
	"jarvis/internal/config"
	"jarvis/internal/dialogue"
	"jarvis/internal/domain"
	"jarvis/internal/mqtt"
	"jarvis/internal/session"
	"jarvis/internal/speech"
	"jarvis/internal/terminals"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the assistant as a server",
		Long: `Serve the HTTP API and, when an MQTT broker is reachable, drive the voice
loop against connected terminals. Without a broker the assistant still
answers commands over HTTP.

Example:
  jarvis serve
  MQTT_BROKER_URL=tcp://broker:1883 JARVIS_DB_DSN=postgres://... jarvis serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(rootOpts)
		},
	}
}

// logSpeaker stands in for a voice terminal when none is connected: replies
// still land somewhere visible.
type logSpeaker struct {
	logger *slog.Logger
}

func (s logSpeaker) Speak(text string) {
	s.logger.Info("say", "text", text)
}

func runServe(opts *RootOptions) error {
	logger := newLogger(opts.Verbose)
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resolver, err := buildResolver(cfg)
	if err != nil {
		return err
	}

	cmdLog, fileLog, closeLog, err := buildCommandLog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLog()

	registry := terminals.NewRegistry(cfg.TerminalTTL)
	voice := speech.NewVoice(cfg.VoiceStyle)
	hub := mqtt.NewHub(mqtt.HubConfig{
		BrokerURL:     cfg.MQTTBrokerURL,
		ClientID:      cfg.MQTTClientID,
		Username:      cfg.MQTTUsername,
		Password:      cfg.MQTTPassword,
		TopicPrefix:   cfg.MQTTTopicPrefix,
		ListenTimeout: cfg.ListenTimeout,
		MaxRetries:    cfg.ListenRetries,
	}, registry, voice, logger)

	deps := dialogue.Deps{
		Voice:  voice,
		Log:    cmdLog,
		Collab: buildCollaborators(cfg, logger),
	}
	if err := hub.Start(ctx); err != nil {
		logger.Warn("mqtt broker unreachable, voice disabled", "error", err)
		deps.Speaker = logSpeaker{logger: logger}
	} else {
		deps.Speaker = hub
		deps.Listener = hub
	}

	mode := domain.Mode(cfg.Mode)
	if mode != domain.ModeVoice && mode != domain.ModeManual {
		mode = domain.ModeVoice
	}

	sess := session.New(session.DefaultMemorySize)
	defer sess.CancelAllTimers()

	controller := dialogue.New(dialogue.Config{Mode: mode}, resolver, sess, deps, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.New(controller, registry, fileLog, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("jarvis server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	if deps.Listener != nil {
		go func() {
			if err := controller.Run(ctx); err != nil {
				logger.Error("voice loop stopped", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	return nil
}

package cli

import (
	"context"
	"log/slog"

	"jarvis/internal/apps"
	"jarvis/internal/config"
	"jarvis/internal/dialogue"
	"jarvis/internal/history"
	"jarvis/internal/intent"
	"jarvis/internal/store"
	"jarvis/internal/sysinfo"
	"jarvis/internal/weather"
	"jarvis/internal/wiki"
)

func buildResolver(cfg config.Config) (*intent.Resolver, error) {
	if cfg.IntentCatalog != "" {
		catalog, err := intent.Load(cfg.IntentCatalog)
		if err != nil {
			return nil, err
		}
		return intent.NewResolver(catalog), nil
	}
	return intent.NewResolver(intent.Default()), nil
}

func buildCollaborators(cfg config.Config, logger *slog.Logger) dialogue.Collaborators {
	launcher := apps.NewLauncher(nil, logger)
	collab := dialogue.Collaborators{
		Wiki:   wiki.NewClient(cfg.ServiceTimeout, logger),
		Search: launcher,
		Apps:   launcher,
		Status: sysinfo.NewReporter(logger),
	}
	if cfg.WeatherAPIKey != "" {
		collab.Weather = weather.NewClient(cfg.WeatherAPIKey, cfg.WeatherCity, cfg.ServiceTimeout, logger)
	}
	return collab
}

// buildCommandLog assembles the command sinks: always the file log, plus
// Postgres when a DSN is configured. The returned close func releases the
// database pool.
func buildCommandLog(ctx context.Context, cfg config.Config, logger *slog.Logger) (dialogue.CommandLogger, *history.Logger, func(), error) {
	fileLog := history.NewLogger(cfg.CommandLogPath)
	sinks := dialogue.MultiLogger{fileLog}
	closeFn := func() {}

	if cfg.DBDSN != "" {
		st, err := store.New(ctx, cfg.DBDSN, cfg.DeviceID)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, nil, nil, err
		}
		sinks = append(sinks, st)
		closeFn = st.Close
		logger.Info("command log persisted to postgres")
	}

	return sinks, fileLog, closeFn, nil
}

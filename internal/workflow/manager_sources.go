package workflow

import (
	"context"
	"log/slog"

	"luamaker/internal/appsource"
	"luamaker/internal/generator"
	"luamaker/internal/logging"
	"luamaker/internal/services"
	"luamaker/internal/steamcmd"
)

// fetchMetadata walks the source chain. Text that does not yield the app's
// record (retryable generator failures) makes the chain fall through to the
// next source.
func (m *Manager) fetchMetadata(ctx context.Context, logger *slog.Logger, appID string, consume bool) (string, string, error) {
	chain := &appsource.Chain{
		Sources: m.metadataSources(logger, appID, consume),
		Check:   m.checkMetadata,
		Logger:  logger,
	}
	raw, source, err := chain.Fetch(ctx, appID)
	if err != nil {
		if generator.Retryable(err) {
			return "", "", services.Wrap(services.ErrValidation, "fetch", "app metadata",
				"no source returned a usable record; save a fresh copy to "+m.cfg.SteamCMD.FallbackFile, err)
		}
		return "", "", err
	}
	logger.Info("app metadata fetched",
		logging.String("source", source),
		logging.Int("response_bytes", len(raw)),
	)
	return raw, source, nil
}

func (m *Manager) metadataSources(logger *slog.Logger, appID string, consume bool) []appsource.Source {
	if len(m.sources) > 0 {
		return m.sources
	}
	if m.appInfoFile != "" {
		return []appsource.Source{&appsource.File{Path: m.appInfoFile}}
	}

	var sources []appsource.Source
	if client := m.steamCMDClient(logger); client != nil {
		sources = append(sources, client)
	}
	sources = append(sources, &appsource.File{
		Path:            m.cfg.SteamCMD.FallbackFile,
		RemoveAfterRead: consume && m.cfg.SteamCMD.RemoveFallbackAfterRead,
		Hint:            m.cfg.AppInfoURL(appID),
		Wait:            m.waiter,
	})
	return sources
}

func (m *Manager) steamCMDClient(logger *slog.Logger) *steamcmd.Client {
	opts := []steamcmd.Option{
		steamcmd.WithLogDir(m.cfg.Paths.LogDir),
		steamcmd.WithLogger(m.base),
	}
	binary := m.cfg.SteamCMDBinary()
	if m.executor != nil {
		opts = append(opts, steamcmd.WithExecutor(m.executor))
	} else {
		located, err := steamcmd.Locate(binary)
		if err != nil {
			logging.WarnWithContext(logger, "steamcmd not available", "steamcmd_missing",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "install steamcmd or set steamcmd.binary"),
				logging.String(logging.FieldImpact, "falling back to the manual metadata file"),
			)
			return nil
		}
		binary = located
	}
	client, err := steamcmd.New(binary, m.cfg.SteamCMD.Timeout, opts...)
	if err != nil {
		logger.Debug("steamcmd client unavailable", logging.Error(err))
		return nil
	}
	return client
}

func (m *Manager) checkMetadata(appID, raw string) error {
	if _, err := m.checker.Describe(appID, raw); err != nil && generator.Retryable(err) {
		return err
	}
	return nil
}

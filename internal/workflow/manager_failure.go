package workflow

import (
	"context"
	"errors"
	"log/slog"

	"luamaker/internal/appinfo"
	"luamaker/internal/depotset"
	"luamaker/internal/generator"
	"luamaker/internal/history"
	"luamaker/internal/keystore"
	"luamaker/internal/logging"
	"luamaker/internal/notifications"
	"luamaker/internal/services"
	"luamaker/internal/steamcmd"
	"luamaker/internal/steampath"
)

// classifyGeneratorError tags a generator failure with the service marker
// that decides its history status.
func classifyGeneratorError(err error) error {
	var marker error
	switch {
	case errors.Is(err, generator.ErrInvalidAppID), generator.Retryable(err):
		marker = services.ErrValidation
	case errors.Is(err, depotset.ErrMissingMainlineKey),
		errors.Is(err, appinfo.ErrNoValidDepots),
		errors.Is(err, keystore.ErrKeyNotFound),
		errors.Is(err, keystore.ErrDepotBlockNotFound):
		marker = services.ErrNotFound
	default:
		marker = services.ErrTransient
	}
	return services.Wrap(marker, "generate", "run generator", "", err)
}

// FailureHint returns a short remedy for a run failure.
func FailureHint(err error) string {
	switch {
	case errors.Is(err, steampath.ErrNotInstalled):
		return "set paths.steam_dir or pass --steam-dir"
	case errors.Is(err, depotset.ErrMissingMainlineKey):
		return "install the app in Steam so its depot keys are written to config.vdf"
	case errors.Is(err, appinfo.ErrNoValidDepots):
		return "no depot has both a manifest id and a key; check the app id"
	case errors.Is(err, ErrNoManifests):
		return "download the app in Steam so its manifests are cached in depotcache"
	case errors.Is(err, services.ErrConfiguration):
		return "run luamaker status to check the steam installation"
	case errors.Is(err, services.ErrNotFound):
		return "save the app metadata manually and retry"
	case errors.Is(err, services.ErrValidation):
		return "check the app id and the metadata document"
	case errors.Is(err, services.ErrTimeout):
		return "steamcmd timed out; raise steamcmd.timeout or use --appinfo-file"
	default:
		return "check logs for details"
	}
}

func (m *Manager) logFailure(logger *slog.Logger, err error) {
	logging.ErrorWithContext(logger, "run failed", "run_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, FailureHint(err)),
		logging.Alert("run_failure"),
	)
}

func (m *Manager) recordRun(ctx context.Context, logger *slog.Logger, report *Report, runErr error) {
	if m.history == nil || report.AppID == "" {
		return
	}
	entry := history.Entry{
		RunID:         report.RunID,
		AppID:         report.AppID,
		AppName:       report.Name,
		Mode:          report.Mode,
		Status:        history.StatusSucceeded,
		DepotCount:    m.depotCount(report),
		DroppedCount:  len(report.Dropped),
		ManifestCount: len(report.Manifests),
		OutputDir:     report.OutputDir,
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
	}
	if runErr != nil {
		entry.Status = services.FailureStatus(runErr)
		entry.ErrorMessage = runErr.Error()
	}
	if _, err := m.history.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(logger, "failed to record run history", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "run missing from luamaker history"),
		)
	}
}

func (m *Manager) notifyRun(ctx context.Context, logger *slog.Logger, report *Report, runErr error) {
	if m.notify == nil || !m.notify.Enabled() {
		return
	}
	ctx = context.WithoutCancel(ctx)
	var err error
	if runErr != nil {
		err = m.notify.NotifyRunFailed(ctx, report.AppID, runErr)
	} else {
		err = m.notify.NotifyRunCompleted(ctx, notifications.RunSummary{
			AppID:     report.AppID,
			Name:      report.Name,
			Mode:      string(report.Mode),
			Depots:    m.depotCount(report),
			Manifests: len(report.Manifests),
			OutputDir: report.OutputDir,
			Elapsed:   report.FinishedAt.Sub(report.StartedAt),
		})
	}
	if err != nil {
		logging.WarnWithContext(logger, "notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "run notice not delivered"),
		)
	}
}

func (m *Manager) pruneResponseLogs(logger *slog.Logger) {
	logging.CleanupOldLogs(logger, m.cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     m.cfg.Paths.LogDir,
		Pattern: steamcmd.ResponseLogName("*"),
	})
}

package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"luamaker/internal/appinfo"
	"luamaker/internal/generator"
	"luamaker/internal/history"
	"luamaker/internal/logging"
	"luamaker/internal/luascript"
	"luamaker/internal/manifests"
	"luamaker/internal/services"
	"luamaker/internal/steampath"
	"luamaker/internal/workspace"
)

// Generate produces the script and manifest copies for appID.
func (m *Manager) Generate(ctx context.Context, appID string) (*Report, error) {
	appID = strings.TrimSpace(appID)
	runID := uuid.NewString()
	ctx = services.WithRequestID(services.WithStage(services.WithAppID(ctx, appID), "generate"), runID)
	logger := logging.WithContext(ctx, m.logger)

	report := &Report{
		RunID:     runID,
		AppID:     appID,
		Mode:      history.ModeGenerated,
		StartedAt: time.Now(),
	}
	err := m.generate(ctx, logger, report)
	report.FinishedAt = time.Now()

	m.recordRun(ctx, logger, report, err)
	m.pruneResponseLogs(logger)
	m.notifyRun(ctx, logger, report, err)

	if err != nil {
		m.logFailure(logger, err)
		return nil, err
	}
	logger.Info("run complete",
		logging.String("app_name", report.Name),
		logging.String("mode", string(report.Mode)),
		logging.String("output_dir", report.OutputDir),
		logging.Int("depot_count", m.depotCount(report)),
		logging.Int("manifest_count", len(report.Manifests)),
		logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

func (m *Manager) generate(ctx context.Context, logger *slog.Logger, report *Report) error {
	if err := generator.ValidateAppID(report.AppID); err != nil {
		return services.Wrap(services.ErrValidation, "generate", "validate app id", "", err)
	}
	layout, err := m.ResolveLayout(ctx)
	if err != nil {
		return err
	}
	report.Layout = layout

	raw, source, err := m.fetchMetadata(ctx, logger, report.AppID, true)
	if err != nil {
		return err
	}
	report.Source = source

	if m.cfg.Output.UsePlugin && layout.HasPlugin(report.AppID) {
		logger.Info("plugin script found; reusing it",
			logging.Args(append(logging.DecisionAttrs("script_source", "plugin", "plugin file present"),
				logging.String("plugin_path", layout.PluginPath(report.AppID)),
			)...)...,
		)
		return m.generateFromPlugin(ctx, logger, layout, raw, report)
	}
	return m.generateFromTrustStore(ctx, logger, layout, raw, report)
}

func (m *Manager) generateFromPlugin(ctx context.Context, logger *slog.Logger, layout steampath.Layout, raw string, report *Report) error {
	report.Mode = history.ModePlugin
	desc, err := m.gen.Describe(report.AppID, raw)
	if err != nil {
		return classifyGeneratorError(err)
	}
	report.Name = desc.Name

	pluginPath := layout.PluginPath(report.AppID)
	script, err := os.ReadFile(pluginPath)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "generate", "read plugin", pluginPath, err)
	}
	report.PluginDepots = luascript.DepotIDs(string(script), report.AppID)

	ws, err := m.openWorkspace(report)
	if err != nil {
		return err
	}
	defer m.releaseWorkspace(logger, ws)

	if report.ScriptPath, err = ws.CopyScript(pluginPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "generate", "copy plugin", "", err)
	}

	names := depotNames(desc.Candidates)
	targets := make([]manifests.Target, 0, len(report.PluginDepots))
	for _, id := range report.PluginDepots {
		targets = append(targets, manifests.Target{DepotID: id, Name: names[id]})
	}
	if err := m.copyManifests(ctx, layout, targets, report); err != nil {
		return err
	}
	if len(report.Manifests) == 0 {
		return services.Wrap(services.ErrNotFound, "generate", "copy manifests",
			"no manifest files found for plugin depots", ErrNoManifests)
	}
	return nil
}

func (m *Manager) generateFromTrustStore(ctx context.Context, logger *slog.Logger, layout steampath.Layout, raw string, report *Report) error {
	local, err := layout.ReadTrustStore()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "generate", "read trust store", layout.TrustStorePath(), err)
	}
	result, err := m.gen.Run(report.AppID, raw, local)
	if err != nil {
		return classifyGeneratorError(err)
	}
	report.Name = result.Name
	report.Depots = result.Depots
	report.Dropped = result.Dropped

	ws, err := m.openWorkspace(report)
	if err != nil {
		return err
	}
	defer m.releaseWorkspace(logger, ws)

	targets := make([]manifests.Target, 0, len(result.Depots))
	for _, depot := range result.Depots {
		targets = append(targets, manifests.Target{DepotID: depot.DepotID, Name: depot.Name})
	}
	if err := m.copyManifests(ctx, layout, targets, report); err != nil {
		return err
	}
	if len(report.Manifests) == 0 {
		if m.cfg.Output.RequireManifests {
			return services.Wrap(services.ErrNotFound, "generate", "copy manifests",
				"no manifest files found for any depot", ErrNoManifests)
		}
		logging.WarnWithContext(logger, "no manifests copied", "manifests_missing",
			logging.String(logging.FieldErrorHint, "download the app in Steam so its manifests are cached"),
			logging.String(logging.FieldImpact, "script written without manifests"),
		)
	}

	if report.ScriptPath, err = ws.WriteScript(result.Script); err != nil {
		return services.Wrap(services.ErrExternalTool, "generate", "write script", "", err)
	}
	return nil
}

func (m *Manager) openWorkspace(report *Report) (*workspace.Workspace, error) {
	ws, err := workspace.Open(m.cfg.LockDir(), m.cfg.Paths.OutputDir, report.AppID, report.Name)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "generate", "open workspace", "", err)
	}
	report.OutputDir = ws.Dir
	return ws, nil
}

func (m *Manager) releaseWorkspace(logger *slog.Logger, ws *workspace.Workspace) {
	if err := ws.Release(); err != nil {
		logger.Debug("workspace release failed", logging.Error(err))
	}
}

func (m *Manager) copyManifests(ctx context.Context, layout steampath.Layout, targets []manifests.Target, report *Report) error {
	result, err := manifests.Copy(ctx, logging.WithContext(ctx, m.base), layout.DepotCacheDir, targets, report.OutputDir)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "generate", "copy manifests", "", err)
	}
	report.Manifests = result.Copied
	return nil
}

func (m *Manager) depotCount(report *Report) int {
	if report.Mode == history.ModePlugin {
		return len(report.PluginDepots)
	}
	return len(report.Depots)
}

func depotNames(candidates []appinfo.Depot) map[string]string {
	names := make(map[string]string, len(candidates))
	for _, depot := range candidates {
		names[depot.ID] = depot.Name
	}
	return names
}

// Summary renders a one-line description of the report.
func (r *Report) Summary() string {
	return fmt.Sprintf("app %s (%s): %d manifest(s) copied to %s", r.AppID, r.Mode, len(r.Manifests), r.OutputDir)
}

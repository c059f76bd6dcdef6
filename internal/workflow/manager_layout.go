package workflow

import (
	"context"
	"log/slog"
	"strings"

	"luamaker/internal/logging"
	"luamaker/internal/pathcache"
	"luamaker/internal/services"
	"luamaker/internal/steampath"
)

// ResolveLayout returns the Steam layout for this run: the configured root
// when set, otherwise the cached config path when it still validates,
// otherwise discovery. A validated layout is written back to the cache.
func (m *Manager) ResolveLayout(ctx context.Context) (steampath.Layout, error) {
	logger := logging.WithContext(ctx, m.logger)

	if root := strings.TrimSpace(m.cfg.Paths.SteamDir); root != "" {
		layout := steampath.FromRoot(root)
		if err := layout.Validate(); err != nil {
			return steampath.Layout{}, services.Wrap(services.ErrConfiguration, "resolve", "steam layout",
				"paths.steam_dir does not look like a Steam installation", err)
		}
		m.rememberLayout(logger, layout)
		return layout, nil
	}

	if entry, ok := m.cache.Lookup(pathcache.SteamConfigKey); ok {
		layout := steampath.FromConfigDir(entry.Path)
		if err := layout.Validate(); err == nil {
			logger.Debug("using cached steam layout", logging.String("config_dir", layout.ConfigDir))
			return layout, nil
		}
		logging.WarnWithContext(logger, "cached steam path no longer valid", "steam_cache_stale",
			logging.String("config_dir", entry.Path),
			logging.String(logging.FieldImpact, "rediscovering steam installation"),
		)
	}

	layout, err := steampath.Discover()
	if err != nil {
		return steampath.Layout{}, services.Wrap(services.ErrConfiguration, "resolve", "steam layout",
			"set paths.steam_dir or LUAMAKER_STEAM_DIR", err)
	}
	logger.Info("discovered steam installation", logging.String("steam_root", layout.Root))
	m.rememberLayout(logger, layout)
	return layout, nil
}

func (m *Manager) rememberLayout(logger *slog.Logger, layout steampath.Layout) {
	if err := m.cache.Store(pathcache.SteamConfigKey, layout.ConfigDir); err != nil {
		logging.WarnWithContext(logger, "failed to cache steam path", "steam_cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "steam installation will be rediscovered next run"),
		)
	}
}

package workflow

import (
	"log/slog"

	"luamaker/internal/appsource"
	"luamaker/internal/config"
	"luamaker/internal/generator"
	"luamaker/internal/history"
	"luamaker/internal/logging"
	"luamaker/internal/notifications"
	"luamaker/internal/pathcache"
	"luamaker/internal/steamcmd"
)

// Manager coordinates a run across the Steam installation, metadata sources,
// generator, workspace, history store, and notifier.
type Manager struct {
	cfg     *config.Config
	base    *slog.Logger
	logger  *slog.Logger
	gen     *generator.Generator
	checker *generator.Generator
	cache   *pathcache.Cache
	history *history.Store
	notify  notifications.Service

	appInfoFile string
	waiter      appsource.Waiter
	executor    steamcmd.Executor
	sources     []appsource.Source
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithHistory records every run in store.
func WithHistory(store *history.Store) ManagerOption {
	return func(m *Manager) {
		m.history = store
	}
}

// WithNotifier overrides the notification service built from the config.
func WithNotifier(svc notifications.Service) ManagerOption {
	return func(m *Manager) {
		if svc != nil {
			m.notify = svc
		}
	}
}

// WithPathCache overrides the path cache opened from the config.
func WithPathCache(cache *pathcache.Cache) ManagerOption {
	return func(m *Manager) {
		if cache != nil {
			m.cache = cache
		}
	}
}

// WithAppInfoFile reads metadata from path only, bypassing steamcmd. The file
// is left in place after reading.
func WithAppInfoFile(path string) ManagerOption {
	return func(m *Manager) {
		m.appInfoFile = path
	}
}

// WithFileWaiter is consulted while the manual fallback file is missing.
func WithFileWaiter(w appsource.Waiter) ManagerOption {
	return func(m *Manager) {
		m.waiter = w
	}
}

// WithSteamCMDExecutor injects the steamcmd executor (primarily for tests).
func WithSteamCMDExecutor(exec steamcmd.Executor) ManagerOption {
	return func(m *Manager) {
		m.executor = exec
	}
}

// WithSources replaces the metadata source chain entirely.
func WithSources(sources ...appsource.Source) ManagerOption {
	return func(m *Manager) {
		m.sources = sources
	}
}

// NewManager constructs a workflow manager.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:     cfg,
		base:    logger,
		logger:  logging.NewComponentLogger(logger, "workflow"),
		gen:     generator.New(logger),
		checker: generator.New(logging.NewNop()),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache = pathcache.NewCache(cfg.PathCachePath(), logger)
	}
	if m.notify == nil {
		m.notify = notifications.NewService(cfg)
	}
	return m
}

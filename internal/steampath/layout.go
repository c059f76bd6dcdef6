package steampath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotInstalled reports that no Steam installation could be found.
	ErrNotInstalled = errors.New("steam installation not found")
	// ErrInvalidLayout reports a root missing a required directory.
	ErrInvalidLayout = errors.New("invalid steam layout")
)

const (
	configDirName     = "config"
	depotCacheDirName = "depotcache"
	pluginDirName     = "stplugin"
	trustStoreName    = "config.vdf"
)

// Layout names the Steam directories used by a run.
type Layout struct {
	Root          string
	ConfigDir     string
	DepotCacheDir string
	PluginDir     string
}

// FromRoot derives a layout from a Steam root directory.
func FromRoot(root string) Layout {
	root = filepath.Clean(strings.TrimSpace(root))
	config := filepath.Join(root, configDirName)
	return Layout{
		Root:          root,
		ConfigDir:     config,
		DepotCacheDir: filepath.Join(root, depotCacheDirName),
		PluginDir:     filepath.Join(config, pluginDirName),
	}
}

// FromConfigDir derives a layout from a cached config directory path.
func FromConfigDir(configDir string) Layout {
	return FromRoot(filepath.Dir(filepath.Clean(configDir)))
}

// Validate checks that the config and depotcache directories exist.
func (l Layout) Validate() error {
	if strings.TrimSpace(l.Root) == "" {
		return fmt.Errorf("%w: empty root", ErrInvalidLayout)
	}
	for _, dir := range []string{l.ConfigDir, l.DepotCacheDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidLayout, dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrInvalidLayout, dir)
		}
	}
	return nil
}

// TrustStorePath returns the config.vdf location.
func (l Layout) TrustStorePath() string {
	return filepath.Join(l.ConfigDir, trustStoreName)
}

// PluginPath returns the plugin script location for appID.
func (l Layout) PluginPath(appID string) string {
	return filepath.Join(l.PluginDir, appID+".lua")
}

// HasPlugin reports whether a plugin script exists for appID.
func (l Layout) HasPlugin(appID string) bool {
	info, err := os.Stat(l.PluginPath(appID))
	return err == nil && !info.IsDir()
}

// ReadTrustStore returns the contents of config.vdf.
func (l Layout) ReadTrustStore() (string, error) {
	data, err := os.ReadFile(l.TrustStorePath())
	if err != nil {
		return "", fmt.Errorf("read trust store: %w", err)
	}
	return string(data), nil
}

// Discover returns the first candidate root that validates.
func Discover() (Layout, error) {
	return DiscoverFrom(candidateRoots())
}

// DiscoverFrom returns the first root in roots that validates.
func DiscoverFrom(roots []string) (Layout, error) {
	var tried []string
	seen := make(map[string]struct{}, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		if _, dup := seen[root]; dup {
			continue
		}
		seen[root] = struct{}{}
		layout := FromRoot(root)
		if layout.Validate() == nil {
			return layout, nil
		}
		tried = append(tried, root)
	}
	if len(tried) == 0 {
		return Layout{}, ErrNotInstalled
	}
	return Layout{}, fmt.Errorf("%w (tried %s)", ErrNotInstalled, strings.Join(tried, ", "))
}

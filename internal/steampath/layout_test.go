package steampath_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"luamaker/internal/steampath"
)

func makeSteamRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Steam")
	for _, dir := range []string{"config/stplugin", "depotcache"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	return root
}

func TestFromRootPaths(t *testing.T) {
	layout := steampath.FromRoot("/games/Steam")
	if layout.ConfigDir != filepath.Join("/games/Steam", "config") {
		t.Fatalf("ConfigDir = %q", layout.ConfigDir)
	}
	if layout.PluginPath("42") != filepath.Join("/games/Steam", "config", "stplugin", "42.lua") {
		t.Fatalf("PluginPath = %q", layout.PluginPath("42"))
	}
	if layout.TrustStorePath() != filepath.Join("/games/Steam", "config", "config.vdf") {
		t.Fatalf("TrustStorePath = %q", layout.TrustStorePath())
	}
	if got := steampath.FromConfigDir(layout.ConfigDir); got != layout {
		t.Fatalf("FromConfigDir = %+v", got)
	}
}

func TestValidate(t *testing.T) {
	root := makeSteamRoot(t)
	if err := steampath.FromRoot(root).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := os.RemoveAll(filepath.Join(root, "depotcache")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "depotcache"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := steampath.FromRoot(root).Validate(); !errors.Is(err, steampath.ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout, got %v", err)
	}
	if err := (steampath.Layout{}).Validate(); !errors.Is(err, steampath.ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout for empty layout, got %v", err)
	}
}

func TestDiscoverFromPicksFirstValid(t *testing.T) {
	valid := makeSteamRoot(t)
	layout, err := steampath.DiscoverFrom([]string{"", filepath.Join(t.TempDir(), "nope"), valid})
	if err != nil {
		t.Fatalf("DiscoverFrom: %v", err)
	}
	if layout.Root != valid {
		t.Fatalf("Root = %q, want %q", layout.Root, valid)
	}
	if _, err := steampath.DiscoverFrom(nil); !errors.Is(err, steampath.ErrNotInstalled) {
		t.Fatalf("expected ErrNotInstalled, got %v", err)
	}
}

func TestPluginAndTrustStore(t *testing.T) {
	layout := steampath.FromRoot(makeSteamRoot(t))
	if layout.HasPlugin("42") {
		t.Fatal("unexpected plugin")
	}
	if err := os.WriteFile(layout.PluginPath("42"), []byte("addappid(42)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !layout.HasPlugin("42") {
		t.Fatal("expected plugin")
	}
	if _, err := layout.ReadTrustStore(); err == nil {
		t.Fatal("expected error for missing config.vdf")
	}
	if err := os.WriteFile(layout.TrustStorePath(), []byte("\"depots\" { }"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := layout.ReadTrustStore(); err != nil || got != "\"depots\" { }" {
		t.Fatalf("ReadTrustStore = %q, %v", got, err)
	}
}

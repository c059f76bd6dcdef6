package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"luamaker/internal/appsource"
	"luamaker/internal/depotset"
	"luamaker/internal/history"
	"luamaker/internal/pathcache"
	"luamaker/internal/services"
	"luamaker/internal/testsupport"
	"luamaker/internal/workflow"
)

const expectedScript = "addappid(42)\n" +
	"addappid(1001,1,\"aabbccdd\")\n" +
	"setManifestid(1001,\"7000000000000000001\")\n"

func TestGenerateWritesScriptAndManifests(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTrustStore(t, cfg, testsupport.TrustStore)
	testsupport.WriteManifests(t, cfg, "1001_7000000000000000001.manifest", "1002_2.manifest", "999_1.manifest")
	store := openHistory(t, cfg)

	mgr := workflow.NewManager(cfg, nil,
		workflow.WithSources(appsource.Static{Label: "fixture", Text: testsupport.AppInfo}),
		workflow.WithHistory(store),
	)
	report, err := mgr.Generate(context.Background(), "42")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantDir := filepath.Join(cfg.Paths.OutputDir, "[42] Example Game")
	if report.OutputDir != wantDir {
		t.Fatalf("OutputDir = %q, want %q", report.OutputDir, wantDir)
	}
	if report.Mode != history.ModeGenerated || report.Source != "fixture" {
		t.Fatalf("unexpected mode/source %q/%q", report.Mode, report.Source)
	}
	data, err := os.ReadFile(filepath.Join(wantDir, "42.lua"))
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if string(data) != expectedScript {
		t.Fatalf("script mismatch:\n%s", data)
	}
	if len(report.Depots) != 1 || len(report.Dropped) != 2 {
		t.Fatalf("kept=%d dropped=%d", len(report.Depots), len(report.Dropped))
	}
	if len(report.Manifests) != 1 || report.Manifests[0].Name != "1001_7000000000000000001.manifest" {
		t.Fatalf("unexpected manifests %+v", report.Manifests)
	}
	if _, err := os.Stat(filepath.Join(wantDir, "1002_2.manifest")); !os.IsNotExist(err) {
		t.Fatal("dropped depot manifest should not be copied")
	}

	entry := lastRun(t, store)
	if entry.Status != history.StatusSucceeded || entry.RunID != report.RunID {
		t.Fatalf("unexpected history entry %+v", entry)
	}
	if entry.DepotCount != 1 || entry.DroppedCount != 2 || entry.ManifestCount != 1 {
		t.Fatalf("unexpected history counts %+v", entry)
	}

	cached, ok := pathcache.NewCache(cfg.PathCachePath(), nil).Lookup(pathcache.SteamConfigKey)
	if !ok || cached.Path != filepath.Join(cfg.Paths.SteamDir, "config") {
		t.Fatalf("expected steam config path cached, got %+v %v", cached, ok)
	}
}

func TestGenerateRequiresManifests(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTrustStore(t, cfg, testsupport.TrustStore)
	store := openHistory(t, cfg)

	mgr := workflow.NewManager(cfg, nil,
		workflow.WithSources(appsource.Static{Text: testsupport.AppInfo}),
		workflow.WithHistory(store),
	)
	_, err := mgr.Generate(context.Background(), "42")
	if !errors.Is(err, workflow.ErrNoManifests) {
		t.Fatalf("expected ErrNoManifests, got %v", err)
	}
	script := filepath.Join(cfg.Paths.OutputDir, "[42] Example Game", "42.lua")
	if _, statErr := os.Stat(script); !os.IsNotExist(statErr) {
		t.Fatal("script must not be written without manifests")
	}
	if entry := lastRun(t, store); entry.Status != history.StatusNeedsInput {
		t.Fatalf("status = %q, want needs_input", entry.Status)
	}

	cfg.Output.RequireManifests = false
	report, err := workflow.NewManager(cfg, nil,
		workflow.WithSources(appsource.Static{Text: testsupport.AppInfo}),
	).Generate(context.Background(), "42")
	if err != nil {
		t.Fatalf("Generate without manifests: %v", err)
	}
	if _, err := os.Stat(report.ScriptPath); err != nil {
		t.Fatalf("expected script written: %v", err)
	}
}

func TestGenerateMissingMainlineKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTrustStore(t, cfg, `"depots" { "5" { "DecryptionKey" "ff" } }`)
	testsupport.WriteManifests(t, cfg, "1001_1.manifest")
	store := openHistory(t, cfg)

	mgr := workflow.NewManager(cfg, nil,
		workflow.WithSources(appsource.Static{Text: testsupport.AppInfo}),
		workflow.WithHistory(store),
	)
	_, err := mgr.Generate(context.Background(), "42")
	if !errors.Is(err, depotset.ErrMissingMainlineKey) || !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected missing mainline key, got %v", err)
	}
	if !strings.Contains(err.Error(), "1001") {
		t.Fatalf("error should name the depot: %v", err)
	}
	entry := lastRun(t, store)
	if entry.Status != history.StatusNeedsInput || entry.ErrorMessage == "" {
		t.Fatalf("unexpected history entry %+v", entry)
	}
}

func TestGenerateNotifiesOutcome(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTrustStore(t, cfg, testsupport.TrustStore)
	testsupport.WriteManifests(t, cfg, "1001_7000000000000000001.manifest")
	notifier := &recordingNotifier{}

	mgr := workflow.NewManager(cfg, nil,
		workflow.WithSources(appsource.Static{Text: testsupport.AppInfo}),
		workflow.WithNotifier(notifier),
	)
	if _, err := mgr.Generate(context.Background(), "42"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := mgr.Generate(context.Background(), "x"); err == nil {
		t.Fatal("expected invalid app id to fail")
	}
	if len(notifier.completed) != 1 || notifier.completed[0].Name != "Example Game" || notifier.completed[0].Manifests != 1 {
		t.Fatalf("unexpected completion notices %+v", notifier.completed)
	}
	if len(notifier.failed) != 1 || notifier.failed[0] != "x" {
		t.Fatalf("unexpected failure notices %+v", notifier.failed)
	}
}

func TestGenerateReusesPlugin(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WritePlugin(t, cfg, "42", "addappid(42)\naddappid(1002,1,\"k\")\nsetManifestid(1002,\"2\")\n")
	testsupport.WriteManifests(t, cfg, "1002_2.manifest", "1001_1.manifest")

	mgr := workflow.NewManager(cfg, nil, workflow.WithSources(appsource.Static{Text: testsupport.AppInfo}))
	report, err := mgr.Generate(context.Background(), "42")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.Mode != history.ModePlugin {
		t.Fatalf("Mode = %q, want plugin", report.Mode)
	}
	if strings.Join(report.PluginDepots, ",") != "1002" {
		t.Fatalf("PluginDepots = %v", report.PluginDepots)
	}
	if len(report.Manifests) != 1 || report.Manifests[0].DepotName != "Soundtrack" {
		t.Fatalf("unexpected manifests %+v", report.Manifests)
	}
	data, err := os.ReadFile(report.ScriptPath)
	if err != nil || !strings.HasPrefix(string(data), "addappid(42)\naddappid(1002") {
		t.Fatalf("plugin not copied: %q %v", data, err)
	}

	cfg.Output.UsePlugin = false
	testsupport.WriteTrustStore(t, cfg, testsupport.TrustStore)
	report, err = workflow.NewManager(cfg, nil, workflow.WithSources(appsource.Static{Text: testsupport.AppInfo})).
		Generate(context.Background(), "42")
	if err != nil {
		t.Fatalf("Generate with plugins disabled: %v", err)
	}
	if report.Mode != history.ModeGenerated {
		t.Fatalf("Mode = %q, want generated", report.Mode)
	}
}

func TestGenerateFallsBackToManualFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTrustStore(t, cfg, testsupport.TrustStore)
	testsupport.WriteManifests(t, cfg, "1001_1.manifest")
	fallback := testsupport.WriteFallback(t, cfg, testsupport.AppInfo)

	exec := &stubExecutor{lines: []string{"Loading Steam API...OK", "No app info for AppID 42 found"}}
	mgr := workflow.NewManager(cfg, nil, workflow.WithSteamCMDExecutor(exec))
	report, err := mgr.Generate(context.Background(), "42")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if exec.calls != 1 {
		t.Fatalf("expected steamcmd to be tried once, got %d", exec.calls)
	}
	if report.Source != "file" {
		t.Fatalf("Source = %q, want file", report.Source)
	}
	if _, err := os.Stat(fallback); !os.IsNotExist(err) {
		t.Fatal("fallback file should be removed after a successful read")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, "steam_response_42.log")); err != nil {
		t.Fatalf("expected archived steamcmd response: %v", err)
	}
}

func TestGenerateFallsBackWhenRecordHasNoValidDepots(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTrustStore(t, cfg, testsupport.TrustStore)
	testsupport.WriteManifests(t, cfg, "1001_7000000000000000001.manifest")
	testsupport.WriteFallback(t, cfg, testsupport.AppInfo)

	exec := &stubExecutor{lines: strings.Split("\"42\"\n{\n\t\"depots\"\n\t{\n\t\t\"1001\"\n\t\t{\n\t\t\t\"name\"\t\t\"Base\"\n\t\t}\n\t}\n}", "\n")}
	report, err := workflow.NewManager(cfg, nil, workflow.WithSteamCMDExecutor(exec)).Generate(context.Background(), "42")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.Source != "file" {
		t.Fatalf("Source = %q, want file", report.Source)
	}
}

func TestGenerateWithoutAnyMetadata(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTrustStore(t, cfg, testsupport.TrustStore)
	exec := &stubExecutor{err: errors.New("exit status 8")}

	_, err := workflow.NewManager(cfg, nil, workflow.WithSteamCMDExecutor(exec)).Generate(context.Background(), "42")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from missing fallback file, got %v", err)
	}
	if !strings.Contains(err.Error(), "appid=42") {
		t.Fatalf("expected download hint in error, got %v", err)
	}
}

func TestGenerateRejectsInvalidAppID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := openHistory(t, cfg)
	_, err := workflow.NewManager(cfg, nil, workflow.WithHistory(store)).Generate(context.Background(), "4a2")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if entries, _ := store.List(context.Background(), 10); len(entries) != 1 || entries[0].Status != history.StatusNeedsInput {
		t.Fatalf("expected needs_input entry, got %+v", entries)
	}
}

func TestResolveLayoutDiscoversAndCaches(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutSteamDir())
	home := t.TempDir()
	t.Setenv("HOME", home)
	root := filepath.Join(home, ".steam", "steam")
	for _, dir := range []string{"config", "depotcache"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	mgr := workflow.NewManager(cfg, nil)
	layout, err := mgr.ResolveLayout(context.Background())
	if err != nil {
		t.Fatalf("ResolveLayout: %v", err)
	}
	if layout.Root != root {
		t.Fatalf("Root = %q, want %q", layout.Root, root)
	}

	// A fresh manager must take the cached path even after HOME changes.
	t.Setenv("HOME", t.TempDir())
	layout, err = workflow.NewManager(cfg, nil).ResolveLayout(context.Background())
	if err != nil || layout.Root != root {
		t.Fatalf("cached ResolveLayout = %q, %v", layout.Root, err)
	}
}

func TestResolveLayoutRejectsBadConfiguredRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.SteamDir = filepath.Join(t.TempDir(), "nope")
	_, err := workflow.NewManager(cfg, nil).ResolveLayout(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestInspectDoesNotWrite(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTrustStore(t, cfg, testsupport.TrustStore)
	testsupport.WriteManifests(t, cfg, "1001_1.manifest", "1001_2.manifest")
	fallback := testsupport.WriteFallback(t, cfg, testsupport.AppInfo)

	exec := &stubExecutor{}
	insp, err := workflow.NewManager(cfg, nil, workflow.WithSteamCMDExecutor(exec)).Inspect(context.Background(), "42")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if insp.Name != "Example Game" || insp.Err != nil || insp.Script != expectedScript {
		t.Fatalf("unexpected inspection %+v", insp)
	}
	if len(insp.Depots) != 3 {
		t.Fatalf("expected 3 depot states, got %d", len(insp.Depots))
	}
	first := insp.Depots[0]
	if !first.Kept || !first.HasKey || first.Manifests != 2 {
		t.Fatalf("unexpected first depot state %+v", first)
	}
	if insp.Depots[1].Reason != string(depotset.DropAddOn) || insp.Depots[2].Reason != string(depotset.DropLanguageRestricted) {
		t.Fatalf("unexpected reasons %q %q", insp.Depots[1].Reason, insp.Depots[2].Reason)
	}
	if _, err := os.Stat(fallback); err != nil {
		t.Fatal("inspect must leave the fallback file in place")
	}
	if _, err := os.Stat(cfg.Paths.OutputDir); !os.IsNotExist(err) {
		t.Fatal("inspect must not create the output directory")
	}
}

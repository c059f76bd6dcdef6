package manifests_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"luamaker/internal/manifests"
)

func writeCache(t *testing.T, names ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "depotcache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o640); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListMatchesPrefixAndSuffix(t *testing.T) {
	dir := writeCache(t,
		"1001_2.manifest",
		"1001_1.manifest",
		"10011_3.manifest",
		"1001_4.txt",
		"2002_5.manifest",
	)
	got, err := manifests.List(dir, "1001")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"1001_1.manifest", "1001_2.manifest"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	if got, _ := manifests.List(dir, ""); got != nil {
		t.Fatalf("empty depot id should match nothing, got %v", got)
	}
	if _, err := manifests.List(filepath.Join(dir, "missing"), "1001"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestCopyCopiesAllTargets(t *testing.T) {
	dir := writeCache(t, "1001_1.manifest", "1002_7.manifest", "1003_9.manifest")
	out := filepath.Join(t.TempDir(), "[42] Game")

	result, err := manifests.Copy(context.Background(), nil, dir, []manifests.Target{
		{DepotID: "1001", Name: "Base"},
		{DepotID: "1002"},
		{DepotID: "1001"},
		{DepotID: "9999"},
	}, out)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if result.Count() != 2 {
		t.Fatalf("Count = %d, want 2", result.Count())
	}
	if result.Copied[0].DepotName != "Base" {
		t.Fatalf("unexpected depot name %q", result.Copied[0].DepotName)
	}
	info, err := os.Stat(filepath.Join(out, "1001_1.manifest"))
	if err != nil {
		t.Fatalf("stat copy: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("mode = %v, want 0640", info.Mode().Perm())
	}
	if _, err := os.Stat(filepath.Join(out, "1003_9.manifest")); !os.IsNotExist(err) {
		t.Fatal("untargeted manifest should not be copied")
	}
}

func TestCopyHonoursCancellation(t *testing.T) {
	dir := writeCache(t, "1001_1.manifest")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := manifests.Copy(ctx, nil, dir, []manifests.Target{{DepotID: "1001"}}, t.TempDir())
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

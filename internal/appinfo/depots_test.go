package appinfo_test

import (
	"errors"
	"testing"

	"luamaker/internal/appinfo"
	"luamaker/internal/vdf"
)

func mustParse(t *testing.T, raw string) *vdf.Node {
	t.Helper()
	root, err := vdf.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return root
}

func TestExtractDepotsAppliesFilter(t *testing.T) {
	root := mustParse(t, `
"common" { "name" "  Example  " }
"depots"
{
	"1001" { "name" "Content" "manifests" { "public" { "gid" "555" } } }
	"1002" { "manifests" { "public" { "gid" "" } } }
	"1003" { "manifests" { "beta" { "gid" "7" } } }
	"2002" { "dlcappid" "2000" "manifests" { "public" { "gid" "666" } } }
	"3003" { "config" { "language" "german" } "manifests" { "public" { "gid" "777" } } }
	"branches" { "public" { "buildid" "1" } }
	"baselanguages" "english"
}`)

	depots, err := appinfo.ExtractDepots(root)
	if err != nil {
		t.Fatalf("ExtractDepots: %v", err)
	}
	if len(depots) != 3 {
		t.Fatalf("expected 3 depots, got %+v", depots)
	}
	for _, d := range depots {
		if d.ContentVersionID == "" {
			t.Fatalf("depot %s has empty content version", d.ID)
		}
	}
	if d := depots[0]; d.ID != "1001" || d.ContentVersionID != "555" || d.Name != "Content" || d.IsAddOn || d.IsLanguageRestricted {
		t.Fatalf("unexpected first depot %+v", d)
	}
	if d := depots[1]; d.ID != "2002" || !d.IsAddOn || d.DLCAppID != "2000" {
		t.Fatalf("unexpected add-on depot %+v", d)
	}
	if d := depots[2]; d.ID != "3003" || !d.IsLanguageRestricted || d.Language != "german" {
		t.Fatalf("unexpected language depot %+v", d)
	}
	if name := appinfo.AppName(root); name != "Example" {
		t.Fatalf("unexpected app name %q", name)
	}
}

func TestExtractDepotsMissingDepots(t *testing.T) {
	root := mustParse(t, `"common" { "name" "x" }`)
	if _, err := appinfo.ExtractDepots(root); !errors.Is(err, appinfo.ErrNoDepots) {
		t.Fatalf("expected ErrNoDepots, got %v", err)
	}
	scalar := mustParse(t, `"depots" "none"`)
	if _, err := appinfo.ExtractDepots(scalar); !errors.Is(err, appinfo.ErrNoDepots) {
		t.Fatalf("expected ErrNoDepots for scalar depots, got %v", err)
	}
	if name := appinfo.AppName(scalar); name != "" {
		t.Fatalf("expected empty name, got %q", name)
	}
}

func TestExtractDepotsNoneValid(t *testing.T) {
	root := mustParse(t, `"depots" { "1" { "manifests" { } } "branches" { } }`)
	if _, err := appinfo.ExtractDepots(root); !errors.Is(err, appinfo.ErrNoValidDepots) {
		t.Fatalf("expected ErrNoValidDepots, got %v", err)
	}
}

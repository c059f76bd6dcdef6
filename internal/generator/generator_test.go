package generator_test

import (
	"errors"
	"strings"
	"testing"

	"luamaker/internal/appinfo"
	"luamaker/internal/depotset"
	"luamaker/internal/generator"
	"luamaker/internal/keystore"
	"luamaker/internal/logging"
	"luamaker/internal/vdf"
)

const scenarioLocal = `"InstallConfigStore"
{
	"Software"
	{
		"Valve"
		{
			"Steam"
			{
				"depots"
				{
					"1001"
					{
						"DecryptionKey"		"ABCDEF"
					}
				}
			}
		}
	}
}
`

func remoteDoc(depots string) string {
	return "AppID : 42, change number : 7/0\n\"42\"\n{\n\t\"common\"\n\t{\n\t\t\"name\"\t\t\"Example\"\n\t}\n\t\"depots\"\n\t{\n" + depots + "\t}\n}\n"
}

const mainDepot = "\t\t\"1001\"\n\t\t{\n\t\t\t\"manifests\"\n\t\t\t{\n\t\t\t\t\"public\"\n\t\t\t\t{\n\t\t\t\t\t\"gid\"\t\t\"555\"\n\t\t\t\t}\n\t\t\t}\n\t\t}\n"

func newGenerator() *generator.Generator {
	return generator.New(logging.NewNop())
}

func TestScenarioSingleDepot(t *testing.T) {
	result, err := newGenerator().Run("42", remoteDoc(mainDepot), scenarioLocal)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "addappid(42)\naddappid(1001,1,\"ABCDEF\")\nsetManifestid(1001,\"555\")\n"
	if result.Script != want {
		t.Fatalf("unexpected script:\n%s", result.Script)
	}
	if result.Name != "Example" || result.AppID != "42" || len(result.Depots) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestScenarioAddOnWithoutKeyIsDropped(t *testing.T) {
	addOn := "\t\t\"2002\"\n\t\t{\n\t\t\t\"dlcappid\"\t\t\"2000\"\n\t\t\t\"manifests\" { \"public\" { \"gid\" \"666\" } }\n\t\t}\n"
	result, err := newGenerator().Run("42", remoteDoc(mainDepot+addOn), scenarioLocal)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Depots) != 1 || result.Depots[0].DepotID != "1001" {
		t.Fatalf("unexpected kept depots %+v", result.Depots)
	}
	if len(result.Dropped) != 1 || result.Dropped[0].Depot.ID != "2002" || result.Dropped[0].Reason != depotset.DropAddOn {
		t.Fatalf("unexpected dropped depots %+v", result.Dropped)
	}
	if strings.Contains(result.Script, "2002") {
		t.Fatalf("dropped depot leaked into script:\n%s", result.Script)
	}
}

func TestScenarioMainlineWithoutKeyAborts(t *testing.T) {
	mainline := "\t\t\"3003\"\n\t\t{\n\t\t\t\"manifests\" { \"public\" { \"gid\" \"777\" } }\n\t\t}\n"
	result, err := newGenerator().Run("42", remoteDoc(mainDepot+mainline), scenarioLocal)
	if !errors.Is(err, depotset.ErrMissingMainlineKey) {
		t.Fatalf("expected ErrMissingMainlineKey, got %v", err)
	}
	if !errors.Is(err, keystore.ErrDepotBlockNotFound) {
		t.Fatalf("expected lookup cause, got %v", err)
	}
	if result != nil {
		t.Fatalf("expected no result, got %+v", result)
	}
	if !strings.Contains(err.Error(), "3003") {
		t.Fatalf("error should name depot: %v", err)
	}
	if generator.Retryable(err) {
		t.Fatal("missing key is not fixed by a new metadata document")
	}
}

func TestScenarioMissingDepots(t *testing.T) {
	raw := "\"42\"\n{\n\t\"common\"\n\t{\n\t\t\"name\"\t\t\"Example\"\n\t}\n}\n"
	_, err := newGenerator().Run("42", raw, scenarioLocal)
	if !errors.Is(err, appinfo.ErrNoDepots) {
		t.Fatalf("expected ErrNoDepots, got %v", err)
	}
	if !generator.Retryable(err) {
		t.Fatal("missing depots should be retryable")
	}
}

func TestNoValidDepotsIsRetryable(t *testing.T) {
	raw := "\"42\"\n{\n\t\"depots\"\n\t{\n\t\t\"1001\"\n\t\t{\n\t\t\t\"name\"\t\t\"Base\"\n\t\t}\n\t}\n}\n"
	_, err := newGenerator().Run("42", raw, scenarioLocal)
	if !errors.Is(err, appinfo.ErrNoValidDepots) {
		t.Fatalf("expected ErrNoValidDepots, got %v", err)
	}
	if !generator.Retryable(err) {
		t.Fatal("a record without manifest ids should be retryable")
	}
}

func TestScenarioUnbalancedRecord(t *testing.T) {
	raw := "\"42\"\n{\n\t\"depots\"\n\t{\n\t\t\"1001\" { \"manifests\" { \"public\" { \"gid\" \"555\" }\n"
	_, err := newGenerator().Run("42", raw, scenarioLocal)
	if !errors.Is(err, vdf.ErrUnbalancedDelimiter) {
		t.Fatalf("expected ErrUnbalancedDelimiter, got %v", err)
	}
	if !strings.Contains(err.Error(), "42") {
		t.Fatalf("error should name app: %v", err)
	}
}

func TestRunRecordNotFound(t *testing.T) {
	_, err := newGenerator().Run("99", remoteDoc(mainDepot), scenarioLocal)
	if !errors.Is(err, vdf.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestRunMissingNameStillSucceeds(t *testing.T) {
	raw := "\"42\"\n{\n\t\"depots\"\n\t{\n" + mainDepot + "\t}\n}\n"
	result, err := newGenerator().Run("42", raw, scenarioLocal)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Name != "" {
		t.Fatalf("expected empty name, got %q", result.Name)
	}
}

func TestRunToleratesPipeFiller(t *testing.T) {
	raw := strings.ReplaceAll(remoteDoc(mainDepot), "\n", "\n\x00")
	result, err := newGenerator().Run("42", raw, scenarioLocal)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Depots) != 1 {
		t.Fatalf("unexpected depots %+v", result.Depots)
	}
}

func TestValidateAppID(t *testing.T) {
	for _, bad := range []string{"", "abc", "12a", "-1", "4 2"} {
		if _, err := newGenerator().Run(bad, "", ""); !errors.Is(err, generator.ErrInvalidAppID) {
			t.Fatalf("expected ErrInvalidAppID for %q, got %v", bad, err)
		}
	}
	if err := generator.ValidateAppID("730"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDescribeListsCandidates(t *testing.T) {
	desc, err := newGenerator().Describe("42", remoteDoc(mainDepot))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if desc.Name != "Example" || len(desc.Candidates) != 1 || desc.Candidates[0].ContentVersionID != "555" {
		t.Fatalf("unexpected description %+v", desc)
	}
}

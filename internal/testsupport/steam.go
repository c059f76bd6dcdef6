package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"luamaker/internal/config"
)

// AppInfo is a steamcmd-style response for app 42 with one mainline depot
// (1001), one add-on (1002), and one language-restricted depot (1003).
const AppInfo = `Redirecting stderr to '/tmp/stderr.txt'
AppID : 42, change number : 1/0, last change : Mon Jan  1 00:00:00 2024
"42"
{
	"common"
	{
		"name"		"Example Game"
	}
	"depots"
	{
		"1001"
		{
			"name"		"Base"
			"manifests"
			{
				"public"
				{
					"gid"		"7000000000000000001"
				}
			}
		}
		"1002"
		{
			"name"		"Soundtrack"
			"dlcappid"		"4200"
			"manifests"
			{
				"public"
				{
					"gid"		"7000000000000000002"
				}
			}
		}
		"1003"
		{
			"config"
			{
				"language"		"german"
			}
			"manifests"
			{
				"public"
				{
					"gid"		"7000000000000000003"
				}
			}
		}
		"branches"
		{
			"public"
			{
				"buildid"		"9"
			}
		}
	}
}
`

// TrustStore is a config.vdf fragment holding a key for depot 1001 only.
const TrustStore = `"InstallConfigStore"
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
						"DecryptionKey"		"aabbccdd"
					}
				}
			}
		}
	}
}
`

// SteamRoot returns the configured Steam root.
func SteamRoot(cfg *config.Config) string {
	return cfg.Paths.SteamDir
}

// WriteTrustStore writes config.vdf under the Steam config directory.
func WriteTrustStore(t testing.TB, cfg *config.Config, contents string) string {
	t.Helper()
	path := filepath.Join(cfg.Paths.SteamDir, "config", "config.vdf")
	writeText(t, path, contents)
	return path
}

// WriteManifests creates manifest files in the Steam depotcache directory.
func WriteManifests(t testing.TB, cfg *config.Config, names ...string) {
	t.Helper()
	for _, name := range names {
		WriteFile(t, filepath.Join(cfg.Paths.SteamDir, "depotcache", name), 128)
	}
}

// WritePlugin writes config/stplugin/<appID>.lua.
func WritePlugin(t testing.TB, cfg *config.Config, appID, script string) string {
	t.Helper()
	path := filepath.Join(cfg.Paths.SteamDir, "config", "stplugin", appID+".lua")
	writeText(t, path, script)
	return path
}

// WriteFallback writes the manual metadata fallback file.
func WriteFallback(t testing.TB, cfg *config.Config, contents string) string {
	t.Helper()
	writeText(t, cfg.SteamCMD.FallbackFile, contents)
	return cfg.SteamCMD.FallbackFile
}

func writeText(t testing.TB, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

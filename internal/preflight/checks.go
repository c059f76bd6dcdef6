package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"luamaker/internal/config"
	"luamaker/internal/deps"
	"luamaker/internal/steampath"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, true)
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, false)
}

func checkDirectory(name, path string, write bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := accessDir(path, write); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	if write {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckCreatableDirectory passes when path is a writable directory or when
// its nearest existing ancestor is writable, so a run can create it.
func CheckCreatableDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	parent := path
	for {
		next := filepath.Dir(parent)
		if next == parent {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing parent)", path)}
		}
		parent = next
		if info, err := os.Stat(parent); err == nil {
			if !info.IsDir() {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, parent)}
			}
			break
		}
	}
	if err := accessDir(parent, true); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckFileReadable verifies that path is a regular file that can be opened.
func CheckFileReadable(name, path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d bytes)", path, info.Size())}
}

// CheckSteamLayout checks the Steam directories a run reads from. A nil layout
// yields a single failed result.
func CheckSteamLayout(layout *steampath.Layout) []Result {
	if layout == nil {
		return []Result{{Name: "Steam installation", Detail: "not found (set paths.steam_dir or LUAMAKER_STEAM_DIR)"}}
	}
	return []Result{
		CheckDirectoryReadable("Steam config", layout.ConfigDir),
		CheckDirectoryReadable("Steam depotcache", layout.DepotCacheDir),
		CheckFileReadable("Trust store", layout.TrustStorePath()),
	}
}

// CheckSystemDeps evaluates the external binaries used by a run. steamcmd is
// optional because a manually saved metadata file can stand in for it.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "SteamCMD",
			Command:     cfg.SteamCMDBinary(),
			Description: "Fetches app metadata (manual file fallback otherwise)",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}

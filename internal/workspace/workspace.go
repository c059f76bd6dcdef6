// Package workspace owns the per-app output directory of a run.
//
// Opening a workspace takes an exclusive file lock for the app so two
// invocations never write the same directory, then creates the directory
// "<output_dir>/[<appid>] <name>" with file-system-unsafe characters replaced.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"luamaker/internal/fileutil"
)

// ErrLocked reports that another run holds the app's lock.
var ErrLocked = errors.New("workspace locked by another run")

// Workspace is an opened, locked output directory.
type Workspace struct {
	AppID    string
	Name     string
	Dir      string
	lockPath string
	lock     *flock.Flock
}

// DirName returns the output folder name for an app.
func DirName(appID, name string) string {
	label := "[" + strings.TrimSpace(appID) + "]"
	if name = strings.TrimSpace(name); name != "" {
		label += " " + name
	}
	return fileutil.SanitizeName(label)
}

// Open acquires the app lock under lockDir and creates the output directory
// under root.
func Open(lockDir, root, appID, name string) (*Workspace, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil, errors.New("app id required")
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lockPath := filepath.Join(lockDir, appID+".lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
	}

	dir := filepath.Join(root, DirName(appID, name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Workspace{
		AppID:    appID,
		Name:     name,
		Dir:      dir,
		lockPath: lockPath,
		lock:     lock,
	}, nil
}

// LockPath returns the lock file location.
func (w *Workspace) LockPath() string { return w.lockPath }

// ScriptPath returns the location of "<appid>.lua" inside the workspace.
func (w *Workspace) ScriptPath() string {
	return filepath.Join(w.Dir, w.AppID+".lua")
}

// WriteScript atomically writes script to ScriptPath.
func (w *Workspace) WriteScript(script string) (string, error) {
	path := w.ScriptPath()
	if err := fileutil.WriteFileAtomic(path, []byte(script), 0o644); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}
	return path, nil
}

// CopyScript copies an existing script (a Steam plugin) to ScriptPath.
func (w *Workspace) CopyScript(src string) (string, error) {
	path := w.ScriptPath()
	if err := fileutil.CopyFile(src, path); err != nil {
		return "", fmt.Errorf("copy script: %w", err)
	}
	return path, nil
}

// Release drops the app lock. It is safe to call more than once.
func (w *Workspace) Release() error {
	if w == nil || w.lock == nil {
		return nil
	}
	if err := w.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

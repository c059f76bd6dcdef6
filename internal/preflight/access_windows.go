//go:build windows

package preflight

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// Windows ACLs are not reflected in mode bits, so access is probed directly.
func accessDir(path string, write bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	_, err = f.Readdirnames(1)
	_ = f.Close()
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if !write {
		return nil
	}
	probe, err := os.CreateTemp(path, ".luamaker-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(filepath.Clean(name))
}

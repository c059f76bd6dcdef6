//go:build windows

package steampath

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

var registryKeys = []string{
	`SOFTWARE\WOW6432Node\Valve\Steam`,
	`SOFTWARE\Valve\Steam`,
}

func candidateRoots() []string {
	var roots []string
	for _, path := range registryKeys {
		if root, ok := registryInstallPath(path); ok {
			roots = append(roots, root)
		}
	}
	for _, env := range []string{"PROGRAMFILES(X86)", "PROGRAMFILES"} {
		if base := os.Getenv(env); base != "" {
			roots = append(roots, filepath.Join(base, "Steam"))
		}
	}
	return roots
}

func registryInstallPath(path string) (string, bool) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer key.Close()
	value, _, err := key.GetStringValue("InstallPath")
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

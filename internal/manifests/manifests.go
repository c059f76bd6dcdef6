package manifests

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"luamaker/internal/fileutil"
	"luamaker/internal/logging"
)

const manifestSuffix = ".manifest"

// Target is a depot whose manifests should be copied.
type Target struct {
	DepotID string
	Name    string
}

// File is one copied manifest.
type File struct {
	DepotID   string
	DepotName string
	Name      string
	Source    string
	Dest      string
}

// Failure is a manifest that could not be copied.
type Failure struct {
	DepotID string
	Source  string
	Err     error
}

// Result summarises a Copy call.
type Result struct {
	Copied []File
	Failed []Failure
}

// Count returns the number of copied manifests.
func (r Result) Count() int { return len(r.Copied) }

// List returns the manifest file names in dir belonging to depotID, sorted.
func List(dir, depotID string) ([]string, error) {
	names, err := readNames(dir)
	if err != nil {
		return nil, err
	}
	return match(names, depotID), nil
}

// Copy copies every manifest of every target from dir into outDir. Per-file
// failures are logged and collected; only an unreadable dir or a cancelled
// context aborts the copy.
func Copy(ctx context.Context, logger *slog.Logger, dir string, targets []Target, outDir string) (Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "manifests")

	names, err := readNames(dir)
	if err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	var result Result
	seen := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if _, dup := seen[target.DepotID]; dup {
			continue
		}
		seen[target.DepotID] = struct{}{}
		for _, name := range match(names, target.DepotID) {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			src := filepath.Join(dir, name)
			dst := filepath.Join(outDir, name)
			if err := fileutil.CopyFile(src, dst); err != nil {
				logging.WarnWithContext(logger, "manifest copy failed", "manifest_copy_failed",
					logging.String(logging.FieldDepotID, target.DepotID),
					logging.String("source", src),
					logging.Error(err),
					logging.String(logging.FieldImpact, "manifest skipped"),
				)
				result.Failed = append(result.Failed, Failure{DepotID: target.DepotID, Source: src, Err: err})
				continue
			}
			result.Copied = append(result.Copied, File{
				DepotID:   target.DepotID,
				DepotName: target.Name,
				Name:      name,
				Source:    src,
				Dest:      dst,
			})
			logger.Debug("manifest copied",
				logging.String(logging.FieldDepotID, target.DepotID),
				logging.String("manifest", name),
			)
		}
	}
	logger.Info("manifests copied",
		logging.Int("manifest_count", result.Count()),
		logging.Int("failed_count", len(result.Failed)),
		logging.String("destination", outDir),
	)
	return result, nil
}

func readNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read depotcache: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func match(names []string, depotID string) []string {
	depotID = strings.TrimSpace(depotID)
	if depotID == "" {
		return nil
	}
	prefix := depotID + "_"
	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, manifestSuffix) {
			out = append(out, name)
		}
	}
	return out
}

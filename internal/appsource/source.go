package appsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"luamaker/internal/logging"
	"luamaker/internal/services"
	"luamaker/internal/vdf"
)

// ErrNoSource reports a chain with nothing configured.
var ErrNoSource = errors.New("no metadata source configured")

// Source fetches the raw metadata document for an app.
type Source interface {
	Name() string
	Fetch(ctx context.Context, appID string) (string, error)
}

// Waiter blocks until the user signals that path should be retried. It
// returns false when the user gives up.
type Waiter func(ctx context.Context, path, hint string) bool

// File reads a manually saved metadata document.
type File struct {
	Path            string
	RemoveAfterRead bool
	// Hint tells the user where to download the document, e.g. a URL.
	Hint string
	// Wait is consulted while the file is missing. A nil Wait fails at once.
	Wait Waiter
}

// Name identifies the source in logs.
func (f *File) Name() string { return "file" }

// Fetch returns the file's cleaned contents.
func (f *File) Fetch(ctx context.Context, _ string) (string, error) {
	path := strings.TrimSpace(f.Path)
	if path == "" {
		return "", services.Wrap(services.ErrConfiguration, "fetch", "read file", "no fallback file configured", nil)
	}
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		data, err := os.ReadFile(path)
		if err == nil {
			if f.RemoveAfterRead {
				if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
					return "", fmt.Errorf("remove %s: %w", path, rmErr)
				}
			}
			return vdf.Clean(string(data)), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", services.Wrap(services.ErrExternalTool, "fetch", "read file", path, err)
		}
		if f.Wait == nil || !f.Wait(ctx, path, f.Hint) {
			msg := fmt.Sprintf("save the app metadata to %s", path)
			if f.Hint != "" {
				msg += " (download from " + f.Hint + ")"
			}
			return "", services.Wrap(services.ErrNotFound, "fetch", "read file", msg, err)
		}
	}
}

// Static serves fixed text. It backs --appinfo-file style inputs already
// loaded into memory and tests.
type Static struct {
	Label string
	Text  string
}

// Name identifies the source in logs.
func (s Static) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

// Fetch returns the stored text.
func (s Static) Fetch(context.Context, string) (string, error) {
	return s.Text, nil
}

// CheckFunc validates fetched text. A non-nil error makes the chain move on
// to the next source.
type CheckFunc func(appID, raw string) error

// Chain tries each source in order and returns the first acceptable text.
type Chain struct {
	Sources []Source
	Check   CheckFunc
	Logger  *slog.Logger
}

// Fetch walks the chain. When every source fails the last error is returned.
func (c *Chain) Fetch(ctx context.Context, appID string) (string, string, error) {
	logger := c.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	var lastErr error
	for _, src := range c.Sources {
		if src == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", "", err
		}
		raw, err := src.Fetch(ctx, appID)
		if err == nil && c.Check != nil {
			err = c.Check(appID, raw)
		}
		if err == nil {
			logger.Debug("metadata source succeeded",
				logging.String(logging.FieldAppID, appID),
				logging.String("source", src.Name()),
			)
			return raw, src.Name(), nil
		}
		if errors.Is(err, context.Canceled) {
			return "", "", err
		}
		lastErr = fmt.Errorf("%s: %w", src.Name(), err)
		logging.WarnWithContext(logger, "metadata source failed", "appinfo_source_failed",
			logging.String(logging.FieldAppID, appID),
			logging.String("source", src.Name()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "trying next source"),
		)
	}
	if lastErr == nil {
		return "", "", ErrNoSource
	}
	return "", "", lastErr
}

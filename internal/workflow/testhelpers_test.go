package workflow_test

import (
	"context"
	"testing"

	"luamaker/internal/config"
	"luamaker/internal/history"
	"luamaker/internal/notifications"
)

type stubExecutor struct {
	lines []string
	err   error
	calls int
}

func (s *stubExecutor) Run(_ context.Context, _ string, _ []string, onStdout func(string)) error {
	s.calls++
	for _, line := range s.lines {
		onStdout(line)
	}
	return s.err
}

func openHistory(t *testing.T, cfg *config.Config) *history.Store {
	t.Helper()
	store, err := history.Open(context.Background(), cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func lastRun(t *testing.T, store *history.Store) history.Entry {
	t.Helper()
	entries, err := store.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("history.List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	return entries[0]
}

type recordingNotifier struct {
	completed []notifications.RunSummary
	failed    []string
}

func (r *recordingNotifier) NotifyRunCompleted(_ context.Context, run notifications.RunSummary) error {
	r.completed = append(r.completed, run)
	return nil
}

func (r *recordingNotifier) NotifyRunFailed(_ context.Context, appID string, _ error) error {
	r.failed = append(r.failed, appID)
	return nil
}

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

func (r *recordingNotifier) Enabled() bool { return true }

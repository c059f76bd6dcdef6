package history

import "time"

// Status is the outcome recorded for a run.
type Status string

const (
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusNeedsInput Status = "needs_input"
)

// Mode names how a run produced its output.
type Mode string

const (
	ModeGenerated Mode = "generated"
	ModePlugin    Mode = "plugin"
)

// Entry is one recorded run.
type Entry struct {
	ID            int64
	RunID         string
	AppID         string
	AppName       string
	Mode          Mode
	Status        Status
	DepotCount    int
	DroppedCount  int
	ManifestCount int
	OutputDir     string
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Duration returns how long the run took.
func (e Entry) Duration() time.Duration {
	if e.FinishedAt.Before(e.StartedAt) {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

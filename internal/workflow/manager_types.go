package workflow

import (
	"errors"
	"time"

	"luamaker/internal/appinfo"
	"luamaker/internal/depotset"
	"luamaker/internal/history"
	"luamaker/internal/manifests"
	"luamaker/internal/steampath"
)

// ErrNoManifests reports a run that found no cached manifest to copy.
var ErrNoManifests = errors.New("no manifest files found")

// Report summarises a completed Generate call.
type Report struct {
	RunID      string
	AppID      string
	Name       string
	Mode       history.Mode
	Source     string
	OutputDir  string
	ScriptPath string
	Layout     steampath.Layout
	Depots     []depotset.Resolved
	// PluginDepots lists the depot ids read from a reused plugin script.
	PluginDepots []string
	Dropped      []depotset.Dropped
	Manifests    []manifests.File
	StartedAt    time.Time
	FinishedAt   time.Time
}

// DepotState describes one candidate depot in an inspection.
type DepotState struct {
	Depot     appinfo.Depot
	HasKey    bool
	Kept      bool
	Reason    string
	Manifests int
}

// Inspection is the dry-run view of an app.
type Inspection struct {
	AppID     string
	Name      string
	Source    string
	Layout    steampath.Layout
	HasPlugin bool
	Depots    []DepotState
	Script    string
	// Err is the generator failure, if any. The depot states remain valid.
	Err error
}

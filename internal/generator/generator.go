package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"luamaker/internal/appinfo"
	"luamaker/internal/depotset"
	"luamaker/internal/keystore"
	"luamaker/internal/logging"
	"luamaker/internal/luascript"
	"luamaker/internal/vdf"
)

// ErrInvalidAppID reports an app identifier that is empty or not decimal.
var ErrInvalidAppID = errors.New("invalid app id")

// Result is the outcome of a successful run.
type Result struct {
	AppID   string
	Name    string
	Depots  []depotset.Resolved
	Dropped []depotset.Dropped
	Script  string
}

// Description is the parsed view of an app record before key resolution.
type Description struct {
	AppID      string
	Name       string
	Candidates []appinfo.Depot
}

// Generator runs the pipeline. The zero value is not usable; call New.
type Generator struct {
	logger *slog.Logger
}

// New returns a generator logging through logger.
func New(logger *slog.Logger) *Generator {
	return &Generator{logger: logging.NewComponentLogger(logger, "generator")}
}

// ValidateAppID checks that appID is a non-empty string of ASCII digits.
func ValidateAppID(appID string) error {
	if appID == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAppID)
	}
	for _, r := range appID {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q is not numeric", ErrInvalidAppID, appID)
		}
	}
	return nil
}

// Describe isolates and parses the app's record and extracts its candidate
// depots.
func (g *Generator) Describe(appID, remoteRaw string) (*Description, error) {
	appID = strings.TrimSpace(appID)
	if err := ValidateAppID(appID); err != nil {
		return nil, err
	}
	span, err := vdf.Isolate(vdf.Clean(remoteRaw), appID)
	if err != nil {
		return nil, fmt.Errorf("isolate app %s: %w", appID, err)
	}
	root, err := vdf.Parse(span)
	if err != nil {
		return nil, fmt.Errorf("parse app %s: %w", appID, err)
	}
	name := appinfo.AppName(root)
	if name == "" {
		logging.WarnWithContext(g.logger, "app record has no common.name", "app_name_missing",
			logging.String(logging.FieldAppID, appID),
			logging.String(logging.FieldErrorHint, "check that the metadata document is complete"),
			logging.String(logging.FieldImpact, "output folder is named by app id only"),
		)
	}
	candidates, err := appinfo.ExtractDepots(root)
	if err != nil {
		return nil, fmt.Errorf("extract depots for app %s: %w", appID, err)
	}
	g.logger.Debug("candidate depots extracted",
		logging.String(logging.FieldAppID, appID),
		logging.Int("depot_count", len(candidates)),
	)
	return &Description{AppID: appID, Name: name, Candidates: candidates}, nil
}

// Run executes the full pipeline. On failure no partial script is returned.
func (g *Generator) Run(appID, remoteRaw, localRaw string) (*Result, error) {
	desc, err := g.Describe(appID, remoteRaw)
	if err != nil {
		return nil, err
	}
	store := keystore.New(localRaw)
	set, err := depotset.Apply(desc.Candidates, depotset.FromLookup(store.Resolve))
	if err != nil {
		return nil, fmt.Errorf("app %s: %w", desc.AppID, err)
	}
	for _, dropped := range set.Dropped {
		g.logger.Info("depot dropped",
			logging.Args(append(logging.DecisionAttrs("depot_filter", "dropped", string(dropped.Reason)),
				logging.String(logging.FieldAppID, desc.AppID),
				logging.String(logging.FieldDepotID, dropped.Depot.ID),
			)...)...,
		)
	}
	g.logger.Info("depot set resolved",
		logging.String(logging.FieldAppID, desc.AppID),
		logging.String("app_name", desc.Name),
		logging.Int("depot_count", len(set.Kept)),
		logging.Int("dropped_count", len(set.Dropped)),
	)
	return &Result{
		AppID:   desc.AppID,
		Name:    desc.Name,
		Depots:  set.Kept,
		Dropped: set.Dropped,
		Script:  luascript.Emit(desc.AppID, set.Kept),
	}, nil
}

// Retryable reports whether err came from the metadata document itself, in
// which case a fresh copy of that document may succeed.
func Retryable(err error) bool {
	switch {
	case errors.Is(err, vdf.ErrMalformedDocument),
		errors.Is(err, vdf.ErrRecordNotFound),
		errors.Is(err, vdf.ErrUnbalancedDelimiter),
		errors.Is(err, appinfo.ErrNoDepots),
		errors.Is(err, appinfo.ErrNoValidDepots):
		return true
	default:
		return false
	}
}

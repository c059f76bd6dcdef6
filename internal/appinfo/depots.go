package appinfo

import (
	"errors"
	"fmt"
	"strings"

	"luamaker/internal/vdf"
)

var (
	ErrNoDepots      = errors.New("app record has no depots")
	ErrNoValidDepots = errors.New("no valid depots")
)

// Depot is the read-only view of one entry under the record's depots map.
type Depot struct {
	ID                   string
	ContentVersionID     string
	Name                 string
	DLCAppID             string
	Language             string
	IsAddOn              bool
	IsLanguageRestricted bool
}

// ExtractDepots returns the depots that carry a non-empty
// manifests.public.gid, in document order. Non-map children of depots
// (branches, baselanguages, and similar scalars) are skipped.
func ExtractDepots(root *vdf.Node) ([]Depot, error) {
	depots, ok := root.Get("depots")
	if !ok || !depots.IsMap() {
		return nil, ErrNoDepots
	}

	var out []Depot
	for _, id := range depots.Keys() {
		child, _ := depots.Get(id)
		if !child.IsMap() {
			continue
		}
		gid, _ := child.String("manifests", "public", "gid")
		gid = strings.TrimSpace(gid)
		if gid == "" {
			continue
		}
		depot := Depot{ID: id, ContentVersionID: gid}
		depot.Name, _ = child.String("name")
		if child.Has("dlcappid") {
			depot.IsAddOn = true
			depot.DLCAppID, _ = child.String("dlcappid")
		}
		if lang, ok := child.Lookup("config", "language"); ok {
			depot.IsLanguageRestricted = true
			depot.Language, _ = lang.Value()
		}
		out = append(out, depot)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: none of %d depot entries has a public manifest", ErrNoValidDepots, depots.Len())
	}
	return out, nil
}

// AppName returns common.name, or an empty string when the record has none.
func AppName(root *vdf.Node) string {
	name, _ := root.String("common", "name")
	return strings.TrimSpace(name)
}

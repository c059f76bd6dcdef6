package luascript

import (
	"regexp"
	"strings"

	"luamaker/internal/depotset"
)

// Emit renders the script for appID and depots. Output is deterministic for a
// given input.
func Emit(appID string, depots []depotset.Resolved) string {
	var b strings.Builder
	b.WriteString("addappid(" + appID + ")\n")
	for _, d := range depots {
		b.WriteString("addappid(" + d.DepotID + `,1,"` + d.DecryptionKey + "\")\n")
	}
	for _, d := range depots {
		b.WriteString("setManifestid(" + d.DepotID + `,"` + d.ContentVersionID + "\")\n")
	}
	return b.String()
}

var addAppIDPattern = regexp.MustCompile(`addappid\(\s*(\d+)`)

// DepotIDs returns the ids registered by addappid statements in script,
// excluding appID itself. Ids are deduplicated and keep first-seen order.
func DepotIDs(script, appID string) []string {
	seen := map[string]struct{}{appID: {}}
	var ids []string
	for _, m := range addAppIDPattern.FindAllStringSubmatch(script, -1) {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		ids = append(ids, m[1])
	}
	return ids
}

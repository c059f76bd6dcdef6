// Package pathcache remembers validated filesystem locations between runs.
//
// The main entry is the Steam config directory: once a run has validated a
// Steam layout, its config path is stored so later runs skip discovery. A
// cached path that no longer validates is ignored by the workflow and
// replaced on the next successful discovery.
//
// # Storage
//
// The cache is a JSON file at <state_dir>/path_cache.json, written atomically.
// It is human-readable and safe to edit or delete by hand.
//
// CLI commands for inspection and management:
//
//	luamaker cache show    # List cached paths
//	luamaker cache clear   # Remove all entries
package pathcache

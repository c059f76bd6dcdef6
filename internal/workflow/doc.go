// Package workflow drives one luamaker run end to end.
//
// Manager.Generate resolves the Steam layout (configured root, then the path
// cache, then discovery), fetches the app's metadata through the source chain
// (steamcmd first, then the manual fallback file), and either reuses an
// existing Steam plugin script or runs the generator against the local
// trust-store. It then locks and fills the per-app output directory with the
// script and the matching depot manifests, records the run in the history
// store, and prunes archived steamcmd responses past the retention window.
//
// Manager.Inspect performs the same resolution and generation without
// writing anything, so the CLI can show which depots would be kept.
package workflow

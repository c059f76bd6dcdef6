// Package generator runs the depot pipeline for one app: isolate the app's
// record in the remote metadata, parse it, extract candidate depots, resolve
// their keys against the local config.vdf text, filter, and emit the script.
//
// Run is pure with respect to the filesystem and network. Callers read both
// documents and hand over text; the result carries the script and the depot
// set so the caller can copy manifests for the kept depots.
package generator

// Package luascript writes and reads the depot unlock script format.
//
// The consumer expects every addappid line before any setManifestid line, so
// Emit renders the depot set in two passes over the same order.
package luascript

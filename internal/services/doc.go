// Package services defines shared utilities consumed by the workflow stages
// and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp app IDs, stage names, and run correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses (failed vs needs_input).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across a run.
package services

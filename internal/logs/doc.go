// Package logs reads luamaker's log files for the CLI.
//
// Last returns the final lines of a file with bounded memory, and Follow
// streams lines appended after an offset until its context ends. Both accept
// an optional Filter so a single run can be picked out of the shared log by
// its run id.
package logs

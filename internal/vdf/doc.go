// Package vdf reads the brace-delimited key/value documents Steam uses for
// app metadata (steamcmd app_info_print output) and local configuration
// (config.vdf).
//
// Parse turns raw text into an ordered tree of Node values. Input is cleaned
// before tokenizing: NUL bytes and ill-formed UTF-8 left behind by process
// pipes are dropped rather than treated as errors. Isolate carves a single
// top-level record out of a larger document using balanced-brace scanning so
// callers can parse only the app they asked for. Encode writes a tree back in
// the same grammar.
package vdf

package vdf

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Clean drops NUL bytes and ill-formed UTF-8 sequences from raw. steamcmd
// output is read from a pipe with no encoding guarantees, so both are
// treated as filler rather than content. Valid runes, U+FFFD included, are
// kept.
func Clean(raw string) string {
	valid := strings.ToValidUTF8(raw, "")
	out, _, err := transform.String(runes.Remove(runes.Predicate(isNUL)), valid)
	if err != nil {
		return strings.ReplaceAll(valid, "\x00", "")
	}
	return out
}

func isNUL(r rune) bool {
	return r == 0
}

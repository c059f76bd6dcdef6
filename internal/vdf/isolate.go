package vdf

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrUnbalancedDelimiter = errors.New("unbalanced delimiter")
)

// Isolate returns the "{ ... }" body of the record keyed by the quoted id.
// The returned span starts at the record's opening brace and ends at the
// brace where depth returns to zero.
//
// The anchor is the first occurrence of "<id>" sitting in a key position
// (alone at the start of a line or directly after a brace) and followed by
// an opening brace. When no such occurrence exists the first textual
// occurrence is used instead.
//
// Braces are counted without regard to quoting, so a quoted value containing
// "{" or "}" ends or extends the span early and the result may not parse.
func Isolate(raw, id string) (string, error) {
	needle := `"` + id + `"`
	first := strings.Index(raw, needle)
	if first < 0 {
		return "", fmt.Errorf("%w: %s", ErrRecordNotFound, needle)
	}

	anchor := first
	for idx := first; idx >= 0; {
		if isKeyPosition(raw, idx, len(needle)) {
			anchor = idx
			break
		}
		next := strings.Index(raw[idx+len(needle):], needle)
		if next < 0 {
			break
		}
		idx += len(needle) + next
	}

	rest := anchor + len(needle)
	open := strings.IndexByte(raw[rest:], '{')
	if open < 0 {
		return "", fmt.Errorf("%w: no opening brace after %s", ErrUnbalancedDelimiter, needle)
	}
	start := rest + open

	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("%w: record %s never closes", ErrUnbalancedDelimiter, needle)
}

func isKeyPosition(raw string, idx, width int) bool {
	after := strings.TrimLeft(raw[idx+width:], " \t\r\n")
	if !strings.HasPrefix(after, "{") {
		return false
	}
	before := strings.TrimRight(raw[:idx], " \t")
	if before == "" {
		return true
	}
	switch before[len(before)-1] {
	case '\n', '{', '}':
		return true
	}
	return false
}

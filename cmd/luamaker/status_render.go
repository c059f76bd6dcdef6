package main

import (
	"fmt"
	"io"
	"strings"

	"luamaker/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

// checkLines renders preflight results, with a summary line first.
func checkLines(results []preflight.Result, colorize bool) []string {
	if len(results) == 0 {
		return []string{renderStatusLine("Summary", statusInfo, "no checks run", colorize)}
	}
	var failed, warned []string
	for _, r := range results {
		if r.Passed {
			continue
		}
		if r.Optional {
			warned = append(warned, r.Name)
		} else {
			failed = append(failed, r.Name)
		}
	}

	lines := make([]string, 0, len(results)+2)
	switch {
	case len(failed) > 0:
		lines = append(lines, renderStatusLine("Summary", statusError, fmt.Sprintf("%d of %d checks failed", len(failed), len(results)), colorize))
	case len(warned) > 0:
		lines = append(lines, renderStatusLine("Summary", statusWarn, fmt.Sprintf("%d optional check(s) not ready", len(warned)), colorize))
	default:
		lines = append(lines, renderStatusLine("Summary", statusOK, "all checks passed", colorize))
	}

	for _, r := range results {
		kind := statusOK
		message := "Ready"
		switch {
		case !r.Passed && r.Optional:
			kind = statusWarn
			message = "optional"
		case !r.Passed:
			kind = statusError
			message = "failed"
		}
		if r.Detail != "" {
			if r.Passed {
				message = fmt.Sprintf("%s (%s)", message, r.Detail)
			} else {
				message = r.Detail
			}
		}
		lines = append(lines, renderStatusLine(r.Name, kind, message, colorize))
	}
	if len(failed) > 0 {
		lines = append(lines, statusIndent+"Failed checks: "+strings.Join(failed, ", "))
	}
	return lines
}

func shouldColorize(writer io.Writer) bool {
	return isTerminal(writer)
}

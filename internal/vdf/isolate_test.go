package vdf_test

import (
	"errors"
	"strings"
	"testing"

	"luamaker/internal/vdf"
)

func assertBalancedSpan(t *testing.T, span string) {
	t.Helper()
	if !strings.HasPrefix(span, "{") || !strings.HasSuffix(span, "}") {
		t.Fatalf("span not brace-delimited: %q", span)
	}
	depth := 0
	for i, c := range span {
		switch c {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 && i != len(span)-1 {
			t.Fatalf("depth reached zero before final character at %d", i)
		}
		if depth < 0 {
			t.Fatalf("negative depth at %d", i)
		}
	}
	if depth != 0 {
		t.Fatalf("span ends at depth %d", depth)
	}
}

func TestIsolateExtractsRecordFromSteamOutput(t *testing.T) {
	raw := "Redirecting stderr to '/tmp/stderr.txt'\n" +
		"AppID : 42, change number : 1/0, last change : Mon Jan  1 00:00:00 2024\n" +
		sampleRecord +
		"\"43\"\n{\n\t\"common\"\n\t{\n\t\t\"name\"\t\t\"Other\"\n\t}\n}\n"

	span, err := vdf.Isolate(raw, "42")
	if err != nil {
		t.Fatalf("Isolate: %v", err)
	}
	assertBalancedSpan(t, span)
	if strings.Contains(span, "Other") {
		t.Fatal("span leaked into the next record")
	}
	root, err := vdf.Parse(span)
	if err != nil {
		t.Fatalf("Parse span: %v", err)
	}
	if name, _ := root.String("common", "name"); name != "Example Game" {
		t.Fatalf("unexpected name %q", name)
	}
}

func TestIsolatePrefersStructuralOccurrence(t *testing.T) {
	raw := `"root"
{
	"10"
	{
		"parent"		"42"
		"extended" { "x" "y" }
	}
	"42"
	{
		"common" { "name" "Target" }
	}
}
`
	span, err := vdf.Isolate(raw, "42")
	if err != nil {
		t.Fatalf("Isolate: %v", err)
	}
	assertBalancedSpan(t, span)
	if !strings.Contains(span, "Target") {
		t.Fatalf("expected structural record, got %q", span)
	}
}

func TestIsolateFallsBackToFirstTextualOccurrence(t *testing.T) {
	raw := `value "42" then { "common" { "name" "Loose" } }`
	span, err := vdf.Isolate(raw, "42")
	if err != nil {
		t.Fatalf("Isolate: %v", err)
	}
	assertBalancedSpan(t, span)
	if !strings.Contains(span, "Loose") {
		t.Fatalf("unexpected span %q", span)
	}
}

func TestIsolateCountsBracesInsideQuotes(t *testing.T) {
	raw := `"42"
{
	"common"
	{
		"name"		"A } B"
	}
	"depots"
	{
	}
}
`
	span, err := vdf.Isolate(raw, "42")
	if err != nil {
		t.Fatalf("Isolate: %v", err)
	}
	if strings.Contains(span, "depots") {
		t.Fatalf("expected the quoted brace to end the span early, got %q", span)
	}
	if _, err := vdf.Parse(span); !errors.Is(err, vdf.ErrMalformedDocument) {
		t.Fatalf("expected truncated span to be malformed, got %v", err)
	}
}

func TestIsolateErrors(t *testing.T) {
	if _, err := vdf.Isolate(`"1" { }`, "42"); !errors.Is(err, vdf.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := vdf.Isolate(`"420" { }`, "42"); !errors.Is(err, vdf.ErrRecordNotFound) {
		t.Fatalf("substring id must not match, got %v", err)
	}
	if _, err := vdf.Isolate("\"42\"\n{\n\t\"depots\"\n\t{\n", "42"); !errors.Is(err, vdf.ErrUnbalancedDelimiter) {
		t.Fatalf("expected ErrUnbalancedDelimiter, got %v", err)
	}
	if _, err := vdf.Isolate(`"42" "no braces here"`, "42"); !errors.Is(err, vdf.ErrUnbalancedDelimiter) {
		t.Fatalf("expected ErrUnbalancedDelimiter without an opening brace, got %v", err)
	}
}

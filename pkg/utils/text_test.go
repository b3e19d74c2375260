package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 10); got != "hello" {
		t.Errorf("short string changed: %q", got)
	}
	got := TruncateRunes(strings.Repeat("A", 50), 10)
	if utf8.RuneCountInString(got) != 10 {
		t.Errorf("length = %d, want 10", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Errorf("missing marker: %q", got)
	}
	if got := TruncateRunes("x", 0); got != "x" {
		t.Errorf("maxLen 0 should return as-is, got %q", got)
	}
	// Devanagari is multi-byte; the cut must land on a rune boundary.
	hindi := strings.Repeat("शांति ", 20)
	got = TruncateRunes(hindi, 12)
	if utf8.RuneCountInString(got) != 12 {
		t.Errorf("rune length = %d, want 12", utf8.RuneCountInString(got))
	}
	if !utf8.ValidString(got) {
		t.Error("truncation produced invalid UTF-8")
	}
}

func TestCollapseWhitespace(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  hello   world  ", "hello world"},
		{"a\t\nb", "a b"},
		{"", ""},
		{"single", "single"},
	}
	for _, c := range cases {
		if got := CollapseWhitespace(c.in); got != c.want {
			t.Errorf("CollapseWhitespace(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

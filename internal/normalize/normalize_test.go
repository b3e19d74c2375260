package normalize

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestInbound_TruncatesLongText(t *testing.T) {
	got, err := Inbound(strings.Repeat("A", 1500))
	if err != nil {
		t.Fatalf("Inbound: %v", err)
	}
	if n := utf8.RuneCountInString(got); n != MaxInboundRunes {
		t.Errorf("length = %d, want %d", n, MaxInboundRunes)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("expected truncation marker")
	}
}

func TestInbound_ExactLimitUntouched(t *testing.T) {
	text := strings.Repeat("A", MaxInboundRunes)
	got, err := Inbound(text)
	if err != nil {
		t.Fatalf("Inbound: %v", err)
	}
	if got != text {
		t.Error("text at the limit should not be truncated")
	}
}

func TestInbound_Rejections(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t  "},
		{"too few significant", " ab "},
		{"markup only", "<>{}<>{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Inbound(tt.in); !errors.Is(err, ErrEmptyInput) {
				t.Errorf("Inbound(%q) err = %v, want ErrEmptyInput", tt.in, err)
			}
		})
	}
}

func TestInbound_StripsMarkup(t *testing.T) {
	got, err := Inbound("<script>alert(1)</script> help me")
	if err != nil {
		t.Fatalf("Inbound: %v", err)
	}
	if strings.ContainsAny(got, "<>{}") {
		t.Errorf("markup characters survived: %q", got)
	}
}

func TestInbound_CollapsesWhitespace(t *testing.T) {
	got, err := Inbound("  how   do\nI\t find   peace  ")
	if err != nil {
		t.Fatalf("Inbound: %v", err)
	}
	if got != "how do I find peace" {
		t.Errorf("got %q", got)
	}
}

func TestOutbound_ShortTextUnchanged(t *testing.T) {
	if got := Outbound("Be still."); got != "Be still." {
		t.Errorf("got %q", got)
	}
}

func TestOutbound_PrefersSentenceBoundary(t *testing.T) {
	sentence := strings.Repeat("w", 99) + "."
	text := strings.Repeat(sentence+" ", 40) // ~4000 runes
	got := Outbound(text)
	if n := utf8.RuneCountInString(got); n > MaxOutboundRunes {
		t.Errorf("length = %d, want <= %d", n, MaxOutboundRunes)
	}
	if !strings.HasSuffix(got, ".") {
		t.Errorf("expected sentence boundary ending, got suffix %q", got[len(got)-5:])
	}
	if strings.Contains(got, "...") {
		t.Error("sentence-boundary cut should not add a marker")
	}
}

func TestOutbound_HardCutWithoutBoundary(t *testing.T) {
	got := Outbound(strings.Repeat("A", 3000))
	if n := utf8.RuneCountInString(got); n != MaxOutboundRunes {
		t.Errorf("length = %d, want %d", n, MaxOutboundRunes)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("expected truncation marker on hard cut")
	}
}

func TestSessionID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"canonical", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"uppercase normalized", "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"empty", "", "", true},
		{"garbage", "not-a-session-id", "", true},
		{"compact form", "6ba7b8109dad11d180b400c04fd430c8", "", true},
		{"braced form", "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SessionID(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSessionID) {
					t.Errorf("err = %v, want ErrInvalidSessionID", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SessionID: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

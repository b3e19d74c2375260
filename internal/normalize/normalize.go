// Package normalize sanitizes chat text and session identifiers before they
// enter the guidance pipeline. Inbound and outbound text follow different
// policies: user text is bounded tightly and may be rejected, assistant text
// is bounded loosely and never rejected.
package normalize

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hyperjump/shepherd/pkg/utils"
)

const (
	// MaxInboundRunes bounds user messages, truncation marker included.
	MaxInboundRunes = 1000
	// MaxOutboundRunes bounds assistant messages, truncation marker included.
	MaxOutboundRunes = 2500
	// MinSignificantRunes is the minimum number of non-space runes an
	// inbound message must keep after sanitization.
	MinSignificantRunes = 3
)

var (
	ErrEmptyInput       = errors.New("message is empty after normalization")
	ErrInvalidSessionID = errors.New("session id is not a canonical uuid")
)

// markupStripper removes the characters most often used to smuggle markup
// or template syntax through chat text.
var markupStripper = strings.NewReplacer("<", "", ">", "", "{", "", "}", "")

// Inbound sanitizes user text: strips markup characters, collapses whitespace
// runs to single spaces, and hard-truncates to MaxInboundRunes. Text that
// keeps fewer than MinSignificantRunes non-space runes is rejected with
// ErrEmptyInput.
func Inbound(text string) (string, error) {
	clean := utils.CollapseWhitespace(markupStripper.Replace(text))
	clean = utils.TruncateRunes(clean, MaxInboundRunes)
	if countSignificant(clean) < MinSignificantRunes {
		return "", ErrEmptyInput
	}
	return clean, nil
}

// Outbound sanitizes assistant text with the same stripping rules but a
// looser bound. When the text exceeds MaxOutboundRunes it is cut at the last
// period-delimited sentence that fits; only when no sentence boundary fits is
// it hard-truncated with a marker. Outbound never rejects.
func Outbound(text string) string {
	clean := utils.CollapseWhitespace(markupStripper.Replace(text))
	if utf8.RuneCountInString(clean) <= MaxOutboundRunes {
		return clean
	}

	var kept strings.Builder
	length := 0
	for _, segment := range strings.SplitAfter(clean, ".") {
		n := utf8.RuneCountInString(segment)
		if length+n > MaxOutboundRunes {
			break
		}
		kept.WriteString(segment)
		length += n
	}
	if length > 0 {
		return strings.TrimSpace(kept.String())
	}
	return utils.TruncateRunes(clean, MaxOutboundRunes)
}

// SessionID validates that id is a canonical hyphenated UUID and returns its
// lowercase form. Braced, URN, and compact encodings are rejected.
func SessionID(id string) (string, error) {
	if len(id) != 36 {
		return "", ErrInvalidSessionID
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidSessionID
	}
	return u.String(), nil
}

func countSignificant(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' {
			n++
		}
	}
	return n
}

// Package language holds the supported corpus languages and the detection
// heuristic used to classify user text.
package language

// Supported languages. Default is used whenever detection finds no marker
// script and as the fallback entry for language-keyed tables.
const (
	English = "english"
	Hindi   = "hindi"
	Default = English
)

// Devanagari block boundaries, the marker script for Hindi.
const (
	devanagariLo = 0x0900
	devanagariHi = 0x097F
)

// Detect classifies text as Hindi when it contains any Devanagari rune,
// English otherwise. It is a cheap script-presence heuristic, not full
// language identification; it never fails and never blocks.
func Detect(text string) string {
	for _, r := range text {
		if r >= devanagariLo && r <= devanagariHi {
			return Hindi
		}
	}
	return English
}

// Supported reports whether lang is one of the corpus languages.
func Supported(lang string) bool {
	return lang == English || lang == Hindi
}

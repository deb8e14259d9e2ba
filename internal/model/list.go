package model

import (
	"strings"
)

// Normalize trims surrounding whitespace from a draft and reports whether
// anything is left to commit. Invalid UTF-8 is replaced with U+FFFD, the
// same substitution the JSON encoder makes, so a committed item reads back
// from the store unchanged.
func Normalize(text string) (string, bool) {
	trimmed := strings.ToValidUTF8(strings.TrimSpace(text), "\uFFFD")
	return trimmed, trimmed != ""
}

// Append returns a fresh slice holding items followed by item.
func Append(items []string, item string) []string {
	out := make([]string, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

// RemoveAt returns a fresh slice without the element at index. Identity is
// positional: duplicates elsewhere in the list are kept. An index outside
// [0, len(items)) leaves the list unchanged and reports false.
func RemoveAt(items []string, index int) ([]string, bool) {
	if index < 0 || index >= len(items) {
		return Clone(items), false
	}
	out := make([]string, 0, len(items)-1)
	for i, item := range items {
		if i == index {
			continue
		}
		out = append(out, item)
	}
	return out, true
}

// Clone copies items, mapping nil to an empty list.
func Clone(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}

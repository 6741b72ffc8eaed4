package utils

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// TruncateUTF16 cuts s to at most max UTF-16 code units, the unit Telegram
// uses for message length limits. Runes are never split.
func TruncateUTF16(s string, max int) string {
	units := 0
	for i, r := range s {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1 // invalid runes are sent as U+FFFD
		}
		if units+n > max {
			return s[:i]
		}
		units += n
	}
	return s
}

package resolver

import (
	"crypto/subtle"
	"strings"
)

// Authorize reports whether a query carrying providedKey may be answered.
// An empty requiredKey disables the check entirely. Otherwise the keys
// must match exactly: no partial matches, no case folding. The comparison
// is constant-time so the shared secret cannot be probed byte by byte.
func Authorize(providedKey, requiredKey string) bool {
	if requiredKey == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(providedKey), []byte(requiredKey)) == 1
}

// TruncateChars returns the first max characters of s. A max of zero or
// less means unlimited. This is a size-budget control, not a security
// control, so truncation is silent. Character count, not byte count: the
// cut never lands inside a multi-byte rune.
func TruncateChars(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// asciiReplacer maps the typographic punctuation models like to emit onto
// ASCII equivalents, which render reliably in dig output.
var asciiReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"—", "--", // em dash
	"–", "-", // en dash
	"…", "...", // ellipsis
)

// NormalizeASCII rewrites common typographic punctuation as ASCII.
func NormalizeASCII(s string) string {
	return asciiReplacer.Replace(s)
}

package resolver

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Query name label prefixes. Matched as literal prefixes up to and
// including the hyphen, never as full-label equality, so "keyword-x" is
// not mistaken for a key label. Both are case-sensitive.
const (
	keyLabelPrefix = "key-"
	b64LabelPrefix = "b64-"
)

// ErrMalformedEncoding reports an undecodable query name payload. It maps
// to SERVFAIL rather than silently producing garbage text, since a mangled
// key-looking payload must never leak into logs or prompts.
var ErrMalformedEncoding = errors.New("malformed query name encoding")

// SplitAccessKey peeks at the first label and, if it carries the key
// prefix, extracts the token and removes the label from further
// processing. This is the minimal prefix check authorization needs; no
// other decoding happens here.
func SplitAccessKey(labels []string) (key string, rest []string) {
	if len(labels) > 0 && strings.HasPrefix(labels[0], keyLabelPrefix) {
		return strings.TrimPrefix(labels[0], keyLabelPrefix), labels[1:]
	}
	return "", labels
}

// DecodePrompt reconstructs the natural-language prompt from the ordered
// label sequence (access key already stripped).
//
// A single label with the b64- prefix carries the whole prompt as URL-safe
// base64 with padding stripped; it is re-padded and decoded, and the result
// is the prompt verbatim. Otherwise each label has underscores replaced
// with spaces and %XX escapes resolved, and the labels are joined with
// single spaces. An empty label sequence is a legal empty prompt.
func DecodePrompt(labels []string) (string, error) {
	if len(labels) == 1 && strings.HasPrefix(labels[0], b64LabelPrefix) {
		return decodeBase64Label(strings.TrimPrefix(labels[0], b64LabelPrefix))
	}
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.ReplaceAll(label, "_", " ")
		parts = append(parts, percentDecode(label))
	}
	return strings.Join(parts, " "), nil
}

// decodeBase64Label decodes a URL-safe base64 payload whose padding was
// stripped for DNS transport. Padding is restored to the next multiple of
// four before decoding; anything still undecodable is a malformed query.
func decodeBase64Label(enc string) (string, error) {
	if rem := len(enc) % 4; rem != 0 {
		enc += strings.Repeat("=", 4-rem)
	}
	decoded, err := base64.URLEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return string(decoded), nil
}

// percentDecode resolves %XX escapes to bytes. Malformed escapes pass
// through literally; percent decoding never fails.
func percentDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

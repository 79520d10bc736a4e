// Package rrdata encodes TXT record data into RFC 1035 RDATA format.
// TXT is the only record type this server ever answers with.
package rrdata

import "fmt"

// MaxTXTStringLen is the RFC 1035 cap on a single TXT character-string.
const MaxTXTStringLen = 255

// EncodeTXT encodes an ordered set of character-strings into TXT RDATA.
// Each string is emitted as a length octet followed by its bytes, see
// RFC 1035 section 3.3.14. An empty set is rejected; a single empty
// string is legal and encodes as one zero-length octet.
func EncodeTXT(strings []string) ([]byte, error) {
	if len(strings) == 0 {
		return nil, fmt.Errorf("TXT record must contain at least one string")
	}
	var encoded []byte
	for i, s := range strings {
		if len(s) > MaxTXTStringLen {
			return nil, fmt.Errorf("TXT string %d too long: %d bytes", i, len(s))
		}
		encoded = append(encoded, byte(len(s)))
		encoded = append(encoded, s...)
	}
	return encoded, nil
}

// DecodeTXT parses TXT RDATA back into its ordered character-strings.
func DecodeTXT(data []byte) ([]string, error) {
	var strings []string
	for off := 0; off < len(data); {
		n := int(data[off])
		off++
		if off+n > len(data) {
			return nil, fmt.Errorf("truncated TXT string at offset %d", off)
		}
		strings = append(strings, string(data[off:off+n]))
		off += n
	}
	if len(strings) == 0 {
		return nil, fmt.Errorf("TXT RDATA contains no strings")
	}
	return strings, nil
}

package domain

import "fmt"

// RCode represents a DNS response code indicating the result of a query.
type RCode uint8

// Response codes this resolver actually emits. Every failure class maps to
// exactly one of these; nothing is ever silently swallowed.
const (
	NOERROR  RCode = 0 // successful answer
	FORMERR  RCode = 1 // malformed query message
	SERVFAIL RCode = 2 // decode failure or answer provider failure
	NXDOMAIN RCode = 3
	NOTIMP   RCode = 4 // any record type other than TXT
	REFUSED  RCode = 5 // authorization or rate-limit rejection
)

// IsValid returns true if the RCode is within the supported response code range.
func (r RCode) IsValid() bool {
	return r <= 10
}

// String returns the textual representation of the RCode.
func (r RCode) String() string {
	switch r {
	case NOERROR:
		return "NOERROR"
	case FORMERR:
		return "FORMERR"
	case SERVFAIL:
		return "SERVFAIL"
	case NXDOMAIN:
		return "NXDOMAIN"
	case NOTIMP:
		return "NOTIMP"
	case REFUSED:
		return "REFUSED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", r)
	}
}

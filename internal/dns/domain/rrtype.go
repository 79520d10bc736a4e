package domain

import "fmt"

// RRType represents a DNS resource record type (e.g. A, AAAA, TXT).
// See IANA DNS Parameters for assigned codes.
type RRType uint16

// DNS Resource Record Type constants. Only TXT is ever answered; the
// remaining codes exist so inbound queries of any common type decode
// cleanly before being rejected with NOTIMP.
const (
	RRTypeA     RRType = 1   // A - IPv4 address
	RRTypeNS    RRType = 2   // NS - Name server
	RRTypeCNAME RRType = 5   // CNAME - Canonical name
	RRTypeSOA   RRType = 6   // SOA - Start of authority
	RRTypePTR   RRType = 12  // PTR - Pointer
	RRTypeMX    RRType = 15  // MX - Mail exchange
	RRTypeTXT   RRType = 16  // TXT - Text
	RRTypeAAAA  RRType = 28  // AAAA - IPv6 address
	RRTypeSRV   RRType = 33  // SRV - Service
	RRTypeOPT   RRType = 41  // OPT - EDNS option
	RRTypeANY   RRType = 255 // ANY - Any type (query only)
	RRTypeCAA   RRType = 257 // CAA - Certificate authority authorization
)

// IsValid returns true if the RRType is one of the recognized types.
func (t RRType) IsValid() bool {
	switch t {
	case RRTypeA, RRTypeNS, RRTypeCNAME, RRTypeSOA, RRTypePTR, RRTypeMX,
		RRTypeTXT, RRTypeAAAA, RRTypeSRV, RRTypeOPT, RRTypeANY, RRTypeCAA:
		return true
	default:
		return false
	}
}

// String returns the textual representation of the RRType.
// For unknown types, it returns "UNKNOWN(<value>)".
func (t RRType) String() string {
	switch t {
	case RRTypeA:
		return "A"
	case RRTypeNS:
		return "NS"
	case RRTypeCNAME:
		return "CNAME"
	case RRTypeSOA:
		return "SOA"
	case RRTypePTR:
		return "PTR"
	case RRTypeMX:
		return "MX"
	case RRTypeTXT:
		return "TXT"
	case RRTypeAAAA:
		return "AAAA"
	case RRTypeSRV:
		return "SRV"
	case RRTypeOPT:
		return "OPT"
	case RRTypeANY:
		return "ANY"
	case RRTypeCAA:
		return "CAA"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", t)
	}
}

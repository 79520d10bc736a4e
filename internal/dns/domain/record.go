package domain

import "fmt"

// ResourceRecord represents a DNS resource record synthesized for a reply.
// This resolver answers one synthetic name space, so records are generated
// fresh per response and carry a plain TTL rather than an expiry time.
type ResourceRecord struct {
	Name  string
	Type  RRType
	Class RRClass
	TTL   uint32
	Data  []byte
}

// NewResourceRecord constructs a ResourceRecord and validates its fields.
func NewResourceRecord(name string, rrtype RRType, class RRClass, ttl uint32, data []byte) (ResourceRecord, error) {
	rr := ResourceRecord{
		Name:  name,
		Type:  rrtype,
		Class: class,
		TTL:   ttl,
		Data:  data,
	}
	if err := rr.Validate(); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// Validate checks whether the ResourceRecord fields are valid.
func (rr ResourceRecord) Validate() error {
	if rr.Name == "" {
		return fmt.Errorf("record name must not be empty")
	}
	if !rr.Type.IsValid() {
		return fmt.Errorf("invalid RRType: %d", rr.Type)
	}
	if !rr.Class.IsValid() {
		return fmt.Errorf("invalid RRClass: %d", rr.Class)
	}
	return nil
}

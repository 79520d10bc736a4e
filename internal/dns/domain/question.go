package domain

import (
	"fmt"
	"strings"
)

// Question represents the single question section of an inbound DNS query.
// Immutable once decoded from the wire.
type Question struct {
	ID    uint16
	Name  string
	Type  RRType
	Class RRClass
}

// NewQuestion constructs a Question and validates its fields.
func NewQuestion(id uint16, name string, rrtype RRType, class RRClass) (Question, error) {
	q := Question{
		ID:    id,
		Name:  name,
		Type:  rrtype,
		Class: class,
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks whether the Question fields are structurally and semantically valid.
func (q Question) Validate() error {
	if q.Name == "" {
		return fmt.Errorf("query name must not be empty")
	}
	if !q.Type.IsValid() {
		return fmt.Errorf("unsupported RRType: %d", q.Type)
	}
	if !q.Class.IsValid() {
		return fmt.Errorf("unsupported RRClass: %d", q.Class)
	}
	return nil
}

// Labels returns the ordered label sequence of the query name with the
// trailing root label removed. "what.is.life." yields ["what" "is" "life"].
func (q Question) Labels() []string {
	name := strings.TrimSuffix(q.Name, ".")
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}

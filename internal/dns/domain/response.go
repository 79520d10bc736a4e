package domain

import "fmt"

// Response represents a complete DNS reply for a single question.
// The originating Question is carried so that error replies (which have no
// answer records) can still echo the question section on the wire.
type Response struct {
	Question Question
	RCode    RCode
	Answers  []ResourceRecord
}

// NewResponse constructs a Response and validates its fields.
func NewResponse(q Question, rcode RCode, answers []ResourceRecord) (Response, error) {
	resp := Response{
		Question: q,
		RCode:    rcode,
		Answers:  answers,
	}
	if err := resp.Validate(); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// NewErrorResponse creates an answerless Response carrying only a response
// code. Failure replies never leak detail into the reply body.
func NewErrorResponse(q Question, rcode RCode) Response {
	return Response{
		Question: q,
		RCode:    rcode,
		Answers:  nil,
	}
}

// Validate checks whether the Response fields are structurally valid.
func (resp Response) Validate() error {
	if !resp.RCode.IsValid() {
		return fmt.Errorf("invalid RCode: %d", resp.RCode)
	}
	if err := resp.Question.Validate(); err != nil {
		return fmt.Errorf("invalid question: %w", err)
	}
	for i, rr := range resp.Answers {
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("invalid answer record at index %d: %w", i, err)
		}
	}
	return nil
}

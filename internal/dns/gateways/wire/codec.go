package wire

import "github.com/promptdns/promptdns/internal/dns/domain"

// MaxUDPPayload is the classic DNS-over-UDP message size limit (RFC 1035
// section 2.3.4). Replies that would exceed it are cut back to a truncated
// header so clients retry over TCP.
const MaxUDPPayload = 512

// DNSCodec converts between RFC 1035 wire format and domain objects.
// One codec instance is shared by the UDP and TCP transports; TCP's
// two-byte length framing is a transport concern, not a message one.
type DNSCodec interface {
	// DecodeQuery parses an inbound query message into a Question.
	DecodeQuery(data []byte) (domain.Question, error)

	// EncodeResponse serializes a full reply: header, question echo, and
	// any TXT answer records.
	EncodeResponse(resp domain.Response) ([]byte, error)

	// EncodeTruncated serializes an answerless reply with the TC bit set,
	// used when the full reply does not fit the UDP payload limit.
	EncodeTruncated(resp domain.Response) ([]byte, error)
}

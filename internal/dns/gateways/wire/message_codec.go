// Package wire provides encoding and decoding of DNS messages as specified
// in RFC 1035. It is deliberately hand-rolled: this server asks and answers
// exactly one message shape, so the full generality of a DNS library buys
// nothing over a few hundred lines it would have to trust anyway.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/promptdns/promptdns/internal/dns/common/log"
	"github.com/promptdns/promptdns/internal/dns/domain"
)

const headerLen = 12

// Header flag bits (RFC 1035 section 4.1.1).
const (
	flagQR = 1 << 15 // response
	flagAA = 1 << 10 // authoritative answer
	flagTC = 1 << 9  // truncated
	flagRD = 1 << 8  // recursion desired
	flagRA = 1 << 7  // recursion available
)

// qnameOffset is where the question name starts: right after the header.
// Answer records point here via name compression.
const qnameOffset = headerLen

// maxCompressionJumps bounds pointer chasing during name decoding so a
// crafted pointer loop cannot recurse forever.
const maxCompressionJumps = 10

// messageCodec implements DNSCodec for the single-question TXT reply shape
// this server speaks.
type messageCodec struct {
	logger log.Logger
}

// NewCodec returns a DNSCodec using the provided logger.
func NewCodec(logger log.Logger) *messageCodec {
	return &messageCodec{logger: logger}
}

// DecodeQuery parses a DNS query message. Unknown record types decode
// successfully on purpose: the resolver answers them with NOTIMP, which a
// decode-time rejection would turn into a silent drop.
func (c *messageCodec) DecodeQuery(data []byte) (domain.Question, error) {
	if len(data) < headerLen {
		return domain.Question{}, errors.New("query too short")
	}
	id := binary.BigEndian.Uint16(data[0:2])
	flags := binary.BigEndian.Uint16(data[2:4])
	if flags&flagQR != 0 {
		return domain.Question{}, errors.New("message is a response, not a query")
	}
	qdCount := binary.BigEndian.Uint16(data[4:6])
	if qdCount != 1 {
		return domain.Question{}, fmt.Errorf("expected exactly one question, got %d", qdCount)
	}

	name, offset, err := decodeName(data, headerLen, 0)
	if err != nil {
		return domain.Question{}, fmt.Errorf("failed to decode question name: %w", err)
	}
	if offset+4 > len(data) {
		return domain.Question{}, errors.New("truncated question section")
	}
	qtype := binary.BigEndian.Uint16(data[offset : offset+2])
	qclass := binary.BigEndian.Uint16(data[offset+2 : offset+4])

	return domain.Question{
		ID:    id,
		Name:  name,
		Type:  domain.RRType(qtype),
		Class: domain.RRClass(qclass),
	}, nil
}

// EncodeResponse serializes a Response into wire format.
func (c *messageCodec) EncodeResponse(resp domain.Response) ([]byte, error) {
	return c.encode(resp, resp.Answers, 0)
}

// EncodeTruncated serializes an answerless copy of resp with TC set.
func (c *messageCodec) EncodeTruncated(resp domain.Response) ([]byte, error) {
	return c.encode(resp, nil, flagTC)
}

func (c *messageCodec) encode(resp domain.Response, answers []domain.ResourceRecord, extraFlags uint16) ([]byte, error) {
	if len(answers) > 65535 {
		return nil, fmt.Errorf("too many answer records: %d", len(answers))
	}

	var buf bytes.Buffer

	flags := uint16(flagQR|flagAA|flagRD|flagRA) | uint16(resp.RCode) | extraFlags
	_ = binary.Write(&buf, binary.BigEndian, resp.Question.ID)
	_ = binary.Write(&buf, binary.BigEndian, flags)
	_ = binary.Write(&buf, binary.BigEndian, uint16(1)) // QDCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(answers)))
	_ = binary.Write(&buf, binary.BigEndian, uint16(0)) // NSCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0)) // ARCOUNT

	// Question echo.
	qname, err := encodeDomainName(resp.Question.Name)
	if err != nil {
		return nil, err
	}
	buf.Write(qname)
	_ = binary.Write(&buf, binary.BigEndian, uint16(resp.Question.Type))
	_ = binary.Write(&buf, binary.BigEndian, uint16(resp.Question.Class))

	for _, rr := range answers {
		if rr.Name == resp.Question.Name {
			// Compression pointer back to the QNAME just written.
			buf.Write([]byte{0xC0 | byte(qnameOffset>>8), byte(qnameOffset & 0xFF)})
		} else {
			name, err := encodeDomainName(rr.Name)
			if err != nil {
				return nil, err
			}
			buf.Write(name)
		}
		if len(rr.Data) > 65535 {
			return nil, fmt.Errorf("resource record data too large: %d bytes", len(rr.Data))
		}
		_ = binary.Write(&buf, binary.BigEndian, uint16(rr.Type))
		_ = binary.Write(&buf, binary.BigEndian, uint16(rr.Class))
		_ = binary.Write(&buf, binary.BigEndian, rr.TTL)
		_ = binary.Write(&buf, binary.BigEndian, uint16(len(rr.Data)))
		buf.Write(rr.Data)
	}

	c.logger.Debug(map[string]any{
		"id":      resp.Question.ID,
		"rcode":   resp.RCode.String(),
		"answers": len(answers),
		"size":    buf.Len(),
	}, "Encoded DNS response")

	return buf.Bytes(), nil
}

// decodeName decodes a domain name from a DNS message at the given offset,
// following compression pointers as defined in RFC 1035.
func decodeName(data []byte, offset, jumps int) (string, int, error) {
	if jumps > maxCompressionJumps {
		return "", 0, errors.New("too many compression pointers")
	}
	var labels []string
	for {
		if offset >= len(data) {
			return "", 0, errors.New("name offset out of bounds")
		}
		length := int(data[offset])
		if length == 0 {
			offset++
			break
		}
		if length&0xC0 == 0xC0 {
			if offset+1 >= len(data) {
				return "", 0, errors.New("compression pointer out of bounds")
			}
			ptr := int(binary.BigEndian.Uint16(data[offset:offset+2]) & 0x3FFF)
			suffix, _, err := decodeName(data, ptr, jumps+1)
			if err != nil {
				return "", 0, err
			}
			labels = append(labels, suffix)
			offset += 2
			return strings.Join(labels, "."), offset, nil
		}
		offset++
		if offset+length > len(data) {
			return "", 0, errors.New("label length out of bounds")
		}
		labels = append(labels, string(data[offset:offset+length]))
		offset += length
	}
	return strings.Join(labels, "."), offset, nil
}

// encodeDomainName encodes a domain name into wire format without compression.
func encodeDomainName(name string) ([]byte, error) {
	var buf bytes.Buffer
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		buf.WriteByte(0)
		return buf.Bytes(), nil
	}
	for _, label := range strings.Split(name, ".") {
		if len(label) > 63 {
			return nil, fmt.Errorf("label too long: %s", label)
		}
		if len(label) == 0 {
			return nil, fmt.Errorf("empty label in name: %s", name)
		}
		buf.WriteByte(byte(len(label)))
		buf.WriteString(label)
	}
	buf.WriteByte(0)
	return buf.Bytes(), nil
}

var _ DNSCodec = (*messageCodec)(nil)

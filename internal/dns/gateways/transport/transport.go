// Package transport provides network transports for the DNS server. Each
// transport owns its sockets and wire conversion and hands the service
// layer nothing but domain objects, so UDP and TCP (and future stream
// transports) share one resolver.
package transport

import (
	"context"

	"github.com/promptdns/promptdns/internal/dns/services/resolver"
)

// ServerTransport is implemented by each listening protocol. The resolver
// requires both UDP and TCP on the same port: UDP for ordinary queries,
// TCP as the escape hatch for replies past the 512-byte UDP budget.
type ServerTransport interface {
	// Start begins listening and dispatching queries to the responder.
	Start(ctx context.Context, handler resolver.DNSResponder) error

	// Stop gracefully shuts down the transport.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}

// TransportType identifies a DNS transport protocol.
type TransportType string

const (
	// TransportUDP is standard DNS over UDP (RFC 1035).
	TransportUDP TransportType = "udp"

	// TransportTCP is DNS over TCP with two-byte length framing
	// (RFC 1035 section 4.2.2).
	TransportTCP TransportType = "tcp"

	// TransportDoT is DNS over TLS (RFC 7858) - future implementation.
	TransportDoT TransportType = "dot"

	// TransportDoH is DNS over HTTPS (RFC 8484) - future implementation.
	TransportDoH TransportType = "doh"
)

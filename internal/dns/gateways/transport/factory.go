package transport

import (
	"fmt"

	"github.com/promptdns/promptdns/internal/dns/common/log"
	"github.com/promptdns/promptdns/internal/dns/gateways/wire"
)

// NewTransport creates a transport instance of the given type. The factory
// keeps the composition root free of per-protocol constructors and leaves
// room for stream transports later.
func NewTransport(transportType TransportType, addr string, codec wire.DNSCodec, logger log.Logger) (ServerTransport, error) {
	switch transportType {
	case TransportUDP:
		return NewUDPTransport(addr, codec, logger), nil

	case TransportTCP:
		return NewTCPTransport(addr, codec, logger), nil

	case TransportDoT:
		return nil, fmt.Errorf("DNS over TLS transport not yet implemented")

	case TransportDoH:
		return nil, fmt.Errorf("DNS over HTTPS transport not yet implemented")

	default:
		return nil, fmt.Errorf("unsupported transport type: %s", transportType)
	}
}

// SupportedTransports returns the transport types currently implemented.
func SupportedTransports() []TransportType {
	return []TransportType{
		TransportUDP,
		TransportTCP,
	}
}

package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/promptdns/promptdns/internal/dns/common/log"
	"github.com/promptdns/promptdns/internal/dns/gateways/wire"
	"github.com/promptdns/promptdns/internal/dns/services/resolver"
)

// UDPTransport implements ServerTransport for standard DNS over UDP
// (RFC 1035). It owns the socket and packet loop and delegates all DNS
// logic to the responder. Replies that would exceed the UDP payload limit
// are cut back to a truncated header so the client retries over TCP.
type UDPTransport struct {
	addr   string
	conn   *net.UDPConn
	codec  wire.DNSCodec
	logger log.Logger

	// Synchronization for graceful shutdown
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
}

// NewUDPTransport creates a new UDP transport instance.
func NewUDPTransport(addr string, codec wire.DNSCodec, logger log.Logger) *UDPTransport {
	return &UDPTransport{
		addr:   addr,
		codec:  codec,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start binds the UDP socket and begins the packet handling loop.
func (t *UDPTransport) Start(ctx context.Context, handler resolver.DNSResponder) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("UDP transport already running")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", t.addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to bind UDP socket on %s: %w", t.addr, err)
	}

	t.conn = conn
	t.addr = conn.LocalAddr().String()
	t.running = true

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   t.addr,
	}, "DNS transport started")

	go t.listenLoop(ctx, handler)

	return nil
}

// Stop gracefully shuts down the UDP transport.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}

	close(t.stopCh)

	var closeErr error
	if t.conn != nil {
		closeErr = t.conn.Close()
		if closeErr != nil {
			t.logger.Warn(map[string]any{
				"error": closeErr.Error(),
			}, "Error closing UDP connection")
		}
	}

	t.running = false

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   t.addr,
	}, "DNS transport stopped")

	return closeErr
}

// Address returns the network address the transport is bound to.
func (t *UDPTransport) Address() string {
	return t.addr
}

// listenLoop continuously reads UDP packets, handling each in its own
// goroutine. Workers share no mutable state; the responder is stateless.
func (t *UDPTransport) listenLoop(ctx context.Context, handler resolver.DNSResponder) {
	buffer := make([]byte, wire.MaxUDPPayload)

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug(nil, "UDP transport stopping due to context cancellation")
			return
		case <-t.stopCh:
			t.logger.Debug(nil, "UDP transport stopping due to stop signal")
			return
		default:
			n, clientAddr, err := t.conn.ReadFromUDP(buffer)
			if err != nil {
				t.mu.RLock()
				running := t.running
				t.mu.RUnlock()

				if !running {
					return // Normal shutdown
				}

				t.logger.Warn(map[string]any{
					"error": err.Error(),
				}, "Failed to read UDP packet")
				continue
			}

			packet := make([]byte, n)
			copy(packet, buffer[:n])
			go t.handlePacket(ctx, packet, clientAddr, handler)
		}
	}
}

// handlePacket processes a single UDP DNS packet.
func (t *UDPTransport) handlePacket(ctx context.Context, data []byte, clientAddr *net.UDPAddr, handler resolver.DNSResponder) {
	query, err := t.codec.DecodeQuery(data)
	if err != nil {
		t.logger.Warn(map[string]any{
			"client": clientAddr.String(),
			"error":  err.Error(),
			"size":   len(data),
		}, "Failed to decode DNS query")
		return
	}

	t.logger.Debug(map[string]any{
		"client":   clientAddr.String(),
		"query_id": query.ID,
		"name":     query.Name,
		"type":     query.Type.String(),
	}, "Received DNS query")

	response := handler.HandleRequest(ctx, query, clientAddr)

	responseData, err := t.codec.EncodeResponse(response)
	if err != nil {
		t.logger.Error(map[string]any{
			"client":   clientAddr.String(),
			"query_id": query.ID,
			"error":    err.Error(),
		}, "Failed to encode DNS response")
		return
	}

	// A reply past the UDP budget cannot be sent whole; signal truncation
	// so the client retries this query over TCP.
	if len(responseData) > wire.MaxUDPPayload {
		responseData, err = t.codec.EncodeTruncated(response)
		if err != nil {
			t.logger.Error(map[string]any{
				"client":   clientAddr.String(),
				"query_id": query.ID,
				"error":    err.Error(),
			}, "Failed to encode truncated DNS response")
			return
		}
		t.logger.Debug(map[string]any{
			"client":   clientAddr.String(),
			"query_id": query.ID,
		}, "Reply exceeds UDP payload limit, sent truncated")
	}

	if _, err := t.conn.WriteToUDP(responseData, clientAddr); err != nil {
		t.logger.Error(map[string]any{
			"client":   clientAddr.String(),
			"query_id": query.ID,
			"error":    err.Error(),
		}, "Failed to send DNS response")
		return
	}

	t.logger.Debug(map[string]any{
		"client":   clientAddr.String(),
		"query_id": query.ID,
		"rcode":    response.RCode.String(),
		"size":     len(responseData),
	}, "Sent DNS response")
}

var _ ServerTransport = (*UDPTransport)(nil)

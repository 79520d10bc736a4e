package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/promptdns/promptdns/internal/dns/common/log"
	"github.com/promptdns/promptdns/internal/dns/gateways/wire"
	"github.com/promptdns/promptdns/internal/dns/services/resolver"
)

// tcpIdleTimeout is how long a connection may sit between queries before
// the server closes it.
const tcpIdleTimeout = 10 * time.Second

// maxTCPMessage bounds a single framed DNS message. The two-byte length
// prefix cannot express more anyway.
const maxTCPMessage = 65535

// TCPTransport implements ServerTransport for DNS over TCP (RFC 1035
// section 4.2.2). Messages are framed with a two-byte length prefix, one
// goroutine per connection, several queries per connection allowed. TCP
// has no practical size limit, so large answers are never truncated here.
type TCPTransport struct {
	addr     string
	listener net.Listener
	codec    wire.DNSCodec
	logger   log.Logger

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
}

// NewTCPTransport creates a new TCP transport instance.
func NewTCPTransport(addr string, codec wire.DNSCodec, logger log.Logger) *TCPTransport {
	return &TCPTransport{
		addr:   addr,
		codec:  codec,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start binds the TCP listener and begins the accept loop.
func (t *TCPTransport) Start(ctx context.Context, handler resolver.DNSResponder) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("TCP transport already running")
	}

	listener, err := net.Listen("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to bind TCP listener on %s: %w", t.addr, err)
	}

	t.listener = listener
	t.addr = listener.Addr().String()
	t.running = true

	t.logger.Info(map[string]any{
		"transport": "tcp",
		"address":   t.addr,
	}, "DNS transport started")

	go t.acceptLoop(ctx, handler)

	return nil
}

// Stop gracefully shuts down the TCP transport.
func (t *TCPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}

	close(t.stopCh)

	var closeErr error
	if t.listener != nil {
		closeErr = t.listener.Close()
		if closeErr != nil {
			t.logger.Warn(map[string]any{
				"error": closeErr.Error(),
			}, "Error closing TCP listener")
		}
	}

	t.running = false

	t.logger.Info(map[string]any{
		"transport": "tcp",
		"address":   t.addr,
	}, "DNS transport stopped")

	return closeErr
}

// Address returns the network address the transport is bound to.
func (t *TCPTransport) Address() string {
	return t.addr
}

// acceptLoop accepts connections until shutdown, handling each in its own
// goroutine.
func (t *TCPTransport) acceptLoop(ctx context.Context, handler resolver.DNSResponder) {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			case <-t.stopCh:
				return
			default:
			}

			t.mu.RLock()
			running := t.running
			t.mu.RUnlock()
			if !running {
				return
			}

			t.logger.Warn(map[string]any{
				"error": err.Error(),
			}, "Failed to accept TCP connection")
			continue
		}

		go t.handleConn(ctx, conn, handler)
	}
}

// handleConn serves framed queries from one connection until the client
// closes it or the idle timeout fires.
func (t *TCPTransport) handleConn(ctx context.Context, conn net.Conn, handler resolver.DNSResponder) {
	defer conn.Close()

	clientAddr := conn.RemoteAddr()

	for {
		msg, err := readFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.logger.Debug(map[string]any{
					"client": clientAddr.String(),
					"error":  err.Error(),
				}, "TCP connection closed")
			}
			return
		}

		query, err := t.codec.DecodeQuery(msg)
		if err != nil {
			t.logger.Warn(map[string]any{
				"client": clientAddr.String(),
				"error":  err.Error(),
				"size":   len(msg),
			}, "Failed to decode DNS query")
			return
		}

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

		if err := writeFrame(conn, responseData); err != nil {
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
}

// readFrame reads one length-prefixed DNS message, bounding the wait with
// the idle timeout.
func readFrame(conn net.Conn) ([]byte, error) {
	if err := conn.SetReadDeadline(time.Now().Add(tcpIdleTimeout)); err != nil {
		return nil, err
	}

	var prefix [2]byte
	if _, err := io.ReadFull(conn, prefix[:]); err != nil {
		return nil, err
	}
	length := int(binary.BigEndian.Uint16(prefix[:]))
	if length == 0 {
		return nil, errors.New("zero-length DNS message")
	}

	msg := make([]byte, length)
	if _, err := io.ReadFull(conn, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// writeFrame writes one length-prefixed DNS message.
func writeFrame(conn net.Conn, msg []byte) error {
	if len(msg) > maxTCPMessage {
		return fmt.Errorf("DNS message too large for TCP framing: %d bytes", len(msg))
	}
	framed := make([]byte, 2+len(msg))
	binary.BigEndian.PutUint16(framed[:2], uint16(len(msg)))
	copy(framed[2:], msg)
	_, err := conn.Write(framed)
	return err
}

var _ ServerTransport = (*TCPTransport)(nil)

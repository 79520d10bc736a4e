package resolver

import (
	"context"
	"net"

	"github.com/promptdns/promptdns/internal/dns/domain"
)

// AnswerProvider is the external collaborator that turns a decoded prompt
// into answer text. Implementations wrap a specific model provider; the
// resolver never depends on which one. Generate must honor ctx cancellation
// so the resolver's per-query time budget holds.
type AnswerProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RateLimiter gates queries per client before any other work is done.
// A nil limiter on the resolver disables the check entirely.
type RateLimiter interface {
	Allow(client string) bool
}

// DNSResponder is implemented by the resolver and consumed by transports.
// The transport handles all network protocol details - the responder only
// sees domain objects.
type DNSResponder interface {
	HandleRequest(ctx context.Context, query domain.Question, clientAddr net.Addr) domain.Response
}

// Package resolver contains the core query-answering state machine: record
// type filtering, access-key authorization, query name decoding, the bounded
// call into the answer provider, and chunking of the answer into TXT
// strings. Every failure class maps to exactly one DNS response code here
// and nowhere else.
package resolver

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/promptdns/promptdns/internal/dns/common/log"
	"github.com/promptdns/promptdns/internal/dns/common/rrdata"
	"github.com/promptdns/promptdns/internal/dns/domain"
)

// answerTTL is the TTL of synthesized TXT answers. Zero, because every
// answer is generated fresh and must not be cached by intermediaries.
const answerTTL = 0

// defaultQueryTimeout bounds the answer provider call when no explicit
// budget is configured.
const defaultQueryTimeout = 5 * time.Second

// Resolver is the per-query state machine. It is stateless across
// requests: everything here is read-only after construction, so a single
// instance serves all transports and goroutines.
type Resolver struct {
	provider   AnswerProvider
	limiter    RateLimiter
	logger     log.Logger
	requireKey bool
	accessKey  string
	maxChars   int
	chunkBytes int
	timeout    time.Duration
}

// Options configures a Resolver.
type Options struct {
	Provider AnswerProvider
	Limiter  RateLimiter // nil disables rate limiting
	Logger   log.Logger

	// RequireAccessKey gates every query on a key- label matching
	// AccessKey. Requiring a key without configuring one is a server
	// misconfiguration and fails every query with SERVFAIL.
	RequireAccessKey bool
	AccessKey        string

	// MaxChars caps answer length in characters before chunking.
	// Zero or negative means unlimited.
	MaxChars int

	// ChunkBytes caps each TXT string in bytes. Defaults to
	// DefaultChunkBytes; values beyond the protocol limit are clamped.
	ChunkBytes int

	// QueryTimeout bounds the answer provider call.
	QueryTimeout time.Duration
}

// NewResolver constructs a Resolver from the given options.
func NewResolver(opts Options) *Resolver {
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	if opts.ChunkBytes <= 0 {
		opts.ChunkBytes = DefaultChunkBytes
	}
	if opts.ChunkBytes > rrdata.MaxTXTStringLen {
		opts.ChunkBytes = rrdata.MaxTXTStringLen
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = defaultQueryTimeout
	}
	return &Resolver{
		provider:   opts.Provider,
		limiter:    opts.Limiter,
		logger:     opts.Logger,
		requireKey: opts.RequireAccessKey,
		accessKey:  opts.AccessKey,
		maxChars:   opts.MaxChars,
		chunkBytes: opts.ChunkBytes,
		timeout:    opts.QueryTimeout,
	}
}

// HandleRequest processes one DNS question and always returns a reply.
//
// The pipeline short-circuits in cost order: rate limit and record type are
// checked before any decoding, authorization before full name decoding, and
// the provider is only called for an authorized, well-formed TXT query.
func (r *Resolver) HandleRequest(ctx context.Context, q domain.Question, clientAddr net.Addr) domain.Response {
	if r.limiter != nil && clientAddr != nil && !r.limiter.Allow(clientIP(clientAddr)) {
		r.logger.Warn(map[string]any{
			"client": clientAddr.String(),
			"name":   q.Name,
		}, "Rate limit exceeded")
		return domain.NewErrorResponse(q, domain.REFUSED)
	}

	if q.Type != domain.RRTypeTXT {
		r.logger.Debug(map[string]any{
			"name": q.Name,
			"type": q.Type.String(),
		}, "Unsupported record type")
		return domain.NewErrorResponse(q, domain.NOTIMP)
	}

	providedKey, rest := SplitAccessKey(q.Labels())
	if r.requireKey {
		if r.accessKey == "" {
			r.logger.Error(nil, "Access key required but not configured")
			return domain.NewErrorResponse(q, domain.SERVFAIL)
		}
		if !Authorize(providedKey, r.accessKey) {
			r.logger.Warn(map[string]any{
				"name":         q.Name,
				"key_provided": providedKey != "",
			}, "Query refused: access key missing or incorrect")
			return domain.NewErrorResponse(q, domain.REFUSED)
		}
	}

	prompt, err := DecodePrompt(rest)
	if err != nil {
		r.logger.Warn(map[string]any{
			"name":  q.Name,
			"error": err.Error(),
		}, "Failed to decode query name")
		return domain.NewErrorResponse(q, domain.SERVFAIL)
	}

	answer, err := r.generate(ctx, prompt)
	if err != nil {
		r.logger.Error(map[string]any{
			"name":  q.Name,
			"error": err.Error(),
		}, "Answer provider failed")
		return domain.NewErrorResponse(q, domain.SERVFAIL)
	}

	answer = NormalizeASCII(answer)
	answer = TruncateChars(answer, r.maxChars)
	chunks := ChunkText(answer, r.chunkBytes)

	data, err := rrdata.EncodeTXT(chunks)
	if err != nil {
		r.logger.Error(map[string]any{
			"name":  q.Name,
			"error": err.Error(),
		}, "Failed to encode TXT data")
		return domain.NewErrorResponse(q, domain.SERVFAIL)
	}

	rr, err := domain.NewResourceRecord(q.Name, domain.RRTypeTXT, domain.RRClassIN, answerTTL, data)
	if err != nil {
		return domain.NewErrorResponse(q, domain.SERVFAIL)
	}

	r.logger.Info(map[string]any{
		"name":    q.Name,
		"chars":   len(answer),
		"strings": len(chunks),
	}, "Answered TXT query")

	return domain.Response{
		Question: q,
		RCode:    domain.NOERROR,
		Answers:  []domain.ResourceRecord{rr},
	}
}

// generate performs the single bounded call into the answer provider.
// An empty answer counts as a provider failure; no retries happen here.
func (r *Resolver) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	answer, err := r.provider.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", errors.New("provider returned an empty answer")
	}
	return answer, nil
}

// clientIP reduces a network address to its host part so rate limiting is
// per client, not per ephemeral source port.
func clientIP(addr net.Addr) string {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

var _ DNSResponder = (*Resolver)(nil)

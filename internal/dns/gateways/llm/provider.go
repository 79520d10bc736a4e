// Package llm provides answer provider gateways. Each gateway wraps one
// model provider's SDK behind the resolver's AnswerProvider interface so
// the core never depends on a specific vendor.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/promptdns/promptdns/internal/dns/services/resolver"
)

// Provider names accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Default models per provider, overridable via Options.Model.
const (
	defaultOpenAIModel    = "gpt-4.1-mini"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
)

// plainTextInstruction keeps completions renderable inside TXT strings.
const plainTextInstruction = "Give me back text only, no markdown or other formatting"

// Error message constants for consistent error handling
const (
	errNoAPIKey        = "no API key configured for provider %s"
	errUnknownProvider = "unknown provider: %s (supported: %s, %s)"
	errRequestFailed   = "%s request failed: %w"
	errEmptyCompletion = "%s returned an empty completion"
)

// Options configures a provider gateway.
type Options struct {
	// Provider selects the gateway: "openai" or "anthropic".
	Provider string

	// Model overrides the provider's default model when non-empty.
	Model string

	// Timeout bounds each Generate call when the caller's context has no
	// deadline of its own.
	Timeout time.Duration

	// Provider credentials. Only the selected provider's key is required.
	OpenAIAPIKey    string
	AnthropicAPIKey string
}

// New constructs the gateway for the configured provider. Unknown provider
// names and missing credentials fail here, at startup, not per query.
func New(opts Options) (resolver.AnswerProvider, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	switch opts.Provider {
	case ProviderOpenAI:
		if opts.OpenAIAPIKey == "" {
			return nil, fmt.Errorf(errNoAPIKey, ProviderOpenAI)
		}
		return newOpenAI(opts.OpenAIAPIKey, opts.Model, opts.Timeout), nil

	case ProviderAnthropic:
		if opts.AnthropicAPIKey == "" {
			return nil, fmt.Errorf(errNoAPIKey, ProviderAnthropic)
		}
		return newAnthropic(opts.AnthropicAPIKey, opts.Model, opts.Timeout), nil

	default:
		return nil, fmt.Errorf(errUnknownProvider, opts.Provider, ProviderOpenAI, ProviderAnthropic)
	}
}

// ensureContextDeadline adds the gateway's default timeout when the caller
// did not bring a deadline. Returns a cancel function only if one was created.
func ensureContextDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); !ok {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, nil
}

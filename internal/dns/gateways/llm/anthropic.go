package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// maxAnswerTokens bounds Anthropic completions. Answers get truncated to
// MaxChars anyway, so there is no point paying for longer ones.
const maxAnswerTokens = 1024

// anthropicGateway generates answers via the Anthropic Messages API.
type anthropicGateway struct {
	client  anthropic.Client
	model   anthropic.Model
	timeout time.Duration
}

func newAnthropic(apiKey, model string, timeout time.Duration) *anthropicGateway {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &anthropicGateway{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   anthropic.Model(model),
		timeout: timeout,
	}
}

// Generate sends the prompt as a single user message with the plain-text
// instruction as the system prompt.
func (g *anthropicGateway) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := ensureContextDeadline(ctx, g.timeout)
	if cancel != nil {
		defer cancel()
	}

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: maxAnswerTokens,
		System: []anthropic.TextBlockParam{
			{Text: plainTextInstruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf(errRequestFailed, ProviderAnthropic, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return "", fmt.Errorf(errEmptyCompletion, ProviderAnthropic)
	}
	return answer, nil
}

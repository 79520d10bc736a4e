package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// openAIGateway generates answers via the OpenAI chat completions API.
type openAIGateway struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func newOpenAI(apiKey, model string, timeout time.Duration) *openAIGateway {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAIGateway{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// Generate sends the prompt as a single user message with the plain-text
// instruction as the system message.
func (g *openAIGateway) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := ensureContextDeadline(ctx, g.timeout)
	if cancel != nil {
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: plainTextInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf(errRequestFailed, ProviderOpenAI, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf(errEmptyCompletion, ProviderOpenAI)
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf(errEmptyCompletion, ProviderOpenAI)
	}
	return answer, nil
}

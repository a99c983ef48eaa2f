package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"proplens/app/config"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const (
	maxGenerateDuration = 30 * time.Second
	defaultTemperature  = 0.7
)

// Generator is the language-generation collaborator. It may fail or time out;
// callers are expected to fall back to a deterministic reply when it does.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	client *openai.Client
	model  string
}

var _ Generator = (*Client)(nil)

func New(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	clientConfig := openai.DefaultConfig(cfg.OpenAI.Reply.Token)
	clientConfig.BaseURL = cfg.OpenAI.Reply.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: maxGenerateDuration,
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.OpenAI.Reply.Model,
	}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, maxGenerateDuration)
	defer cancel()

	aiResponse, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxCompletionTokens: 1000,
			Temperature:         defaultTemperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return "", fmt.Errorf("no chat completion found")
	}

	return strings.TrimSpace(aiResponse.Choices[0].Message.Content), nil
}

package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/chuckie/llmc/internal/domain"
	"github.com/chuckie/llmc/internal/observability"
)

// DefaultBaseURL is used when a model has no api_base.
const DefaultBaseURL = "https://api.openai.com/v1"

// Client implements ports.Backend for OpenAI-compatible chat completion APIs
// (OpenAI, DeepSeek, Groq and friends).
type Client struct {
	model  domain.ModelConfig
	client *openai.Client
}

// NewClient creates a client for model authenticated with apiKey.
func NewClient(model domain.ModelConfig, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if strings.TrimSpace(model.ModelID) == "" {
		return nil, fmt.Errorf("model_id is required")
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = DefaultBaseURL
	if base := strings.TrimRight(strings.TrimSpace(model.APIBase), "/"); base != "" {
		config.BaseURL = base
	}

	return &Client{
		model:  model,
		client: openai.NewClientWithConfig(config),
	}, nil
}

func (c *Client) Name() string { return "openai" }

// Generate sends one non-streaming chat completion.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model.ModelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt()},
		},
		MaxTokens: req.ResolveMaxTokens(c.model),
		Stream:    false,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			observability.Logger().Printf(
				"openai: api error status=%d model=%q message=%q",
				apiErr.HTTPStatusCode,
				c.model.ModelID,
				observability.Safe(apiErr.Message, 600),
			)
		} else {
			observability.Logger().Printf("openai: request failed model=%q err=%q", c.model.ModelID, observability.Safe(err.Error(), 600))
		}
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "openai request failed")
	}

	if len(resp.Choices) == 0 {
		observability.Logger().Printf("openai: no choices in response model=%q id=%q", c.model.ModelID, resp.ID)
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, nil, "no choices returned from OpenAI")
	}

	out, err := domain.NewGenerationResponse(resp.Choices[0].Message.Content)
	if err != nil {
		observability.Logger().Printf(
			"openai: empty content model=%q finish_reason=%q",
			c.model.ModelID,
			resp.Choices[0].FinishReason,
		)
		return domain.GenerationResponse{}, err
	}
	if resp.Usage.TotalTokens > 0 {
		out = out.WithUsage(resp.Usage.TotalTokens)
	}
	return out, nil
}

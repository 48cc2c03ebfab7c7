package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chuckie/llmc/internal/domain"
	"github.com/chuckie/llmc/internal/observability"
)

const (
	// DefaultBaseURL is used when a model has no api_base.
	DefaultBaseURL = "https://api.anthropic.com/v1"
	apiVersion     = "2023-06-01"
)

// Client implements ports.Backend for the Anthropic Messages API.
//
// Docs: https://docs.anthropic.com/en/api/messages
type Client struct {
	apiKey  string
	baseURL string
	model   domain.ModelConfig
	http    *http.Client
}

// NewClient creates a new Anthropic client.
func NewClient(model domain.ModelConfig, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	if strings.TrimSpace(model.ModelID) == "" {
		return nil, fmt.Errorf("model_id is required")
	}

	base := strings.TrimRight(strings.TrimSpace(model.APIBase), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		// The caller's context carries the deadline.
		http: &http.Client{},
	}, nil
}

func (c *Client) Name() string { return "anthropic" }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
	Stream    bool      `json:"stream"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Generate sends one Messages API request.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	b, err := json.Marshal(messagesRequest{
		Model:     c.model.ModelID,
		MaxTokens: req.ResolveMaxTokens(c.model),
		System:    req.SystemPrompt(),
		Messages:  []message{{Role: "user", Content: req.UserPrompt()}},
	})
	if err != nil {
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(b))
	if err != nil {
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "call Anthropic API")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.Logger().Printf(
			"anthropic: non-2xx status=%d model=%q body_len=%d body_snip=%q",
			resp.StatusCode,
			c.model.ModelID,
			len(body),
			observability.Safe(string(body), 1200),
		)
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, nil,
			"anthropic returned status %d: %s", resp.StatusCode, observability.Safe(string(body), 300))
	}

	var data messagesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		observability.Logger().Printf(
			"anthropic: failed to unmarshal response JSON: %v; body_len=%d body_snip=%q",
			err,
			len(body),
			observability.Safe(string(body), 1200),
		)
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "parse response")
	}

	var sb strings.Builder
	for _, block := range data.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	out, err := domain.NewGenerationResponse(sb.String())
	if err != nil {
		observability.Logger().Printf("anthropic: empty text content stop_reason=%q", data.StopReason)
		return domain.GenerationResponse{}, err
	}
	if total := data.Usage.InputTokens + data.Usage.OutputTokens; total > 0 {
		out = out.WithUsage(total)
	}
	return out, nil
}

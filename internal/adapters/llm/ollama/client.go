package ollama

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

// DefaultBaseURL is the local Ollama daemon.
const DefaultBaseURL = "http://localhost:11434"

// Client is an Ollama client for local inference.
type Client struct {
	baseURL string
	apiKey  string
	model   domain.ModelConfig
	http    *http.Client
}

// NewClient creates a new Ollama client. apiKey is optional and only sent
// when set, for daemons behind an authenticating proxy.
func NewClient(model domain.ModelConfig, apiKey string) (*Client, error) {
	if strings.TrimSpace(model.ModelID) == "" {
		return nil, fmt.Errorf("model_id is required")
	}
	base := strings.TrimRight(strings.TrimSpace(model.APIBase), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: base,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 0}, // Let context handle timeout
	}, nil
}

func (c *Client) Name() string { return "ollama" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error"`
}

// Generate calls /api/chat with streaming disabled.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	jsonBody, err := json.Marshal(chatRequest{
		Model: c.model.ModelID,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt()},
			{Role: "user", Content: req.UserPrompt()},
		},
		Stream:  false,
		Options: map[string]any{"num_predict": req.ResolveMaxTokens(c.model)},
	})
	if err != nil {
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "call Ollama at %s", c.baseURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.Logger().Printf(
			"ollama: non-2xx status=%d model=%q body_snip=%q",
			resp.StatusCode,
			c.model.ModelID,
			observability.Safe(string(body), 1200),
		)
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, nil,
			"ollama returned status %d: %s", resp.StatusCode, observability.Safe(string(body), 300))
	}

	var data chatResponse
	if err := json.Unmarshal(body, &data); err != nil {
		observability.Logger().Printf("ollama: invalid JSON: %v; body_snip=%q", err, observability.Safe(string(body), 600))
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "parse response")
	}
	if data.Error != "" {
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, nil, "ollama: %s", data.Error)
	}

	out, err := domain.NewGenerationResponse(data.Message.Content)
	if err != nil {
		return domain.GenerationResponse{}, err
	}
	if total := data.PromptEvalCount + data.EvalCount; total > 0 {
		out = out.WithUsage(total)
	}
	return out, nil
}

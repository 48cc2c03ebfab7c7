package mock

import (
	"context"
	"hash/fnv"

	"github.com/chuckie/llmc/internal/domain"
)

// Client is an offline backend returning deterministic messages.
type Client struct{}

// NewClient creates a new mock client.
func NewClient() *Client {
	return &Client{}
}

func (c *Client) Name() string { return "mock" }

var messages = []string{
	"feat: add new functionality",
	"fix: resolve issue affecting stability",
	"refactor: simplify internal logic",
	"docs: update documentation for recent changes",
	"chore: routine maintenance",
}

// Generate picks a message from a hash of the diff and reports the
// estimated prompt size as usage.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.GenerationResponse{}, domain.Errorf(domain.KindLLM, err, "mock generate")
	}
	idx := hashString(req.DiffContent()) % uint64(len(messages))
	resp, err := domain.NewGenerationResponse(messages[idx])
	if err != nil {
		return domain.GenerationResponse{}, err
	}
	return resp.WithUsage(domain.EstimateTokens(req.SystemPrompt() + req.UserPrompt())), nil
}

// hashString computes a simple hash of a string for deterministic behavior.
func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

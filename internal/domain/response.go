package domain

import (
	"strings"
)

// GenerationResponse is what a backend returns for one request.
type GenerationResponse struct {
	commitMessage string
	usageTokens   int
	hasUsage      bool
}

// NewGenerationResponse trims content and rejects an empty message.
func NewGenerationResponse(content string) (GenerationResponse, error) {
	msg := strings.TrimSpace(content)
	if msg == "" {
		return GenerationResponse{}, Errorf(KindLLM, nil, "backend returned an empty commit message")
	}
	return GenerationResponse{commitMessage: msg}, nil
}

// WithUsage records reported token consumption.
func (r GenerationResponse) WithUsage(tokens int) GenerationResponse {
	if tokens < 0 {
		return r
	}
	r.usageTokens = tokens
	r.hasUsage = true
	return r
}

func (r GenerationResponse) CommitMessage() string { return r.commitMessage }

// UsageTokens returns token consumption if the backend reported it.
func (r GenerationResponse) UsageTokens() (int, bool) {
	return r.usageTokens, r.hasUsage
}

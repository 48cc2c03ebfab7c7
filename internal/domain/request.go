package domain

import (
	"strings"
)

// DefaultUserPromptTemplate is used when no user prompt is supplied.
const DefaultUserPromptTemplate = "Generate a commit message for the following git diff:\n\n{diff}"

// DiffPlaceholder is substituted with the diff text in prompt templates.
const DiffPlaceholder = "{diff}"

// DefaultMaxTokens caps output when neither request nor model sets a limit.
const DefaultMaxTokens = 1024

// GenerationRequest is a validated input to a backend.
type GenerationRequest struct {
	systemPrompt string
	userPrompt   string
	diffContent  string
	maxTokens    int
}

func (r GenerationRequest) SystemPrompt() string { return r.systemPrompt }
func (r GenerationRequest) UserPrompt() string   { return r.userPrompt }
func (r GenerationRequest) DiffContent() string  { return r.diffContent }

// MaxTokens returns the requested output cap, if one was set.
func (r GenerationRequest) MaxTokens() (int, bool) {
	return r.maxTokens, r.maxTokens > 0
}

// ResolveMaxTokens picks the request cap, then the model cap, then DefaultMaxTokens.
func (r GenerationRequest) ResolveMaxTokens(model ModelConfig) int {
	if n, ok := r.MaxTokens(); ok {
		return n
	}
	if model.MaxTokens > 0 {
		return model.MaxTokens
	}
	return DefaultMaxTokens
}

// RequestBuilder accumulates request fields; Build validates them.
type RequestBuilder struct {
	systemPrompt string
	userPrompt   string
	diffContent  string
	maxTokens    int
}

func NewRequestBuilder() *RequestBuilder { return &RequestBuilder{} }

func (b *RequestBuilder) SystemPrompt(s string) *RequestBuilder {
	b.systemPrompt = s
	return b
}

func (b *RequestBuilder) UserPrompt(s string) *RequestBuilder {
	b.userPrompt = s
	return b
}

func (b *RequestBuilder) DiffContent(s string) *RequestBuilder {
	b.diffContent = s
	return b
}

func (b *RequestBuilder) MaxTokens(n int) *RequestBuilder {
	b.maxTokens = n
	return b
}

// Build fails when the system prompt or diff is missing. A missing user
// prompt falls back to DefaultUserPromptTemplate filled with the diff.
func (b *RequestBuilder) Build() (GenerationRequest, error) {
	if strings.TrimSpace(b.systemPrompt) == "" {
		return GenerationRequest{}, Errorf(KindLLM, ErrInvalidRequest, "system prompt is required")
	}
	if strings.TrimSpace(b.diffContent) == "" {
		return GenerationRequest{}, Errorf(KindLLM, ErrInvalidRequest, "diff content is required")
	}
	if b.maxTokens < 0 {
		return GenerationRequest{}, Errorf(KindLLM, ErrInvalidRequest, "max tokens must not be negative, got %d", b.maxTokens)
	}

	user := b.userPrompt
	if strings.TrimSpace(user) == "" {
		user = strings.ReplaceAll(DefaultUserPromptTemplate, DiffPlaceholder, b.diffContent)
	}

	return GenerationRequest{
		systemPrompt: b.systemPrompt,
		userPrompt:   user,
		diffContent:  b.diffContent,
		maxTokens:    b.maxTokens,
	}, nil
}

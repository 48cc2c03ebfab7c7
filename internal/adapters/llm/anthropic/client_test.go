package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chuckie/llmc/internal/domain"
)

func TestGenerate(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "\nfeat: add foo\n"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 30, "output_tokens": 12}
		}`))
	}))
	defer srv.Close()

	c, err := NewClient(domain.ModelConfig{ModelID: "claude-3-5-haiku-latest", APIBase: srv.URL}, "secret")
	require.NoError(t, err)

	req, err := domain.NewRequestBuilder().SystemPrompt("sys").DiffContent("+foo").Build()
	require.NoError(t, err)

	resp, err := c.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "feat: add foo", resp.CommitMessage())
	n, ok := resp.UsageTokens()
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	assert.Equal(t, "sys", got.System)
	assert.Equal(t, domain.DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "+foo")
}

func TestGenerateNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(domain.ModelConfig{ModelID: "m", APIBase: srv.URL}, "secret")
	require.NoError(t, err)
	req, _ := domain.NewRequestBuilder().SystemPrompt("s").DiffContent("d").Build()

	_, err = c.Generate(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLM)
	assert.Contains(t, err.Error(), "429")
}

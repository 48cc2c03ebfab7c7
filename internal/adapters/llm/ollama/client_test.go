package ollama

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
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": "chore: bump deps"}, "prompt_eval_count": 20, "eval_count": 5, "done": true}`))
	}))
	defer srv.Close()

	c, err := NewClient(domain.ModelConfig{ModelID: "qwen2.5-coder", APIBase: srv.URL + "/", MaxTokens: 200}, "")
	require.NoError(t, err)
	req, err := domain.NewRequestBuilder().SystemPrompt("sys").UserPrompt("user").DiffContent("+x").Build()
	require.NoError(t, err)

	resp, err := c.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "chore: bump deps", resp.CommitMessage())
	n, ok := resp.UsageTokens()
	assert.True(t, ok)
	assert.Equal(t, 25, n)

	assert.False(t, got.Stream)
	assert.Equal(t, "qwen2.5-coder", got.Model)
	assert.EqualValues(t, 200, got.Options["num_predict"])
}

func TestGenerateErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer srv.Close()

	c, err := NewClient(domain.ModelConfig{ModelID: "nope", APIBase: srv.URL}, "")
	require.NoError(t, err)
	req, _ := domain.NewRequestBuilder().SystemPrompt("s").DiffContent("d").Build()

	_, err = c.Generate(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrLLM)
}

func TestGenerateSendsOptionalKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer proxy-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"message": {"content": "fix: x"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(domain.ModelConfig{ModelID: "m", APIBase: srv.URL}, "proxy-key")
	require.NoError(t, err)
	req, _ := domain.NewRequestBuilder().SystemPrompt("s").DiffContent("d").Build()
	_, err = c.Generate(context.Background(), req)
	require.NoError(t, err)
}

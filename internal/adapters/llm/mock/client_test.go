package mock

import (
	"context"
	"testing"

	"github.com/chuckie/llmc/internal/domain"
)

func TestGenerateIsDeterministic(t *testing.T) {
	c := NewClient()
	req, err := domain.NewRequestBuilder().SystemPrompt("s").DiffContent("+same diff").Build()
	if err != nil {
		t.Fatal(err)
	}

	a, err := c.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, _ := c.Generate(context.Background(), req)
	if a.CommitMessage() != b.CommitMessage() {
		t.Errorf("messages differ: %q vs %q", a.CommitMessage(), b.CommitMessage())
	}
	if _, ok := a.UsageTokens(); !ok {
		t.Error("mock should report usage")
	}
}

func TestGenerateHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, _ := domain.NewRequestBuilder().SystemPrompt("s").DiffContent("d").Build()
	if _, err := NewClient().Generate(ctx, req); err == nil {
		t.Error("expected error for cancelled context")
	}
}

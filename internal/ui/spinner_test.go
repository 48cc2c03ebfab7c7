package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chuckie/llmc/internal/domain"
)

type stubBackend struct{ calls int }

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	s.calls++
	return domain.NewGenerationResponse("fix: stub")
}

func TestWithSpinnerDelegates(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "spinner.out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	inner := &stubBackend{}
	b := WithSpinner(inner, f, "generating")
	if b.Name() != "stub" {
		t.Errorf("Name() = %q", b.Name())
	}

	req, _ := domain.NewRequestBuilder().SystemPrompt("s").DiffContent("d").Build()
	resp, err := b.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.CommitMessage() != "fix: stub" || inner.calls != 1 {
		t.Errorf("resp=%q calls=%d", resp.CommitMessage(), inner.calls)
	}
}

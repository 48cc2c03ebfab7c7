package testutil

import (
	"context"
	"sync"

	"github.com/chuckie/llmc/internal/domain"
)

// FakeGit is an in-memory ports.Git.
type FakeGit struct {
	Root         string
	Summary      domain.ChangeSummary
	DiscoverErr  error
	StagedErr    error
	CommitErr    error
	CommitHash   string
	DiscoverCall int
	StagedCall   int

	CommittedMessages []string
}

func (f *FakeGit) DiscoverRepository(ctx context.Context, start string) (string, error) {
	f.DiscoverCall++
	if f.DiscoverErr != nil {
		return "", f.DiscoverErr
	}
	if f.Root == "" {
		return start, nil
	}
	return f.Root, nil
}

func (f *FakeGit) StagedDiff(ctx context.Context, root string) (domain.ChangeSummary, error) {
	f.StagedCall++
	if f.StagedErr != nil {
		return domain.ChangeSummary{}, f.StagedErr
	}
	return f.Summary, nil
}

func (f *FakeGit) Commit(ctx context.Context, root, message string) (string, error) {
	if f.CommitErr != nil {
		return "", f.CommitErr
	}
	f.CommittedMessages = append(f.CommittedMessages, message)
	if f.CommitHash == "" {
		return "abc123def4567890abc123def4567890abc123de", nil
	}
	return f.CommitHash, nil
}

// FakeBackend returns a fixed message and records every request.
type FakeBackend struct {
	Message string
	Usage   int
	Err     error
	// Block makes Generate wait for ctx to end.
	Block bool

	mu          sync.Mutex
	CallCount   int
	LastRequest domain.GenerationRequest
}

func (f *FakeBackend) Name() string { return "fake" }

func (f *FakeBackend) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	f.mu.Lock()
	f.CallCount++
	f.LastRequest = req
	f.mu.Unlock()

	if f.Err != nil {
		return domain.GenerationResponse{}, f.Err
	}
	if f.Block {
		<-ctx.Done()
	}
	if err := ctx.Err(); err != nil {
		return domain.GenerationResponse{}, err
	}
	resp, err := domain.NewGenerationResponse(f.Message)
	if err != nil {
		return resp, err
	}
	if f.Usage > 0 {
		resp = resp.WithUsage(f.Usage)
	}
	return resp, nil
}

// FakeUI answers confirmations with Answer and records everything shown.
type FakeUI struct {
	Answer     bool
	ConfirmErr error

	Confirmations []string
	Warnings      []string
	Infos         []string
	Listed        []domain.ModelConfig
	ListedCurrent string
}

func (f *FakeUI) ConfirmCommit(message string) (bool, error) {
	f.Confirmations = append(f.Confirmations, message)
	if f.ConfirmErr != nil {
		return false, f.ConfirmErr
	}
	return f.Answer, nil
}

func (f *FakeUI) Warn(message string) { f.Warnings = append(f.Warnings, message) }

func (f *FakeUI) Info(message string) { f.Infos = append(f.Infos, message) }

func (f *FakeUI) DisplayModelList(models []domain.ModelConfig, current string) {
	f.Listed = models
	f.ListedCurrent = current
}

// FakeRedactor is a redactor that does nothing.
type FakeRedactor struct{}

func (FakeRedactor) Redact(text string) string    { return text }
func (FakeRedactor) RedactLog(text string) string { return text }

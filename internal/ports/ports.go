package ports

import (
	"context"

	"github.com/chuckie/llmc/internal/domain"
)

// Git inspects and commits staged changes.
type Git interface {
	// DiscoverRepository walks upward from start and returns the work tree root.
	DiscoverRepository(ctx context.Context, start string) (string, error)
	// StagedDiff compares the index against HEAD (an empty tree if unborn).
	StagedDiff(ctx context.Context, root string) (domain.ChangeSummary, error)
	// Commit records the index as a new commit on HEAD.
	Commit(ctx context.Context, root, message string) (hash string, err error)
}

// Backend is one language-model vendor integration.
//
// Implementations must not mutate shared state during Generate.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error)
}

// Interaction is the user-facing side of a run.
type Interaction interface {
	// ConfirmCommit shows the message and returns true only for "y" or "yes".
	ConfirmCommit(message string) (bool, error)
	Warn(message string)
	Info(message string)
	DisplayModelList(models []domain.ModelConfig, current string)
}

// Redactor removes secrets from text.
type Redactor interface {
	Redact(text string) string
	RedactLog(text string) string
}

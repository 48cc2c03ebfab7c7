package ui

import (
	"context"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/chuckie/llmc/internal/domain"
	"github.com/chuckie/llmc/internal/ports"
)

// spinnerBackend shows a spinner on f while the wrapped backend works.
type spinnerBackend struct {
	ports.Backend
	f     *os.File
	label string
}

// WithSpinner decorates b with a progress spinner written to f. The spinner
// stays silent when f is not a terminal.
func WithSpinner(b ports.Backend, f *os.File, label string) ports.Backend {
	return &spinnerBackend{Backend: b, f: f, label: label}
}

func (s *spinnerBackend) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriterFile(s.f),
		spinner.WithSuffix(" "+s.label),
		spinner.WithHiddenCursor(true),
	)
	sp.Start()
	defer sp.Stop()

	return s.Backend.Generate(ctx, req)
}

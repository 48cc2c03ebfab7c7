package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/chuckie/llmc/internal/config"
	"github.com/chuckie/llmc/internal/domain"
	"github.com/chuckie/llmc/internal/observability"
	"github.com/chuckie/llmc/internal/ports"
	"github.com/chuckie/llmc/internal/security"
	"github.com/chuckie/llmc/internal/telemetry"
)

// State is a step of the commit pipeline.
type State int

const (
	StateStart State = iota
	StateRepoDiscovered
	StateDiffObtained
	StateLimitChecked
	StateResponseReceived
	StateUserDecided
	StateCommitted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateRepoDiscovered:
		return "repo_discovered"
	case StateDiffObtained:
		return "diff_obtained"
	case StateLimitChecked:
		return "limit_checked"
	case StateResponseReceived:
		return "response_received"
	case StateUserDecided:
		return "user_decided"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result describes how a run ended. On failure State is StateFailed and
// FailedAt is the last state that was reached.
type Result struct {
	State    State
	FailedAt State
	Root     string
	Summary  domain.ChangeSummary
	Message  string
	Commit   string
	Usage    int
}

// App runs the pipeline once per Run call. It holds no state between runs.
type App struct {
	cfg      *config.Config
	git      ports.Git
	backend  ports.Backend
	ui       ports.Interaction
	redactor ports.Redactor
	tracer   trace.Tracer
}

// Option customizes an App.
type Option func(*App)

// WithTracerProvider sets where pipeline spans go. The global provider is
// used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *App) {
		if tp != nil {
			a.tracer = tp.Tracer(telemetry.TracerName)
		}
	}
}

// WithRedactor replaces the redactor used when redact_secrets is on.
func WithRedactor(r ports.Redactor) Option {
	return func(a *App) {
		if r != nil {
			a.redactor = r
		}
	}
}

// NewApp wires the pipeline. cfg must already be validated.
func NewApp(cfg *config.Config, git ports.Git, backend ports.Backend, ui ports.Interaction, opts ...Option) *App {
	a := &App{
		cfg:      cfg,
		git:      git,
		backend:  backend,
		ui:       ui,
		redactor: security.NewRedactor(),
		tracer:   otel.Tracer(telemetry.TracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run discovers the repository containing start, generates a message for
// the staged changes and commits it if the user agrees. Declining is not an
// error.
func (a *App) Run(ctx context.Context, start string) (Result, error) {
	ctx, span := a.tracer.Start(ctx, "llmc.run",
		trace.WithAttributes(attribute.String("llmc.backend", a.backend.Name())))
	defer span.End()

	res := Result{State: StateStart}
	fail := func(err error) (Result, error) {
		res.FailedAt = res.State
		res.State = StateFailed
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("llmc.failed_at", res.FailedAt.String()))
		return res, err
	}

	// Step 1: find the repository
	err := a.step(ctx, "discover", func(ctx context.Context, span trace.Span) error {
		root, err := a.git.DiscoverRepository(ctx, start)
		if err != nil {
			return ensureKind(domain.KindRepository, err, "discover repository from %s", start)
		}
		res.Root = root
		span.SetAttributes(attribute.String("llmc.root", root))
		return nil
	})
	if err != nil {
		return fail(err)
	}
	res.State = StateRepoDiscovered
	a.ui.Info("Repository: " + res.Root)

	// Step 2: read the staged diff
	err = a.step(ctx, "staged_diff", func(ctx context.Context, span trace.Span) error {
		summary, err := a.git.StagedDiff(ctx, res.Root)
		if err != nil {
			return ensureKind(domain.KindRepository, err, "read staged changes")
		}
		if summary.IsEmpty() {
			return domain.Errorf(domain.KindRepository, domain.ErrNothingStaged,
				"no staged changes; stage files with git add first")
		}
		res.Summary = summary
		span.SetAttributes(
			attribute.Int("llmc.files_changed", summary.FilesChanged()),
			attribute.Int("llmc.estimated_tokens", summary.EstimatedTokens()),
		)
		return nil
	})
	if err != nil {
		return fail(err)
	}
	res.State = StateDiffObtained
	a.ui.Info(fmt.Sprintf("Staged changes: %d file(s), ~%d tokens",
		res.Summary.FilesChanged(), res.Summary.EstimatedTokens()))

	// Step 3: token limit
	if err := a.checkLimit(res.Summary); err != nil {
		return fail(err)
	}
	res.State = StateLimitChecked

	// Step 4: one backend call
	var resp domain.GenerationResponse
	err = a.step(ctx, "generate", func(ctx context.Context, span trace.Span) error {
		req, err := a.buildRequest(res.Summary)
		if err != nil {
			return err
		}
		resp, err = a.generate(ctx, req)
		if err != nil {
			return err
		}
		if n, ok := resp.UsageTokens(); ok {
			span.SetAttributes(attribute.Int("llmc.usage_tokens", n))
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}
	res.State = StateResponseReceived
	res.Message = resp.CommitMessage()
	if n, ok := resp.UsageTokens(); ok {
		res.Usage = n
		a.ui.Info(fmt.Sprintf("Tokens used: %d", n))
	}

	// Step 5: ask
	confirmed, err := a.ui.ConfirmCommit(res.Message)
	if err != nil {
		return fail(ensureKind(domain.KindIO, err, "read confirmation"))
	}
	res.State = StateUserDecided

	// Step 6: commit or stop
	if !confirmed {
		res.State = StateCancelled
		span.SetAttributes(attribute.String("llmc.outcome", res.State.String()))
		a.ui.Info("Commit cancelled.")
		return res, nil
	}

	err = a.step(ctx, "commit", func(ctx context.Context, span trace.Span) error {
		hash, err := a.git.Commit(ctx, res.Root, res.Message)
		if err != nil {
			return ensureKind(domain.KindRepository, err, "create commit")
		}
		res.Commit = hash
		span.SetAttributes(attribute.String("llmc.commit", hash))
		return nil
	})
	if err != nil {
		return fail(err)
	}
	res.State = StateCommitted
	span.SetAttributes(attribute.String("llmc.outcome", res.State.String()))
	a.ui.Info("Committed " + shortHash(res.Commit))
	return res, nil
}

// checkLimit warns once when the estimate is over the limit. In strict mode
// it fails instead.
func (a *App) checkLimit(s domain.ChangeSummary) error {
	limit := a.cfg.TokenLimit
	if limit <= 0 || s.EstimatedTokens() <= limit {
		return nil
	}
	if a.cfg.StrictTokenLimit {
		observability.Logger().Printf("app: token limit exceeded estimated=%d limit=%d", s.EstimatedTokens(), limit)
		return domain.TokenLimitExceeded(s.EstimatedTokens(), limit)
	}
	a.ui.Warn(fmt.Sprintf("staged diff is ~%d tokens, over the limit of %d; the model may truncate it",
		s.EstimatedTokens(), limit))
	return nil
}

// redactionCounter is implemented by security.Redactor.
type redactionCounter interface {
	RedactCount(text string) (string, int)
}

func (a *App) buildRequest(s domain.ChangeSummary) (domain.GenerationRequest, error) {
	diff := s.RawText()
	if a.cfg.RedactSecrets {
		if rc, ok := a.redactor.(redactionCounter); ok {
			var n int
			diff, n = rc.RedactCount(diff)
			if n > 0 {
				a.ui.Info("Secrets: " + security.SummarizeRedactions(n))
			}
		} else {
			diff = a.redactor.Redact(diff)
		}
	}

	return domain.NewRequestBuilder().
		SystemPrompt(a.cfg.Prompt.System).
		UserPrompt(a.cfg.UserPrompt(diff)).
		DiffContent(diff).
		Build()
}

func (a *App) generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := a.backend.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return resp, ensureKind(domain.KindLLM, err, "%s request timed out after %s", a.backend.Name(), a.cfg.Timeout)
		}
		return resp, ensureKind(domain.KindLLM, err, "%s request failed", a.backend.Name())
	}
	observability.Logger().Printf("app: %s responded in %s", a.backend.Name(), time.Since(started).Round(time.Millisecond))
	return resp, nil
}

// step runs fn inside a child span and logs its failure.
func (a *App) step(ctx context.Context, name string, fn func(context.Context, trace.Span) error) error {
	ctx, span := a.tracer.Start(ctx, "llmc."+name)
	defer span.End()

	if err := fn(ctx, span); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.Logger().Printf("app: %s failed: %s", name, observability.RedactForLog(err.Error()))
		return err
	}
	return nil
}

// ensureKind keeps errors that already carry kind and tags anything else.
func ensureKind(kind domain.Kind, err error, format string, args ...any) error {
	if domain.KindOf(err) == kind {
		return err
	}
	return domain.Errorf(kind, err, format, args...)
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

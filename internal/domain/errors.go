package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure by the step that produced it.
type Kind int

const (
	KindRepository Kind = iota + 1
	KindConfig
	KindLLM
	KindTokenLimit
	KindModelNotFound
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindRepository:
		return "Git error"
	case KindConfig:
		return "Config error"
	case KindLLM:
		return "LLM error"
	case KindTokenLimit:
		return "Token limit exceeded"
	case KindModelNotFound:
		return "Model not found"
	case KindIO:
		return "IO error"
	default:
		return "error"
	}
}

// kindSentinel lets callers write errors.Is(err, domain.ErrLLM).
type kindSentinel struct{ kind Kind }

func (s *kindSentinel) Error() string { return s.kind.String() }

// Kind sentinels, matched by errors.Is against any *Error of that kind.
var (
	ErrRepository    error = &kindSentinel{KindRepository}
	ErrConfig        error = &kindSentinel{KindConfig}
	ErrLLM           error = &kindSentinel{KindLLM}
	ErrTokenLimit    error = &kindSentinel{KindTokenLimit}
	ErrModelNotFound error = &kindSentinel{KindModelNotFound}
	ErrIO            error = &kindSentinel{KindIO}
)

// Reasons wrapped inside a kind.
var (
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrInvalidRepository  = errors.New("invalid repository")
	ErrNothingStaged      = errors.New("nothing staged")
	ErrCommitFailed       = errors.New("commit failed")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrMissingCredential  = errors.New("missing credential")
	ErrUnknownProvider    = errors.New("unknown provider")
)

// Error is the error type surfaced by every pipeline step.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	s, ok := target.(*kindSentinel)
	return ok && s.kind == e.Kind
}

// Errorf builds an *Error of the given kind wrapping err.
func Errorf(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// TokenLimitExceeded reports a breach of a hard token limit.
func TokenLimitExceeded(current, limit int) *Error {
	return &Error{
		Kind: KindTokenLimit,
		Msg:  fmt.Sprintf("estimated %d tokens, limit is %d", current, limit),
	}
}

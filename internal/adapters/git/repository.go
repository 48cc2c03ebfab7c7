package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/binary"

	"github.com/chuckie/llmc/internal/domain"
	"github.com/chuckie/llmc/internal/observability"
)

// Repository implements ports.Git on top of go-git.
type Repository struct {
	contextLines int
}

// NewRepository creates a Repository producing diffs with three lines of context.
func NewRepository() *Repository {
	return &Repository{contextLines: fdiff.DefaultContextLines}
}

// DiscoverRepository walks upward from start looking for a .git entry.
func (r *Repository) DiscoverRepository(ctx context.Context, start string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.Errorf(domain.KindRepository, err, "discover repository")
	}

	repo, err := gogit.PlainOpenWithOptions(start, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		// A bare repository has no .git entry to detect.
		if bare, bareErr := gogit.PlainOpen(start); bareErr == nil {
			repo, err = bare, nil
		}
	}
	if err != nil {
		return "", domain.Errorf(domain.KindRepository,
			fmt.Errorf("%w: %w", domain.ErrRepositoryNotFound, err),
			"no git repository found at or above %s", start)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", domain.Errorf(domain.KindRepository,
			fmt.Errorf("%w: %w", domain.ErrInvalidRepository, err),
			"repository has no working directory (bare repository?)")
	}
	return wt.Filesystem.Root(), nil
}

// StagedDiff renders the index against HEAD as a unified diff.
func (r *Repository) StagedDiff(ctx context.Context, root string) (domain.ChangeSummary, error) {
	repo, err := open(root)
	if err != nil {
		return domain.ChangeSummary{}, domain.Errorf(domain.KindRepository, err, "open repository %s", root)
	}

	base, err := headEntries(repo)
	if err != nil {
		return domain.ChangeSummary{}, domain.Errorf(domain.KindRepository, err, "read HEAD tree")
	}
	staged, err := indexEntries(repo)
	if err != nil {
		return domain.ChangeSummary{}, domain.Errorf(domain.KindRepository, err, "read index")
	}

	patch, err := r.buildPatch(ctx, repo, base, staged)
	if err != nil {
		return domain.ChangeSummary{}, domain.Errorf(domain.KindRepository, err, "compute staged diff")
	}
	if len(patch.files) == 0 {
		return domain.NewChangeSummary("", 0), nil
	}

	var buf bytes.Buffer
	if err := fdiff.NewUnifiedEncoder(&buf, r.contextLines).Encode(patch); err != nil {
		return domain.ChangeSummary{}, domain.Errorf(domain.KindRepository, err, "encode staged diff")
	}

	return domain.NewChangeSummary(keepTextLines(buf.String()), len(patch.files)), nil
}

// Commit writes the index as a new commit. go-git resolves the parent from
// HEAD and the signature from the merged git configuration.
func (r *Repository) Commit(ctx context.Context, root, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.Errorf(domain.KindRepository, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err), "commit aborted")
	}

	repo, err := open(root)
	if err != nil {
		return "", domain.Errorf(domain.KindRepository, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err), "open repository %s", root)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", domain.Errorf(domain.KindRepository, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err), "open worktree")
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{AllowEmptyCommits: true})
	if err != nil {
		observability.Logger().Printf("git: commit failed root=%q err=%v", root, err)
		if errors.Is(err, gogit.ErrMissingAuthor) {
			return "", domain.Errorf(domain.KindRepository, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err),
				"no commit identity configured; set user.name and user.email")
		}
		return "", domain.Errorf(domain.KindRepository, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err), "write commit")
	}
	return hash.String(), nil
}

func open(root string) (*gogit.Repository, error) {
	return gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{EnableDotGitCommonDir: true})
}

type entry struct {
	hash plumbing.Hash
	mode filemode.FileMode
}

func headEntries(repo *gogit.Repository) (map[string]entry, error) {
	out := map[string]entry{}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	err = tree.Files().ForEach(func(f *object.File) error {
		out[f.Name] = entry{hash: f.Hash, mode: f.Mode}
		return nil
	})
	return out, err
}

func indexEntries(repo *gogit.Repository) (map[string]entry, error) {
	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, err
	}

	out := make(map[string]entry, len(idx.Entries))
	for _, e := range idx.Entries {
		if e.Mode == filemode.Submodule {
			continue
		}
		if _, seen := out[e.Name]; seen {
			continue
		}
		out[e.Name] = entry{hash: e.Hash, mode: e.Mode}
	}
	return out, nil
}

func (r *Repository) buildPatch(ctx context.Context, repo *gogit.Repository, base, staged map[string]entry) (*stagedPatch, error) {
	paths := make([]string, 0, len(base)+len(staged))
	for p := range base {
		paths = append(paths, p)
	}
	for p := range staged {
		if _, ok := base[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	patch := &stagedPatch{}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		from, inBase := base[p]
		to, inIndex := staged[p]
		if inBase && inIndex && from == to {
			continue
		}

		fp := &filePatch{}
		var src, dst string
		var srcBin, dstBin bool
		var err error
		if inBase {
			fp.from = &blobFile{path: p, hash: from.hash, mode: from.mode}
			if src, srcBin, err = readBlob(repo, from.hash); err != nil {
				return nil, fmt.Errorf("read %s at HEAD: %w", p, err)
			}
		}
		if inIndex {
			fp.to = &blobFile{path: p, hash: to.hash, mode: to.mode}
			if dst, dstBin, err = readBlob(repo, to.hash); err != nil {
				return nil, fmt.Errorf("read staged %s: %w", p, err)
			}
		}

		fp.binary = srcBin || dstBin
		if !fp.binary {
			fp.chunks = lineChunks(src, dst)
		}
		patch.files = append(patch.files, fp)
	}
	return patch, nil
}

func readBlob(repo *gogit.Repository, h plumbing.Hash) (string, bool, error) {
	blob, err := repo.BlobObject(h)
	if err != nil {
		return "", false, err
	}
	rc, err := blob.Reader()
	if err != nil {
		return "", false, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", false, err
	}
	isBin, err := binary.IsBinary(bytes.NewReader(b))
	if err != nil {
		return "", false, err
	}
	if isBin {
		return "", true, nil
	}
	return string(b), false, nil
}

// keepTextLines drops lines that are not valid UTF-8.
func keepTextLines(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for _, line := range strings.SplitAfter(s, "\n") {
		if utf8.ValidString(line) {
			sb.WriteString(line)
		}
	}
	return sb.String()
}

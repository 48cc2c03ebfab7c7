package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chuckie/llmc/internal/domain"
)

// isolateGitConfig keeps the user's real ~/.gitconfig out of the test.
func isolateGitConfig(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

func initRepo(t *testing.T, withIdentity bool) (string, *gogit.Repository) {
	t.Helper()
	isolateGitConfig(t)

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	if withIdentity {
		cfg, err := repo.Config()
		require.NoError(t, err)
		cfg.User.Name = "Test User"
		cfg.User.Email = "test@example.com"
		require.NoError(t, repo.SetConfig(cfg))
	}
	return dir, repo
}

func stage(t *testing.T, repo *gogit.Repository, dir, name string, content []byte) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
}

func commitAll(t *testing.T, repo *gogit.Repository, msg string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	h, err := wt.Commit(msg, &gogit.CommitOptions{})
	require.NoError(t, err)
	return h
}

func TestDiscoverRepositoryFromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t, false)
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	root, err := NewRepository().DiscoverRepository(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestDiscoverRepositoryNotFound(t *testing.T) {
	isolateGitConfig(t)
	_, err := NewRepository().DiscoverRepository(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRepository)
	assert.ErrorIs(t, err, domain.ErrRepositoryNotFound)
}

func TestDiscoverRepositoryBare(t *testing.T) {
	isolateGitConfig(t)
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, true)
	require.NoError(t, err)

	_, err = NewRepository().DiscoverRepository(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRepository)
	assert.Equal(t, domain.KindRepository, domain.KindOf(err))
}

func TestStagedDiffNewFileOnUnbornHead(t *testing.T) {
	dir, repo := initRepo(t, true)
	stage(t, repo, dir, "foo.txt", []byte("hello\nworld\n"))

	sum, err := NewRepository().StagedDiff(context.Background(), dir)
	require.NoError(t, err)

	raw := sum.RawText()
	assert.Equal(t, 1, sum.FilesChanged())
	assert.Contains(t, raw, "new file mode")
	assert.Contains(t, raw, "+hello\n")
	assert.Contains(t, raw, "+world\n")
	assert.Equal(t, domain.EstimateTokens(raw), sum.EstimatedTokens())
}

func TestStagedDiffModification(t *testing.T) {
	dir, repo := initRepo(t, true)
	stage(t, repo, dir, "foo.txt", []byte("one\ntwo\nthree\n"))
	commitAll(t, repo, "init")

	stage(t, repo, dir, "foo.txt", []byte("one\nTWO\nthree\n"))
	stage(t, repo, dir, "dir/bar.txt", []byte("bar\n"))

	sum, err := NewRepository().StagedDiff(context.Background(), dir)
	require.NoError(t, err)

	raw := sum.RawText()
	assert.Equal(t, 2, sum.FilesChanged())
	assert.Contains(t, raw, "-two\n")
	assert.Contains(t, raw, "+TWO\n")
	assert.Contains(t, raw, " one\n")
	assert.Contains(t, raw, "+bar\n")
	// Paths are emitted in sorted order.
	assert.Less(t, strings.Index(raw, "dir/bar.txt"), strings.Index(raw, "foo.txt"))
}

func TestStagedDiffIgnoresUnstagedEdits(t *testing.T) {
	dir, repo := initRepo(t, true)
	stage(t, repo, dir, "foo.txt", []byte("v1\n"))
	commitAll(t, repo, "init")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.txt"), []byte("v2\n"), 0o644))

	sum, err := NewRepository().StagedDiff(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, sum.IsEmpty())
	assert.Equal(t, 0, sum.FilesChanged())
	assert.Equal(t, 0, sum.EstimatedTokens())
}

func TestStagedDiffDeletion(t *testing.T) {
	dir, repo := initRepo(t, true)
	stage(t, repo, dir, "gone.txt", []byte("bye\n"))
	commitAll(t, repo, "init")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Remove("gone.txt")
	require.NoError(t, err)

	sum, err := NewRepository().StagedDiff(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.FilesChanged())
	assert.Contains(t, sum.RawText(), "deleted file mode")
	assert.Contains(t, sum.RawText(), "-bye\n")
}

func TestStagedDiffBinaryContributesNoLines(t *testing.T) {
	dir, repo := initRepo(t, true)
	stage(t, repo, dir, "logo.bin", []byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0x02})

	sum, err := NewRepository().StagedDiff(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.FilesChanged())
	assert.Contains(t, sum.RawText(), "Binary files")
	assert.NotContains(t, sum.RawText(), "PNG")
}

func TestStagedDiffSkipsNonUTF8Lines(t *testing.T) {
	dir, repo := initRepo(t, true)
	stage(t, repo, dir, "latin1.txt", []byte("plain line\ncaf\xe9 au lait\nlast line\n"))

	sum, err := NewRepository().StagedDiff(context.Background(), dir)
	require.NoError(t, err)

	raw := sum.RawText()
	assert.True(t, utf8.ValidString(raw))
	assert.Contains(t, raw, "+plain line\n")
	assert.Contains(t, raw, "+last line\n")
	assert.NotContains(t, raw, "au lait")
}

func TestCommitFirstAndSecond(t *testing.T) {
	dir, repo := initRepo(t, true)
	g := NewRepository()
	ctx := context.Background()

	stage(t, repo, dir, "foo.txt", []byte("foo\n"))
	first, err := g.Commit(ctx, dir, "feat: add foo")
	require.NoError(t, err)

	c1, err := repo.CommitObject(plumbing.NewHash(first))
	require.NoError(t, err)
	assert.Equal(t, "feat: add foo", c1.Message)
	assert.Equal(t, 0, c1.NumParents())
	assert.Equal(t, "Test User", c1.Author.Name)
	assert.Equal(t, "test@example.com", c1.Committer.Email)

	stage(t, repo, dir, "bar.txt", []byte("bar\n"))
	second, err := g.Commit(ctx, dir, "feat: add bar")
	require.NoError(t, err)

	c2, err := repo.CommitObject(plumbing.NewHash(second))
	require.NoError(t, err)
	require.Equal(t, 1, c2.NumParents())
	assert.Equal(t, c1.Hash, c2.ParentHashes[0])

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, second, head.Hash().String())

	sum, err := g.StagedDiff(ctx, dir)
	require.NoError(t, err)
	assert.True(t, sum.IsEmpty(), "index should match HEAD after commit")
}

func TestCommitWithoutIdentityFails(t *testing.T) {
	dir, repo := initRepo(t, false)
	stage(t, repo, dir, "foo.txt", []byte("foo\n"))

	_, err := NewRepository().Commit(context.Background(), dir, "feat: add foo")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCommitFailed)
	assert.ErrorIs(t, err, domain.ErrRepository)

	_, err = repo.Head()
	assert.ErrorIs(t, err, plumbing.ErrReferenceNotFound)
}

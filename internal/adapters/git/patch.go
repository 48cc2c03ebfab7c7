package git

import (
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// stagedPatch is the set of file patches between HEAD and the index,
// shaped for fdiff.UnifiedEncoder.
type stagedPatch struct {
	files []fdiff.FilePatch
}

func (p *stagedPatch) FilePatches() []fdiff.FilePatch { return p.files }
func (p *stagedPatch) Message() string                { return "" }

type blobFile struct {
	path string
	hash plumbing.Hash
	mode filemode.FileMode
}

func (f *blobFile) Hash() plumbing.Hash     { return f.hash }
func (f *blobFile) Mode() filemode.FileMode { return f.mode }
func (f *blobFile) Path() string            { return f.path }

type filePatch struct {
	from, to *blobFile
	binary   bool
	chunks   []fdiff.Chunk
}

func (p *filePatch) IsBinary() bool { return p.binary }

// Files returns untyped nils for a missing side so the encoder can tell
// additions and deletions apart.
func (p *filePatch) Files() (fdiff.File, fdiff.File) {
	var from, to fdiff.File
	if p.from != nil {
		from = p.from
	}
	if p.to != nil {
		to = p.to
	}
	return from, to
}

func (p *filePatch) Chunks() []fdiff.Chunk { return p.chunks }

type textChunk struct {
	content string
	op      fdiff.Operation
}

func (c *textChunk) Content() string        { return c.content }
func (c *textChunk) Type() fdiff.Operation { return c.op }

// lineChunks runs a line diff between two blob contents.
func lineChunks(src, dst string) []fdiff.Chunk {
	diffs := diff.Do(src, dst)
	chunks := make([]fdiff.Chunk, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		var op fdiff.Operation
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = fdiff.Equal
		case diffmatchpatch.DiffInsert:
			op = fdiff.Add
		case diffmatchpatch.DiffDelete:
			op = fdiff.Delete
		}
		chunks = append(chunks, &textChunk{content: d.Text, op: op})
	}
	return chunks
}

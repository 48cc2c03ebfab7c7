package domain

// ChangeSummary is the staged diff of one repository.
//
// The token estimate is derived from the raw text at construction and
// cannot be set on its own.
type ChangeSummary struct {
	raw             string
	filesChanged    int
	estimatedTokens int
}

// NewChangeSummary builds a summary from raw diff text.
func NewChangeSummary(raw string, filesChanged int) ChangeSummary {
	if filesChanged < 0 {
		filesChanged = 0
	}
	return ChangeSummary{
		raw:             raw,
		filesChanged:    filesChanged,
		estimatedTokens: EstimateTokens(raw),
	}
}

// EstimateTokens approximates token cost as ceil(bytes/4).
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}

func (s ChangeSummary) RawText() string      { return s.raw }
func (s ChangeSummary) FilesChanged() int    { return s.filesChanged }
func (s ChangeSummary) EstimatedTokens() int { return s.estimatedTokens }

// IsEmpty reports whether nothing is staged.
func (s ChangeSummary) IsEmpty() bool { return s.raw == "" }

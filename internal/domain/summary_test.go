package domain

import (
	"strings"
	"testing"
)

func TestEstimateTokensIsCeilOfQuarterLength(t *testing.T) {
	for n := 0; n <= 64; n++ {
		raw := strings.Repeat("x", n)
		s := NewChangeSummary(raw, 1)
		want := n / 4
		if n%4 != 0 {
			want++
		}
		if s.EstimatedTokens() != want {
			t.Fatalf("len=%d: EstimatedTokens() = %d, want %d", n, s.EstimatedTokens(), want)
		}
	}
}

func TestChangeSummary(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		files      int
		wantTokens int
		wantEmpty  bool
		wantFiles  int
	}{
		{name: "empty", raw: "", files: 0, wantTokens: 0, wantEmpty: true},
		{name: "400 chars", raw: strings.Repeat("a", 400), files: 1, wantTokens: 100, wantFiles: 1},
		{name: "401 chars rounds up", raw: strings.Repeat("a", 401), files: 2, wantTokens: 101, wantFiles: 2},
		{name: "negative file count clamps", raw: "+x\n", files: -3, wantTokens: 1, wantFiles: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewChangeSummary(tt.raw, tt.files)
			if s.EstimatedTokens() != tt.wantTokens {
				t.Errorf("EstimatedTokens() = %d, want %d", s.EstimatedTokens(), tt.wantTokens)
			}
			if s.IsEmpty() != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", s.IsEmpty(), tt.wantEmpty)
			}
			if s.FilesChanged() != tt.wantFiles {
				t.Errorf("FilesChanged() = %d, want %d", s.FilesChanged(), tt.wantFiles)
			}
			if s.RawText() != tt.raw {
				t.Errorf("RawText() changed the input")
			}
		})
	}
}

func TestEstimateCountsBytesNotRunes(t *testing.T) {
	// "é" is two bytes.
	if got := EstimateTokens("éé"); got != 1 {
		t.Errorf("EstimateTokens(\"éé\") = %d, want 1", got)
	}
	if got := EstimateTokens("ééé"); got != 2 {
		t.Errorf("EstimateTokens(\"ééé\") = %d, want 2", got)
	}
}

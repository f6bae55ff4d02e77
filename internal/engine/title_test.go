package engine

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/stretchr/testify/assert"
)

// recordingStrategy wraps a strategy and counts how often it runs.
type recordingStrategy struct {
	TitleStrategy
	calls *int
}

func (r recordingStrategy) Resolve(in TitleInput) (Title, bool) {
	*r.calls++
	return r.TitleStrategy.Resolve(in)
}

func TestTitleResolver_ScenarioA_MetadataShortCircuits(t *testing.T) {
	var runCalls, fileCalls int
	cfg := DefaultConfig()
	r := NewTitleResolver(
		MetadataTitle{MinChars: cfg.MinMetadataTitleChars},
		recordingStrategy{FirstPageRunTitle{MinChars: cfg.MinRunTitleChars}, &runCalls},
		recordingStrategy{FilenameTitle{}, &fileCalls},
	)

	got := r.Resolve(TitleInput{
		Filename:      "ignored.pdf",
		MetadataTitle: "Annual Report 2024",
		Runs:          []doctree.TextRun{{Text: "Bigger Heading", Size: 30, Page: 1}},
	})

	assert.Equal(t, "Annual Report 2024", got.Text)
	assert.Equal(t, SourceMetadata, got.Source)
	assert.Zero(t, runCalls)
	assert.Zero(t, fileCalls)
}

func TestTitleResolver_ScenarioB_LargestFirstPageRun(t *testing.T) {
	r := NewTitleResolver(DefaultTitleStrategies(DefaultConfig())...)
	got := r.Resolve(TitleInput{
		Filename: "budget.pdf",
		Runs: []doctree.TextRun{
			{Text: "Department of Finance", Size: 12, Page: 1},
			{Text: "Budget Overview", Size: 24, Page: 1},
			{Text: "Fiscal year summary", Size: 11, Page: 1},
			{Text: "Much Bigger On Page Two", Size: 36, Page: 2},
		},
	})
	assert.Equal(t, Title{Text: "Budget Overview", Size: 24, Source: SourceFirstPageRun}, got)
}

func TestTitleResolver_ScenarioC_FilenameFallback(t *testing.T) {
	r := NewTitleResolver(DefaultTitleStrategies(DefaultConfig())...)
	got := r.Resolve(TitleInput{
		Filename:      "quarterly_report-v2.pdf",
		MetadataTitle: "Untitled document",
		Runs:          []doctree.TextRun{{Text: "2024", Size: 30, Page: 1}},
	})
	assert.Equal(t, "Quarterly Report V2", got.Text)
	assert.Equal(t, SourceFilename, got.Source)
}

func TestMetadataTitle(t *testing.T) {
	s := MetadataTitle{MinChars: 5}
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Annual Report 2024", "Annual Report 2024", true},
		{"  Padded Title  ", "Padded Title", true},
		{"Short", "", false},
		{"Title", "", false},
		{"Sixchr", "Sixchr", true},
		{"UNTITLED-1 draft", "", false},
		{"Microsoft Word - Untitled", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := s.Resolve(TitleInput{MetadataTitle: tc.in})
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got.Text)
		})
	}
}

func TestFirstPageRunTitle(t *testing.T) {
	s := FirstPageRunTitle{MinChars: 4}

	t.Run("ties keep first occurrence", func(t *testing.T) {
		got, ok := s.Resolve(TitleInput{Runs: []doctree.TextRun{
			{Text: "First Big", Size: 20, Page: 1},
			{Text: "Second Big", Size: 20, Page: 1},
		}})
		assert.True(t, ok)
		assert.Equal(t, "First Big", got.Text)
	})

	t.Run("short candidate rejected", func(t *testing.T) {
		_, ok := s.Resolve(TitleInput{Runs: []doctree.TextRun{
			{Text: "Memo", Size: 20, Page: 1},
			{Text: "Longer body text", Size: 10, Page: 1},
		}})
		assert.False(t, ok, "only the largest run is considered")
	})

	t.Run("numeric candidate rejected", func(t *testing.T) {
		_, ok := s.Resolve(TitleInput{Runs: []doctree.TextRun{{Text: "20241231", Size: 20, Page: 1}}})
		assert.False(t, ok)
	})

	t.Run("no first page runs", func(t *testing.T) {
		_, ok := s.Resolve(TitleInput{Runs: []doctree.TextRun{{Text: "Page Two Title", Size: 20, Page: 2}}})
		assert.False(t, ok)
	})

	t.Run("size is rounded", func(t *testing.T) {
		got, ok := s.Resolve(TitleInput{Runs: []doctree.TextRun{{Text: "Jittery Title", Size: 23.9999, Page: 1}}})
		assert.True(t, ok)
		assert.Equal(t, 24.0, got.Size)
	})
}

func TestFilenameToTitle(t *testing.T) {
	tests := map[string]string{
		"quarterly_report-v2.pdf":     "Quarterly Report V2",
		"/data/input/annual-plan.pdf": "Annual Plan",
		"README":                      "Readme",
		"ALL_CAPS_NAME.PDF":           "All Caps Name",
		"":                            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FilenameToTitle(in), in)
	}
}

func TestTitleResolver_EmptyChain(t *testing.T) {
	got := NewTitleResolver().Resolve(TitleInput{Filename: "a.pdf"})
	assert.Equal(t, Title{}, got)
}

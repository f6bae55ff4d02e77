package engine

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title sources.
const (
	SourceMetadata     = "metadata"
	SourceFirstPageRun = "first-page-run"
	SourceFilename     = "filename"
)

// Title is a resolved document title. Size is the rounded font size of the
// run it came from, or 0 when it did not come from a run.
type Title struct {
	Text   string
	Size   float64
	Source string
}

// TitleInput is what every title strategy gets to look at.
type TitleInput struct {
	Filename      string
	MetadataTitle string
	Runs          []doctree.TextRun // normalized
}

// TitleStrategy proposes a title. ok is false when the strategy has nothing
// acceptable to offer.
type TitleStrategy interface {
	Name() string
	Resolve(in TitleInput) (t Title, ok bool)
}

// TitleResolver tries strategies in order; the first success wins.
type TitleResolver struct {
	strategies []TitleStrategy
}

// NewTitleResolver builds a resolver over an explicit strategy chain.
func NewTitleResolver(strategies ...TitleStrategy) *TitleResolver {
	return &TitleResolver{strategies: strategies}
}

// DefaultTitleStrategies returns metadata, first-page-run, filename.
func DefaultTitleStrategies(cfg Config) []TitleStrategy {
	return []TitleStrategy{
		MetadataTitle{MinChars: cfg.MinMetadataTitleChars},
		FirstPageRunTitle{MinChars: cfg.MinRunTitleChars},
		FilenameTitle{},
	}
}

// Resolve returns the first accepted title. With the default chain this
// never fails unless the filename is empty.
func (r *TitleResolver) Resolve(in TitleInput) Title {
	for _, s := range r.strategies {
		if t, ok := s.Resolve(in); ok {
			t.Source = s.Name()
			return t
		}
	}
	return Title{}
}

// MetadataTitle accepts the embedded document title unless it is short or a
// placeholder.
type MetadataTitle struct {
	MinChars int
}

func (MetadataTitle) Name() string { return SourceMetadata }

func (s MetadataTitle) Resolve(in TitleInput) (Title, bool) {
	text := strings.TrimSpace(in.MetadataTitle)
	if utf8.RuneCountInString(text) <= s.MinChars {
		return Title{}, false
	}
	if strings.Contains(strings.ToLower(text), "untitled") {
		return Title{}, false
	}
	return Title{Text: text}, true
}

// FirstPageRunTitle picks the largest run on page 1.
type FirstPageRunTitle struct {
	MinChars int
}

func (FirstPageRunTitle) Name() string { return SourceFirstPageRun }

func (s FirstPageRunTitle) Resolve(in TitleInput) (Title, bool) {
	var best *doctree.TextRun
	for i := range in.Runs {
		r := &in.Runs[i]
		if r.Page != 1 {
			continue
		}
		// Strictly greater keeps the first occurrence on ties.
		if best == nil || r.Size > best.Size {
			best = r
		}
	}
	if best == nil {
		return Title{}, false
	}
	text := strings.TrimSpace(best.Text)
	if utf8.RuneCountInString(text) <= s.MinChars || isNumeric(text) {
		return Title{}, false
	}
	return Title{Text: text, Size: RoundSize(best.Size)}, true
}

// FilenameTitle derives a title from the file name: "quarterly_report-v2.pdf"
// becomes "Quarterly Report V2".
type FilenameTitle struct{}

func (FilenameTitle) Name() string { return SourceFilename }

func (FilenameTitle) Resolve(in TitleInput) (Title, bool) {
	text := FilenameToTitle(in.Filename)
	if text == "" {
		return Title{}, false
	}
	return Title{Text: text}, true
}

// FilenameToTitle strips directory and extension, turns underscores and
// hyphens into spaces and title-cases the result.
func FilenameToTitle(filename string) string {
	if filename == "" {
		return ""
	}
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return cases.Title(language.Und).String(stem)
}

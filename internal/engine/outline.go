package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Outline modes.
const (
	ModeAuthoritative = "authoritative"
	ModeHeuristic     = "heuristic"
	ModeNone          = "none"
)

// Rejection reasons reported in Diagnostics.
const (
	RejectTitle    = "title"
	RejectTooLong  = "too_long"
	RejectTooShort = "too_short"
	RejectNotBold  = "not_bold"
)

// FromTOC translates an embedded table of contents into headings. Depth and
// page are coerced to at least 1; nothing else is filtered or reordered.
func FromTOC(toc []doctree.TOCEntry) []doctree.Heading {
	out := make([]doctree.Heading, 0, len(toc))
	for _, e := range toc {
		h := doctree.Heading{
			Level: e.Depth,
			Text:  strings.TrimSpace(e.Text),
			Page:  e.Page,
		}
		if h.Level < 1 {
			h.Level = 1
		}
		if h.Page < 1 {
			h.Page = 1
		}
		out = append(out, h)
	}
	return out
}

// Classify turns normalized runs into headings using the level map. The
// returned map counts rejected candidates by reason.
func Classify(runs []doctree.TextRun, levels LevelMap, title Title, cfg Config) ([]doctree.Heading, map[string]int) {
	headings := []doctree.Heading{}
	rejected := make(map[string]int)
	if levels.Empty() {
		return headings, rejected
	}

	var boldSizes map[float64]bool
	if cfg.RequireBold {
		boldSizes = boldSizesIn(runs, levels)
	}

	for _, r := range runs {
		depth, ok := levels.Depth(r.Size)
		if !ok {
			continue
		}
		text := strings.TrimSpace(r.Text)
		size := RoundSize(r.Size)

		switch {
		case r.Page == 1 && duplicatesTitle(text, size, title):
			rejected[RejectTitle]++
		case len(strings.Fields(text)) > cfg.MaxHeadingWords:
			rejected[RejectTooLong]++
		case utf8.RuneCountInString(text) <= cfg.MinHeadingChars:
			rejected[RejectTooShort]++
		case cfg.RequireBold && !r.IsBold && boldSizes[size]:
			rejected[RejectNotBold]++
		default:
			headings = append(headings, doctree.Heading{Level: depth, Text: text, Page: r.Page})
		}
	}
	return headings, rejected
}

// boldSizesIn reports which heading sizes have at least one bold run.
// Sizes missing from the result get the bold requirement waived.
func boldSizesIn(runs []doctree.TextRun, levels LevelMap) map[float64]bool {
	out := make(map[float64]bool, levels.Len())
	for _, r := range runs {
		if !r.IsBold {
			continue
		}
		if _, ok := levels.Depth(r.Size); ok {
			out[RoundSize(r.Size)] = true
		}
	}
	return out
}

func duplicatesTitle(text string, size float64, title Title) bool {
	if title.Text == "" {
		return false
	}
	if strings.EqualFold(text, title.Text) {
		return true
	}
	return title.Size != 0 && size == title.Size && strings.Contains(title.Text, text)
}

package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig())
	require.NoError(t, err)
	return e
}

func body(n, page int) []doctree.TextRun {
	runs := make([]doctree.TextRun, n)
	for i := range runs {
		runs[i] = doctree.TextRun{Text: "body text line", Size: 10, FontName: "Times-Roman", Page: page}
	}
	return runs
}

// reportDoc is a small typeset report: title at 24pt, sections at 16pt bold,
// subsections at 13pt bold, body at 10pt.
func reportDoc() *doctree.Document {
	var runs []doctree.TextRun
	runs = append(runs, doctree.TextRun{Text: "Budget Overview", Size: 24, FontName: "Helvetica-Bold", IsBold: true, Page: 1})
	runs = append(runs, body(20, 1)...)
	runs = append(runs, doctree.TextRun{Text: "Introduction", Size: 16, FontName: "Helvetica-Bold", IsBold: true, Page: 2})
	runs = append(runs, body(20, 2)...)
	runs = append(runs, doctree.TextRun{Text: "Scope", Size: 13, FontName: "Helvetica-Bold", IsBold: true, Page: 2})
	runs = append(runs, body(20, 2)...)
	runs = append(runs, doctree.TextRun{Text: "Methods", Size: 16, FontName: "Helvetica-Bold", IsBold: true, Page: 3})
	runs = append(runs, body(20, 3)...)
	return &doctree.Document{Filename: "budget.pdf", Runs: runs}
}

func TestAnalyze_HeuristicOutline(t *testing.T) {
	a := newEngine(t).Analyze(reportDoc())

	assert.Equal(t, "Budget Overview", a.Structure.Title)
	assert.Equal(t, []doctree.Heading{
		{Level: 2, Text: "Introduction", Page: 2},
		{Level: 3, Text: "Scope", Page: 2},
		{Level: 2, Text: "Methods", Page: 3},
	}, a.Structure.Outline)
	assert.Equal(t, ModeHeuristic, a.Diagnostics.Mode)
	assert.Equal(t, SourceFirstPageRun, a.Diagnostics.TitleSource)
	assert.Equal(t, 10.0, a.Diagnostics.BodySize)
	assert.Equal(t, []float64{24, 16, 13}, a.Diagnostics.HeadingSizes)
	assert.Equal(t, 1, a.Diagnostics.Rejected[RejectTitle])
}

func TestAnalyze_AuthoritativeOutlineWins(t *testing.T) {
	doc := reportDoc()
	doc.TOC = []doctree.TOCEntry{
		{Depth: 1, Text: "Preface", Page: 1},
		{Depth: 3, Text: " Deep entry ", Page: 7},
		{Depth: 0, Text: "Malformed", Page: -2},
	}

	a := newEngine(t).Analyze(doc)

	assert.Equal(t, ModeAuthoritative, a.Diagnostics.Mode)
	assert.Empty(t, a.Diagnostics.Rejected, "heuristic classification must not run")
	assert.Equal(t, []doctree.Heading{
		{Level: 1, Text: "Preface", Page: 1},
		{Level: 3, Text: "Deep entry", Page: 7},
		{Level: 1, Text: "Malformed", Page: 1},
	}, a.Structure.Outline)
}

func TestAnalyze_NoSignal(t *testing.T) {
	docs := map[string]*doctree.Document{
		"no runs": {Filename: "quarterly_report-v2.pdf"},
		"only noise": {Filename: "quarterly_report-v2.pdf", Runs: []doctree.TextRun{
			{Text: "12", Size: 10, Page: 1},
			{Text: "x", Size: 10, Page: 1},
			{Text: "tiny footnote", Size: 6, Page: 1},
		}},
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			a := newEngine(t).Analyze(doc)
			assert.Equal(t, "Quarterly Report V2", a.Structure.Title)
			assert.NotNil(t, a.Structure.Outline)
			assert.Empty(t, a.Structure.Outline)
			assert.Equal(t, ModeNone, a.Diagnostics.Mode)
			assert.Equal(t, SourceFilename, a.Diagnostics.TitleSource)
		})
	}
}

func TestAnalyze_NilDocument(t *testing.T) {
	a := newEngine(t).Analyze(nil)
	assert.Equal(t, "", a.Structure.Title)
	assert.Empty(t, a.Structure.Outline)
}

func TestAnalyze_Idempotent(t *testing.T) {
	e := newEngine(t)
	doc := reportDoc()

	first, err := json.Marshal(e.Analyze(doc))
	require.NoError(t, err)
	second, err := json.Marshal(e.Analyze(doc))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	doc := reportDoc()
	doc.Runs[0].Text = "  Budget Overview  "
	newEngine(t).Analyze(doc)
	assert.Equal(t, "  Budget Overview  ", doc.Runs[0].Text)
}

func TestAnalyze_MonotonicDepth(t *testing.T) {
	doc := reportDoc()
	doc.Runs = append(doc.Runs,
		doctree.TextRun{Text: "Appendix", Size: 20, IsBold: true, Page: 4},
		doctree.TextRun{Text: "Tables", Size: 13.02, IsBold: true, Page: 4},
	)

	e := newEngine(t)
	a := e.Analyze(doc)

	sizeOf := map[string]float64{}
	for _, r := range doc.Runs {
		sizeOf[r.Text] = RoundSize(r.Size)
	}
	for _, h1 := range a.Structure.Outline {
		for _, h2 := range a.Structure.Outline {
			if h1.Level < h2.Level {
				assert.GreaterOrEqual(t, sizeOf[h1.Text], sizeOf[h2.Text], "%q vs %q", h1.Text, h2.Text)
			}
		}
	}
}

func TestAnalyze_TitleExclusivity(t *testing.T) {
	doc := &doctree.Document{
		Filename:      "report.pdf",
		MetadataTitle: "Annual Report 2024",
		Runs: append([]doctree.TextRun{
			{Text: "Annual Report 2024", Size: 20, IsBold: true, Page: 1},
			{Text: "Summary", Size: 16, IsBold: true, Page: 1},
		}, body(30, 1)...),
	}

	a := newEngine(t).Analyze(doc)

	assert.Equal(t, "Annual Report 2024", a.Structure.Title)
	for _, h := range a.Structure.Outline {
		if h.Page == 1 {
			assert.NotEqual(t, a.Structure.Title, h.Text)
		}
	}
	assert.Equal(t, []doctree.Heading{{Level: 2, Text: "Summary", Page: 1}}, a.Structure.Outline)
}

func TestScenarioD_LevelMapAndBoldHeading(t *testing.T) {
	var runs []doctree.TextRun
	runs = append(runs, body(500, 2)...)
	for i := 0; i < 3; i++ {
		runs = append(runs, doctree.TextRun{Text: "Chapter Heading", Size: 20, IsBold: true, Page: 2})
	}
	for i := 0; i < 7; i++ {
		runs = append(runs, doctree.TextRun{Text: "Other Section", Size: 16, IsBold: true, Page: 2})
	}
	runs = append(runs, doctree.TextRun{Text: "Methods", Size: 16, FontName: "Arial-BoldMT", IsBold: true, Page: 3})

	norm := Normalize(runs, DefaultConfig())
	hist, bodySize, ok := Profile(norm)
	require.True(t, ok)
	assert.Equal(t, 10.0, bodySize)
	assert.Equal(t, 500, hist.Count(10))
	assert.Equal(t, 8, hist.Count(16))
	assert.Equal(t, 3, hist.Count(20))

	levels := BuildLevelMap(hist, bodySize, 1.2)
	assert.Equal(t, []float64{20, 16}, levels.Sizes())

	headings, _ := Classify(norm, levels, Title{Text: "Something Else"}, DefaultConfig())
	assert.Contains(t, headings, doctree.Heading{Level: 2, Text: "Methods", Page: 3})
}

func TestScenarioE_BoldWaiver(t *testing.T) {
	runs := append(body(50, 1),
		doctree.TextRun{Text: "Plain Heading", Size: 14, FontName: "Times-Roman", Page: 2},
		doctree.TextRun{Text: "Bold Section", Size: 18, FontName: "Times-Bold", IsBold: true, Page: 2},
		doctree.TextRun{Text: "Emphasis not heading", Size: 18, FontName: "Times-Roman", Page: 2},
	)

	a := newEngine(t).Analyze(&doctree.Document{Filename: "x.pdf", Runs: runs})

	assert.Equal(t, []doctree.Heading{
		{Level: 2, Text: "Plain Heading", Page: 2},
		{Level: 1, Text: "Bold Section", Page: 2},
	}, a.Structure.Outline)
	assert.Equal(t, 1, a.Diagnostics.Rejected[RejectNotBold])
}

func TestAnalyze_RequireBoldDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequireBold = false
	e, err := New(cfg)
	require.NoError(t, err)

	runs := append(body(50, 1),
		doctree.TextRun{Text: "Bold Section", Size: 18, IsBold: true, Page: 2},
		doctree.TextRun{Text: "Plain Section", Size: 18, Page: 2},
	)
	a := e.Analyze(&doctree.Document{Filename: "x.pdf", Runs: runs})
	assert.Len(t, a.Structure.Outline, 2)
}

func TestAnalyze_OutlineInDocumentOrder(t *testing.T) {
	runs := append(body(50, 1),
		doctree.TextRun{Text: "Small First", Size: 14, IsBold: true, Page: 2},
		doctree.TextRun{Text: "Large Second", Size: 22, IsBold: true, Page: 2},
		doctree.TextRun{Text: "Small Third", Size: 14, IsBold: true, Page: 5},
	)
	a := newEngine(t).Analyze(&doctree.Document{Filename: "x.pdf", Runs: runs})

	var texts []string
	for _, h := range a.Structure.Outline {
		texts = append(texts, h.Text)
	}
	assert.Equal(t, []string{"Small First", "Large Second", "Small Third"}, texts)
}

func TestAnalyze_CustomTitleChain(t *testing.T) {
	e := newEngine(t).WithTitleStrategies(FilenameTitle{})
	a := e.Analyze(&doctree.Document{Filename: "my-doc.pdf", MetadataTitle: "A Perfectly Good Title"})
	assert.Equal(t, "My Doc", a.Structure.Title)
	assert.Equal(t, SourceFilename, a.Diagnostics.TitleSource)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeadingMultiplier = 0.9
	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "HeadingMultiplier"))
}

func TestAssemble_CopiesOutline(t *testing.T) {
	outline := []doctree.Heading{{Level: 1, Text: "A", Page: 1}}
	s := Assemble("T", outline)
	outline[0].Text = "changed"
	assert.Equal(t, "A", s.Outline[0].Text)

	assert.NotNil(t, Assemble("T", nil).Outline)
}

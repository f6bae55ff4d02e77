package parser

import (
	"testing"

	pdflib "github.com/ledongthuc/pdf"
)

// glyphs lays out s one character per Text, each w points wide.
func glyphs(s, font string, size, x, y, w float64) []pdflib.Text {
	var out []pdflib.Text
	for _, r := range s {
		out = append(out, pdflib.Text{Font: font, FontSize: size, X: x, Y: y, W: w, S: string(r)})
		x += w
	}
	return out
}

func TestRunsFromTexts_GroupsByFontSizeAndLine(t *testing.T) {
	var texts []pdflib.Text
	texts = append(texts, glyphs("Intro", "ABCDEF+Helvetica-Bold", 16, 72, 700, 9)...)
	texts = append(texts, glyphs("Body", "Times-Roman", 10, 72, 680, 5)...)
	texts = append(texts, glyphs("next", "Times-Roman", 10, 72, 668, 5)...)

	runs := runsFromTexts(texts, 3)

	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %+v", runs)
	}
	if runs[0].Text != "Intro" || runs[0].Size != 16 || !runs[0].IsBold || runs[0].FontName != "Helvetica-Bold" {
		t.Errorf("unexpected heading run %+v", runs[0])
	}
	if runs[1].Text != "Body" || runs[1].IsBold {
		t.Errorf("unexpected body run %+v", runs[1])
	}
	if runs[2].Text != "next" {
		t.Errorf("expected baseline change to start a new run, got %+v", runs[2])
	}
	for i, r := range runs {
		if r.Page != 3 {
			t.Errorf("run[%d]: expected page 3, got %d", i, r.Page)
		}
	}
}

func TestRunsFromTexts_InsertsSpaceOnGap(t *testing.T) {
	texts := glyphs("Annual", "Helvetica", 20, 100, 500, 10)
	texts = append(texts, glyphs("Report", "Helvetica", 20, 100+6*10+8, 500, 10)...)
	texts = append(texts, pdflib.Text{Font: "Helvetica", FontSize: 20, X: 228, Y: 500, W: 5, S: " "})
	texts = append(texts, glyphs("2024", "Helvetica", 20, 233+1, 500, 10)...)

	runs := runsFromTexts(texts, 1)

	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %+v", runs)
	}
	if runs[0].Text != "Annual Report 2024" {
		t.Errorf("expected %q, got %q", "Annual Report 2024", runs[0].Text)
	}
}

func TestRunsFromTexts_Empty(t *testing.T) {
	if runs := runsFromTexts(nil, 1); len(runs) != 0 {
		t.Errorf("expected no runs, got %+v", runs)
	}
	if runs := runsFromTexts([]pdflib.Text{{Font: "F", FontSize: 10}}, 1); len(runs) != 0 {
		t.Errorf("expected empty glyphs to be skipped, got %+v", runs)
	}
}

func TestTextDocument(t *testing.T) {
	doc := textDocument("Title Line\n\nfirst page body\n\fsecond page\n\f", "scan.pdf")

	if doc.PageCount != 2 {
		t.Errorf("expected 2 pages, got %d", doc.PageCount)
	}
	if len(doc.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %+v", doc.Runs)
	}
	if doc.Runs[2].Text != "second page" || doc.Runs[2].Page != 2 {
		t.Errorf("unexpected run %+v", doc.Runs[2])
	}
	for _, r := range doc.Runs {
		if r.Size != BodySize {
			t.Errorf("expected uniform body size, got %v", r.Size)
		}
	}
}

func TestResolveDest_Null(t *testing.T) {
	// A missing destination resolves to no page.
	if got := resolveDest(pdflib.Value{}, pdflib.Value{}, nil, 0); got != 0 {
		t.Errorf("expected 0 for null destination, got %d", got)
	}
}

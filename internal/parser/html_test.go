package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_HeadingsAndTitle(t *testing.T) {
	input := `<!DOCTYPE html>
<html>
<head><title> Field Guide </title><style>h1 { color: red }</style></head>
<body>
<header><h1>Site Banner</h1></header>
<h1>Field Guide</h1>
<p>Welcome to the <b>guide</b>.</p>
<h2>Birds</h2>
<ul><li>Heron</li><li>Crane</li></ul>
<h3>Waders</h3>
<script>var h2 = "not a heading";</script>
<footer><p>Copyright</p></footer>
</body>
</html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.MetadataTitle != "Field Guide" {
		t.Errorf("expected metadata title %q, got %q", "Field Guide", doc.MetadataTitle)
	}

	wantTOC := []struct {
		depth int
		text  string
	}{{1, "Field Guide"}, {2, "Birds"}, {3, "Waders"}}
	if len(doc.TOC) != len(wantTOC) {
		t.Fatalf("expected %d TOC entries, got %+v", len(wantTOC), doc.TOC)
	}
	for i, w := range wantTOC {
		if doc.TOC[i].Depth != w.depth || doc.TOC[i].Text != w.text || doc.TOC[i].Page != 1 {
			t.Errorf("toc[%d]: expected H%d %q, got %+v", i, w.depth, w.text, doc.TOC[i])
		}
	}

	var texts []string
	for _, r := range doc.Runs {
		texts = append(texts, r.Text)
	}
	joined := strings.Join(texts, "|")
	if joined != "Field Guide|Welcome to the guide.|Birds|Heron|Crane|Waders" {
		t.Errorf("unexpected runs %q", joined)
	}
}

func TestHTMLParser_Fragment(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader("<p>Only a paragraph</p>"), "frag.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.MetadataTitle != "" {
		t.Errorf("expected no title, got %q", doc.MetadataTitle)
	}
	if len(doc.Runs) != 1 || doc.Runs[0].Text != "Only a paragraph" {
		t.Errorf("unexpected runs %+v", doc.Runs)
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := map[string]int{"h1": 1, "h6": 6, "h7": 0, "hr": 0, "p": 0, "h": 0}
	for tag, want := range tests {
		if got := headingLevel(tag); got != want {
			t.Errorf("headingLevel(%q) = %d, want %d", tag, got, want)
		}
	}
}

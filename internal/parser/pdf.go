package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

const (
	maxOutlineEntries = 10000
	maxOutlineDepth   = 64
)

// PDFParser handles PDF files. It reads styled text runs, the Info title and
// the outline with the Go library, and can fall back to pdftotext for files
// the library cannot decode.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docoutline-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, err := readPDF(tmpPath, filename)
	if err != nil && p.FallbackPdftotext {
		doc, err = readPdftotext(tmpPath, filename)
	}
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: fmt.Errorf("extract pdf: %w", err)}
	}
	return doc, nil
}

func readPDF(path, filename string) (doc *doctree.Document, err error) {
	// The library panics on some malformed objects.
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc = &doctree.Document{
		Filename:      filename,
		MetadataTitle: strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text()),
		PageCount:     reader.NumPage(),
	}

	pageIndex := make(map[string]int, doc.PageCount)
	for i := 1; i <= doc.PageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageIndex[page.V.String()] = i
		if page.V.Key("Contents").Kind() == pdflib.Null {
			continue
		}
		doc.Runs = append(doc.Runs, runsFromTexts(page.Content().Text, i)...)
	}

	doc.TOC = readOutline(reader.Trailer().Key("Root"), pageIndex)
	return doc, nil
}

// runsFromTexts merges the per-glyph texts of one page into runs, starting a
// new run whenever font, size or baseline changes. A horizontal gap wider
// than a fraction of the font size becomes a space.
func runsFromTexts(texts []pdflib.Text, page int) []doctree.TextRun {
	var runs []doctree.TextRun
	var cur pdflib.Text
	var buf strings.Builder
	endX := 0.0

	flush := func() {
		if buf.Len() > 0 {
			runs = append(runs, doctree.TextRun{
				Text:     buf.String(),
				Size:     cur.FontSize,
				FontName: CleanFontName(cur.Font),
				IsBold:   IsBoldFont(cur.Font),
				Page:     page,
			})
		}
		buf.Reset()
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if buf.Len() > 0 && pdflib.IsSameSentence(cur, t) {
			if t.X-endX > 0.15*t.FontSize && t.S != " " && !strings.HasSuffix(buf.String(), " ") {
				buf.WriteByte(' ')
			}
		} else {
			flush()
			cur = t
			endX = t.X
		}
		buf.WriteString(t.S)
		endX = math.Max(endX, t.X+t.W)
	}
	flush()
	return runs
}

// readOutline flattens the /Outlines tree depth-first. Entries whose
// destination cannot be resolved get page 0.
func readOutline(root pdflib.Value, pageIndex map[string]int) []doctree.TOCEntry {
	var toc []doctree.TOCEntry
	var walk func(item pdflib.Value, depth int)
	walk = func(item pdflib.Value, depth int) {
		if depth > maxOutlineDepth {
			return
		}
		for child := item.Key("First"); child.Kind() == pdflib.Dict; child = child.Key("Next") {
			if len(toc) >= maxOutlineEntries {
				return
			}
			toc = append(toc, doctree.TOCEntry{
				Depth: depth,
				Text:  strings.TrimSpace(child.Key("Title").Text()),
				Page:  resolveDest(root, outlineDest(child), pageIndex, 0),
			})
			walk(child, depth+1)
		}
	}
	walk(root.Key("Outlines"), 1)
	return toc
}

func outlineDest(item pdflib.Value) pdflib.Value {
	if d := item.Key("Dest"); !d.IsNull() {
		return d
	}
	action := item.Key("A")
	if action.Key("S").Name() == "GoTo" {
		return action.Key("D")
	}
	return pdflib.Value{}
}

// resolveDest turns an explicit or named destination into a 1-based page.
func resolveDest(root, dest pdflib.Value, pageIndex map[string]int, hops int) int {
	if hops > 4 {
		return 0
	}
	switch dest.Kind() {
	case pdflib.Array:
		target := dest.Index(0)
		switch target.Kind() {
		case pdflib.Dict:
			return pageIndex[target.String()]
		case pdflib.Integer:
			return int(target.Int64()) + 1
		}
	case pdflib.Dict:
		return resolveDest(root, dest.Key("D"), pageIndex, hops+1)
	case pdflib.Name:
		return resolveDest(root, namedDest(root, dest.Name()), pageIndex, hops+1)
	case pdflib.String:
		return resolveDest(root, namedDest(root, dest.RawString()), pageIndex, hops+1)
	}
	return 0
}

func namedDest(root pdflib.Value, name string) pdflib.Value {
	if d := root.Key("Dests").Key(name); !d.IsNull() {
		return d
	}
	return lookupNameTree(root.Key("Names").Key("Dests"), name, 0)
}

func lookupNameTree(node pdflib.Value, key string, depth int) pdflib.Value {
	if node.Kind() != pdflib.Dict || depth > maxOutlineDepth {
		return pdflib.Value{}
	}
	names := node.Key("Names")
	for i := 0; i+1 < names.Len(); i += 2 {
		if names.Index(i).RawString() == key {
			return names.Index(i + 1)
		}
	}
	kids := node.Key("Kids")
	for i := 0; i < kids.Len(); i++ {
		if v := lookupNameTree(kids.Index(i), key, depth+1); !v.IsNull() {
			return v
		}
	}
	return pdflib.Value{}
}

// readPdftotext is the degraded path: no font information, so every line
// becomes a body-size run and only the title can be recovered heuristically.
func readPdftotext(path, filename string) (*doctree.Document, error) {
	cmd := exec.Command("pdftotext", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return textDocument(string(out), filename), nil
}

// textDocument splits text into pages on form feeds and lines into runs.
func textDocument(text, filename string) *doctree.Document {
	doc := &doctree.Document{Filename: filename}
	pages := strings.Split(text, "\f")
	for i, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			doc.Runs = append(doc.Runs, doctree.TextRun{Text: line, Size: BodySize, Page: i + 1})
		}
	}
	doc.PageCount = len(pages)
	if doc.PageCount > 0 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		doc.PageCount--
	}
	return doc
}

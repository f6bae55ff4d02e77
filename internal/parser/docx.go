package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. "Heading N" paragraph styles form the
// embedded outline, the first "Title" paragraph is the metadata title, and
// every run keeps its explicit size and weight.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	data, err = clearDisabledBold(data)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	f, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &doctree.Document{Filename: filename, PageCount: 1}
	for _, item := range f.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		addDocxParagraph(doc, para)
	}
	return doc, nil
}

// boldOff matches <w:b w:val="0"/> and its "false"/"off" spellings.
var boldOff = regexp.MustCompile(`<w:b\s+w:val="(?:0|false|off)"\s*(?:/>|>\s*</w:b>)`)

// clearDisabledBold removes explicit bold-off toggles from the document
// part. go-docx keeps only the presence of <w:b>, so without this a run
// marked not-bold would read as bold.
func clearDisabledBold(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", zf.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", zf.Name, err)
		}
		if zf.Name == "word/document.xml" {
			content = boldOff.ReplaceAll(content, nil)
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     zf.Name,
			Method:   zf.Method,
			Modified: zf.Modified,
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(content); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// addDocxParagraph appends the runs of one paragraph and, for heading and
// title styles, the matching outline entry or metadata title.
func addDocxParagraph(doc *doctree.Document, para *docx.Paragraph) {
	text := docxParagraphText(para)
	if text == "" {
		return
	}

	style := docxStyle(para)
	level := docxHeadingLevel(style)
	switch {
	case level > 0:
		doc.TOC = append(doc.TOC, doctree.TOCEntry{Depth: level, Text: text, Page: 1})
	case strings.EqualFold(style, "Title") && doc.MetadataTitle == "":
		doc.MetadataTitle = text
	}

	var paraProps *docx.RunProperties
	if para.Properties != nil {
		paraProps = para.Properties.RunProperties
	}

	for _, child := range para.Children {
		var run *docx.Run
		switch c := child.(type) {
		case *docx.Run:
			run = c
		case *docx.Hyperlink:
			run = &c.Run
		default:
			continue
		}
		t := strings.TrimSpace(docxRunText(run))
		if t == "" {
			continue
		}
		props := mergeRunProps(run.RunProperties, paraProps)
		doc.Runs = append(doc.Runs, doctree.TextRun{
			Text:     t,
			Size:     docxRunSize(props, level),
			FontName: docxRunFont(props),
			IsBold:   level > 0 || (props != nil && props.Bold != nil),
			Page:     1,
		})
	}
}

// mergeRunProps fills each property the run leaves unset from the
// paragraph's run properties.
func mergeRunProps(run, para *docx.RunProperties) *docx.RunProperties {
	switch {
	case run == nil:
		return para
	case para == nil:
		return run
	}
	merged := *run
	if merged.Size == nil {
		merged.Size = para.Size
	}
	if merged.Bold == nil {
		merged.Bold = para.Bold
	}
	if merged.Fonts == nil {
		merged.Fonts = para.Fonts
	}
	return &merged
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// docxHeadingLevel accepts both the style ID ("Heading2") and the display
// name ("heading 2").
func docxHeadingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	rest, ok := strings.CutPrefix(s, "heading")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 9 {
		return 0
	}
	return n
}

// docxRunSize converts w:sz half-points to points. Runs without an explicit
// size fall back to the synthetic size of their heading style or to body
// size.
func docxRunSize(props *docx.RunProperties, level int) float64 {
	if props != nil && props.Size != nil {
		if half, err := strconv.ParseFloat(props.Size.Val, 64); err == nil && half > 0 {
			return half / 2
		}
	}
	if level > 0 {
		return headingSize(level)
	}
	return BodySize
}

func docxRunFont(props *docx.RunProperties) string {
	if props == nil || props.Fonts == nil {
		return ""
	}
	return props.Fonts.ASCII
}

func docxRunText(run *docx.Run) string {
	var buf strings.Builder
	for _, rc := range run.Children {
		if t, ok := rc.(*docx.Text); ok {
			buf.WriteString(t.Text)
		}
	}
	return buf.String()
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			buf.WriteString(docxRunText(c))
		case *docx.Hyperlink:
			buf.WriteString(docxRunText(&c.Run))
		}
	}
	return strings.TrimSpace(buf.String())
}

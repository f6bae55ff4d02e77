package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// MarkdownParser handles Markdown files using goldmark. ATX and setext
// headings form the embedded outline; a YAML front matter "title" is the
// metadata title.
type MarkdownParser struct{}

type frontMatter struct {
	Title string `yaml:"title"`
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &doctree.Document{Filename: filename, PageCount: 1}

	meta, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, err
	}
	doc.MetadataTitle = strings.TrimSpace(meta.Title)

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(string(node.Text(body)))
			if title == "" {
				continue
			}
			doc.TOC = append(doc.TOC, doctree.TOCEntry{Depth: node.Level, Text: title, Page: 1})
			doc.Runs = append(doc.Runs, doctree.TextRun{
				Text:   title,
				Size:   headingSize(node.Level),
				IsBold: true,
				Page:   1,
			})
		case *ast.ThematicBreak, *ast.HTMLBlock:
		default:
			if t := extractText(n, body); t != "" {
				doc.Runs = append(doc.Runs, doctree.TextRun{Text: t, Size: BodySize, Page: 1})
			}
		}
	}

	return doc, nil
}

// splitFrontMatter separates a leading "---" YAML block from the Markdown
// body. Documents without one are returned unchanged.
func splitFrontMatter(src []byte) (frontMatter, []byte, error) {
	var meta frontMatter
	rest, ok := bytes.CutPrefix(src, []byte("---\n"))
	if !ok {
		rest, ok = bytes.CutPrefix(src, []byte("---\r\n"))
	}
	if !ok {
		return meta, src, nil
	}

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return meta, src, nil
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}

	if err := yaml.Unmarshal(block, &meta); err != nil {
		return meta, nil, fmt.Errorf("front matter: %w", err)
	}
	return meta, body, nil
}

// extractText gets the text content of a goldmark AST node. Leaf blocks such
// as code blocks contribute their raw lines; everything else contributes its
// inline text.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		} else {
			buf.WriteString(extractText(c, src))
			if c.Type() == ast.TypeBlock {
				buf.WriteByte(' ')
			}
		}
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}

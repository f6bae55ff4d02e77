package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// TextParser handles plain text files. Each paragraph becomes one body-size
// run and form feeds start a new page. Plain text has no metadata title and
// no embedded outline.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &doctree.Document{Filename: filename}
	page := 1
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			doc.Runs = append(doc.Runs, doctree.TextRun{Text: current.String(), Size: BodySize, Page: page})
			current.Reset()
		}
	}

	for scanner.Scan() {
		segments := strings.Split(scanner.Text(), "\f")
		for i, line := range segments {
			if i > 0 {
				flush()
				page++
			}
			line = strings.TrimSpace(line)
			if line == "" {
				flush()
				continue
			}
			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc.PageCount = page
	return doc, nil
}

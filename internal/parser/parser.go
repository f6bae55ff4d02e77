package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// BodySize is the nominal point size given to running text by parsers whose
// formats carry no explicit font sizes.
const BodySize = 11.0

// Parser converts raw document bytes into runs, metadata and an optional
// embedded outline.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// Options tweaks parser behavior.
type Options struct {
	// FallbackPdftotext retries unreadable PDFs through the pdftotext binary.
	FallbackPdftotext bool
}

// ParseError reports a document that could not be opened or decoded.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ParseFile opens and parses a file from disk. Every failure, including an
// unsupported extension, comes back as a *ParseError.
func ParseFile(path string, opts Options) (*doctree.Document, error) {
	name := filepath.Base(path)
	p, err := ForFile(name, opts)
	if err != nil {
		return nil, &ParseError{Filename: name, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Filename: name, Err: err}
	}
	defer f.Close()
	return Parse(p, f, name)
}

// Parse runs p and guarantees the error, if any, is a *ParseError.
func Parse(p Parser, r io.Reader, filename string) (*doctree.Document, error) {
	doc, err := p.Parse(r, filename)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &ParseError{Filename: filename, Err: err}
	}
	doc.Filename = filename
	return doc, nil
}

// IsBoldFont guesses weight from a font name such as "ABCDEF+Arial-BoldMT".
func IsBoldFont(name string) bool {
	n := strings.ToLower(name)
	for _, w := range []string{"bold", "black", "heavy", "semibold", "demi"} {
		if strings.Contains(n, w) {
			return true
		}
	}
	return false
}

// CleanFontName drops the six-letter subset prefix embedded fonts carry.
func CleanFontName(name string) string {
	if i := strings.IndexByte(name, '+'); i == 6 {
		return name[i+1:]
	}
	return name
}

// headingSize maps an explicit heading level to a synthetic point size so
// structured formats still produce a meaningful size histogram.
func headingSize(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return BodySize * (1 + 0.25*float64(7-level))
}

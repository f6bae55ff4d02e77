package doctree

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Document is everything a parser recovered from one input file.
type Document struct {
	Filename      string     // Source file name (base name, with extension)
	MetadataTitle string     // Embedded title, empty if absent
	Runs          []TextRun  // Text runs in document order
	TOC           []TOCEntry // Authoritative outline, empty if none embedded
	PageCount     int
}

// TextRun is a contiguous span of text sharing one font, size and weight.
type TextRun struct {
	Text     string
	Size     float64
	FontName string
	IsBold   bool
	Page     int // 1-based
}

// TOCEntry is one entry of an embedded table of contents.
type TOCEntry struct {
	Depth int
	Text  string
	Page  int
}

// Heading is a single outline entry.
type Heading struct {
	Level int
	Text  string
	Page  int
}

// Structure is the result for one document: a title and a flat, ordered outline.
type Structure struct {
	Title   string    `json:"title"`
	Outline []Heading `json:"outline"`
}

type headingJSON struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// MarshalJSON writes the level as "H<depth>".
func (h Heading) MarshalJSON() ([]byte, error) {
	return json.Marshal(headingJSON{
		Level: "H" + strconv.Itoa(h.Level),
		Text:  h.Text,
		Page:  h.Page,
	})
}

func (h *Heading) UnmarshalJSON(data []byte) error {
	var raw headingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	level, err := ParseLevel(raw.Level)
	if err != nil {
		return err
	}
	h.Level = level
	h.Text = raw.Text
	h.Page = raw.Page
	return nil
}

// ParseLevel converts "H2" (or "h2") to 2.
func ParseLevel(s string) (int, error) {
	if len(s) < 2 || (s[0] != 'H' && s[0] != 'h') {
		return 0, fmt.Errorf("invalid heading level %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid heading level %q", s)
	}
	return n, nil
}

// MarshalIndent renders a structure the way result files are written.
func (s Structure) MarshalIndent() ([]byte, error) {
	if s.Outline == nil {
		s.Outline = []Heading{}
	}
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

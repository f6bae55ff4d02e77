// Package engine infers a document's title and heading outline from font
// statistics, or takes the outline from an embedded table of contents when
// the document has one.
//
// The engine is pure: it holds no per-document state, never logs and never
// returns an error. One Engine may be shared by any number of goroutines.
package engine

import (
	"fmt"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Engine runs normalize -> profile -> classify -> resolve title -> build
// outline -> assemble for one document at a time.
type Engine struct {
	cfg    Config
	titles *TitleResolver
}

// New creates an engine with the default title strategy chain.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:    cfg,
		titles: NewTitleResolver(DefaultTitleStrategies(cfg)...),
	}, nil
}

// WithTitleStrategies replaces the title chain. The chain should end with a
// strategy that always succeeds.
func (e *Engine) WithTitleStrategies(strategies ...TitleStrategy) *Engine {
	return &Engine{cfg: e.cfg, titles: NewTitleResolver(strategies...)}
}

// Config returns the thresholds the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Diagnostics explains how a structure was derived.
type Diagnostics struct {
	Mode         string         `json:"mode"`
	TitleSource  string         `json:"title_source"`
	TitleSize    float64        `json:"title_size,omitempty"`
	RawRuns      int            `json:"raw_runs"`
	Runs         int            `json:"runs"`
	BodySize     float64        `json:"body_size,omitempty"`
	HeadingSizes []float64      `json:"heading_sizes,omitempty"` // index i is depth i+1
	Histogram    map[string]int `json:"histogram,omitempty"`
	Rejected     map[string]int `json:"rejected,omitempty"`
}

// Analysis is the engine's full output for one document.
type Analysis struct {
	Structure   doctree.Structure `json:"structure"`
	Diagnostics Diagnostics       `json:"diagnostics"`
}

// Analyze derives the structure of one document. A nil document or one
// without usable runs still yields a filename-based title.
func (e *Engine) Analyze(doc *doctree.Document) Analysis {
	if doc == nil {
		doc = &doctree.Document{}
	}

	runs := Normalize(doc.Runs, e.cfg)
	diag := Diagnostics{RawRuns: len(doc.Runs), Runs: len(runs)}

	hist, body, ok := Profile(runs)
	var levels LevelMap
	if ok {
		levels = BuildLevelMap(hist, body, e.cfg.HeadingMultiplier)
		diag.BodySize = body
		diag.HeadingSizes = levels.Sizes()
		diag.Histogram = histogramLabels(hist)
	}

	title := e.titles.Resolve(TitleInput{
		Filename:      doc.Filename,
		MetadataTitle: doc.MetadataTitle,
		Runs:          runs,
	})
	diag.TitleSource = title.Source
	diag.TitleSize = title.Size

	var outline []doctree.Heading
	switch {
	case len(doc.TOC) > 0:
		diag.Mode = ModeAuthoritative
		outline = FromTOC(doc.TOC)
	case ok:
		diag.Mode = ModeHeuristic
		var rejected map[string]int
		outline, rejected = Classify(runs, levels, title, e.cfg)
		if len(rejected) > 0 {
			diag.Rejected = rejected
		}
	default:
		diag.Mode = ModeNone
	}

	return Analysis{
		Structure:   Assemble(title.Text, outline),
		Diagnostics: diag,
	}
}

// Assemble builds the final record. The outline is copied so the result
// shares no memory with the caller, and is never nil.
func Assemble(title string, outline []doctree.Heading) doctree.Structure {
	out := make([]doctree.Heading, len(outline))
	copy(out, outline)
	return doctree.Structure{Title: title, Outline: out}
}

func histogramLabels(h Histogram) map[string]int {
	out := make(map[string]int, h.Len())
	for _, size := range h.order {
		out[fmt.Sprintf("%.1f", size)] = h.counts[size]
	}
	return out
}

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/engine"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/schema"
)

// Worker parses documents and runs the structure engine on them. A Worker
// holds no per-document state, so one instance serves every goroutine.
type Worker struct {
	engine    *engine.Engine
	parseOpts parser.Options
	stats     *Stats
	log       *slog.Logger
}

func NewWorker(eng *engine.Engine, opts parser.Options, stats *Stats, log *slog.Logger) *Worker {
	if stats == nil {
		stats = NewStats(time.Hour)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Worker{
		engine:    eng,
		parseOpts: opts,
		stats:     stats,
		log:       log,
	}
}

// EngineConfig returns the thresholds documents are analyzed with.
func (w *Worker) EngineConfig() engine.Config {
	return w.engine.Config()
}

// Stats returns the worker's rolling latency tracker.
func (w *Worker) Stats() *Stats {
	return w.stats
}

// Analyze parses one document and derives its structure. Parse failures
// come back as *parser.ParseError. The structure is checked against the
// output schema before it is returned.
func (w *Worker) Analyze(r io.Reader, filename string) (engine.Analysis, error) {
	start := time.Now()
	doc, err := w.parse(r, filename)
	if err != nil {
		w.stats.RecordFailure(time.Since(start))
		return engine.Analysis{}, err
	}
	return w.structure(doc, start)
}

func (w *Worker) parse(r io.Reader, filename string) (*doctree.Document, error) {
	p, err := parser.ForFile(filename, w.parseOpts)
	if err != nil {
		return nil, &parser.ParseError{Filename: filename, Err: err}
	}
	return parser.Parse(p, r, filename)
}

func (w *Worker) structure(doc *doctree.Document, start time.Time) (engine.Analysis, error) {
	a := w.engine.Analyze(doc)
	if err := schema.ValidateStructure(a.Structure); err != nil {
		w.stats.RecordFailure(time.Since(start))
		return engine.Analysis{}, fmt.Errorf("structure for %s: %w", doc.Filename, err)
	}

	w.stats.Record(time.Since(start), a.Diagnostics.Mode)
	w.log.Debug("analyzed document",
		"filename", doc.Filename,
		"mode", a.Diagnostics.Mode,
		"title_source", a.Diagnostics.TitleSource,
		"body_size", a.Diagnostics.BodySize,
		"levels", len(a.Diagnostics.HeadingSizes),
		"headings", len(a.Structure.Outline),
	)
	return a, nil
}

// AnalyzeFile is Analyze for a file on disk.
func (w *Worker) AnalyzeFile(path string) (engine.Analysis, error) {
	start := time.Now()
	doc, err := parser.ParseFile(path, w.parseOpts)
	if err != nil {
		w.stats.RecordFailure(time.Since(start))
		return engine.Analysis{}, err
	}
	return w.structure(doc, start)
}

// Process runs a queued job to completion. The same content under the same
// filename analyzed before is answered from the store's cache.
func (w *Worker) Process(ctx context.Context, job *Job, store *JobStore) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "cancelled")
		return
	}

	if store != nil {
		if a, ok := store.CachedResult(job.CacheKey()); ok {
			log.Info("reusing cached structure")
			job.Complete(a, true)
			return
		}
	}

	start := time.Now()
	job.SetStatus(StatusParsing, "parsing")
	doc, err := w.parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		w.stats.RecordFailure(time.Since(start))
		log.Error("parse failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	job.SetStatus(StatusAnalyzing, "analyzing")
	a, err := w.structure(doc, start)
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "analyzing")
		return
	}

	if store != nil {
		store.CacheResult(job.CacheKey(), a)
	}
	job.Complete(a, false)
	log.Info("analysis complete",
		"mode", a.Diagnostics.Mode,
		"title", a.Structure.Title,
		"headings", len(a.Structure.Outline),
	)
}

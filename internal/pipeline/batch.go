package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/parser"
	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome for one input document.
type FileResult struct {
	Filename string        `json:"filename"`
	Output   string        `json:"output,omitempty"`
	Title    string        `json:"title,omitempty"`
	Mode     string        `json:"mode,omitempty"`
	Headings int           `json:"headings"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Failure names a document that produced no output.
type Failure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// Summary reports a batch run. Results are in input filename order.
type Summary struct {
	Processed int          `json:"processed"`
	Failed    []Failure    `json:"failed"`
	Results   []FileResult `json:"results"`
}

// Batch analyzes every supported document in a directory and writes one
// <stem>.json per document.
type Batch struct {
	Worker  *Worker
	Workers int
}

// Run processes inputDir into outputDir. A document that fails is logged,
// recorded in the summary and skipped; only enumeration, output directory
// and cancellation errors are returned.
func (b *Batch) Run(ctx context.Context, inputDir, outputDir string) (Summary, error) {
	files, err := listInputs(inputDir)
	if err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output dir: %w", err)
	}

	outputs := outputNames(files)
	results := make([]FileResult, len(files))
	var mu sync.Mutex

	limit := b.Workers
	if limit <= 0 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for i, name := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			r := b.processOne(filepath.Join(inputDir, name), filepath.Join(outputDir, outputs[name]))
			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil
		})
	}
	// Tasks never return an error.
	_ = g.Wait()

	summary := Summary{Failed: []Failure{}, Results: make([]FileResult, 0, len(files))}
	for _, r := range results {
		if r.Filename == "" {
			continue
		}
		summary.Results = append(summary.Results, r)
		if r.Err != nil {
			summary.Failed = append(summary.Failed, Failure{Filename: r.Filename, Error: r.Err.Error()})
			continue
		}
		summary.Processed++
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (b *Batch) processOne(inPath, outPath string) FileResult {
	start := time.Now()
	res := FileResult{Filename: filepath.Base(inPath)}
	log := b.Worker.log.With("filename", res.Filename)

	a, err := b.Worker.AnalyzeFile(inPath)
	if err != nil {
		log.Error("skipping document", "error", err)
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	data, err := a.Structure.MarshalIndent()
	if err == nil {
		err = os.WriteFile(outPath, data, 0o644)
	}
	res.Duration = time.Since(start)
	if err != nil {
		log.Error("write failed", "output", outPath, "error", err)
		res.Err = fmt.Errorf("write %s: %w", filepath.Base(outPath), err)
		return res
	}

	res.Output = outPath
	res.Title = a.Structure.Title
	res.Mode = a.Diagnostics.Mode
	res.Headings = len(a.Structure.Outline)
	log.Info("wrote structure", "output", outPath, "mode", res.Mode, "headings", res.Headings)
	return res
}

// listInputs returns the supported regular files in dir, sorted by name.
func listInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !parser.IsSupportedExtension(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

// outputNames maps each input to <stem>.json. Inputs sharing a stem keep
// their extension instead ("report.pdf.json", "report.docx.json").
func outputNames(files []string) map[string]string {
	stems := make(map[string]int, len(files))
	for _, f := range files {
		stems[stem(f)]++
	}
	out := make(map[string]string, len(files))
	for _, f := range files {
		if stems[stem(f)] > 1 {
			out[f] = f + ".json"
		} else {
			out[f] = stem(f) + ".json"
		}
	}
	return out
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

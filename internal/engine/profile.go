package engine

import (
	"math"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// RoundSize rounds a font size to one decimal place, absorbing renderer jitter.
func RoundSize(size float64) float64 {
	return math.Round(size*10) / 10
}

// Histogram counts occurrences of each rounded font size. It remembers the
// order in which sizes were first seen so ties resolve deterministically.
type Histogram struct {
	counts map[float64]int
	order  []float64
}

func newHistogram() Histogram {
	return Histogram{counts: make(map[float64]int)}
}

func (h *Histogram) add(size float64) {
	size = RoundSize(size)
	if _, ok := h.counts[size]; !ok {
		h.order = append(h.order, size)
	}
	h.counts[size]++
}

// Count returns how many runs had the given (rounded) size.
func (h Histogram) Count(size float64) int {
	return h.counts[RoundSize(size)]
}

// Sizes returns every bucket in first-seen order.
func (h Histogram) Sizes() []float64 {
	out := make([]float64, len(h.order))
	copy(out, h.order)
	return out
}

// Len is the number of distinct buckets.
func (h Histogram) Len() int {
	return len(h.order)
}

// Mode returns the most frequent size; the earliest-seen bucket wins ties.
func (h Histogram) Mode() (float64, bool) {
	if len(h.order) == 0 {
		return 0, false
	}
	best := h.order[0]
	for _, size := range h.order[1:] {
		if h.counts[size] > h.counts[best] {
			best = size
		}
	}
	return best, true
}

// Profile builds the size histogram for a document's normalized runs and
// returns the body size. ok is false when there are no runs at all.
func Profile(runs []doctree.TextRun) (h Histogram, bodySize float64, ok bool) {
	h = newHistogram()
	for _, r := range runs {
		h.add(r.Size)
	}
	bodySize, ok = h.Mode()
	return h, bodySize, ok
}

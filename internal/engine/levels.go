package engine

import (
	"sort"
)

// LevelMap assigns heading depths to font sizes. Depth 1 is the largest size.
type LevelMap struct {
	depths map[float64]int
	sizes  []float64 // descending
}

// BuildLevelMap ranks every bucket strictly larger than body*multiplier.
// The body size itself can never qualify since multiplier > 1.
func BuildLevelMap(h Histogram, bodySize, multiplier float64) LevelMap {
	cutoff := bodySize * multiplier
	var sizes []float64
	for _, size := range h.order {
		if size > cutoff && size != bodySize {
			sizes = append(sizes, size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	lm := LevelMap{depths: make(map[float64]int, len(sizes)), sizes: sizes}
	for i, size := range sizes {
		lm.depths[size] = i + 1
	}
	return lm
}

// Depth looks up the heading depth for a raw font size.
func (m LevelMap) Depth(size float64) (int, bool) {
	d, ok := m.depths[RoundSize(size)]
	return d, ok
}

// Sizes returns the heading sizes, largest first.
func (m LevelMap) Sizes() []float64 {
	out := make([]float64, len(m.sizes))
	copy(out, m.sizes)
	return out
}

func (m LevelMap) Len() int { return len(m.sizes) }

func (m LevelMap) Empty() bool { return len(m.sizes) == 0 }

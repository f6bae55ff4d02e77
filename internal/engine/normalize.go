package engine

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Normalize trims run text and drops runs that cannot carry structure:
// text too short, size not above the noise floor (or not finite), or
// digits only.
func Normalize(runs []doctree.TextRun, cfg Config) []doctree.TextRun {
	out := make([]doctree.TextRun, 0, len(runs))
	for _, r := range runs {
		text := strings.TrimSpace(r.Text)
		if utf8.RuneCountInString(text) <= cfg.MinRunChars {
			continue
		}
		// Written so NaN sizes fail too.
		if !(r.Size > cfg.MinRunSize) || math.IsInf(r.Size, 0) {
			continue
		}
		if isDigits(text) {
			continue
		}
		r.Text = text
		if r.Page < 1 {
			r.Page = 1
		}
		out = append(out, r)
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

// isNumeric mirrors isDigits but also accepts other numeric runes
// (superscripts, fractions, roman numeral code points).
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !unicode.IsNumber(c) {
			return false
		}
	}
	return true
}

package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds the thresholds used by every stage of the engine.
type Config struct {
	// Runs at or below this size are noise (footnote markers, page furniture).
	MinRunSize float64 `json:"min_run_size" yaml:"min_run_size" validate:"gte=0"`

	// A run's trimmed text must be longer than this to survive normalization.
	MinRunChars int `json:"min_run_chars" yaml:"min_run_chars" validate:"gte=0"`

	// Sizes strictly above body*HeadingMultiplier become heading levels.
	HeadingMultiplier float64 `json:"heading_multiplier" yaml:"heading_multiplier" validate:"gt=1"`

	// Candidates with more words than this are paragraphs, not headings.
	MaxHeadingWords int `json:"max_heading_words" yaml:"max_heading_words" validate:"gte=1"`

	// Candidates whose trimmed text is this short or shorter are dropped.
	MinHeadingChars int `json:"min_heading_chars" yaml:"min_heading_chars" validate:"gte=0"`

	// Metadata titles must be longer than this.
	MinMetadataTitleChars int `json:"min_metadata_title_chars" yaml:"min_metadata_title_chars" validate:"gte=0"`

	// First-page run titles must be longer than this.
	MinRunTitleChars int `json:"min_run_title_chars" yaml:"min_run_title_chars" validate:"gte=0"`

	// RequireBold only accepts bold runs as headings, except at sizes
	// that have no bold runs anywhere in the document.
	RequireBold bool `json:"require_bold" yaml:"require_bold"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinRunSize:            7,
		MinRunChars:           1,
		HeadingMultiplier:     1.2,
		MaxHeadingWords:       10,
		MinHeadingChars:       2,
		MinMetadataTitleChars: 5,
		MinRunTitleChars:      4,
		RequireBold:           true,
	}
}

// Validate checks threshold ranges.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}
	return nil
}

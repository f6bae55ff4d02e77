// Package cli implements the docoutline command line.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docoutline",
	Short: "Extract a title and heading outline from documents",
	Long: `docoutline infers a document's title and H1..Hn outline from font-size
statistics, or reads the outline from an embedded table of contents when the
document has one.

Supported formats: PDF, Markdown, HTML, DOCX and plain text.

Environment variables:
  ENGINE_CONFIG            YAML file with engine thresholds
  HEADING_MULTIPLIER       override heading_multiplier
  PDF_FALLBACK_PDFTOTEXT   retry unreadable PDFs with pdftotext (default true)
  INPUT_DIR / OUTPUT_DIR   default directories for "process"`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
}

// SetVersion sets the version reported by "docoutline version".
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

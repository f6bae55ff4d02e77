package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/engine"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	processInput   string
	processOutput  string
	processWorkers int
	processConfig  string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Write a structure JSON for every document in a directory",
	Long: `Analyze every supported document in the input directory and write one
<name>.json per document to the output directory.

A document that cannot be parsed is reported and skipped; the command only
fails when the input directory cannot be read.

Examples:
  docoutline process
  docoutline process --input ./docs --output ./out --workers 8`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processInput, "input", "i", "", "input directory (default $INPUT_DIR or ./input)")
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output directory (default $OUTPUT_DIR or ./output)")
	processCmd.Flags().IntVarP(&processWorkers, "workers", "w", 0, "parallel documents (default $WORKER_COUNT)")
	processCmd.Flags().StringVarP(&processConfig, "config", "c", "", "engine thresholds YAML (default $ENGINE_CONFIG)")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if processInput != "" {
		cfg.InputDir = processInput
	}
	if processOutput != "" {
		cfg.OutputDir = processOutput
	}
	if processWorkers > 0 {
		cfg.WorkerCount = processWorkers
	}
	if processConfig != "" {
		cfg.EngineConfigPath = processConfig
	}

	worker, err := newWorker(cmd, cfg)
	if err != nil {
		return err
	}

	batch := &pipeline.Batch{Worker: worker, Workers: cfg.WorkerCount}
	summary, err := batch.Run(cmd.Context(), cfg.InputDir, cfg.OutputDir)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

// newWorker builds the parse+analyze worker from configuration.
func newWorker(cmd *cobra.Command, cfg config.Config) (*pipeline.Worker, error) {
	engCfg, err := config.LoadEngine(cfg.EngineConfigPath)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(engCfg)
	if err != nil {
		return nil, err
	}
	opts := parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}
	return pipeline.NewWorker(eng, opts, nil, newLogger(cmd)), nil
}

func printSummary(w io.Writer, s pipeline.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Status", "Mode", "Headings", "Title", "Time"})
	table.SetAutoWrapText(false)

	for _, r := range s.Results {
		if r.Err != nil {
			table.Rich([]string{r.Filename, "failed", "", "", r.Err.Error(), r.Duration.Round(time.Millisecond).String()},
				[]tablewriter.Colors{{}, {tablewriter.FgHiRedColor, tablewriter.Bold}})
			continue
		}
		table.Rich([]string{
			r.Filename,
			"ok",
			r.Mode,
			strconv.Itoa(r.Headings),
			r.Title,
			r.Duration.Round(time.Millisecond).String(),
		}, []tablewriter.Colors{{}, {tablewriter.FgHiGreenColor, tablewriter.Bold}})
	}
	table.Render()

	status := color.New(color.FgGreen)
	if len(s.Failed) > 0 {
		status = color.New(color.FgYellow)
	}
	status.Fprintf(w, "processed %d, failed %d\n", s.Processed, len(s.Failed))
	for _, f := range s.Failed {
		fmt.Fprintf(w, "  %s: %s\n", f.Filename, f.Error)
	}
}

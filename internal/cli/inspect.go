package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/engine"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	inspectJSON        bool
	inspectDiagnostics bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show how the outline of one document is derived",
	Long: `Analyze a single document and print the body size, the size-to-level
map, the title source and the resulting outline.

With --json the structure record is printed instead; add --diagnostics to
include the analysis details in the JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the structure JSON")
	inspectCmd.Flags().BoolVar(&inspectDiagnostics, "diagnostics", false, "with --json, include diagnostics")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	worker, err := newWorker(cmd, cfg)
	if err != nil {
		return err
	}

	a, err := worker.AnalyzeFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if inspectJSON {
		var data []byte
		if inspectDiagnostics {
			data, err = json.MarshalIndent(a, "", "    ")
		} else {
			data, err = a.Structure.MarshalIndent()
		}
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	printAnalysis(out, a)
	return nil
}

func printAnalysis(w io.Writer, a engine.Analysis) {
	d := a.Diagnostics
	fmt.Fprintf(w, "Title:       %s\n", a.Structure.Title)
	fmt.Fprintf(w, "Source:      %s\n", d.TitleSource)
	fmt.Fprintf(w, "Mode:        %s\n", d.Mode)
	fmt.Fprintf(w, "Runs:        %d of %d kept\n", d.Runs, d.RawRuns)
	if d.BodySize > 0 {
		fmt.Fprintf(w, "Body size:   %.1f\n", d.BodySize)
	}
	if len(d.HeadingSizes) > 0 {
		levels := make([]string, len(d.HeadingSizes))
		for i, size := range d.HeadingSizes {
			levels[i] = fmt.Sprintf("H%d=%.1f", i+1, size)
		}
		fmt.Fprintf(w, "Levels:      %s\n", strings.Join(levels, " "))
	}
	if len(d.Rejected) > 0 {
		reasons := make([]string, 0, len(d.Rejected))
		for reason, n := range d.Rejected {
			reasons = append(reasons, fmt.Sprintf("%s=%d", reason, n))
		}
		sort.Strings(reasons)
		fmt.Fprintf(w, "Rejected:    %s\n", strings.Join(reasons, " "))
	}
	fmt.Fprintln(w)

	if len(a.Structure.Outline) == 0 {
		fmt.Fprintln(w, "(no headings)")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Level", "Page", "Text"})
	table.SetAutoWrapText(false)
	for _, h := range a.Structure.Outline {
		indent := strings.Repeat("  ", h.Level-1)
		table.Append([]string{"H" + strconv.Itoa(h.Level), strconv.Itoa(h.Page), indent + h.Text})
	}
	table.Render()
}

package cli

import (
	"fmt"

	"github.com/dgallion1/docoutline/internal/schema"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file.json>",
	Short: "Check a structure JSON file against the output schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := schema.ValidateFile(args[0]); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s: valid\n", args[0])
	return nil
}

// schemaCmd prints the embedded JSON Schema.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the output JSON Schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(schema.Document()))
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateContextCmd = &cobra.Command{
	Use:   "validate-context",
	Short: "Check a report context JSON file",
	Long:  "Validates a report context file against schemas/report_context.schema.json and the field rules applied before rendering.",
	RunE:  runValidateContext,
}

var validateContextInput string

func init() {
	validateContextCmd.Flags().StringVarP(&validateContextInput, "input", "i", "", "Path to report context JSON file (required)")
	if err := validateContextCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(validateContextCmd)
}

func runValidateContext(_ *cobra.Command, _ []string) error {
	rc, err := readContextFile(validateContextInput)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stdout, "Validation failed\n")
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Validation passed: %s, %d subjects, %d skills\n", rc.Identifier(), len(rc.Marks), len(rc.Skills))
	return nil
}

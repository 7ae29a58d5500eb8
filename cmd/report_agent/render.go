package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/report-cards/internal/grading"
	"github.com/jonathan/report-cards/internal/observability"
	"github.com/jonathan/report-cards/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one student's report card",
	Long: `Renders a single report card as PDF and/or a JPEG page image.

File mode reads a report context JSON file (--input) validated against schemas/report_context.schema.json.
Database mode loads the student from PostgreSQL (--student-id with --grade-id).`,
	RunE: runRender,
}

var (
	renderInput      string
	renderOutDir     string
	renderFormats    []string
	renderStudentID  int64
	renderGradeID    int64
	renderPreparedBy string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "Path to report context JSON file")
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", "", "Output directory (defaults to output_dir from config, then the current directory)")
	renderCmd.Flags().StringSliceVarP(&renderFormats, "formats", "f", nil, "Output formats: PDF, IMAGE")
	renderCmd.Flags().Int64Var(&renderStudentID, "student-id", 0, "Student ID to load from the database")
	renderCmd.Flags().Int64Var(&renderGradeID, "grade-id", 0, "Grade ID the student belongs to (required with --student-id)")
	renderCmd.Flags().StringVar(&renderPreparedBy, "prepared-by", "", "Name printed as 'Prepared by'")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	useDatabase := renderStudentID != 0
	useFile := renderInput != ""

	if useDatabase && useFile {
		return fmt.Errorf("cannot use --student-id with --input")
	}
	if !useDatabase && !useFile {
		return fmt.Errorf("must provide either --input or --student-id with --grade-id")
	}
	if useDatabase && renderGradeID == 0 {
		return fmt.Errorf("--grade-id is required with --student-id")
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("prepared-by") {
		cfg.PreparedBy = renderPreparedBy
	}
	formats, err := formatsFor(cmd, renderFormats, cfg)
	if err != nil {
		return err
	}
	if formats.Empty() {
		return fmt.Errorf("no output formats selected")
	}

	ctx := context.Background()

	var rc *types.ReportContext
	if useFile {
		rc, err = readContextFile(renderInput)
		if err != nil {
			return err
		}
		if rc.PreparedBy == "" {
			rc.PreparedBy = cfg.PreparedBy
		}
	} else {
		database, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		contexts, err := database.LoadReportContexts(ctx, renderGradeID, []int64{renderStudentID}, cfg.PreparedBy)
		if err != nil {
			return fmt.Errorf("failed to load student %d: %w", renderStudentID, err)
		}
		rc = contexts[0]
	}
	applySharedAssets([]*types.ReportContext{rc}, cfg)

	logger := newLogger(cfg)
	renderer := newRenderer(cfg, logger)

	if cfg.Verbose {
		summary := grading.SummarizeReport(rc)
		observability.NewPrinter(os.Stdout).PrintReportSummary(rc, summary)
	}

	outcome, artifacts, warnings := renderer.RenderStudent(ctx, rc, formats)
	for _, w := range warnings {
		logger.WithField("student", outcome.Identifier).Warn(w)
	}
	if outcome.Err != nil {
		return outcome.Err
	}
	if outcome.ImageErr != nil {
		logger.WithError(outcome.ImageErr).Warn("page image not produced")
	}
	if len(artifacts) == 0 {
		return fmt.Errorf("no output produced for %s", outcome.Identifier)
	}

	outDir := renderOutDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, art := range artifacts {
		path := filepath.Join(outDir, art.Name)
		if err := os.WriteFile(path, art.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Wrote %s (%s, %d bytes)\n", path, art.MIME, len(art.Data))
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/report-cards/internal/observability"
	"github.com/jonathan/report-cards/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render report cards for a class into one zip archive",
	Long: `Renders every selected student's report card and writes a single zip archive.

Database mode loads a grade (--grade-id, optionally narrowed with --students).
File mode renders every *.json report context in a directory (--inputs).
One student failing does not stop the batch; failures are reported at the end.`,
	RunE: runBatch,
}

var (
	batchGradeID    int64
	batchStudentIDs []int64
	batchInputsDir  string
	batchFormats    []string
	batchOutFile    string
	batchPreparedBy string
	batchWorkers    int
)

func init() {
	batchCmd.Flags().Int64Var(&batchGradeID, "grade-id", 0, "Grade ID to load students from")
	batchCmd.Flags().Int64SliceVar(&batchStudentIDs, "students", nil, "Student IDs to include (default: the whole grade)")
	batchCmd.Flags().StringVar(&batchInputsDir, "inputs", "", "Directory of report context JSON files")
	batchCmd.Flags().StringSliceVarP(&batchFormats, "formats", "f", nil, "Output formats: PDF, IMAGE")
	batchCmd.Flags().StringVarP(&batchOutFile, "out", "o", "", "Archive path (default: Reports_<grade>_<date>.zip in output_dir)")
	batchCmd.Flags().StringVar(&batchPreparedBy, "prepared-by", "", "Name printed as 'Prepared by'")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Concurrent renders (default from config)")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	useDatabase := batchGradeID != 0
	useFiles := batchInputsDir != ""

	if useDatabase && useFiles {
		return fmt.Errorf("cannot use --grade-id with --inputs")
	}
	if !useDatabase && !useFiles {
		return fmt.Errorf("must provide either --grade-id or --inputs")
	}
	if useFiles && len(batchStudentIDs) > 0 {
		return fmt.Errorf("--students can only be used with --grade-id")
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("prepared-by") {
		cfg.PreparedBy = batchPreparedBy
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = batchWorkers
	}
	formats, err := formatsFor(cmd, batchFormats, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var contexts []*types.ReportContext
	if useDatabase {
		database, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		contexts, err = database.LoadReportContexts(ctx, batchGradeID, batchStudentIDs, cfg.PreparedBy)
		if err != nil {
			return fmt.Errorf("failed to load grade %d: %w", batchGradeID, err)
		}
	} else {
		contexts, err = readContextDir(batchInputsDir)
		if err != nil {
			return err
		}
		for _, rc := range contexts {
			if rc.PreparedBy == "" {
				rc.PreparedBy = cfg.PreparedBy
			}
		}
	}
	applySharedAssets(contexts, cfg)

	logger := newLogger(cfg)
	result, err := newRenderer(cfg, logger).RenderBatch(ctx, contexts, formats)
	if cfg.Verbose || err != nil {
		observability.NewPrinter(os.Stdout).PrintBatchResult(result)
	}
	if err != nil {
		return err
	}

	outFile := batchOutFile
	if outFile == "" {
		label := ""
		if len(contexts) > 0 {
			label = contexts[0].GradeLabel
		}
		outFile = filepath.Join(cfg.OutputDir, archiveName(label, time.Now()))
	}
	if err := os.MkdirAll(filepath.Dir(outFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outFile, result.Archive, 0644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Rendered %d of %d reports\n", result.Succeeded, len(result.Entries))
	_, _ = fmt.Fprintf(os.Stdout, "Archive: %s\n", outFile)
	for _, f := range result.Failures() {
		_, _ = fmt.Fprintf(os.Stdout, "Failed: %s\n", f.Identifier)
	}
	if result.Succeeded == 0 {
		return fmt.Errorf("no reports were rendered")
	}
	return nil
}

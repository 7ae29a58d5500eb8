package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/report-cards/internal/batch"
	"github.com/jonathan/report-cards/internal/config"
	"github.com/jonathan/report-cards/internal/db"
	"github.com/jonathan/report-cards/internal/observability"
	"github.com/jonathan/report-cards/internal/raster"
	"github.com/jonathan/report-cards/internal/rendering"
	"github.com/jonathan/report-cards/internal/schemas"
	"github.com/jonathan/report-cards/internal/types"
)

// loadSettings merges the config file, global flags, defaults and environment, in that priority.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if globalConfigPath != "" {
		loadedCfg, err := config.LoadConfig(globalConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = globalVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = globalDatabaseURL
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *logrus.Logger {
	return observability.NewLogger(os.Stderr, cfg.Verbose)
}

func newEngine(cfg config.Config) *rendering.Engine {
	layout := cfg.Layout()
	return rendering.NewEngine(rendering.Options{
		Layout:            &layout,
		Assets:            rendering.FileResolver{Root: cfg.AssetRoot},
		DefaultBackground: types.Asset{Path: cfg.DefaultBackground},
	})
}

func newRenderer(cfg config.Config, logger logrus.FieldLogger) *batch.Renderer {
	return batch.NewRenderer(batch.Options{
		Engine: newEngine(cfg),
		Converter: &raster.Converter{
			Binary:  cfg.PdftoppmPath,
			DPI:     cfg.ImageDPI,
			Timeout: raster.DefaultTimeout,
		},
		Workers: cfg.Workers,
		Logger:  logger,
	})
}

// formatsFor prefers formats given on the command line over the configured ones.
func formatsFor(cmd *cobra.Command, flagValues []string, cfg config.Config) (batch.FormatSet, error) {
	if cmd.Flags().Changed("formats") {
		return batch.ParseFormats(flagValues)
	}
	return cfg.FormatSet()
}

func connectDB(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

// readContextFile validates a report context file against its schema and decodes it.
func readContextFile(path string) (*types.ReportContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report context %s: %w", path, err)
	}

	if schemaPath := schemas.ResolveSchemaPath(schemas.ReportContextSchema); schemaPath != "" {
		if err := schemas.ValidateJSONBytes(schemaPath, data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	var rc types.ReportContext
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report context %s: %w", path, err)
	}
	if err := rc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report context %s: %w", path, err)
	}
	return &rc, nil
}

// readContextDir reads every *.json file in dir, sorted by file name.
func readContextDir(dir string) ([]*types.ReportContext, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no report context files found in %s", dir)
	}

	contexts := make([]*types.ReportContext, 0, len(paths))
	for _, p := range paths {
		rc, err := readContextFile(p)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, rc)
	}
	return contexts, nil
}

// applySharedAssets fills the principal signature from config when a context has none.
func applySharedAssets(contexts []*types.ReportContext, cfg config.Config) {
	if cfg.PrincipalSignature == "" {
		return
	}
	for _, rc := range contexts {
		if rc != nil && !rc.PrincipalSignature.Present() {
			rc.PrincipalSignature = types.Asset{Path: cfg.PrincipalSignature}
		}
	}
}

// archiveName is the default batch file name, e.g. Reports_5A_20260314.zip.
func archiveName(gradeLabel string, day time.Time) string {
	label := strings.Join(strings.Fields(gradeLabel), "_")
	label = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, label)
	if label == "" {
		label = "Batch"
	}
	return fmt.Sprintf("Reports_%s_%s.zip", label, day.Format("20060102"))
}

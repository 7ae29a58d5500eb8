package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "List grades in the database",
	RunE:  runGrades,
}

var gradesInitSchema bool

func init() {
	gradesCmd.Flags().BoolVar(&gradesInitSchema, "init-schema", false, "Create missing tables before listing")

	rootCmd.AddCommand(gradesCmd)
}

func runGrades(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if gradesInitSchema {
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	grades, err := database.ListGrades(ctx)
	if err != nil {
		return err
	}
	if len(grades) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No grades found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME")
	for _, g := range grades {
		_, _ = fmt.Fprintf(w, "%d\t%s\n", g.ID, g.Name)
	}
	return w.Flush()
}

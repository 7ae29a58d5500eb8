// Package observability provides logging and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/report-cards/internal/batch"
	"github.com/jonathan/report-cards/internal/grading"
	"github.com/jonathan/report-cards/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func pad(s string, n int) string {
	if l := len([]rune(s)); l < n {
		return s + strings.Repeat(" ", n-l)
	}
	return s
}

// PrintReportSummary outputs the computed marks for one student.
func (p *Printer) PrintReportSummary(rc *types.ReportContext, summary grading.Summary) {
	if rc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Student:  %s\n", rc.Identifier()))
	sb.WriteString(fmt.Sprintf("Grade:    %s\n", rc.GradeLabel))
	sb.WriteString("\n")

	for _, s := range summary.Subjects {
		if !s.Graded {
			sb.WriteString(fmt.Sprintf("  • %-16s not graded\n", s.Subject))
			continue
		}
		sb.WriteString(fmt.Sprintf("  • %-16s %6.1f / %-6.1f %5.1f%%  %s\n", s.Subject, s.Scored, s.Full, s.Percentage, s.Grade))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total:    %.1f / %.1f (%.1f%%)\n", summary.TotalScored, summary.TotalFull, summary.OverallPercentage))
	sb.WriteString(fmt.Sprintf("Status:   %s", summary.Status))

	p.printBox("REPORT SUMMARY", sb.String())
}

// PrintBatchResult outputs counts, failures and warnings for a batch run.
func (p *Printer) PrintBatchResult(result *batch.BatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:        %s\n", result.RunID))
	sb.WriteString(fmt.Sprintf("Students:   %d\n", len(result.Entries)))
	sb.WriteString(fmt.Sprintf("Succeeded:  %d\n", result.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed:     %d\n", result.Failed))
	sb.WriteString(fmt.Sprintf("Archive:    %d bytes", len(result.Archive)))

	failures := result.Failures()
	if len(failures) > 0 {
		sb.WriteString("\n\nFailures:\n")
		count := min(len(failures), maxItemsToShow)
		for i := 0; i < count; i++ {
			f := failures[i]
			reason := "no artifacts"
			switch {
			case f.Skipped:
				reason = "skipped"
			case f.Err != nil:
				reason = f.Err.Error()
			case f.ImageErr != nil:
				reason = f.ImageErr.Error()
			}
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", f.Identifier, reason))
		}
		if len(failures) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(failures)-maxItemsToShow))
		}
	}

	if len(result.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		count := min(len(result.Warnings), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.Warnings[i]))
		}
		if len(result.Warnings) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Warnings)-maxItemsToShow))
		}
	}

	p.printBox("BATCH RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

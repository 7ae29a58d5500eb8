package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/report-cards/internal/batch"
	"github.com/jonathan/report-cards/internal/grading"
	"github.com/jonathan/report-cards/internal/types"
)

func TestPrintReportSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	te, ce := 45.0, 20.0
	rc := &types.ReportContext{
		StudentName: "Aliya Khan",
		AdmissionNo: "B5A1",
		GradeLabel:  "5A",
		Marks: []types.MarkRecord{
			{SubjectName: "MATHS", TEScore: &te, CEScore: &ce, TEMax: 70, CEMax: 30},
			{SubjectName: "ART", TEMax: 50},
		},
	}
	summary := grading.Aggregate(rc.Marks, grading.NewScale([]types.GradeBand{{MinPct: 50, MaxPct: 100, Label: "A"}}))

	p.PrintReportSummary(rc, summary)
	output := buf.String()

	assert.Contains(t, output, "REPORT SUMMARY")
	assert.Contains(t, output, "Aliya Khan (B5A1)")
	assert.Contains(t, output, "MATHS")
	assert.Contains(t, output, "65.0%")
	assert.Contains(t, output, "not graded")
	assert.Contains(t, output, "PASSED")
}

func TestPrintReportSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReportSummary(nil, grading.Summary{})
	assert.Empty(t, buf.String())
}

func TestPrintBatchResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &batch.BatchResult{
		RunID: uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Entries: []batch.StudentOutcome{
			{Identifier: "Aliya Khan (B5A1)", Files: []string{"Aliya_Khan_B5A1.pdf"}},
			{Identifier: "(B5A2)", Err: errors.New("invalid report context")},
			{Identifier: "Omar Ali", Skipped: true},
		},
		Archive:   make([]byte, 1234),
		Succeeded: 1,
		Failed:    2,
		Warnings:  []batch.Warning{{Student: "Aliya Khan (B5A1)", Message: "missing asset signature-parent"}},
	}

	p.PrintBatchResult(result)
	output := buf.String()

	assert.Contains(t, output, "BATCH RESULT")
	assert.Contains(t, output, "550e8400-e29b-41d4-a716-446655440000")
	assert.Contains(t, output, "Succeeded:  1")
	assert.Contains(t, output, "Failed:     2")
	assert.Contains(t, output, "1234 bytes")
	assert.Contains(t, output, "(B5A2): invalid report context")
	assert.Contains(t, output, "Omar Ali: skipped")
	assert.Contains(t, output, "signature-parent")
}

func TestPrintBatchResult_ManyFailures(t *testing.T) {
	var buf bytes.Buffer
	result := &batch.BatchResult{}
	for i := 0; i < 8; i++ {
		result.Entries = append(result.Entries, batch.StudentOutcome{Identifier: "student", Err: errors.New("boom")})
	}

	NewPrinter(&buf).PrintBatchResult(result)
	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdef...", truncate("abcdefghijkl", 9))
}

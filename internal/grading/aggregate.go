package grading

import "github.com/jonathan/report-cards/internal/types"

// PassThreshold is the minimum overall percentage for a PASSED status (inclusive).
const PassThreshold = 40.0

// Status values printed on the report card.
const (
	StatusPassed = "PASSED"
	StatusFailed = "FAILED"
)

// SubjectResult is one academic-table row after aggregation.
type SubjectResult struct {
	Subject    string
	TE         float64
	CE         float64
	Scored     float64
	Full       float64
	Percentage float64
	Grade      string
	Remarks    string
	// Graded is false for subjects whose marks have not been entered; those rows
	// render placeholders and do not count towards the totals.
	Graded bool
}

// Summary is the aggregated academic result for one student.
type Summary struct {
	Subjects          []SubjectResult
	TotalScored       float64
	TotalFull         float64
	OverallPercentage float64
	Status            string
}

// Passed reports whether the overall percentage reaches PassThreshold.
func (s Summary) Passed() bool {
	return s.Status == StatusPassed
}

// Aggregate computes per-subject and overall results. Row order follows marks.
// Within a graded record, a missing score component counts as zero.
func Aggregate(marks []types.MarkRecord, scale *Scale) Summary {
	summary := Summary{
		Subjects: make([]SubjectResult, 0, len(marks)),
	}

	for _, m := range marks {
		row := SubjectResult{
			Subject: m.SubjectName,
			Remarks: m.Remarks,
			Full:    m.TEMax + m.CEMax,
		}

		if !m.IsGraded() {
			summary.Subjects = append(summary.Subjects, row)
			continue
		}

		row.Graded = true
		row.TE = valueOrZero(m.TEScore)
		row.CE = valueOrZero(m.CEScore)
		row.Scored = row.TE + row.CE
		row.Percentage = Percentage(row.Scored, row.Full)
		row.Grade = scale.Resolve(row.Percentage, m.GradeScope)

		summary.TotalScored += row.Scored
		summary.TotalFull += row.Full
		summary.Subjects = append(summary.Subjects, row)
	}

	summary.OverallPercentage = Percentage(summary.TotalScored, summary.TotalFull)
	summary.Status = StatusFor(summary.OverallPercentage)
	return summary
}

// SummarizeReport aggregates a report's marks, falling back to the
// student's grade scope on marks that carry none.
func SummarizeReport(rc *types.ReportContext) Summary {
	return Aggregate(withGradeScope(rc.Marks, rc.GradeScope), NewScale(rc.GradeBands))
}

func withGradeScope(marks []types.MarkRecord, scope *int64) []types.MarkRecord {
	out := make([]types.MarkRecord, len(marks))
	copy(out, marks)
	for i := range out {
		if out[i].GradeScope == nil {
			out[i].GradeScope = scope
		}
	}
	return out
}

// Percentage is scored/full*100, or 0 when full is not positive.
func Percentage(scored, full float64) float64 {
	if full <= 0 {
		return 0
	}
	return scored / full * 100
}

// StatusFor maps an overall percentage to PASSED or FAILED.
func StatusFor(pct float64) string {
	if pct >= PassThreshold {
		return StatusPassed
	}
	return StatusFailed
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

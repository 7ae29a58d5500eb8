package rendering

import (
	"bytes"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/report-cards/internal/grading"
	"github.com/jonathan/report-cards/internal/types"
)

// PreparedOnFormat is the date format printed next to "Prepared on".
const PreparedOnFormat = "02-01-2006"

var (
	academicHeader = []string{"Subject", "TE", "CE", "Scored", "Full Marks", "Percentage", "Grade", "Teacher's Remarks"}
	skillsHeader   = []string{"Skills & Work Habits", "Score", "Remarks"}
)

// Options configures an Engine.
type Options struct {
	// Layout overrides DefaultLayout when set.
	Layout *Layout
	// Assets resolves background and signature references. Defaults to a FileResolver rooted at ".".
	Assets AssetResolver
	// Now supplies the prepared-on date when a context carries none.
	Now func() time.Time
	// DefaultBackground is drawn when a context has no background of its own.
	DefaultBackground types.Asset
	// DisableCompression writes uncompressed page streams (handy for inspecting output).
	DisableCompression bool
}

// Engine renders report cards. It holds no mutable state and may be shared between goroutines.
type Engine struct {
	layout            Layout
	assets            AssetResolver
	now               func() time.Time
	defaultBackground types.Asset
	compress          bool
}

// NewEngine creates an Engine from opts.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		layout:            DefaultLayout(),
		assets:            opts.Assets,
		now:               opts.Now,
		defaultBackground: opts.DefaultBackground,
		compress:          !opts.DisableCompression,
	}
	if opts.Layout != nil {
		e.layout = *opts.Layout
	}
	if e.assets == nil {
		e.assets = FileResolver{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Render lays out one student's report card on a single A4 page.
// Missing or unreadable images are left out and listed in the document warnings;
// only an invalid context or a PDF writer failure is returned as a *RenderError.
func (e *Engine) Render(rc *types.ReportContext) (*types.RenderedDocument, error) {
	if rc == nil {
		return nil, &RenderError{Message: "report context is nil"}
	}
	if err := rc.Validate(); err != nil {
		return nil, &RenderError{Message: "invalid report context for " + rc.Identifier(), Cause: err}
	}

	preparedOn := e.now()
	if rc.PreparedOn != nil {
		preparedOn = *rc.PreparedOn
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	if err := pdf.Error(); err != nil {
		return nil, &RenderError{Message: "failed to initialise PDF writer", Cause: err}
	}
	pdf.SetCompression(e.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(preparedOn)
	pdf.SetModificationDate(preparedOn)
	pdf.SetTitle("Report Card - "+rc.StudentName, true)
	pdf.SetCreator("report_agent", false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	p := &page{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		assets: e.assets,
	}

	background := rc.Background
	if !background.Present() {
		background = e.defaultBackground
	}
	p.image("background", background, maxBackgroundPx, 0, 0, PageWidth, PageHeight)

	drawHeader(p, rc)

	summary := grading.SummarizeReport(rc)

	skills := skillRows(rc.Skills)
	totalRows := len(summary.Subjects) + 2 + len(skills) + 1
	tableTop := headerBaseline + 10 + sectionTitleGap
	h := tableRowHeight(totalRows, tableTop)

	y := drawAcademicSection(p, summary, headerBaseline+10, h)
	drawSkillsSection(p, skills, y+tableGapAfterA, h)
	drawComments(p, rc.Comment)
	drawStatus(p, summary.Status, preparedOn, rc.PreparedBy)
	drawSignatures(p, e.layout, rc)

	if err := pdf.Error(); err != nil {
		return nil, &RenderError{Message: "failed to lay out report for " + rc.Identifier(), Cause: err}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Message: "failed to write PDF for " + rc.Identifier(), Cause: err}
	}

	return &types.RenderedDocument{
		Filename: rc.BaseFilename() + ".pdf",
		PDF:      buf.Bytes(),
		Warnings: p.warnings,
	}, nil
}

func drawHeader(p *page, rc *types.ReportContext) {
	p.font("B", 14)
	p.text(marginLeft, headerBaseline, strings.ToUpper(rc.StudentName))

	prefix, number, suffix := gradeLabelParts(rc.GradeLabel)
	p.font("", 14)
	prefixW := p.width(prefix)
	suffixW := p.width(suffix)
	p.font("B", 14)
	numberW := p.width(number)

	x := PageWidth - marginRight - (prefixW + numberW + suffixW)
	p.font("", 14)
	p.text(x, headerBaseline, prefix)
	p.font("B", 14)
	p.text(x+prefixW, headerBaseline, number)
	p.font("", 14)
	p.text(x+prefixW+numberW, headerBaseline, suffix)
}

func drawAcademicSection(p *page, summary grading.Summary, titleY, h float64) float64 {
	p.font("B", 12)
	p.text(marginLeft, titleY, "Section A — Academic Performance")

	rows := make([]tableRow, 0, len(summary.Subjects)+2)
	rows = append(rows, tableRow{cells: upperAll(academicHeader), fill: &headerFill, bold: true})

	for _, s := range summary.Subjects {
		if !s.Graded {
			rows = append(rows, tableRow{cells: []string{
				s.Subject, placeholder, placeholder, placeholder, placeholder, placeholder, placeholder, s.Remarks,
			}})
			continue
		}
		rows = append(rows, tableRow{cells: []string{
			s.Subject,
			formatMarks(s.TE),
			formatMarks(s.CE),
			formatMarks(s.Scored),
			formatMarks(s.Full),
			formatPercent(s.Percentage),
			s.Grade,
			s.Remarks,
		}})
	}

	rows = append(rows, tableRow{
		cells: []string{"TOTAL", "", "", formatMarks(summary.TotalScored), formatMarks(summary.TotalFull), formatPercent(summary.OverallPercentage), "", ""},
		fill:  &totalFill,
		bold:  true,
	})

	// Header and the numeric columns are centred; subject and remarks stay left.
	return p.table(marginLeft, titleY+sectionTitleGap, academicColumnWidths(), rows, h, func(row, col int) string {
		if row == 0 || (col >= 1 && col <= 6) {
			return "C"
		}
		return "L"
	})
}

func skillRows(skills []types.SkillRecord) []tableRow {
	rows := make([]tableRow, 0, len(skills))
	for _, sk := range skills {
		score := ""
		if sk.Score != nil {
			score = formatMarks(float64(*sk.Score))
		}
		remark := sk.Remark
		if remark == "" {
			remark = grading.SkillRemarkFor(sk.Score)
		}
		rows = append(rows, tableRow{cells: []string{sk.SkillName, score, remark}})
	}
	return rows
}

func drawSkillsSection(p *page, skills []tableRow, titleY, h float64) float64 {
	p.font("B", 12)
	p.text(marginLeft, titleY, "Section B — Holistic Development")

	rows := make([]tableRow, 0, len(skills)+1)
	rows = append(rows, tableRow{cells: upperAll(skillsHeader), fill: &headerFill, bold: true})
	rows = append(rows, skills...)

	widths := skillColumnWidths(academicColumnWidths())
	return p.table(marginLeft, titleY+sectionTitleGap, widths, rows, h, func(row, col int) string {
		if row > 0 && col == 1 {
			return "C"
		}
		return "L"
	})
}

func drawComments(p *page, comment string) {
	p.font("B", 11)
	p.text(marginLeft, commentsBaseline, "Class Teacher Comments:")

	p.font("", 10)
	wrapWidth := contentWidth * 0.6
	lines := commentLines(comment, MaxCommentLines, func(s string) []string {
		return p.wrap(s, wrapWidth)
	})
	for i, line := range lines {
		p.text(marginLeft, commentsBaseline+float64(i+1)*commentLineStep, line)
	}
}

func drawStatus(p *page, status string, preparedOn time.Time, preparedBy string) {
	right := PageWidth - marginRight

	p.font("B", 11)
	p.textRight(right, commentsBaseline, "Status: "+status)

	p.font("", 10)
	p.textRight(right, commentsBaseline+statusLineStep, "Prepared on: "+preparedOn.Format(PreparedOnFormat))
	if strings.TrimSpace(preparedBy) != "" {
		p.textRight(right, commentsBaseline+2*statusLineStep, "Prepared by: "+preparedBy)
	}
}

func drawSignatures(p *page, layout Layout, rc *types.ReportContext) {
	signatures := []struct {
		label string
		slot  SignatureSlot
		asset types.Asset
	}{
		{"Principal", layout.Principal, rc.PrincipalSignature},
		{"Class Teacher", layout.ClassTeacher, rc.ClassTeacherSignature},
		{"Parent", layout.Parent, rc.ParentSignature},
	}

	groupWidth := 2*sigSpacing + sigWidth
	startX := PageWidth/2 - groupWidth/2
	baseline := PageHeight - sigBottomOffset

	for i, sig := range signatures {
		img := sig.slot.Image.add(layout.ImageShift)
		x := startX + float64(i)*sigSpacing + img.X
		bottom := baseline + img.Y

		element := "signature-" + strings.ToLower(strings.ReplaceAll(sig.label, " ", "-"))
		p.image(element, sig.asset, maxSignaturePx, x, bottom-sigHeight, sigWidth, sigHeight)

		label := sig.slot.Label.add(layout.LabelShift)
		p.font("B", 9)
		p.text(x+label.X, bottom+label.Y, sig.label)
	}
}

func upperAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}

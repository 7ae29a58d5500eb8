// Package types provides type definitions for structured data used throughout the report card system.
package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FixedSkills is the catalog of holistic-development skills assessed on every report card.
var FixedSkills = []string{
	"Remembering",
	"Understanding",
	"Applying",
	"Regularity & Punctuality",
	"Neatness & Orderliness",
}

// MarkRecord is one subject's raw marks for a student.
// A record with both TEScore and CEScore nil has not been assessed yet.
type MarkRecord struct {
	SubjectName string   `json:"subject_name" validate:"required"`
	TEScore     *float64 `json:"te_score"`
	CEScore     *float64 `json:"ce_score"`
	TEMax       float64  `json:"te_max" validate:"gte=0"`
	CEMax       float64  `json:"ce_max" validate:"gte=0"`
	Remarks     string   `json:"remarks,omitempty"`
	GradeScope  *int64   `json:"grade_scope,omitempty"`
}

// IsGraded reports whether at least one score component has been entered.
func (m MarkRecord) IsGraded() bool {
	return m.TEScore != nil || m.CEScore != nil
}

// SkillRecord is a student's score for one skill. Score is expected in [1,4].
type SkillRecord struct {
	SkillName string `json:"skill_name" validate:"required"`
	Score     *int   `json:"score"`
	Remark    string `json:"remark,omitempty"`
}

// GradeBand maps an inclusive percentage range to a letter grade.
// A nil Scope makes the band global.
type GradeBand struct {
	MinPct float64 `json:"min_pct" validate:"gte=0"`
	MaxPct float64 `json:"max_pct" validate:"gtefield=MinPct"`
	Label  string  `json:"label" validate:"required"`
	Scope  *int64  `json:"scope,omitempty"`
}

// IsGlobal reports whether the band applies to every grade.
func (b GradeBand) IsGlobal() bool {
	return b.Scope == nil
}

// Asset is an image reference handed over by the asset store: either a path or the raw bytes.
type Asset struct {
	Path string `json:"path,omitempty"`
	Data []byte `json:"data,omitempty"`
}

// Present reports whether the asset refers to anything at all.
func (a Asset) Present() bool {
	return len(a.Data) > 0 || strings.TrimSpace(a.Path) != ""
}

// ReportContext holds everything needed to lay out one student's report card.
// It is built once at the data-store boundary and not modified while rendering.
type ReportContext struct {
	StudentID   int64  `json:"student_id,omitempty"`
	StudentName string `json:"student_name" validate:"required"`
	AdmissionNo string `json:"admission_no,omitempty"`
	GradeLabel  string `json:"grade_label"`
	GradeScope  *int64 `json:"grade_scope,omitempty"`

	Marks      []MarkRecord  `json:"marks" validate:"dive"`
	Skills     []SkillRecord `json:"skills" validate:"dive"`
	GradeBands []GradeBand   `json:"grade_bands" validate:"dive"`

	Comment    string     `json:"comment,omitempty"`
	PreparedBy string     `json:"prepared_by,omitempty"`
	PreparedOn *time.Time `json:"prepared_on,omitempty"`

	Background            Asset `json:"background,omitempty"`
	PrincipalSignature    Asset `json:"principal_signature,omitempty"`
	ClassTeacherSignature Asset `json:"class_teacher_signature,omitempty"`
	ParentSignature       Asset `json:"parent_signature,omitempty"`
}

// Validate validates the ReportContext using the validator.
func (rc *ReportContext) Validate() error {
	validate := validator.New()
	return validate.Struct(rc)
}

// Identifier returns a human-readable identifier for logs and batch outcomes.
func (rc *ReportContext) Identifier() string {
	if rc.AdmissionNo != "" {
		return rc.StudentName + " (" + rc.AdmissionNo + ")"
	}
	return rc.StudentName
}

// BaseFilename is "{StudentName}_{AdmissionNo}" with spaces replaced by underscores.
func (rc *ReportContext) BaseFilename() string {
	name := strings.TrimSpace(rc.StudentName)
	if adm := strings.TrimSpace(rc.AdmissionNo); adm != "" {
		name = name + "_" + adm
	}
	return strings.ReplaceAll(name, " ", "_")
}

// RenderedDocument is the finished PDF for one student.
type RenderedDocument struct {
	Filename string
	PDF      []byte
	// Warnings lists visual elements that were omitted (missing or unreadable assets).
	Warnings []string
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestMarkRecord_IsGraded(t *testing.T) {
	assert.False(t, MarkRecord{SubjectName: "ART"}.IsGraded())
	assert.True(t, MarkRecord{SubjectName: "MATHS", TEScore: floatPtr(0)}.IsGraded())
	assert.True(t, MarkRecord{SubjectName: "MATHS", CEScore: floatPtr(12)}.IsGraded())
}

func TestAsset_Present(t *testing.T) {
	assert.False(t, Asset{}.Present())
	assert.False(t, Asset{Path: "   "}.Present())
	assert.True(t, Asset{Path: "sign.png"}.Present())
	assert.True(t, Asset{Data: []byte{0x89}}.Present())
}

func TestReportContext_BaseFilename(t *testing.T) {
	rc := &ReportContext{StudentName: "Aliya Khan", AdmissionNo: "B5A1"}
	assert.Equal(t, "Aliya_Khan_B5A1", rc.BaseFilename())

	rc = &ReportContext{StudentName: " Omar  Ali "}
	assert.Equal(t, "Omar__Ali", rc.BaseFilename())
}

func TestReportContext_Identifier(t *testing.T) {
	assert.Equal(t, "Aliya Khan (B5A1)", (&ReportContext{StudentName: "Aliya Khan", AdmissionNo: "B5A1"}).Identifier())
	assert.Equal(t, "Aliya Khan", (&ReportContext{StudentName: "Aliya Khan"}).Identifier())
}

func TestReportContext_Validate(t *testing.T) {
	valid := &ReportContext{
		StudentName: "Aliya Khan",
		Marks: []MarkRecord{
			{SubjectName: "MATHS", TEScore: floatPtr(45), CEScore: floatPtr(20), TEMax: 70, CEMax: 30},
		},
		GradeBands: []GradeBand{{MinPct: 50, MaxPct: 100, Label: "A"}},
	}
	require.NoError(t, valid.Validate())

	t.Run("missing name", func(t *testing.T) {
		rc := *valid
		rc.StudentName = ""
		assert.Error(t, rc.Validate())
	})

	t.Run("negative max marks", func(t *testing.T) {
		rc := *valid
		rc.Marks = []MarkRecord{{SubjectName: "MATHS", TEMax: -1}}
		assert.Error(t, rc.Validate())
	})

	t.Run("inverted band", func(t *testing.T) {
		rc := *valid
		rc.GradeBands = []GradeBand{{MinPct: 60, MaxPct: 50, Label: "B"}}
		assert.Error(t, rc.Validate())
	})

	t.Run("skill without name", func(t *testing.T) {
		rc := *valid
		rc.Skills = []SkillRecord{{SkillName: ""}}
		assert.Error(t, rc.Validate())
	})
}

func TestFixedSkills(t *testing.T) {
	assert.Len(t, FixedSkills, 5)
	assert.Contains(t, FixedSkills, "Regularity & Punctuality")
}

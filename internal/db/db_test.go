package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/report-cards/internal/types"
)

func strPtr(s string) *string { return &s }

func TestSchemaEmbedded(t *testing.T) {
	tables := []string{
		"grades", "subjects", "grade_scales", "students", "marks", "student_skills",
		"student_remarks", "subject_grade_config", "report_backgrounds", "grade_backgrounds", "documents",
	}
	for _, table := range tables {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" ", "schema should create %s", table)
	}
}

func TestBuildReportContext(t *testing.T) {
	te := 45.0
	shared := gradeAssets{
		grade:      Grade{ID: 3, Name: "5A", ClassTeacherSignPath: strPtr("signs/ct_5a.png")},
		bands:      []types.GradeBand{{MinPct: 0, MaxPct: 100, Label: "A"}},
		background: "backgrounds/frame.png",
		principal:  " principal_sign.png ",
		preparedBy: "Mrs. Fatima",
	}
	student := Student{ID: 11, AdmissionNo: "B5A1", Name: "Aliya Khan", ParentSignaturePath: nil}
	marks := []types.MarkRecord{{SubjectName: "MATHS", TEScore: &te, TEMax: 70, CEMax: 30}}

	rc := buildReportContext(shared, student, marks, nil, "Good progress.")

	assert.Equal(t, int64(11), rc.StudentID)
	assert.Equal(t, "Aliya Khan", rc.StudentName)
	assert.Equal(t, "B5A1", rc.AdmissionNo)
	assert.Equal(t, "5A", rc.GradeLabel)
	require.NotNil(t, rc.GradeScope)
	assert.Equal(t, int64(3), *rc.GradeScope)
	assert.Equal(t, "Good progress.", rc.Comment)
	assert.Equal(t, "Mrs. Fatima", rc.PreparedBy)
	assert.Nil(t, rc.PreparedOn)

	assert.Equal(t, "backgrounds/frame.png", rc.Background.Path)
	assert.Equal(t, "principal_sign.png", rc.PrincipalSignature.Path)
	assert.Equal(t, "signs/ct_5a.png", rc.ClassTeacherSignature.Path)
	assert.False(t, rc.ParentSignature.Present())

	require.NoError(t, rc.Validate())

	// Bands are copied so contexts do not share a backing array.
	rc.GradeBands[0].Label = "changed"
	assert.Equal(t, "A", shared.bands[0].Label)
}

func TestSortSkills(t *testing.T) {
	skills := []types.SkillRecord{
		{SkillName: "Teamwork"},
		{SkillName: "Neatness & Orderliness"},
		{SkillName: "Applying"},
		{SkillName: "Art Appreciation"},
		{SkillName: "Remembering"},
	}
	sortSkills(skills)

	var names []string
	for _, s := range skills {
		names = append(names, s.SkillName)
	}
	assert.Equal(t, []string{"Remembering", "Applying", "Neatness & Orderliness", "Art Appreciation", "Teamwork"}, names)
}

func TestMissingStudents(t *testing.T) {
	found := []Student{{ID: 1}, {ID: 3}}
	assert.Empty(t, missingStudents(nil, found))
	assert.Empty(t, missingStudents([]int64{3, 1}, found))
	assert.Equal(t, []int64{2, 5}, missingStudents([]int64{1, 2, 5, 2}, found))
	assert.Equal(t, "2, 5", joinIDs([]int64{2, 5}))
}

func TestDeref(t *testing.T) {
	assert.Equal(t, "", deref(nil))
	assert.Equal(t, "x", deref(strPtr("x")))
	assert.Equal(t, types.Asset{}, pathAsset("  "))
}

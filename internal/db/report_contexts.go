package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/report-cards/internal/types"
)

// ListGrades returns every grade ordered by name
func (db *DB) ListGrades(ctx context.Context) ([]Grade, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, class_teacher_sign_path FROM grades ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	defer rows.Close()

	var grades []Grade
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.ID, &g.Name, &g.ClassTeacherSignPath); err != nil {
			return nil, fmt.Errorf("failed to scan grade: %w", err)
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// GetGrade retrieves a grade by ID. Returns nil if not found.
func (db *DB) GetGrade(ctx context.Context, gradeID int64) (*Grade, error) {
	var g Grade
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, class_teacher_sign_path FROM grades WHERE id = $1`,
		gradeID,
	).Scan(&g.ID, &g.Name, &g.ClassTeacherSignPath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get grade %d: %w", gradeID, err)
	}
	return &g, nil
}

// ListStudents returns the students of a grade ordered by name.
// When ids is non-empty only those students are returned.
func (db *DB) ListStudents(ctx context.Context, gradeID int64, ids []int64) ([]Student, error) {
	var filter []int64
	if len(ids) > 0 {
		filter = ids
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, COALESCE(admission_no, ''), name, grade_id, parent_signature_path
		 FROM students
		 WHERE grade_id = $1 AND ($2::bigint[] IS NULL OR id = ANY($2))
		 ORDER BY name, id`,
		gradeID, filter,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list students for grade %d: %w", gradeID, err)
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.AdmissionNo, &s.Name, &s.GradeID, &s.ParentSignaturePath); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// GradeBands returns the bands specific to a grade together with the global ones.
// Scope is set on grade-specific bands and nil on global bands.
func (db *DB) GradeBands(ctx context.Context, gradeID int64) ([]types.GradeBand, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT min_pct, max_pct, grade_label, grade_id
		 FROM grade_scales
		 WHERE grade_id = $1 OR grade_id IS NULL
		 ORDER BY min_pct DESC, id`,
		gradeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load grade bands: %w", err)
	}
	defer rows.Close()

	var bands []types.GradeBand
	for rows.Next() {
		var b types.GradeBand
		if err := rows.Scan(&b.MinPct, &b.MaxPct, &b.Label, &b.Scope); err != nil {
			return nil, fmt.Errorf("failed to scan grade band: %w", err)
		}
		bands = append(bands, b)
	}
	return bands, rows.Err()
}

// StudentMarks returns one record per subject configured for the grade, plus any
// other subject the student has marks in. Limits come from the grade configuration,
// then the subject defaults, then 100/0. Subjects without marks have nil scores.
func (db *DB) StudentMarks(ctx context.Context, studentID, gradeID int64) ([]types.MarkRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT sub.name,
		        m.te_score, m.ce_score, COALESCE(m.remarks, ''),
		        COALESCE(sc.te_max_marks, sub.te_max_marks, 100),
		        COALESCE(sc.ce_max_marks, sub.ce_max_marks, 0)
		 FROM subjects sub
		 LEFT JOIN subject_grade_config sc ON sc.subject_id = sub.id AND sc.grade_id = $2
		 LEFT JOIN marks m ON m.subject_id = sub.id AND m.student_id = $1
		 WHERE sc.id IS NOT NULL OR m.id IS NOT NULL
		 ORDER BY sub.name`,
		studentID, gradeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load marks for student %d: %w", studentID, err)
	}
	defer rows.Close()

	var marks []types.MarkRecord
	for rows.Next() {
		var m types.MarkRecord
		if err := rows.Scan(&m.SubjectName, &m.TEScore, &m.CEScore, &m.Remarks, &m.TEMax, &m.CEMax); err != nil {
			return nil, fmt.Errorf("failed to scan mark: %w", err)
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}

// StudentSkills returns the skills recorded for a student in catalog order.
func (db *DB) StudentSkills(ctx context.Context, studentID int64) ([]types.SkillRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_name, score FROM student_skills WHERE student_id = $1 ORDER BY skill_name`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills for student %d: %w", studentID, err)
	}
	defer rows.Close()

	var skills []types.SkillRecord
	for rows.Next() {
		var s types.SkillRecord
		if err := rows.Scan(&s.SkillName, &s.Score); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortSkills(skills)
	return skills, nil
}

// StudentRemark returns the class teacher's comment, or "" if none was written.
func (db *DB) StudentRemark(ctx context.Context, studentID int64) (string, error) {
	var remark *string
	err := db.pool.QueryRow(ctx,
		`SELECT remark FROM student_remarks WHERE student_id = $1`,
		studentID,
	).Scan(&remark)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load remark for student %d: %w", studentID, err)
	}
	return deref(remark), nil
}

// DocumentPath returns the file stored under key, or "" if none.
func (db *DB) DocumentPath(ctx context.Context, key string) (string, error) {
	var path *string
	err := db.pool.QueryRow(ctx,
		`SELECT file_path FROM documents WHERE key = $1`,
		key,
	).Scan(&path)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load document %s: %w", key, err)
	}
	return deref(path), nil
}

// GradeBackground returns the background image assigned to a grade, or "".
func (db *DB) GradeBackground(ctx context.Context, gradeID int64) (string, error) {
	var filename string
	err := db.pool.QueryRow(ctx,
		`SELECT rb.filename
		 FROM grade_backgrounds gb
		 JOIN report_backgrounds rb ON gb.background_id = rb.id
		 WHERE gb.grade_id = $1`,
		gradeID,
	).Scan(&filename)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load background for grade %d: %w", gradeID, err)
	}
	return filename, nil
}

// gradeAssets are the pieces shared by every student of a grade.
type gradeAssets struct {
	grade      Grade
	bands      []types.GradeBand
	background string
	principal  string
	preparedBy string
}

// LoadReportContexts builds a complete report context for each selected student
// of a grade, ordered by student name. Passing no ids selects the whole grade.
// Every id must belong to the grade.
func (db *DB) LoadReportContexts(ctx context.Context, gradeID int64, studentIDs []int64, preparedBy string) ([]*types.ReportContext, error) {
	grade, err := db.GetGrade(ctx, gradeID)
	if err != nil {
		return nil, err
	}
	if grade == nil {
		return nil, fmt.Errorf("%w: %d", ErrGradeNotFound, gradeID)
	}

	shared := gradeAssets{grade: *grade, preparedBy: preparedBy}
	if shared.bands, err = db.GradeBands(ctx, gradeID); err != nil {
		return nil, err
	}
	if shared.background, err = db.GradeBackground(ctx, gradeID); err != nil {
		return nil, err
	}
	if shared.background == "" {
		if shared.background, err = db.DocumentPath(ctx, DocDefaultBackground); err != nil {
			return nil, err
		}
	}
	if shared.principal, err = db.DocumentPath(ctx, DocPrincipalSignature); err != nil {
		return nil, err
	}

	students, err := db.ListStudents(ctx, gradeID, studentIDs)
	if err != nil {
		return nil, err
	}
	if missing := missingStudents(studentIDs, students); len(missing) > 0 {
		return nil, fmt.Errorf("students not in grade %s: %s", grade.Name, joinIDs(missing))
	}

	contexts := make([]*types.ReportContext, 0, len(students))
	for _, s := range students {
		marks, err := db.StudentMarks(ctx, s.ID, gradeID)
		if err != nil {
			return nil, err
		}
		skills, err := db.StudentSkills(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		remark, err := db.StudentRemark(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, buildReportContext(shared, s, marks, skills, remark))
	}
	return contexts, nil
}

func buildReportContext(shared gradeAssets, s Student, marks []types.MarkRecord, skills []types.SkillRecord, remark string) *types.ReportContext {
	scope := shared.grade.ID
	bands := make([]types.GradeBand, len(shared.bands))
	copy(bands, shared.bands)

	return &types.ReportContext{
		StudentID:             s.ID,
		StudentName:           s.Name,
		AdmissionNo:           s.AdmissionNo,
		GradeLabel:            shared.grade.Name,
		GradeScope:            &scope,
		Marks:                 marks,
		Skills:                skills,
		GradeBands:            bands,
		Comment:               remark,
		PreparedBy:            shared.preparedBy,
		Background:            pathAsset(shared.background),
		PrincipalSignature:    pathAsset(shared.principal),
		ClassTeacherSignature: pathAsset(deref(shared.grade.ClassTeacherSignPath)),
		ParentSignature:       pathAsset(deref(s.ParentSignaturePath)),
	}
}

// sortSkills puts catalog skills first in catalog order, then any others by name.
func sortSkills(skills []types.SkillRecord) {
	rank := make(map[string]int, len(types.FixedSkills))
	for i, name := range types.FixedSkills {
		rank[name] = i
	}
	position := func(name string) int {
		if r, ok := rank[name]; ok {
			return r
		}
		return len(rank)
	}
	sort.SliceStable(skills, func(i, j int) bool {
		pi, pj := position(skills[i].SkillName), position(skills[j].SkillName)
		if pi != pj {
			return pi < pj
		}
		return skills[i].SkillName < skills[j].SkillName
	})
}

func missingStudents(ids []int64, found []Student) []int64 {
	seen := make(map[int64]bool, len(found))
	for _, s := range found {
		seen[s.ID] = true
	}
	var missing []int64
	for _, id := range ids {
		if !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	return missing
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

func pathAsset(path string) types.Asset {
	return types.Asset{Path: strings.TrimSpace(path)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

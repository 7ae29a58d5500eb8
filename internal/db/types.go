package db

import "errors"

// Document keys for files that are shared by every report.
const (
	DocPrincipalSignature = "principal_signature"
	DocDefaultBackground  = "default_background"
)

// ErrGradeNotFound is returned when a grade id does not exist.
var ErrGradeNotFound = errors.New("grade not found")

// Grade represents a class such as "5A" or "10State"
type Grade struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	ClassTeacherSignPath *string `json:"class_teacher_sign_path,omitempty"`
}

// Student represents an enrolled student
type Student struct {
	ID                  int64   `json:"id"`
	AdmissionNo         string  `json:"admission_no"`
	Name                string  `json:"name"`
	GradeID             *int64  `json:"grade_id,omitempty"`
	ParentSignaturePath *string `json:"parent_signature_path,omitempty"`
}

package batch

import (
	"github.com/google/uuid"
)

// Artifact is one file produced for a student.
type Artifact struct {
	Name string
	MIME string
	Data []byte
}

// StudentOutcome describes what happened to one student in a batch.
type StudentOutcome struct {
	StudentID  int64
	Identifier string
	// Files are the archive entry names written for this student.
	Files []string
	// Err is set when the report could not be rendered at all.
	Err error
	// ImageErr is set when the page image could not be produced; the PDF may still exist.
	ImageErr error
	// Skipped is set when the batch was cancelled before this student started.
	Skipped bool
}

// OK reports whether at least one artifact was produced.
func (o StudentOutcome) OK() bool {
	return len(o.Files) > 0
}

// Warning is a non-fatal problem met while rendering a student's report.
type Warning struct {
	Student string
	Message string
}

func (w Warning) String() string {
	return w.Student + ": " + w.Message
}

// BatchResult is the outcome of a batch run. Entries follow the input order.
type BatchResult struct {
	RunID     uuid.UUID
	Entries   []StudentOutcome
	Archive   []byte
	Succeeded int
	Failed    int
	Warnings  []Warning
}

// Failures returns the entries that produced nothing.
func (r *BatchResult) Failures() []StudentOutcome {
	var out []StudentOutcome
	for _, e := range r.Entries {
		if !e.OK() {
			out = append(out, e)
		}
	}
	return out
}

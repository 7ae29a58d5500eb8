// Package batch renders report cards for many students and bundles them into one archive.
package batch

import "fmt"

// BatchEmptyError is returned when a batch has no students or no output formats.
type BatchEmptyError struct {
	Message string
}

func (e *BatchEmptyError) Error() string {
	return fmt.Sprintf("empty batch: %s", e.Message)
}

// StudentRenderError records why one student's report could not be produced.
type StudentRenderError struct {
	Student string
	Cause   error
}

func (e *StudentRenderError) Error() string {
	return fmt.Sprintf("failed to render report for %s: %v", e.Student, e.Cause)
}

func (e *StudentRenderError) Unwrap() error {
	return e.Cause
}

// ArchiveError represents a failure while writing the batch archive.
type ArchiveError struct {
	Message string
	Cause   error
}

func (e *ArchiveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("archive error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("archive error: %s", e.Message)
}

func (e *ArchiveError) Unwrap() error {
	return e.Cause
}

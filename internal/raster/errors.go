// Package raster converts rendered report PDFs into page images.
package raster

import "fmt"

// ConversionError represents a failed PDF to image conversion.
type ConversionError struct {
	Message   string
	LogOutput string
	Cause     error
}

func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("image conversion error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("image conversion error: %s", e.Message)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

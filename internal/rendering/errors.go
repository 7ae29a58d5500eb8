// Package rendering lays out report cards as single-page PDF documents.
package rendering

import "fmt"

// RenderError represents a failure that prevents a report card from being produced at all
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// MissingAssetError describes an image that was absent or unreadable and was left off the page.
type MissingAssetError struct {
	Element string
	Path    string
	Cause   error
}

func (e *MissingAssetError) Error() string {
	target := e.Element
	if e.Path != "" {
		target = fmt.Sprintf("%s (%s)", e.Element, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("missing asset %s: %v", target, e.Cause)
	}
	return fmt.Sprintf("missing asset %s", target)
}

func (e *MissingAssetError) Unwrap() error {
	return e.Cause
}

// Package rendering turns profile, metrics and table data into Markdown CV sections.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing a section template
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error (%s): %s: %v", e.Template, e.Message, e.Cause)
	}
	return fmt.Sprintf("template error (%s): %s", e.Template, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a section whose input data cannot be rendered
type RenderError struct {
	Section string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error (%s): %s: %v", e.Section, e.Message, e.Cause)
	}
	return fmt.Sprintf("render error (%s): %s", e.Section, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

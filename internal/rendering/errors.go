package rendering

import "fmt"

// TemplateError reports a LaTeX template that could not be read, parsed or
// executed. Path is empty for the built-in template.
type TemplateError struct {
	Path    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", msg, e.Cause)
	}
	return "template error: " + msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports a template that executed but produced no usable
// document.
type RenderError struct {
	Message string
}

func (e *RenderError) Error() string {
	return "render error: " + e.Message
}

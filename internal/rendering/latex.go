// Package rendering provides functionality to render ATS-friendly LaTeX resumes from plain text.
package rendering

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
)

// SummaryLineCount is the number of leading lines copied into the summary section.
const SummaryLineCount = 3

// Placeholder identity fields. The adapted text carries no structured
// contact data, so the user fills these in after download.
const (
	placeholderName     = "Your Name"
	placeholderEmail    = "your.email@example.com"
	placeholderPhone    = "(555) 555-5555"
	placeholderLocation = "City, State"
)

//go:embed templates/ats_resume.tex
var defaultTemplateSource string

var defaultRenderer = mustDefaultRenderer()

// TemplateData represents the data structure passed to the LaTeX template
type TemplateData struct {
	Name     string
	Email    string
	Phone    string
	Location string
	Summary  string // First SummaryLineCount lines, escaped
	Body     string // Entire text, escaped
}

// Renderer renders plain text into a LaTeX document using a template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a Renderer from a LaTeX template file.
// An empty path selects the built-in ATS template.
func NewRenderer(templatePath string) (*Renderer, error) {
	if templatePath == "" {
		return defaultRenderer, nil
	}

	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderDocument renders plainText with the built-in template.
// It never fails and always returns the full document skeleton,
// including for empty input.
func RenderDocument(plainText string) string {
	return defaultRenderer.RenderDocument(plainText)
}

// RenderDocument renders plainText into a complete document. If the
// template fails to execute, the built-in skeleton is used instead.
func (r *Renderer) RenderDocument(plainText string) string {
	doc, err := r.Render(plainText)
	if err != nil {
		if r == defaultRenderer {
			return minimalDocument(buildTemplateData(plainText))
		}
		return defaultRenderer.RenderDocument(plainText)
	}
	return doc
}

// Render executes the template for plainText and reports template failures.
func (r *Renderer) Render(plainText string) (string, error) {
	data := buildTemplateData(plainText)

	var result strings.Builder
	if err := r.tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}

	doc := result.String()
	if strings.TrimSpace(doc) == "" {
		return "", &RenderError{Message: "template produced an empty document"}
	}
	return doc, nil
}

// parseTemplate reads and parses a LaTeX template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{Path: templatePath, Message: "template file not found", Cause: err}
		}
		return nil, &TemplateError{Path: templatePath, Message: "failed to read template file", Cause: err}
	}

	return newTemplate(templatePath, string(content))
}

// newTemplate parses template source with the escape helper available.
// path only labels errors and is empty for the built-in template.
func newTemplate(path, source string) (*template.Template, error) {
	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
	}).Parse(source)
	if err != nil {
		return nil, &TemplateError{Path: path, Message: "failed to parse template", Cause: err}
	}
	return tmpl, nil
}

func mustDefaultRenderer() *Renderer {
	tmpl, err := newTemplate("", defaultTemplateSource)
	if err != nil {
		panic(fmt.Sprintf("built-in resume template is invalid: %v", err))
	}
	return &Renderer{tmpl: tmpl}
}

// buildTemplateData escapes the text and splits it into template sections
func buildTemplateData(plainText string) *TemplateData {
	normalized := strings.ReplaceAll(plainText, "\r\n", "\n")
	escaped := EscapeLaTeX(normalized)
	lines := strings.Split(escaped, "\n")

	summaryLines := lines
	if len(summaryLines) > SummaryLineCount {
		summaryLines = summaryLines[:SummaryLineCount]
	}

	return &TemplateData{
		Name:     placeholderName,
		Email:    placeholderEmail,
		Phone:    placeholderPhone,
		Location: placeholderLocation,
		Summary:  formatLines(summaryLines),
		Body:     formatLines(lines),
	}
}

// lineBreak ends a line inside a paragraph. \newline is used instead of \\
// because \\ reads a following * or [length] as its own argument, which
// eats "* " bullets and fails on lines such as "[2020] ...".
const lineBreak = " \\newline\n"

// formatLines joins escaped lines into LaTeX paragraphs. Lines within a
// paragraph are separated by forced line breaks; blank lines start a new
// paragraph, since a line break on an empty line does not compile.
func formatLines(lines []string) string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, lineBreak))
			current = nil
		}
	}

	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}

// minimalDocument assembles the skeleton without text/template.
func minimalDocument(data *TemplateData) string {
	var sb strings.Builder
	sb.WriteString("\\documentclass[11pt,letterpaper]{article}\n")
	sb.WriteString("\\begin{document}\n\n")
	sb.WriteString(fmt.Sprintf("\\begin{center}\n{\\LARGE\\bfseries %s}\\\\\n%s \\textbar{} %s \\textbar{} %s\n\\end{center}\n\n",
		data.Name, data.Email, data.Phone, data.Location))
	sb.WriteString("\\section*{Summary}\n" + data.Summary + "\n\n")
	sb.WriteString("\\section*{Experience}\n" + data.Body + "\n\n")
	sb.WriteString("\\section*{Education}\n% Add education entries here.\n\n")
	sb.WriteString("\\section*{Skills}\n% Add skills here.\n\n")
	sb.WriteString("\\end{document}\n")
	return sb.String()
}

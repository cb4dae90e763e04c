// Package observability provides structured logging setup and formatted
// output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// scoreBarWidth is the number of cells in the score bar
	scoreBarWidth = 20
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content.
// Long lines are wrapped at word boundaries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrapLine(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAssessment outputs a human-readable summary of an ATS assessment.
func (p *Printer) PrintAssessment(assessment *types.ATSAssessment) {
	if assessment == nil {
		return
	}

	var sb strings.Builder
	status := "✗ Not ATS compliant"
	if assessment.IsCompliant {
		status = "✓ ATS compliant"
	}
	sb.WriteString(fmt.Sprintf("Status:  %s\n", status))
	sb.WriteString(fmt.Sprintf("Score:   %3d/100 %s\n", assessment.Score, scoreBar(assessment.Score)))
	sb.WriteString("\n")

	writeList(&sb, "Issues", "⚠", assessment.Issues, len(assessment.Issues))
	writeList(&sb, "Suggestions", "•", assessment.Suggestions, len(assessment.Suggestions))

	p.printBox("ATS FORMAT ASSESSMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAdaptation outputs a summary of a job adaptation. The rendered
// document itself is not printed.
func (p *Printer) PrintAdaptation(result *types.AdaptationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	lines := 0
	if result.AdaptedText != "" {
		lines = strings.Count(result.AdaptedText, "\n") + 1
	}
	sb.WriteString(fmt.Sprintf("Adapted text:  %d lines\n", lines))
	sb.WriteString(fmt.Sprintf("Document:      %d bytes\n", len(result.RenderedDocument)))
	sb.WriteString("\n")

	if len(result.HighlightedSkills) > 0 {
		sb.WriteString("Highlighted Skills:\n")
		sb.WriteString(fmt.Sprintf("  %s\n\n", strings.Join(result.HighlightedSkills, ", ")))
	}

	writeList(&sb, "Changes", "•", result.ChangeLog, min(len(result.ChangeLog), maxItemsToShow))

	p.printBox("JOB ADAPTATION", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, heading, bullet string, items []string, limit int) {
	if len(items) == 0 {
		sb.WriteString(fmt.Sprintf("%s: none\n\n", heading))
		return
	}

	sb.WriteString(fmt.Sprintf("%s:\n", heading))
	for i := 0; i < limit; i++ {
		sb.WriteString(fmt.Sprintf("  %s %s\n", bullet, items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

func scoreBar(score int) string {
	filled := score * scoreBarWidth / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", scoreBarWidth-filled) + "]"
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wrapLine splits a line into chunks of at most width runes, breaking at
// spaces where possible. Continuation lines keep the original indentation.
func wrapLine(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	contIndent := indent + "  "
	avail := max(width-len(contIndent), 1)

	var out []string
	current := indent
	for _, word := range strings.Fields(line) {
		for utf8.RuneCountInString(word) > avail {
			// Word longer than a line: hard split.
			runes := []rune(word)
			if current != indent && current != contIndent {
				out = append(out, current)
			}
			out = append(out, contIndent+string(runes[:avail]))
			current = contIndent
			word = string(runes[avail:])
		}

		candidate := current + word
		if current != indent && current != contIndent {
			candidate = current + " " + word
		}
		if utf8.RuneCountInString(candidate) > width {
			out = append(out, current)
			candidate = contIndent + word
		}
		current = candidate
	}
	if strings.TrimSpace(current) != "" {
		out = append(out, current)
	}
	return out
}

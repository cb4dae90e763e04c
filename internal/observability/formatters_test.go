package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/ats-tailor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintAssessment(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssessment(&types.ATSAssessment{
		IsCompliant: true,
		Score:       87,
		Issues:      []string{},
		Suggestions: []string{"Use bullet points"},
	})
	output := buf.String()

	assert.Contains(t, output, "ATS FORMAT ASSESSMENT")
	assert.Contains(t, output, "✓ ATS compliant")
	assert.Contains(t, output, " 87/100")
	assert.Contains(t, output, "Issues: none")
	assert.Contains(t, output, "• Use bullet points")
}

func TestPrintAssessment_NotCompliant(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssessment(&types.ATSAssessment{
		Score:       0,
		Issues:      []string{"Failed to parse API response"},
		Suggestions: []string{"Please check the API response format"},
	})
	output := buf.String()

	assert.Contains(t, output, "✗ Not ATS compliant")
	assert.Contains(t, output, "⚠ Failed to parse API response")
}

func TestPrintAssessment_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssessment(nil)

	assert.Empty(t, buf.String())
}

func TestPrintAdaptation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	changes := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		changes = append(changes, "Reordered experience section")
	}

	p.PrintAdaptation(&types.AdaptationResult{
		AdaptedText:       "Line1\nLine2\nLine3",
		RenderedDocument:  `\documentclass{article}`,
		ChangeLog:         changes,
		HighlightedSkills: []string{"Go", "Kubernetes"},
	})
	output := buf.String()

	assert.Contains(t, output, "JOB ADAPTATION")
	assert.Contains(t, output, "3 lines")
	assert.Contains(t, output, "Go, Kubernetes")
	assert.Contains(t, output, "... and 2 more")
	assert.NotContains(t, output, `\documentclass`)
}

func TestPrintAdaptation_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAdaptation(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	long := strings.Repeat("Quantify achievements with concrete metrics ", 4)
	p.PrintAssessment(&types.ATSAssessment{Score: 50, Issues: []string{long}, Suggestions: []string{"é"}})

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}

func TestWrapLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		width    int
		expected []string
	}{
		{"fits", "short line", 20, []string{"short line"}},
		{"wraps at space", "alpha beta gamma delta", 11, []string{"alpha beta", "  gamma", "  delta"}},
		{"keeps indent", "  • alpha beta gamma", 12, []string{"  • alpha", "    beta", "    gamma"}},
		{"hard split", "abcdefghijkl", 6, []string{"  abcd", "  efgh", "  ijkl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, wrapLine(tt.line, tt.width))
		})
	}
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat("·", 20)+"]", scoreBar(0))
	assert.Equal(t, "["+strings.Repeat("█", 20)+"]", scoreBar(100))
	assert.Equal(t, "["+strings.Repeat("█", 10)+strings.Repeat("·", 10)+"]", scoreBar(50))
}

package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpaceRe  = regexp.MustCompile(`[ \t\f\v]+`)
	blankLinesRe  = regexp.MustCompile(`\n\n\n+`)
	bulletMarkers = []string{"- ", "* ", "• ", "· "}
)

// CleanText normalizes pasted résumé or job text while keeping its layout:
// line endings become LF, trailing whitespace is dropped, runs of spaces
// collapse, and at most one blank line separates paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimPrefix(content, "\uFEFF")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims a single line, keeping leading indentation and headings.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	// Markdown headings lose their indentation.
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := len(line) - len(trimmed)
	if !isBulletLine(trimmed) {
		trimmed = innerSpaceRe.ReplaceAllString(trimmed, " ")
	}
	if indent > 0 {
		return strings.Repeat(" ", indent) + trimmed
	}
	return trimmed
}

func isBulletLine(line string) bool {
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

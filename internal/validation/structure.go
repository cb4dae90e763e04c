package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/ats-tailor/internal/types"
)

// requiredMarkers must each appear, in order, for the document to compile.
var requiredMarkers = []string{`\documentclass`, `\begin{document}`, `\end{document}`}

// CheckStructure reports a missing document skeleton and unbalanced braces.
func CheckStructure(lines []string) []types.Violation {
	var violations []types.Violation

	pos := 0
	body := strings.Join(lines, "\n")
	for _, marker := range requiredMarkers {
		idx := strings.Index(body[pos:], marker)
		if idx < 0 {
			violations = append(violations, types.Violation{
				Type:     "incomplete_document",
				Severity: types.SeverityError,
				Details:  fmt.Sprintf("Document is missing %s", marker),
			})
			continue
		}
		pos += idx + len(marker)
	}

	depth := 0
	for i, line := range lines {
		content := stripComment(line)
		for j := 0; j < len(content); j++ {
			switch content[j] {
			case '\\':
				j++ // escaped brace or control symbol
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth < 0 {
				violations = append(violations, types.Violation{
					Type:       "unbalanced_braces",
					Severity:   types.SeverityError,
					Details:    fmt.Sprintf("Line %d closes a brace that was never opened", i+1),
					LineNumber: intPtr(i + 1),
				})
				depth = 0
			}
		}
	}
	if depth > 0 {
		violations = append(violations, types.Violation{
			Type:     "unbalanced_braces",
			Severity: types.SeverityError,
			Details:  fmt.Sprintf("Document ends with %d unclosed brace(s)", depth),
		})
	}

	return violations
}

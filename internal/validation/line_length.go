package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/ats-tailor/internal/types"
)

// latexCommandPattern matches commands like \textbf{content} or \begin{environment}
var latexCommandPattern = regexp.MustCompile(`\\([a-zA-Z]+|.)\{[^}]*\}`)

// CheckLineLengths reports lines whose content exceeds maxChars characters.
func CheckLineLengths(lines []string, maxChars int) []types.Violation {
	var violations []types.Violation

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "%") {
			continue
		}

		contentLength := countContentChars(stripComment(line))
		if contentLength > maxChars {
			violations = append(violations, types.Violation{
				Type:       "line_too_long",
				Severity:   types.SeverityWarning,
				Details:    fmt.Sprintf("Line %d has %d characters, maximum is %d", i+1, contentLength, maxChars),
				LineNumber: intPtr(i + 1),
				CharCount:  intPtr(contentLength),
			})
		}
	}

	return violations
}

// countContentChars approximates the visible characters of a LaTeX line by
// replacing commands with their braced argument.
func countContentChars(line string) int {
	processed := latexCommandPattern.ReplaceAllStringFunc(line, func(match string) string {
		start := strings.Index(match, "{")
		end := strings.LastIndex(match, "}")
		if start >= 0 && end > start {
			return match[start+1 : end]
		}
		return ""
	})

	processed = strings.ReplaceAll(processed, `\newline`, "")
	processed = strings.ReplaceAll(processed, `\\`, "")
	return len([]rune(strings.TrimSpace(processed)))
}

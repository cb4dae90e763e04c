package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/ats-tailor/internal/types"
)

// CheckForbiddenPhrases reports lines containing any of the given phrases.
// Matching is case-insensitive and ignores LaTeX escaping.
func CheckForbiddenPhrases(lines []string, phrases []string) []types.Violation {
	if len(phrases) == 0 {
		return nil
	}

	var violations []types.Violation
	for i, line := range lines {
		normalizedLine := normalizeForMatching(line)

		for _, phrase := range phrases {
			normalizedPhrase := strings.ToLower(strings.TrimSpace(phrase))
			if normalizedPhrase == "" {
				continue
			}

			if strings.Contains(normalizedLine, normalizedPhrase) {
				violations = append(violations, types.Violation{
					Type:       "forbidden_phrase",
					Severity:   types.SeverityError,
					Details:    fmt.Sprintf("Line %d contains forbidden phrase: %s", i+1, phrase),
					LineNumber: intPtr(i + 1),
				})
				break // one violation per line
			}
		}
	}

	return violations
}

// normalizeForMatching drops comments, unescapes LaTeX special characters
// and lowercases the line.
func normalizeForMatching(text string) string {
	text = stripComment(text)

	text = strings.ReplaceAll(text, `\textbackslash{}`, "\\")
	text = strings.ReplaceAll(text, `\textasciitilde{}`, "~")
	text = strings.ReplaceAll(text, `\textasciicircum{}`, "^")
	for _, ch := range []string{"$", "&", "%", "#", "_", "{", "}"} {
		text = strings.ReplaceAll(text, `\`+ch, ch)
	}

	return strings.ToLower(strings.TrimSpace(text))
}

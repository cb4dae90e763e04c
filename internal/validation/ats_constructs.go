package validation

import (
	"fmt"
	"regexp"

	"github.com/jonathan/ats-tailor/internal/types"
)

// atsConstruct is a LaTeX construct that applicant tracking systems tend to
// drop or scramble when extracting text.
type atsConstruct struct {
	pattern *regexp.Regexp
	name    string
}

var atsConstructs = []atsConstruct{
	{regexp.MustCompile(`\\begin\{(tabular\*?|tabularx|longtable|table)\}`), "a table"},
	{regexp.MustCompile(`\\begin\{(multicols|paracol)\}|\\columnbreak\b|\\twocolumn\b`), "multiple columns"},
	{regexp.MustCompile(`\\includegraphics\b`), "an image"},
	{regexp.MustCompile(`\\begin\{(tikzpicture|picture)\}`), "a drawing"},
	{regexp.MustCompile(`\\begin\{minipage\}`), "a minipage"},
	{regexp.MustCompile(`\\fa[A-Z][A-Za-z]*\b|\\faIcon\b`), "an icon"},
	{regexp.MustCompile(`\\(header|footer|fancyhead|fancyfoot)\b`), "header or footer text"},
}

// CheckATSConstructs reports lines using layout features that ATS parsers
// often skip. Only the first construct on a line is reported.
func CheckATSConstructs(lines []string) []types.Violation {
	var violations []types.Violation

	for i, line := range lines {
		content := stripComment(line)
		for _, c := range atsConstructs {
			if c.pattern.MatchString(content) {
				violations = append(violations, types.Violation{
					Type:       "ats_unfriendly",
					Severity:   types.SeverityWarning,
					Details:    fmt.Sprintf("Line %d uses %s, which ATS parsers often skip", i+1, c.name),
					LineNumber: intPtr(i + 1),
				})
				break
			}
		}
	}

	return violations
}
